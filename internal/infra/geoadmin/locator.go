package geoadmin

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// GeometryFormat is the output format requested from the geodata API
type GeometryFormat string

const (
	GeometryFormatGeoJSON  GeometryFormat = "geojson"
	GeometryFormatEsriJSON GeometryFormat = "esrijson"
)

// SpatialReference is an EPSG code accepted by the geodata API
type SpatialReference int

// LV03 = 21781, LV95 = 2056, WGS84 = 4326, WebMercator = 3857
const (
	SpatialReferenceLV03        SpatialReference = 21781
	SpatialReferenceLV95        SpatialReference = 2056
	SpatialReferenceWGS84       SpatialReference = 4326
	SpatialReferenceWebMercator SpatialReference = 3857
)

// Locator builds geometry lookup requests for sub-region ids
type Locator struct {
	baseURL          string
	geometryFormat   GeometryFormat
	spatialReference SpatialReference
}

// GeometryRequest identifies the geometry of one sub-region
type GeometryRequest struct {
	BaseURL          string
	SubRegionID      string
	GeometryFormat   GeometryFormat
	SpatialReference SpatialReference
}

// NewLocator creates a locator for a layer endpoint
func NewLocator(baseURL string, format GeometryFormat, sr SpatialReference) (*Locator, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("geodata base URL is required")
	}

	if _, err := url.Parse(baseURL); err != nil {
		return nil, errors.Wrap(err, "invalid geodata base URL")
	}

	switch format {
	case GeometryFormatGeoJSON, GeometryFormatEsriJSON:
	default:
		return nil, errors.Errorf("unsupported geometry format: %s", format)
	}

	switch sr {
	case SpatialReferenceLV03, SpatialReferenceLV95, SpatialReferenceWGS84, SpatialReferenceWebMercator:
	default:
		return nil, errors.Errorf("unsupported spatial reference: %d", sr)
	}

	return &Locator{
		baseURL:          baseURL,
		geometryFormat:   format,
		spatialReference: sr,
	}, nil
}

// Locate returns the request for a single sub-region id
func (l *Locator) Locate(subRegionID string) GeometryRequest {
	return GeometryRequest{
		BaseURL:          l.baseURL,
		SubRegionID:      subRegionID,
		GeometryFormat:   l.geometryFormat,
		SpatialReference: l.spatialReference,
	}
}

// URL renders {baseUrl}/{subRegionId}?geometryFormat={format}&sr={sr}
func (r GeometryRequest) URL() string {
	query := url.Values{}
	query.Set("geometryFormat", string(r.GeometryFormat))
	query.Set("sr", strconv.Itoa(int(r.SpatialReference)))

	return r.BaseURL + "/" + url.PathEscape(r.SubRegionID) + "?" + query.Encode()
}
