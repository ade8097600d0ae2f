package entity

import (
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
)

const labelProperty = "label"

// FetchedFeature is a single geometry returned by the geodata API for one sub-region id
type FetchedFeature struct {
	// SubRegionID is the id the geometry was requested with
	SubRegionID string
	// ID is the feature identifier assigned by the geodata source; empty when absent
	ID      string
	Label   string
	Feature *geojson.Feature
}

// NewFetchedFeature normalizes a decoded GeoJSON feature. A feature without
// geometry carries nothing to render and is rejected.
func NewFetchedFeature(subRegionID string, feature *geojson.Feature) (*FetchedFeature, error) {
	if feature == nil {
		return nil, errors.New("feature is missing")
	}
	if feature.Geometry == nil {
		return nil, errors.New("feature has no geometry")
	}

	label, _ := feature.Properties[labelProperty].(string)

	return &FetchedFeature{
		SubRegionID: subRegionID,
		ID:          FeatureIdentifier(feature.ID),
		Label:       label,
		Feature:     feature,
	}, nil
}

// Bound returns the bounding box of the feature geometry
func (f *FetchedFeature) Bound() orb.Bound {
	return f.Feature.Geometry.Bound()
}

// FeatureIdentifier converts a GeoJSON id (string or number) to its string key.
// Numbers are formatted without exponent so 1501 and "1501" address the same feature.
func FeatureIdentifier(id any) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	default:
		return ""
	}
}
