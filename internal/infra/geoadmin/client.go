package geoadmin

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"regionmap/internal/domain/entity"
	domainerrors "regionmap/internal/domain/errors"
	"regionmap/internal/domain/service"

	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
)

// maxResponseBytes caps a single geometry response; municipality boundaries stay far below it
const maxResponseBytes = 8 << 20

// featureEnvelope is the identify response shape: {"feature": {...}}
type featureEnvelope struct {
	Feature json.RawMessage `json:"feature"`
}

// Client fetches sub-region boundaries from the geo.admin.ch MapServer API
type Client struct {
	locator    *Locator
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new geodata client. Responses are decoded as GeoJSON, so the
// locator has to request that format; esrijson URLs can still be built with a Locator.
func NewClient(locator *Locator, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	if locator.geometryFormat != GeometryFormatGeoJSON {
		return nil, errors.Errorf("geometry format %q cannot be decoded, use %q", locator.geometryFormat, GeometryFormatGeoJSON)
	}

	return &Client{
		locator: locator,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}, nil
}

var _ service.GeometryFetcher = (*Client)(nil)

// Locator returns the locator requests are built with
func (c *Client) Locator() *Locator {
	return c.locator
}

// FetchFeature fetches and decodes the geometry of one sub-region
func (c *Client) FetchFeature(ctx context.Context, subRegionID string) (*entity.FetchedFeature, error) {
	request := c.locator.Locate(subRegionID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, request.URL(), nil)
	if err != nil {
		return nil, domainerrors.NewFetchError(subRegionID, errors.WithStack(err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domainerrors.NewFetchError(subRegionID, errors.WithStack(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)

		return nil, errors.Wrapf(domainerrors.ErrGeometryNotFound, "sub-region %s: status %d", subRegionID, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, domainerrors.NewFetchError(subRegionID, errors.WithStack(err))
	}

	feature, err := DecodeFeature(subRegionID, body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Fetched sub-region geometry",
		slog.String("sub_region_id", subRegionID),
		slog.String("feature_id", feature.ID),
	)

	return feature, nil
}

// DecodeFeature decodes an identify response body into a fetched feature
func DecodeFeature(subRegionID string, body []byte) (*entity.FetchedFeature, error) {
	var envelope featureEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, domainerrors.NewParseError(subRegionID, errors.WithStack(err))
	}

	raw := bytes.TrimSpace(envelope.Feature)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, domainerrors.NewParseError(subRegionID, errors.New("response has no feature"))
	}

	feature, err := geojson.UnmarshalFeature(raw)
	if err != nil {
		return nil, domainerrors.NewParseError(subRegionID, errors.WithStack(err))
	}

	fetched, err := entity.NewFetchedFeature(subRegionID, feature)
	if err != nil {
		return nil, domainerrors.NewParseError(subRegionID, err)
	}

	return fetched, nil
}
