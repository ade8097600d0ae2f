package service

import (
	"context"

	"regionmap/internal/domain/entity"
)

// GeometryFetcher loads the boundary geometry of a single sub-region.
//
// Implementations return errors.ErrGeometryNotFound for any non-200 answer,
// *errors.FetchError for transport failures and *errors.ParseError for
// bodies that do not carry a usable feature.
type GeometryFetcher interface {
	FetchFeature(ctx context.Context, subRegionID string) (*entity.FetchedFeature, error)
}
