package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"regionmap/internal/domain/entity"
	domainerrors "regionmap/internal/domain/errors"
	"regionmap/internal/domain/service"
	"regionmap/internal/errors"
	"regionmap/internal/infra/metrics"
)

// ResolvedRegion is a declaration with the features that could be fetched for it,
// in sub-region id order
type ResolvedRegion struct {
	Declaration entity.RegionDeclaration
	Features    []*entity.FetchedFeature
}

// RegionResolver fetches the geometry of every sub-region of every declaration
type RegionResolver struct {
	fetcher  service.GeometryFetcher
	throttle chan struct{}
	logger   *slog.Logger
}

// NewRegionResolver creates a resolver. maxConcurrent bounds the in-flight fetches; 0 means unbounded.
func NewRegionResolver(fetcher service.GeometryFetcher, maxConcurrent int, logger *slog.Logger) *RegionResolver {
	r := &RegionResolver{
		fetcher: fetcher,
		logger:  logger,
	}
	if maxConcurrent > 0 {
		r.throttle = make(chan struct{}, maxConcurrent)
	}

	return r
}

// Resolve fans out one fetch per sub-region id and returns once all of them settled.
// Per-id failures only shrink the result; the output has one entry per declaration.
func (r *RegionResolver) Resolve(ctx context.Context, declarations []entity.RegionDeclaration) []ResolvedRegion {
	start := time.Now()
	resolved := make([]ResolvedRegion, len(declarations))

	var wg sync.WaitGroup
	for i, declaration := range declarations {
		wg.Add(1)
		go func(idx int, declaration entity.RegionDeclaration) {
			defer wg.Done()

			resolved[idx] = ResolvedRegion{
				Declaration: declaration,
				Features:    r.resolveDeclaration(ctx, declaration),
			}
		}(i, declaration)
	}
	wg.Wait()

	elapsed := time.Since(start)
	metrics.ResolveDurationMs.Observe(float64(elapsed.Milliseconds()))

	r.logger.Debug("Regions resolved",
		slog.Int("declarations", len(declarations)),
		slog.Duration("duration", elapsed),
	)

	return resolved
}

func (r *RegionResolver) resolveDeclaration(ctx context.Context, declaration entity.RegionDeclaration) []*entity.FetchedFeature {
	results := make([]*entity.FetchedFeature, len(declaration.SubRegionIDs))

	var wg sync.WaitGroup
	for i, subRegionID := range declaration.SubRegionIDs {
		wg.Add(1)
		go func(idx int, subRegionID string) {
			defer wg.Done()

			results[idx] = r.fetch(ctx, declaration.Title, subRegionID)
		}(i, subRegionID)
	}
	wg.Wait()

	features := make([]*entity.FetchedFeature, 0, len(results))
	for _, feature := range results {
		if feature != nil {
			features = append(features, feature)
		}
	}

	if len(features) == 0 && len(declaration.SubRegionIDs) > 0 {
		r.logger.Info("Region has no resolvable geometry and will not be rendered",
			slog.String("title", declaration.Title),
			slog.Int("sub_regions", len(declaration.SubRegionIDs)),
		)
	}

	return features
}

func (r *RegionResolver) fetch(ctx context.Context, title, subRegionID string) *entity.FetchedFeature {
	if r.throttle != nil {
		select {
		case r.throttle <- struct{}{}:
			defer func() { <-r.throttle }()
		case <-ctx.Done():
			metrics.GeometryFetchesTotal.WithLabelValues(metrics.OutcomeFetchError).Inc()

			return nil
		}
	}

	feature, err := r.fetcher.FetchFeature(ctx, subRegionID)
	if err == nil {
		metrics.GeometryFetchesTotal.WithLabelValues(metrics.OutcomeOK).Inc()

		return feature
	}

	var parseErr *domainerrors.ParseError
	switch {
	case errors.Is(err, domainerrors.ErrGeometryNotFound):
		metrics.GeometryFetchesTotal.WithLabelValues(metrics.OutcomeNotFound).Inc()
		r.logger.Debug("No geometry for sub-region",
			slog.String("title", title),
			slog.String("sub_region_id", subRegionID),
		)
	case errors.As(err, &parseErr):
		metrics.GeometryFetchesTotal.WithLabelValues(metrics.OutcomeParseError).Inc()
		r.logger.Warn("Skipping unparsable geometry",
			slog.String("title", title),
			slog.String("sub_region_id", subRegionID),
			slog.Any("error", err),
		)
	default:
		metrics.GeometryFetchesTotal.WithLabelValues(metrics.OutcomeFetchError).Inc()
		r.logger.Warn("Skipping sub-region after fetch failure",
			slog.String("title", title),
			slog.String("sub_region_id", subRegionID),
			slog.Any("error", err),
		)
	}

	return nil
}
