package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"regionmap/internal/domain/entity"
	"regionmap/internal/domain/service"
	"regionmap/internal/infra/metrics"

	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// store is the subset of the redis client the cache needs
type store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// KeyFunc maps a sub-region id to its cache key
type KeyFunc func(subRegionID string) string

// cachedGeometryFetcher serves geometries from redis and fills it from the next fetcher.
// Only successful fetches are cached; missing geometries are asked again next time.
type cachedGeometryFetcher struct {
	next   service.GeometryFetcher
	store  store
	keyFor KeyFunc
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedGeometryFetcher wraps next with a redis-backed cache
func NewCachedGeometryFetcher(next service.GeometryFetcher, client store, keyFor KeyFunc, ttl time.Duration, logger *slog.Logger) service.GeometryFetcher {
	return &cachedGeometryFetcher{
		next:   next,
		store:  client,
		keyFor: keyFor,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *cachedGeometryFetcher) FetchFeature(ctx context.Context, subRegionID string) (*entity.FetchedFeature, error) {
	key := c.keyFor(subRegionID)

	if feature, ok := c.lookup(ctx, key, subRegionID); ok {
		metrics.GeometryCacheTotal.WithLabelValues("hit").Inc()

		return feature, nil
	}
	metrics.GeometryCacheTotal.WithLabelValues("miss").Inc()

	feature, err := c.next.FetchFeature(ctx, subRegionID)
	if err != nil {
		return nil, err
	}

	c.save(ctx, key, feature)

	return feature, nil
}

func (c *cachedGeometryFetcher) lookup(ctx context.Context, key, subRegionID string) (*entity.FetchedFeature, bool) {
	raw, err := c.store.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Geometry cache read failed, bypassing cache",
				slog.String("key", key),
				slog.Any("error", err),
			)
		}

		return nil, false
	}

	decoded, err := geojson.UnmarshalFeature(raw)
	if err != nil {
		c.logger.Warn("Discarding undecodable cached geometry",
			slog.String("key", key),
			slog.Any("error", err),
		)

		return nil, false
	}

	feature, err := entity.NewFetchedFeature(subRegionID, decoded)
	if err != nil {
		return nil, false
	}

	return feature, true
}

func (c *cachedGeometryFetcher) save(ctx context.Context, key string, feature *entity.FetchedFeature) {
	raw, err := json.Marshal(feature.Feature)
	if err != nil {
		c.logger.Warn("Geometry could not be encoded for cache",
			slog.String("key", key),
			slog.Any("error", err),
		)

		return
	}

	if err := c.store.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("Geometry cache write failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}
