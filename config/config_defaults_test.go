package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}

	applyDefaults(cfg)

	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)

	require.NotNil(t, cfg.Geodata)
	assert.Equal(t, DefaultGeodataBaseURL, cfg.Geodata.BaseURL)
	assert.Equal(t, "geojson", cfg.Geodata.GeometryFormat)
	assert.Equal(t, 4326, cfg.Geodata.SpatialReference)
	assert.Equal(t, defaultGeodataTimeout, cfg.Geodata.Timeout)
	assert.Zero(t, cfg.Geodata.MaxConcurrentFetches)

	require.NotNil(t, cfg.Basemap)
	assert.Equal(t, 46.9, cfg.Basemap.CenterLat)
	assert.Equal(t, 8.37, cfg.Basemap.CenterLng)
	assert.Equal(t, float64(11), cfg.Basemap.Zoom)
	assert.Nil(t, cfg.Basemap.PMTiles)

	require.NotNil(t, cfg.Style)
	assert.Equal(t, StyleValues{StrokeColor: "#BB7D5A", FillColor: "lightgray", Weight: 2, FillOpacity: 0.7}, cfg.Style.Default)
	assert.Equal(t, StyleValues{StrokeColor: "lightgray", FillColor: "#BB7D5A", Weight: 2, FillOpacity: 0.7}, cfg.Style.Selected)

	assert.Nil(t, cfg.Cache)
	require.NotNil(t, cfg.Events)
	assert.Equal(t, defaultEventBufferSize, cfg.Events.BufferSize)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Geodata: &GeodataConfig{
			BaseURL:          "http://geo.local/layer",
			GeometryFormat:   "esrijson",
			SpatialReference: 2056,
			Timeout:          time.Second,
		},
		Basemap: &BasemapConfig{
			TileURL:   "http://tiles.local/{z}/{x}/{y}.png",
			CenterLat: 47.0,
			CenterLng: 8.0,
			Zoom:      9,
			PMTiles:   &PMTilesConfig{Enabled: true, Source: "/data/swiss.pmtiles"},
		},
		Style: &StyleConfig{
			Selected: StyleValues{FillColor: "#ff0000"},
		},
		Cache: &CacheConfig{Redis: &RedisConfig{Addr: "localhost:6379"}},
	}

	applyDefaults(cfg)

	assert.Equal(t, "http://geo.local/layer", cfg.Geodata.BaseURL)
	assert.Equal(t, "esrijson", cfg.Geodata.GeometryFormat)
	assert.Equal(t, 2056, cfg.Geodata.SpatialReference)
	assert.Equal(t, time.Second, cfg.Geodata.Timeout)

	assert.Equal(t, float64(9), cfg.Basemap.Zoom)
	assert.Equal(t, "jpg", cfg.Basemap.PMTiles.TileExtension)
	assert.Equal(t, "/tiles", cfg.Basemap.PMTiles.PublicPath)
	assert.Equal(t, 64, cfg.Basemap.PMTiles.CacheSize)

	assert.Equal(t, "#ff0000", cfg.Style.Selected.FillColor)
	assert.Equal(t, "lightgray", cfg.Style.Selected.StrokeColor)

	assert.Equal(t, defaultCacheTTL, cfg.Cache.Redis.TTL)
	assert.Equal(t, defaultCacheKeyPrefix, cfg.Cache.Redis.KeyPrefix)
}
