package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"

	// DefaultGeodataBaseURL is the geo.admin.ch municipality boundaries layer
	DefaultGeodataBaseURL       = "https://api3.geo.admin.ch/rest/services/api/MapServer/ch.swisstopo.swissboundaries3d-gemeinde-flaeche.fill"
	defaultGeometryFormat       = "geojson"
	defaultSpatialReference     = 4326
	defaultGeodataTimeout       = 10 * time.Second
	defaultBasemapTileURL       = "https://wmts20.geo.admin.ch/1.0.0/ch.swisstopo.swissimage/default/current/3857/{z}/{x}/{y}.jpeg"
	defaultBasemapCenterLat     = 46.9
	defaultBasemapCenterLng     = 8.37
	defaultBasemapZoom          = 11
	defaultPMTilesCacheSize     = 64
	defaultPMTilesTileExtension = "jpg"
	defaultPMTilesPublicPath    = "/tiles"
	defaultStyleWeight          = 2
	defaultStyleFillOpacity     = 0.7
	defaultCacheTTL             = 24 * time.Hour
	defaultCacheKeyPrefix       = "regionmap:geometry:"
	defaultEventBufferSize      = 16
	defaultEventKeepAlive       = 25 * time.Second
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	// Geodata configuration for the boundary geometry API
	Geodata *GeodataConfig `json:"geodata" yaml:"geodata"`

	// Basemap configuration for tiles and the initial view
	Basemap *BasemapConfig `json:"basemap" yaml:"basemap"`

	// Style configuration for the default and selected region styles
	Style *StyleConfig `json:"style" yaml:"style"`

	// Cache configuration for fetched geometries
	Cache *CacheConfig `json:"cache" yaml:"cache"`

	// PubSub configuration for region-selected event publishing
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`

	// Events configuration for the in-process event stream
	Events *EventsConfig `json:"events" yaml:"events"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// GeodataConfig defines how sub-region geometries are looked up
type GeodataConfig struct {
	BaseURL          string        `json:"baseUrl" yaml:"baseUrl"`
	GeometryFormat   string        `json:"geometryFormat" yaml:"geometryFormat"`
	SpatialReference int           `json:"spatialReference" yaml:"spatialReference"`
	Timeout          time.Duration `json:"timeout" yaml:"timeout"`

	// Maximum number of in-flight geometry fetches (0 = unbounded)
	MaxConcurrentFetches int `json:"maxConcurrentFetches" yaml:"maxConcurrentFetches"`
}

// BasemapConfig defines the tile source and the initial map view
type BasemapConfig struct {
	TileURL   string  `json:"tileUrl" yaml:"tileUrl"`
	CenterLat float64 `json:"centerLat" yaml:"centerLat"`
	CenterLng float64 `json:"centerLng" yaml:"centerLng"`
	Zoom      float64 `json:"zoom" yaml:"zoom"`

	// Fetch the tile under the initial view once before the surface is marked ready
	VerifyOnLoad bool `json:"verifyOnLoad" yaml:"verifyOnLoad"`

	// PMTiles serves the basemap from a local or remote archive instead of TileURL
	PMTiles *PMTilesConfig `json:"pmtiles" yaml:"pmtiles"`
}

// PMTilesConfig defines a PMTiles archive used as the basemap tile source
type PMTilesConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`

	// PMTiles source URL (local file path, HTTP URL, or bucket URL)
	Source string `json:"source" yaml:"source"`

	// Tile extension matching the archive tile type (jpg, png, webp, mvt)
	TileExtension string `json:"tileExtension" yaml:"tileExtension"`

	CacheSize int `json:"cacheSize" yaml:"cacheSize"`

	// Path prefix the tiles are published under by the HTTP server
	PublicPath string `json:"publicPath" yaml:"publicPath"`
}

// StyleConfig defines the two canonical region styles
type StyleConfig struct {
	Default  StyleValues `json:"default" yaml:"default"`
	Selected StyleValues `json:"selected" yaml:"selected"`
}

type StyleValues struct {
	StrokeColor string  `json:"strokeColor" yaml:"strokeColor"`
	FillColor   string  `json:"fillColor" yaml:"fillColor"`
	Weight      float64 `json:"weight" yaml:"weight"`
	FillOpacity float64 `json:"fillOpacity" yaml:"fillOpacity"`
}

// CacheConfig defines the optional geometry cache
type CacheConfig struct {
	Redis *RedisConfig `json:"redis" yaml:"redis"`
}

type RedisConfig struct {
	Addr      string        `json:"addr" yaml:"addr"`
	Password  string        `json:"password" yaml:"password"`
	DB        int           `json:"db" yaml:"db"`
	TTL       time.Duration `json:"ttl" yaml:"ttl"`
	KeyPrefix string        `json:"keyPrefix" yaml:"keyPrefix"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing
type PubSubConfig struct {
	// Provider type: "local" for local HTTP or "google" for Google Pub/Sub
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`
}

// EventsConfig defines the server-sent event stream
type EventsConfig struct {
	BufferSize int           `json:"bufferSize" yaml:"bufferSize"`
	KeepAlive  time.Duration `json:"keepAlive" yaml:"keepAlive"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// GEODATA_BASEURL -> geodata.baseUrl (not geodata.baseurl)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults fills every optional section so consumers never see nil sections
func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}

	if cfg.Geodata == nil {
		cfg.Geodata = &GeodataConfig{}
	}
	if cfg.Geodata.BaseURL == "" {
		cfg.Geodata.BaseURL = DefaultGeodataBaseURL
	}
	if cfg.Geodata.GeometryFormat == "" {
		cfg.Geodata.GeometryFormat = defaultGeometryFormat
	}
	if cfg.Geodata.SpatialReference == 0 {
		cfg.Geodata.SpatialReference = defaultSpatialReference
	}
	if cfg.Geodata.Timeout <= 0 {
		cfg.Geodata.Timeout = defaultGeodataTimeout
	}

	if cfg.Basemap == nil {
		cfg.Basemap = &BasemapConfig{
			CenterLat: defaultBasemapCenterLat,
			CenterLng: defaultBasemapCenterLng,
		}
	}
	if cfg.Basemap.TileURL == "" {
		cfg.Basemap.TileURL = defaultBasemapTileURL
	}
	if cfg.Basemap.Zoom == 0 {
		cfg.Basemap.Zoom = defaultBasemapZoom
	}
	if pm := cfg.Basemap.PMTiles; pm != nil {
		if pm.TileExtension == "" {
			pm.TileExtension = defaultPMTilesTileExtension
		}
		if pm.CacheSize <= 0 {
			pm.CacheSize = defaultPMTilesCacheSize
		}
		if pm.PublicPath == "" {
			pm.PublicPath = defaultPMTilesPublicPath
		}
	}

	if cfg.Style == nil {
		cfg.Style = &StyleConfig{}
	}
	applyStyleDefaults(&cfg.Style.Default, "#BB7D5A", "lightgray")
	applyStyleDefaults(&cfg.Style.Selected, "lightgray", "#BB7D5A")

	if cfg.Cache != nil && cfg.Cache.Redis != nil {
		if cfg.Cache.Redis.TTL <= 0 {
			cfg.Cache.Redis.TTL = defaultCacheTTL
		}
		if cfg.Cache.Redis.KeyPrefix == "" {
			cfg.Cache.Redis.KeyPrefix = defaultCacheKeyPrefix
		}
	}

	if cfg.Events == nil {
		cfg.Events = &EventsConfig{}
	}
	if cfg.Events.BufferSize <= 0 {
		cfg.Events.BufferSize = defaultEventBufferSize
	}
	if cfg.Events.KeepAlive <= 0 {
		cfg.Events.KeepAlive = defaultEventKeepAlive
	}
}

func applyStyleDefaults(style *StyleValues, strokeColor, fillColor string) {
	if style.StrokeColor == "" {
		style.StrokeColor = strokeColor
	}
	if style.FillColor == "" {
		style.FillColor = fillColor
	}
	if style.Weight == 0 {
		style.Weight = defaultStyleWeight
	}
	if style.FillOpacity == 0 {
		style.FillOpacity = defaultStyleFillOpacity
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
