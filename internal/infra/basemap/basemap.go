package basemap

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"regionmap/config"
	domainerrors "regionmap/internal/domain/errors"
	"regionmap/internal/domain/service"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/pkg/errors"
	"github.com/protomaps/go-pmtiles/pmtiles"
	"go.uber.org/fx"
)

// tileServer is the part of the PMTiles server used to read an archive
type tileServer interface {
	Get(ctx context.Context, path string) (int, map[string]string, []byte)
}

type serverFactory func(bucketPath string, cacheSize int) (tileServer, error)

func newPMTilesServer(bucketPath string, cacheSize int) (tileServer, error) {
	// pmtiles requires a *log.Logger; its request logging is not useful here
	silentLogger := log.New(io.Discard, "", 0)

	server, err := pmtiles.NewServer(bucketPath, "", silentLogger, cacheSize, "")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create PMTiles server")
	}
	server.Start()

	return server, nil
}

type basemap struct {
	cfg        *config.BasemapConfig
	logger     *slog.Logger
	httpClient *http.Client
	newServer  serverFactory

	once    sync.Once
	ready   chan struct{}
	loadErr error

	server      tileServer
	tilesetName string
}

// Params holds dependencies for the basemap
type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// New creates the basemap described by the configuration. Nothing is loaded until Load.
func New(params Params) service.Basemap {
	return newBasemap(params.Config.Basemap, params.Logger, http.DefaultClient, newPMTilesServer)
}

func newBasemap(cfg *config.BasemapConfig, logger *slog.Logger, client *http.Client, factory serverFactory) *basemap {
	return &basemap{
		cfg:        cfg,
		logger:     logger,
		httpClient: client,
		newServer:  factory,
		ready:      make(chan struct{}),
	}
}

func (b *basemap) pmtilesEnabled() bool {
	return b.cfg.PMTiles != nil && b.cfg.PMTiles.Enabled
}

// Load opens the tile source once. Every failure is a RenderSurfaceLoadError.
func (b *basemap) Load(ctx context.Context) error {
	b.once.Do(func() {
		started := time.Now()
		if err := b.load(ctx); err != nil {
			b.loadErr = domainerrors.NewRenderSurfaceLoadError(err)

			return
		}
		close(b.ready)

		b.logger.Info("Basemap loaded",
			slog.String("tile_url", b.TileURL()),
			slog.Bool("pmtiles", b.pmtilesEnabled()),
			slog.Duration("duration", time.Since(started)),
		)
	})

	return b.loadErr
}

func (b *basemap) load(ctx context.Context) error {
	if b.pmtilesEnabled() {
		if err := b.openArchive(ctx); err != nil {
			return err
		}
	} else if b.cfg.TileURL == "" {
		return errors.New("basemap tile URL is required")
	}

	if !b.cfg.VerifyOnLoad {
		return nil
	}

	return b.verifyInitialTile(ctx)
}

func (b *basemap) openArchive(ctx context.Context) error {
	cfg := b.cfg.PMTiles
	if cfg.Source == "" {
		return errors.New("PMTiles source is required when enabled")
	}

	bucketPath, tilesetName := parseSourcePath(cfg.Source)

	server, err := b.newServer(bucketPath, cfg.CacheSize)
	if err != nil {
		return err
	}

	status, _, _ := server.Get(ctx, fmt.Sprintf("/%s/metadata", tilesetName))
	if status != http.StatusOK {
		return errors.Errorf("PMTiles archive %s is not readable: status %d", cfg.Source, status)
	}

	b.server = server
	b.tilesetName = tilesetName

	b.logger.Info("PMTiles basemap opened",
		slog.String("source", cfg.Source),
		slog.String("tileset", tilesetName),
		slog.Int("cache_size", cfg.CacheSize),
	)

	return nil
}

// verifyInitialTile fetches the tile under the initial view center
func (b *basemap) verifyInitialTile(ctx context.Context) error {
	view := b.InitialView()
	tile := maptile.At(view.Center, maptile.Zoom(uint32(view.Zoom)))

	if b.server != nil {
		_, err := b.archiveTile(ctx, tile)

		return errors.Wrapf(err, "initial tile %d/%d/%d", tile.Z, tile.X, tile.Y)
	}

	tileURL := expandTemplate(b.cfg.TileURL, tile)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tileURL, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create tile request")
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "fetch initial tile %s", tileURL)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("initial tile %s: unexpected status %d", tileURL, resp.StatusCode)
	}

	return nil
}

func (b *basemap) Ready() <-chan struct{} {
	return b.ready
}

// TileURL returns the template clients load tiles from
func (b *basemap) TileURL() string {
	if b.pmtilesEnabled() {
		return fmt.Sprintf("%s/{z}/{x}/{y}.%s", strings.TrimSuffix(b.cfg.PMTiles.PublicPath, "/"), b.cfg.PMTiles.TileExtension)
	}

	return b.cfg.TileURL
}

func (b *basemap) InitialView() service.View {
	return service.View{
		Center: orb.Point{b.cfg.CenterLng, b.cfg.CenterLat},
		Zoom:   b.cfg.Zoom,
	}
}

// Tile reads one tile from the local archive
func (b *basemap) Tile(ctx context.Context, z, x, y int) (*service.Tile, error) {
	select {
	case <-b.ready:
	default:
		return nil, domainerrors.ErrBasemapNotReady
	}

	if b.server == nil || z < 0 || x < 0 || y < 0 {
		return nil, domainerrors.ErrTileNotFound
	}

	return b.archiveTile(ctx, maptile.New(uint32(x), uint32(y), maptile.Zoom(uint32(z))))
}

func (b *basemap) archiveTile(ctx context.Context, tile maptile.Tile) (*service.Tile, error) {
	tilePath := fmt.Sprintf("/%s/%d/%d/%d.%s", b.tilesetName, tile.Z, tile.X, tile.Y, b.cfg.PMTiles.TileExtension)

	status, headers, data := b.server.Get(ctx, tilePath)
	switch status {
	case http.StatusOK:
		return &service.Tile{Data: data, Headers: headers}, nil
	case http.StatusNotFound, http.StatusNoContent:
		return nil, domainerrors.ErrTileNotFound
	default:
		return nil, errors.Errorf("unexpected status code: %d", status)
	}
}

func expandTemplate(template string, tile maptile.Tile) string {
	return strings.NewReplacer(
		"{z}", strconv.FormatUint(uint64(tile.Z), 10),
		"{x}", strconv.FormatUint(uint64(tile.X), 10),
		"{y}", strconv.FormatUint(uint64(tile.Y), 10),
	).Replace(template)
}

// parseSourcePath extracts the bucket directory and tileset name from a source path.
// Examples:
//   - "file:///data/swiss.pmtiles" -> ("file:///data", "swiss")
//   - "/data/swiss.pmtiles" -> ("file:///data", "swiss")
//   - "https://example.com/tiles/swiss.pmtiles" -> ("https://example.com/tiles", "swiss")
func parseSourcePath(source string) (bucketPath, tilesetName string) {
	if strings.HasPrefix(source, "file://") {
		path := strings.TrimPrefix(source, "file://")

		return "file://" + filepath.Dir(path), strings.TrimSuffix(filepath.Base(path), ".pmtiles")
	}

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		if lastSlash := strings.LastIndex(source, "/"); lastSlash > 0 {
			return source[:lastSlash], strings.TrimSuffix(source[lastSlash+1:], ".pmtiles")
		}
	}

	return "file://" + filepath.Dir(source), strings.TrimSuffix(filepath.Base(source), ".pmtiles")
}
