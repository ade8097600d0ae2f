package service

import (
	"context"

	"github.com/paulmach/orb"
)

// View is a map view: center and zoom level
type View struct {
	Center orb.Point `json:"center"`
	Zoom   float64   `json:"zoom"`
}

// Tile is one basemap tile served to the client
type Tile struct {
	Data    []byte
	Headers map[string]string
}

// Basemap is the tile basemap the regions are drawn over
type Basemap interface {
	// Load initializes the tile source once; later calls return the first result
	Load(ctx context.Context) error

	// Ready is closed once Load succeeded
	Ready() <-chan struct{}

	// TileURL returns the tile URL template ({z}/{x}/{y}) clients should use
	TileURL() string

	// InitialView returns the view configured for the first attach
	InitialView() View

	// Tile returns a locally served tile; errors.ErrTileNotFound when the basemap is remote
	Tile(ctx context.Context, z, x, y int) (*Tile, error)
}
