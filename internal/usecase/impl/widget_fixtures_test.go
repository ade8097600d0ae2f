package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"regionmap/internal/domain/entity"
	domainerrors "regionmap/internal/domain/errors"
	"regionmap/internal/domain/service"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

var (
	testDefaultStyle  = entity.Style{StrokeColor: "#BB7D5A", FillColor: "lightgray", Weight: 2, FillOpacity: 0.7}
	testSelectedStyle = entity.Style{StrokeColor: "lightgray", FillColor: "#BB7D5A", Weight: 2, FillOpacity: 0.7}
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// squareFeature is a 1x1 degree square with its lower left corner at (x, y)
func squareFeature(t *testing.T, subRegionID string, featureID any, x, y float64) *entity.FetchedFeature {
	t.Helper()

	f := geojson.NewFeature(orb.Polygon{{{x, y}, {x + 1, y}, {x + 1, y + 1}, {x, y + 1}, {x, y}}})
	f.ID = featureID
	f.Properties["label"] = "label-" + subRegionID

	feature, err := entity.NewFetchedFeature(subRegionID, f)
	require.NoError(t, err)

	return feature
}

func declaration(title string, ids ...string) entity.RegionDeclaration {
	return entity.RegionDeclaration{
		Title:          title,
		SubRegionIDs:   ids,
		PrimaryColor:   "#111",
		SecondaryColor: "#222",
	}
}

// fakeFetcher serves canned features; ids listed in gates block until the gate is closed
type fakeFetcher struct {
	mu       sync.Mutex
	features map[string]*entity.FetchedFeature
	failures map[string]error
	gates    map[string]chan struct{}
	calls    map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		features: map[string]*entity.FetchedFeature{},
		failures: map[string]error{},
		gates:    map[string]chan struct{}{},
		calls:    map[string]int{},
	}
}

func (f *fakeFetcher) FetchFeature(ctx context.Context, subRegionID string) (*entity.FetchedFeature, error) {
	f.mu.Lock()
	f.calls[subRegionID]++
	gate := f.gates[subRegionID]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, domainerrors.NewFetchError(subRegionID, ctx.Err())
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.failures[subRegionID]; ok {
		return nil, err
	}
	if feature, ok := f.features[subRegionID]; ok {
		return feature, nil
	}

	return nil, errors.Wrapf(domainerrors.ErrGeometryNotFound, "status 404 for %s", subRegionID)
}

func (f *fakeFetcher) gate(subRegionID string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()

	gate := make(chan struct{})
	f.gates[subRegionID] = gate

	return gate
}

// spySurface records the calls the selection makes
type spySurface struct {
	mu     sync.Mutex
	groups []*spyGroup
	added  map[*spyGroup]bool
	panned []orb.Point
	views  []service.View
}

type spyGroup struct {
	spec      service.GroupSpec
	bounds    orb.Bound
	styles    []entity.Style
	raised    int
	listeners []service.ClickListener
}

func newSpySurface() *spySurface {
	return &spySurface{added: map[*spyGroup]bool{}}
}

func (s *spySurface) NewGroup(spec service.GroupSpec) service.Group {
	s.mu.Lock()
	defer s.mu.Unlock()

	bounds := orb.Bound{Min: orb.Point{1, 1}, Max: orb.Point{-1, -1}}
	for i, feature := range spec.Features {
		if i == 0 {
			bounds = feature.Bound()
		} else {
			bounds = bounds.Union(feature.Bound())
		}
	}

	g := &spyGroup{spec: spec, bounds: bounds, styles: []entity.Style{spec.Style}}
	s.groups = append(s.groups, g)

	return g
}

func (s *spySurface) AddGroup(g service.Group) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.added[g.(*spyGroup)] = true
}

func (s *spySurface) RemoveGroup(g service.Group) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.added, g.(*spyGroup))
}

func (s *spySurface) SetView(center orb.Point, zoom float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views = append(s.views, service.View{Center: center, Zoom: zoom})
}

func (s *spySurface) PanTo(center orb.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panned = append(s.panned, center)
}

func (s *spySurface) Click(ctx context.Context, featureID string) bool {
	s.mu.Lock()
	var listeners []service.ClickListener
	for g := range s.added {
		for _, feature := range g.spec.Features {
			if feature.ID == featureID {
				listeners = append(listeners, g.listeners...)
			}
		}
	}
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(ctx, featureID)
	}

	return len(listeners) > 0
}

func (g *spyGroup) SetStyle(style entity.Style) { g.styles = append(g.styles, style) }
func (g *spyGroup) Bounds() orb.Bound           { return g.bounds }
func (g *spyGroup) BringToFront()               { g.raised++ }
func (g *spyGroup) OnClick(listener service.ClickListener) {
	g.listeners = append(g.listeners, listener)
}

func (g *spyGroup) currentStyle() entity.Style {
	return g.styles[len(g.styles)-1]
}

// fakeBasemap is ready after Load unless loadErr is set
type fakeBasemap struct {
	loadErr error
	once    sync.Once
	ready   chan struct{}
	loads   int
}

func newFakeBasemap() *fakeBasemap {
	return &fakeBasemap{ready: make(chan struct{})}
}

func (b *fakeBasemap) Load(context.Context) error {
	b.loads++
	if b.loadErr != nil {
		return domainerrors.NewRenderSurfaceLoadError(b.loadErr)
	}
	b.once.Do(func() { close(b.ready) })

	return nil
}

func (b *fakeBasemap) Ready() <-chan struct{} { return b.ready }
func (b *fakeBasemap) TileURL() string        { return "https://tiles.example/{z}/{x}/{y}.jpeg" }
func (b *fakeBasemap) InitialView() service.View {
	return service.View{Center: orb.Point{8.37, 46.9}, Zoom: 11}
}

func (b *fakeBasemap) Tile(context.Context, int, int, int) (*service.Tile, error) {
	return nil, domainerrors.ErrTileNotFound
}
