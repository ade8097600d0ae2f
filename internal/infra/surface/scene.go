package surface

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"sync"

	"regionmap/internal/domain/entity"
	"regionmap/internal/domain/service"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Scene is an in-memory rendering surface. Browser clients draw its snapshot
// and report clicks back by feature identifier.
type Scene struct {
	mu     sync.Mutex
	logger *slog.Logger

	nextGroupID int
	nextZ       int
	groups      []*group

	center orb.Point
	zoom   float64
}

type group struct {
	scene *Scene

	id             int
	title          string
	primaryColor   string
	secondaryColor string
	features       []*entity.FetchedFeature
	bounds         orb.Bound

	// guarded by scene.mu
	style     entity.Style
	z         int
	visible   bool
	listeners []service.ClickListener
}

// Snapshot is what a client needs to draw the scene
type Snapshot struct {
	Center  orb.Point                  `json:"center"`
	Zoom    float64                    `json:"zoom"`
	Regions *geojson.FeatureCollection `json:"regions"`
}

// NewScene creates an empty scene
func NewScene(logger *slog.Logger) *Scene {
	return &Scene{logger: logger}
}

func emptyBound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{math.Inf(1), math.Inf(1)},
		Max: orb.Point{math.Inf(-1), math.Inf(-1)},
	}
}

// NewGroup creates a detached group; it is drawn only after AddGroup
func (s *Scene) NewGroup(spec service.GroupSpec) service.Group {
	bounds := emptyBound()
	for _, feature := range spec.Features {
		if feature == nil || feature.Feature == nil || feature.Feature.Geometry == nil {
			continue
		}
		bounds = bounds.Union(feature.Bound())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextGroupID++

	return &group{
		scene:          s,
		id:             s.nextGroupID,
		title:          spec.Title,
		primaryColor:   spec.PrimaryColor,
		secondaryColor: spec.SecondaryColor,
		features:       spec.Features,
		bounds:         bounds,
		style:          spec.Style,
	}
}

func (s *Scene) AddGroup(g service.Group) {
	grp, ok := g.(*group)
	if !ok || grp.scene != s {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if grp.visible {
		return
	}
	s.nextZ++
	grp.z = s.nextZ
	grp.visible = true
	s.groups = append(s.groups, grp)
}

func (s *Scene) RemoveGroup(g service.Group) {
	grp, ok := g.(*group)
	if !ok || grp.scene != s {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !grp.visible {
		return
	}
	grp.visible = false
	grp.listeners = nil
	for i, candidate := range s.groups {
		if candidate == grp {
			s.groups = append(s.groups[:i], s.groups[i+1:]...)

			break
		}
	}
}

func (s *Scene) SetView(center orb.Point, zoom float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.center = center
	s.zoom = zoom
}

func (s *Scene) PanTo(center orb.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.center = center
}

// View returns the current center and zoom
func (s *Scene) View() service.View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return service.View{Center: s.center, Zoom: s.zoom}
}

// Click delivers a click to the topmost visible group that contains a feature
// with the given identifier. Listeners run outside the scene lock so they may
// restyle or reorder groups.
func (s *Scene) Click(ctx context.Context, featureID string) bool {
	if featureID == "" {
		return false
	}

	s.mu.Lock()
	var target *group
	for _, grp := range s.groups {
		if !grp.contains(featureID) {
			continue
		}
		if target == nil || grp.z > target.z {
			target = grp
		}
	}
	if target == nil {
		s.mu.Unlock()

		return false
	}
	listeners := append([]service.ClickListener(nil), target.listeners...)
	s.mu.Unlock()

	s.logger.Debug("Dispatching click",
		slog.String("featureId", featureID),
		slog.String("title", target.title),
		slog.Int("listeners", len(listeners)),
	)

	for _, listener := range listeners {
		listener(ctx, featureID)
	}

	return true
}

// Snapshot returns the visible groups in draw order as a feature collection
func (s *Scene) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	ordered := append([]*group(nil), s.groups...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].z < ordered[j].z
	})

	fc := geojson.NewFeatureCollection()
	for _, grp := range ordered {
		for _, feature := range grp.features {
			if feature == nil || feature.Feature == nil || feature.Feature.Geometry == nil {
				continue
			}

			out := geojson.NewFeature(feature.Feature.Geometry)
			if feature.ID != "" {
				out.ID = feature.ID
			}
			out.Properties["featureId"] = feature.ID
			out.Properties["subRegionId"] = feature.SubRegionID
			out.Properties["label"] = feature.Label
			out.Properties["groupId"] = grp.id
			out.Properties["title"] = grp.title
			out.Properties["primaryColor"] = grp.primaryColor
			out.Properties["secondaryColor"] = grp.secondaryColor
			out.Properties["strokeColor"] = grp.style.StrokeColor
			out.Properties["fillColor"] = grp.style.FillColor
			out.Properties["weight"] = grp.style.Weight
			out.Properties["fillOpacity"] = grp.style.FillOpacity
			out.Properties["zIndex"] = grp.z
			fc.Append(out)
		}
	}

	return &Snapshot{
		Center:  s.center,
		Zoom:    s.zoom,
		Regions: fc,
	}
}

func (g *group) contains(featureID string) bool {
	for _, feature := range g.features {
		if feature != nil && feature.ID == featureID {
			return true
		}
	}

	return false
}

func (g *group) SetStyle(style entity.Style) {
	g.scene.mu.Lock()
	defer g.scene.mu.Unlock()

	g.style = style
}

func (g *group) Bounds() orb.Bound {
	return g.bounds
}

func (g *group) BringToFront() {
	g.scene.mu.Lock()
	defer g.scene.mu.Unlock()

	g.scene.nextZ++
	g.z = g.scene.nextZ
}

func (g *group) OnClick(listener service.ClickListener) {
	g.scene.mu.Lock()
	defer g.scene.mu.Unlock()

	g.listeners = append(g.listeners, listener)
}
