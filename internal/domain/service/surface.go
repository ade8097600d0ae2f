package service

import (
	"context"

	"regionmap/internal/domain/entity"

	"github.com/paulmach/orb"
)

// ClickListener receives the identifier of the concrete feature that was clicked
type ClickListener func(ctx context.Context, clickedFeatureID string)

// GroupSpec describes a group of fetched features rendered as one unit
type GroupSpec struct {
	Title          string
	PrimaryColor   string
	SecondaryColor string
	Features       []*entity.FetchedFeature
	Style          entity.Style
}

// Group is a handle to one renderable group on the surface
type Group interface {
	// SetStyle replaces the style of every member
	SetStyle(style entity.Style)

	// Bounds returns the union of the member bounds; empty when nothing is drawable
	Bounds() orb.Bound

	// BringToFront raises the group above its siblings
	BringToFront()

	// OnClick subscribes to clicks on any member
	OnClick(listener ClickListener)
}

// Surface is the rendering surface regions are drawn on
type Surface interface {
	// NewGroup creates a detached group
	NewGroup(spec GroupSpec) Group

	// AddGroup makes a group visible
	AddGroup(group Group)

	// RemoveGroup hides a group and drops its listeners
	RemoveGroup(group Group)

	// SetView sets the view center and zoom
	SetView(center orb.Point, zoom float64)

	// PanTo recenters the view without changing the zoom
	PanTo(center orb.Point)

	// Click dispatches a pointer click on the visible feature with the given identifier.
	// It reports whether a visible feature received the click.
	Click(ctx context.Context, featureID string) bool
}
