package usecase

import (
	"context"

	"regionmap/internal/domain/entity"
)

// Transition is the visible effect of a selection request
type Transition string

const (
	TransitionNone       Transition = "none"
	TransitionSelected   Transition = "selected"
	TransitionDeselected Transition = "deselected"
)

// RegionsUpdate reports the outcome of a regions attribute update.
// Committed is false when a newer update superseded this one before it settled.
type RegionsUpdate struct {
	Generation          uint64 `json:"generation"`
	Committed           bool   `json:"committed"`
	Declarations        int    `json:"declarations"`
	RenderedGroups      int    `json:"renderedGroups"`
	AddressableFeatures int    `json:"addressableFeatures"`
}

// SelectionResult reports the outcome of a selected id change or a click
type SelectionResult struct {
	Transition    Transition `json:"transition"`
	SelectedTitle string     `json:"selectedTitle,omitempty"`
	// Published is set when a region selected event was handed to the publisher
	Published bool `json:"published,omitempty"`
}

// RegionState is one accepted declaration and what was rendered for it
type RegionState struct {
	Title          string               `json:"title"`
	SubRegionIDs   []string             `json:"regionIds"`
	PrimaryColor   string               `json:"primaryColor"`
	SecondaryColor string               `json:"secondaryColor"`
	ScoutingHome   *entity.ScoutingHome `json:"scoutingHome,omitempty"`
	FeatureIDs     []string             `json:"featureIds"`
	Rendered       bool                 `json:"rendered"`
	Selected       bool                 `json:"selected"`
}

// WidgetState is a read-only view of the widget
type WidgetState struct {
	Generation      uint64        `json:"generation"`
	Attached        bool          `json:"attached"`
	DesiredRegionID string        `json:"selectedRegionId,omitempty"`
	SelectedTitle   string        `json:"selectedTitle,omitempty"`
	Regions         []RegionState `json:"regions"`
	AddressableIDs  []string      `json:"addressableIds"`
}

// WidgetUsecase drives the region map from host attribute changes and user clicks
type WidgetUsecase interface {
	// Attach waits for the basemap and draws the current regions. Safe to call again.
	Attach(ctx context.Context) error

	// SetRegions validates, resolves and renders a regions payload, replacing the previous one
	SetRegions(ctx context.Context, payload []byte) (*RegionsUpdate, error)

	// SetSelectedRegionID records the externally desired selection and applies it. Empty clears it.
	SetSelectedRegionID(ctx context.Context, regionID string) (*SelectionResult, error)

	// Click delivers a user click on the feature with the given identifier
	Click(ctx context.Context, featureID string) (*SelectionResult, error)

	// State returns the current widget state
	State(ctx context.Context) *WidgetState
}
