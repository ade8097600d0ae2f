package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"regionmap/config"
	deliverycontext "regionmap/internal/delivery/context"
	"regionmap/internal/domain/entity"
	domainerrors "regionmap/internal/domain/errors"
	"regionmap/internal/domain/service"
	"regionmap/internal/infra/metrics"
	"regionmap/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// Selection triggers recorded in metrics
const (
	triggerAttribute = "attribute"
	triggerClick     = "click"
	triggerRebuild   = "rebuild"
)

// WidgetServiceParams holds dependencies for the widget service, injected by Fx
type WidgetServiceParams struct {
	fx.In

	Config    *config.Config
	Fetcher   service.GeometryFetcher
	Surface   service.Surface
	Basemap   service.Basemap
	Publisher service.EventPublisher
	Logger    *slog.Logger
}

type widgetService struct {
	validator *RegionValidator
	resolver  *RegionResolver
	surface   service.Surface
	basemap   service.Basemap
	publisher service.EventPublisher
	logger    *slog.Logger

	defaultStyle entity.Style

	// mu serializes every state change. It is not held while regions resolve;
	// the generation decides which resolve may commit.
	mu         sync.Mutex
	generation uint64
	index      *featureIndex
	selection  *selection
	desiredID  string
	attached   bool
}

// NewWidgetService creates the region map widget
func NewWidgetService(params WidgetServiceParams) usecase.WidgetUsecase {
	maxConcurrent := 0
	if params.Config.Geodata != nil {
		maxConcurrent = params.Config.Geodata.MaxConcurrentFetches
	}

	defaultStyle, selectedStyle := stylesFromConfig(params.Config.Style)

	return &widgetService{
		validator:    NewRegionValidator(params.Logger),
		resolver:     NewRegionResolver(params.Fetcher, maxConcurrent, params.Logger),
		surface:      params.Surface,
		basemap:      params.Basemap,
		publisher:    params.Publisher,
		logger:       params.Logger,
		defaultStyle: defaultStyle,
		index:        emptyFeatureIndex(),
		selection:    newSelection(params.Surface, defaultStyle, selectedStyle),
	}
}

func stylesFromConfig(cfg *config.StyleConfig) (defaultStyle, selectedStyle entity.Style) {
	if cfg == nil {
		cfg = &config.StyleConfig{}
	}

	toStyle := func(v config.StyleValues) entity.Style {
		return entity.Style{
			StrokeColor: v.StrokeColor,
			FillColor:   v.FillColor,
			Weight:      v.Weight,
			FillOpacity: v.FillOpacity,
		}
	}

	return toStyle(cfg.Default), toStyle(cfg.Selected)
}

func (s *widgetService) loggerFrom(ctx context.Context) *slog.Logger {
	return deliverycontext.Logger(ctx, s.logger)
}

// Attach waits for the basemap once, then draws whatever regions are committed
func (s *widgetService) Attach(ctx context.Context) error {
	if err := s.basemap.Load(ctx); err != nil {
		return err
	}

	select {
	case <-s.basemap.Ready():
	case <-ctx.Done():
		return domainerrors.NewRenderSurfaceLoadError(ctx.Err())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return nil
	}

	view := s.basemap.InitialView()
	s.surface.SetView(view.Center, view.Zoom)
	s.index.attach(s.surface)
	s.attached = true
	s.selection.Attach()

	s.loggerFrom(ctx).Info("Widget attached",
		slog.Uint64("generation", s.index.generation),
		slog.Int("groups", len(s.index.groups)),
	)

	return nil
}

// SetRegions validates the payload before anything changes. Resolving happens
// without the lock; only the newest accepted update may commit its index.
func (s *widgetService) SetRegions(ctx context.Context, payload []byte) (*usecase.RegionsUpdate, error) {
	logger := s.loggerFrom(ctx)

	declarations, err := s.validator.ValidateRegions(payload)
	if err != nil {
		metrics.RegionUpdatesTotal.WithLabelValues(metrics.UpdateInvalid).Inc()
		logger.Warn("Rejected regions update", slog.Any("error", err))

		return nil, err
	}

	s.mu.Lock()
	s.generation++
	generation := s.generation
	s.mu.Unlock()

	// resolution completes even when the caller goes away
	resolved := s.resolver.Resolve(context.WithoutCancel(ctx), declarations)

	s.mu.Lock()
	defer s.mu.Unlock()

	update := &usecase.RegionsUpdate{
		Generation:   generation,
		Declarations: len(declarations),
	}

	if generation != s.generation {
		metrics.RegionUpdatesTotal.WithLabelValues(metrics.UpdateStale).Inc()
		logger.Info("Discarding superseded regions update",
			slog.Uint64("generation", generation),
			slog.Uint64("current_generation", s.generation),
		)

		return update, nil
	}

	next := buildFeatureIndex(generation, resolved, s.surface, s.defaultStyle, s.onGroupClick, logger)

	previous := s.index
	s.selection.Invalidate()
	if s.attached {
		next.attach(s.surface)
	}
	previous.detach(s.surface)
	s.index = next

	if s.desiredID != "" {
		transition := s.selection.SelectByID(next, s.desiredID)
		metrics.SelectionTransitionsTotal.WithLabelValues(triggerRebuild, string(transition)).Inc()
	}

	metrics.RegionUpdatesTotal.WithLabelValues(metrics.UpdateCommitted).Inc()

	update.Committed = true
	update.RenderedGroups = len(next.groups)
	update.AddressableFeatures = len(next.byID)

	logger.Info("Regions update committed",
		slog.Uint64("generation", generation),
		slog.Int("declarations", update.Declarations),
		slog.Int("groups", update.RenderedGroups),
		slog.Int("addressable_features", update.AddressableFeatures),
	)

	return update, nil
}

// SetSelectedRegionID never publishes; only clicks do
func (s *widgetService) SetSelectedRegionID(ctx context.Context, regionID string) (*usecase.SelectionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.desiredID = regionID

	var transition usecase.Transition
	if regionID == "" {
		transition = s.selection.Clear()
	} else {
		transition = s.selection.SelectByID(s.index, regionID)
	}
	metrics.SelectionTransitionsTotal.WithLabelValues(triggerAttribute, string(transition)).Inc()

	s.loggerFrom(ctx).Debug("Selected region id changed",
		slog.String("region_id", regionID),
		slog.String("transition", string(transition)),
	)

	return s.selectionResult(transition), nil
}

func (s *widgetService) selectionResult(transition usecase.Transition) *usecase.SelectionResult {
	result := &usecase.SelectionResult{Transition: transition}
	if selected := s.selection.Selected(); selected != nil {
		result.SelectedTitle = selected.Title()
	}

	return result
}

type clickOutcomeKey struct{}

// clickOutcome carries the listener's result back to Click
type clickOutcome struct {
	handled bool
	result  *usecase.SelectionResult
}

// Click hands the click to the surface, which calls the listener of the group drawn for featureID
func (s *widgetService) Click(ctx context.Context, featureID string) (*usecase.SelectionResult, error) {
	if featureID == "" {
		return nil, domainerrors.ErrFeatureIDRequired
	}

	outcome := &clickOutcome{}
	if !s.surface.Click(context.WithValue(ctx, clickOutcomeKey{}, outcome), featureID) || !outcome.handled {
		return nil, domainerrors.ErrRegionNotFound
	}

	return outcome.result, nil
}

// onGroupClick is the listener attached to every rendered group. A re-click on the
// selected group changes nothing on the map but is still published.
func (s *widgetService) onGroupClick(ctx context.Context, group *RenderedGroup, clickedFeatureID string) {
	logger := s.loggerFrom(ctx)

	s.mu.Lock()
	if !s.index.owns(group) {
		s.mu.Unlock()
		logger.Debug("Ignoring click on a group from a replaced index",
			slog.Uint64("group_generation", group.generation),
		)

		return
	}
	// a feature id shared by several declarations belongs to the later one,
	// whichever group the surface dispatched the click to
	if owner, ok := s.index.Lookup(clickedFeatureID); ok {
		group = owner
	}
	transition := s.selection.SelectGroup(group)
	result := s.selectionResult(transition)
	s.mu.Unlock()

	metrics.SelectionTransitionsTotal.WithLabelValues(triggerClick, string(transition)).Inc()

	event := &entity.RegionSelectedEvent{
		EventID:    uuid.New().String(),
		RequestID:  deliverycontext.RequestID(ctx),
		RegionID:   clickedFeatureID,
		Title:      group.Title(),
		SelectedAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishRegionSelected(ctx, event); err != nil {
		metrics.EventPublishFailuresTotal.Inc()
		logger.Error("Failed to publish region selected event",
			slog.String("event_id", event.EventID),
			slog.String("region_id", clickedFeatureID),
			slog.Any("error", err),
		)
	} else {
		result.Published = true
	}

	if outcome, ok := ctx.Value(clickOutcomeKey{}).(*clickOutcome); ok {
		outcome.handled = true
		outcome.result = result
	}
}

// State returns the committed regions and the current selection
func (s *widgetService) State(ctx context.Context) *usecase.WidgetState {
	s.mu.Lock()
	defer s.mu.Unlock()

	selected := s.selection.Selected()

	state := &usecase.WidgetState{
		Generation:      s.index.generation,
		Attached:        s.attached,
		DesiredRegionID: s.desiredID,
		Regions:         make([]usecase.RegionState, 0, len(s.index.regions)),
		AddressableIDs:  s.index.FeatureIDs(),
	}
	if selected != nil {
		state.SelectedTitle = selected.Title()
	}

	for i, region := range s.index.regions {
		group := s.index.byDeclaration[i]

		featureIDs := make([]string, 0, len(region.Features))
		for _, feature := range region.Features {
			if feature.ID != "" {
				featureIDs = append(featureIDs, feature.ID)
			}
		}

		state.Regions = append(state.Regions, usecase.RegionState{
			Title:          region.Declaration.Title,
			SubRegionIDs:   region.Declaration.SubRegionIDs,
			PrimaryColor:   region.Declaration.PrimaryColor,
			SecondaryColor: region.Declaration.SecondaryColor,
			ScoutingHome:   region.Declaration.ScoutingHome,
			FeatureIDs:     featureIDs,
			Rendered:       group != nil,
			Selected:       group != nil && group == selected,
		})
	}

	return state
}
