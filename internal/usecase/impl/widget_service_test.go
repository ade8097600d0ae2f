package impl

import (
	"context"
	"testing"
	"time"

	"regionmap/config"
	"regionmap/internal/domain/entity"
	domainerrors "regionmap/internal/domain/errors"
	"regionmap/internal/domain/service"
	"regionmap/internal/infra/surface"
	mockservice "regionmap/internal/mocks/service"
	"regionmap/internal/usecase"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type widgetFixture struct {
	svc       usecase.WidgetUsecase
	fetcher   *fakeFetcher
	scene     *surface.Scene
	basemap   *fakeBasemap
	publisher *mockservice.MockEventPublisher
}

func newWidgetFixture(t *testing.T) *widgetFixture {
	t.Helper()

	cfg := &config.Config{
		Style: &config.StyleConfig{
			Default:  config.StyleValues{StrokeColor: "#BB7D5A", FillColor: "lightgray", Weight: 2, FillOpacity: 0.7},
			Selected: config.StyleValues{StrokeColor: "lightgray", FillColor: "#BB7D5A", Weight: 2, FillOpacity: 0.7},
		},
	}

	f := &widgetFixture{
		fetcher:   newFakeFetcher(),
		scene:     surface.NewScene(discardLogger()),
		basemap:   newFakeBasemap(),
		publisher: mockservice.NewMockEventPublisher(t),
	}
	f.svc = NewWidgetService(WidgetServiceParams{
		Config:    cfg,
		Fetcher:   f.fetcher,
		Surface:   f.scene,
		Basemap:   f.basemap,
		Publisher: f.publisher,
		Logger:    discardLogger(),
	})

	return f
}

func (f *widgetFixture) attach(t *testing.T) {
	t.Helper()
	require.NoError(t, f.svc.Attach(context.Background()))
}

// fillColors returns the fill color drawn for each feature id in the scene
func (f *widgetFixture) fillColors() map[string]any {
	colors := map[string]any{}
	for _, feature := range f.scene.Snapshot().Regions.Features {
		colors[feature.Properties["featureId"].(string)] = feature.Properties["fillColor"]
	}

	return colors
}

const regionA = `[{"title":"A","regionIds":["1"],"primaryColor":"#111","secondaryColor":"#222"}]`

func TestWidget_SelectThenDeselectUnknownID(t *testing.T) {
	ctx := context.Background()
	f := newWidgetFixture(t)
	f.fetcher.features["1"] = squareFeature(t, "1", "1", 7, 46)
	f.attach(t)

	update, err := f.svc.SetRegions(ctx, []byte(regionA))
	require.NoError(t, err)
	assert.True(t, update.Committed)
	assert.Equal(t, 1, update.RenderedGroups)
	assert.Contains(t, f.svc.State(ctx).AddressableIDs, "1")

	result, err := f.svc.SetSelectedRegionID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, usecase.TransitionSelected, result.Transition)
	assert.Equal(t, "A", result.SelectedTitle)
	assert.Equal(t, "#BB7D5A", f.fillColors()["1"])
	assert.Equal(t, orb.Point{7.5, 46.5}, f.scene.View().Center)

	result, err = f.svc.SetSelectedRegionID(ctx, "9")
	require.NoError(t, err)
	assert.Equal(t, usecase.TransitionDeselected, result.Transition)
	assert.Equal(t, "lightgray", f.fillColors()["1"])
	assert.Empty(t, f.svc.State(ctx).SelectedTitle)
}

func TestWidget_NotFoundGeometryIsNotSelectable(t *testing.T) {
	ctx := context.Background()
	f := newWidgetFixture(t)
	f.attach(t)

	update, err := f.svc.SetRegions(ctx, []byte(regionA))
	require.NoError(t, err)
	assert.True(t, update.Committed)
	assert.Zero(t, update.RenderedGroups)

	state := f.svc.State(ctx)
	assert.Empty(t, state.AddressableIDs)
	require.Len(t, state.Regions, 1)
	assert.False(t, state.Regions[0].Rendered)

	result, err := f.svc.SetSelectedRegionID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, usecase.TransitionNone, result.Transition)
	assert.Empty(t, f.scene.Snapshot().Regions.Features)
}

func TestWidget_InvalidRegionsKeepPreviousState(t *testing.T) {
	ctx := context.Background()
	f := newWidgetFixture(t)
	f.fetcher.features["1"] = squareFeature(t, "1", "1", 7, 46)
	f.attach(t)

	_, err := f.svc.SetRegions(ctx, []byte(regionA))
	require.NoError(t, err)

	update, err := f.svc.SetRegions(ctx, []byte(`[{"title":"B","regionIds":[""],"primaryColor":"#111","secondaryColor":"#222"}]`))
	assert.Nil(t, update)

	var validationErr *domainerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, domainerrors.CodeRegionIDInvalid, validationErr.Code)

	state := f.svc.State(ctx)
	assert.Equal(t, uint64(1), state.Generation)
	require.Len(t, state.Regions, 1)
	assert.Equal(t, "A", state.Regions[0].Title)
	assert.Len(t, f.scene.Snapshot().Regions.Features, 1)
}

func TestWidget_DesiredSelectionSurvivesRebuild(t *testing.T) {
	ctx := context.Background()
	f := newWidgetFixture(t)
	f.fetcher.features["1"] = squareFeature(t, "1", "1", 7, 46)
	f.fetcher.features["2"] = squareFeature(t, "2", "2", 8, 46)
	f.attach(t)

	// the id is desired before any region declares it
	result, err := f.svc.SetSelectedRegionID(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, usecase.TransitionNone, result.Transition)

	_, err = f.svc.SetRegions(ctx, []byte(`[
		{"title":"A","regionIds":["1"],"primaryColor":"#111","secondaryColor":"#222"},
		{"title":"B","regionIds":["2"],"primaryColor":"#333","secondaryColor":"#444"}
	]`))
	require.NoError(t, err)

	state := f.svc.State(ctx)
	assert.Equal(t, "B", state.SelectedTitle)
	assert.True(t, state.Regions[1].Selected)
	assert.Equal(t, "#BB7D5A", f.fillColors()["2"])

	// rebuilding with the same payload selects the new group again
	_, err = f.svc.SetRegions(ctx, []byte(`[{"title":"B2","regionIds":["2"],"primaryColor":"#333","secondaryColor":"#444"}]`))
	require.NoError(t, err)
	assert.Equal(t, "B2", f.svc.State(ctx).SelectedTitle)
	assert.Len(t, f.scene.Snapshot().Regions.Features, 1, "previous groups are detached")

	// clearing the attribute deselects and stops re-applying
	result, err = f.svc.SetSelectedRegionID(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, usecase.TransitionDeselected, result.Transition)

	_, err = f.svc.SetRegions(ctx, []byte(`[{"title":"B3","regionIds":["2"],"primaryColor":"#333","secondaryColor":"#444"}]`))
	require.NoError(t, err)
	assert.Empty(t, f.svc.State(ctx).SelectedTitle)
}

func TestWidget_StaleResolveIsDiscarded(t *testing.T) {
	ctx := context.Background()
	f := newWidgetFixture(t)
	f.fetcher.features["1"] = squareFeature(t, "1", "1", 7, 46)
	f.fetcher.features["2"] = squareFeature(t, "2", "2", 8, 46)
	gate := f.fetcher.gate("1")
	f.attach(t)

	type outcome struct {
		update *usecase.RegionsUpdate
		err    error
	}
	first := make(chan outcome, 1)
	go func() {
		update, err := f.svc.SetRegions(ctx, []byte(regionA))
		first <- outcome{update, err}
	}()

	require.Eventually(t, func() bool {
		f.fetcher.mu.Lock()
		defer f.fetcher.mu.Unlock()

		return f.fetcher.calls["1"] == 1
	}, time.Second, time.Millisecond)

	second, err := f.svc.SetRegions(ctx, []byte(`[{"title":"B","regionIds":["2"],"primaryColor":"#333","secondaryColor":"#444"}]`))
	require.NoError(t, err)
	assert.True(t, second.Committed)
	assert.Equal(t, uint64(2), second.Generation)

	close(gate)
	stale := <-first
	require.NoError(t, stale.err)
	assert.False(t, stale.update.Committed)
	assert.Equal(t, uint64(1), stale.update.Generation)

	state := f.svc.State(ctx)
	assert.Equal(t, uint64(2), state.Generation)
	assert.Equal(t, []string{"2"}, state.AddressableIDs)
	require.Len(t, state.Regions, 1)
	assert.Equal(t, "B", state.Regions[0].Title)

	_, err = f.svc.Click(ctx, "1")
	assert.ErrorIs(t, err, domainerrors.ErrRegionNotFound)
}

func TestWidget_ClickSelectsAndPublishes(t *testing.T) {
	ctx := context.Background()
	f := newWidgetFixture(t)
	f.fetcher.features["1"] = squareFeature(t, "1", "1", 7, 46)
	f.fetcher.features["2"] = squareFeature(t, "2", "2", 8, 46)
	f.attach(t)

	_, err := f.svc.SetRegions(ctx, []byte(`[{"title":"A","regionIds":["1","2"],"primaryColor":"#111","secondaryColor":"#222"}]`))
	require.NoError(t, err)

	var published []*entity.RegionSelectedEvent
	f.publisher.EXPECT().
		PublishRegionSelected(mock.Anything, mock.AnythingOfType("*entity.RegionSelectedEvent")).
		Run(func(_ context.Context, event *entity.RegionSelectedEvent) {
			published = append(published, event)
		}).
		Return(nil).
		Twice()

	result, err := f.svc.Click(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, usecase.TransitionSelected, result.Transition)
	assert.True(t, result.Published)
	assert.Equal(t, "#BB7D5A", f.fillColors()["1"], "the whole group is selected")

	// a re-click changes nothing on the map but is still reported
	result, err = f.svc.Click(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, usecase.TransitionNone, result.Transition)

	require.Len(t, published, 2)
	assert.Equal(t, "2", published[0].RegionID)
	assert.Equal(t, "A", published[0].Title)
	assert.NotEmpty(t, published[0].EventID)
	assert.Equal(t, "1", published[1].RegionID)

	assert.Empty(t, f.svc.State(ctx).DesiredRegionID, "clicks do not change the selected id attribute")
}

func TestWidget_AttributeSelectionNeverPublishes(t *testing.T) {
	ctx := context.Background()
	f := newWidgetFixture(t)
	f.fetcher.features["1"] = squareFeature(t, "1", "1", 7, 46)
	f.attach(t)

	_, err := f.svc.SetRegions(ctx, []byte(regionA))
	require.NoError(t, err)

	_, err = f.svc.SetSelectedRegionID(ctx, "1")
	require.NoError(t, err)

	f.publisher.AssertNotCalled(t, "PublishRegionSelected", mock.Anything, mock.Anything)
}

func TestWidget_ClickErrors(t *testing.T) {
	ctx := context.Background()
	f := newWidgetFixture(t)
	f.fetcher.features["1"] = squareFeature(t, "1", "1", 7, 46)
	f.attach(t)

	_, err := f.svc.Click(ctx, "")
	assert.ErrorIs(t, err, domainerrors.ErrFeatureIDRequired)

	_, err = f.svc.Click(ctx, "1")
	assert.ErrorIs(t, err, domainerrors.ErrRegionNotFound)
}

func TestWidget_PublishFailureStillSelects(t *testing.T) {
	ctx := context.Background()
	f := newWidgetFixture(t)
	f.fetcher.features["1"] = squareFeature(t, "1", "1", 7, 46)
	f.attach(t)

	_, err := f.svc.SetRegions(ctx, []byte(regionA))
	require.NoError(t, err)

	f.publisher.EXPECT().PublishRegionSelected(mock.Anything, mock.Anything).Return(errors.New("topic unavailable")).Once()

	result, err := f.svc.Click(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, usecase.TransitionSelected, result.Transition)
	assert.False(t, result.Published)
}

func TestWidget_RegionsBeforeAttachAreDrawnOnAttach(t *testing.T) {
	ctx := context.Background()
	f := newWidgetFixture(t)
	f.fetcher.features["1"] = squareFeature(t, "1", "1", 7, 46)

	_, err := f.svc.SetRegions(ctx, []byte(regionA))
	require.NoError(t, err)
	_, err = f.svc.SetSelectedRegionID(ctx, "1")
	require.NoError(t, err)

	assert.Empty(t, f.scene.Snapshot().Regions.Features)
	assert.False(t, f.svc.State(ctx).Attached)

	f.attach(t)
	f.attach(t)

	snapshot := f.scene.Snapshot()
	require.Len(t, snapshot.Regions.Features, 1)
	assert.Equal(t, "#BB7D5A", snapshot.Regions.Features[0].Properties["fillColor"])
	assert.Equal(t, orb.Point{7.5, 46.5}, snapshot.Center, "attach centers on the selection")
	assert.Equal(t, float64(11), snapshot.Zoom)
	assert.True(t, f.svc.State(ctx).Attached)
}

func TestWidget_SelectionBeforeAttachStaysOnTop(t *testing.T) {
	ctx := context.Background()
	f := newWidgetFixture(t)
	f.fetcher.features["1"] = squareFeature(t, "1", "1", 7, 46)
	f.fetcher.features["2"] = squareFeature(t, "2", "2", 8, 46)

	_, err := f.svc.SetRegions(ctx, []byte(`[
		{"title":"A","regionIds":["1"],"primaryColor":"#111","secondaryColor":"#222"},
		{"title":"B","regionIds":["2"],"primaryColor":"#333","secondaryColor":"#444"}
	]`))
	require.NoError(t, err)
	_, err = f.svc.SetSelectedRegionID(ctx, "1")
	require.NoError(t, err)

	f.attach(t)

	zIndex := map[string]int{}
	for _, feature := range f.scene.Snapshot().Regions.Features {
		zIndex[feature.Properties["featureId"].(string)] = feature.Properties["zIndex"].(int)
	}
	require.Len(t, zIndex, 2)
	assert.Greater(t, zIndex["1"], zIndex["2"], "the selected group is drawn above the others")
}

func TestWidget_ClickOnSharedIDSelectsLaterDeclaration(t *testing.T) {
	ctx := context.Background()
	f := newWidgetFixture(t)
	f.fetcher.features["1"] = squareFeature(t, "1", "1", 7, 46)
	f.fetcher.features["7"] = squareFeature(t, "7", "7", 8, 46)
	f.attach(t)

	_, err := f.svc.SetRegions(ctx, []byte(`[
		{"title":"A","regionIds":["1","7"],"primaryColor":"#111","secondaryColor":"#222"},
		{"title":"B","regionIds":["7"],"primaryColor":"#333","secondaryColor":"#444"}
	]`))
	require.NoError(t, err)

	var titles []string
	f.publisher.EXPECT().
		PublishRegionSelected(mock.Anything, mock.AnythingOfType("*entity.RegionSelectedEvent")).
		Run(func(_ context.Context, event *entity.RegionSelectedEvent) {
			titles = append(titles, event.Title)
		}).
		Return(nil).
		Twice()

	// raises A, which then sits on top of B on the surface
	result, err := f.svc.Click(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "A", result.SelectedTitle)

	result, err = f.svc.Click(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, usecase.TransitionSelected, result.Transition)
	assert.Equal(t, "B", result.SelectedTitle)

	byID, err := f.svc.SetSelectedRegionID(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, "B", byID.SelectedTitle, "clicks and ids agree on the owner")

	assert.Equal(t, []string{"A", "B"}, titles)
}

func TestWidget_AttachFailure(t *testing.T) {
	f := newWidgetFixture(t)
	f.basemap.loadErr = errors.New("tiles unreachable")

	err := f.svc.Attach(context.Background())

	var loadErr *domainerrors.RenderSurfaceLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.False(t, f.svc.State(context.Background()).Attached)
}

func TestWidget_AttachHonoursContext(t *testing.T) {
	f := newWidgetFixture(t)
	basemap := &blockingBasemap{fakeBasemap: newFakeBasemap()}
	f.svc.(*widgetService).basemap = basemap

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.svc.Attach(ctx)

	var loadErr *domainerrors.RenderSurfaceLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.ErrorIs(t, err, context.Canceled)
}

// blockingBasemap loads but never becomes ready
type blockingBasemap struct {
	*fakeBasemap
}

func (b *blockingBasemap) Load(context.Context) error { return nil }

var _ service.Basemap = (*blockingBasemap)(nil)
