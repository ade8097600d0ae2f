package impl

import (
	"context"
	"log/slog"
	"sort"

	"regionmap/internal/domain/entity"
	"regionmap/internal/domain/service"
)

// RenderedGroup is the clickable unit drawn for one declaration
type RenderedGroup struct {
	generation  uint64
	declaration entity.RegionDeclaration
	features    []*entity.FetchedFeature
	handle      service.Group
}

// Title returns the title of the declaration the group was built from
func (g *RenderedGroup) Title() string {
	return g.declaration.Title
}

type groupClickFunc func(ctx context.Context, group *RenderedGroup, clickedFeatureID string)

// featureIndex maps feature identifiers to the group drawn for them. A built
// index is never mutated; a regions update builds a new one and swaps it in.
type featureIndex struct {
	generation uint64
	regions    []ResolvedRegion
	// byDeclaration is aligned with regions; nil where nothing resolved
	byDeclaration []*RenderedGroup
	groups        []*RenderedGroup
	byID          map[string]*RenderedGroup
}

func emptyFeatureIndex() *featureIndex {
	return &featureIndex{byID: map[string]*RenderedGroup{}}
}

// buildFeatureIndex creates one detached group per declaration with at least one feature
func buildFeatureIndex(
	generation uint64,
	resolved []ResolvedRegion,
	surface service.Surface,
	style entity.Style,
	onClick groupClickFunc,
	logger *slog.Logger,
) *featureIndex {
	index := &featureIndex{
		generation:    generation,
		regions:       resolved,
		byDeclaration: make([]*RenderedGroup, len(resolved)),
		byID:          make(map[string]*RenderedGroup),
	}

	for i, region := range resolved {
		if len(region.Features) == 0 {
			continue
		}

		group := &RenderedGroup{
			generation:  generation,
			declaration: region.Declaration,
			features:    region.Features,
		}
		group.handle = surface.NewGroup(service.GroupSpec{
			Title:          region.Declaration.Title,
			PrimaryColor:   region.Declaration.PrimaryColor,
			SecondaryColor: region.Declaration.SecondaryColor,
			Features:       region.Features,
			Style:          style,
		})
		group.handle.OnClick(func(ctx context.Context, clickedFeatureID string) {
			onClick(ctx, group, clickedFeatureID)
		})

		for _, feature := range region.Features {
			if feature.ID == "" {
				logger.Info("Feature has no identifier and cannot be selected",
					slog.String("title", region.Declaration.Title),
					slog.String("sub_region_id", feature.SubRegionID),
				)

				continue
			}
			if previous, ok := index.byID[feature.ID]; ok && previous != group {
				logger.Debug("Feature identifier declared twice, later region wins",
					slog.String("feature_id", feature.ID),
					slog.String("previous", previous.Title()),
					slog.String("current", group.Title()),
				)
			}
			index.byID[feature.ID] = group
		}

		index.byDeclaration[i] = group
		index.groups = append(index.groups, group)
	}

	return index
}

// Lookup returns the group a feature identifier belongs to
func (i *featureIndex) Lookup(featureID string) (*RenderedGroup, bool) {
	if featureID == "" {
		return nil, false
	}
	group, ok := i.byID[featureID]

	return group, ok
}

// FeatureIDs returns every addressable identifier, sorted
func (i *featureIndex) FeatureIDs() []string {
	ids := make([]string, 0, len(i.byID))
	for id := range i.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

func (i *featureIndex) owns(group *RenderedGroup) bool {
	return group != nil && group.generation == i.generation && i.contains(group)
}

func (i *featureIndex) contains(group *RenderedGroup) bool {
	for _, candidate := range i.groups {
		if candidate == group {
			return true
		}
	}

	return false
}

func (i *featureIndex) attach(surface service.Surface) {
	for _, group := range i.groups {
		surface.AddGroup(group.handle)
	}
}

func (i *featureIndex) detach(surface service.Surface) {
	for _, group := range i.groups {
		surface.RemoveGroup(group.handle)
	}
}
