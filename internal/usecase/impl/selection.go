package impl

import (
	"math"

	"regionmap/internal/domain/entity"
	"regionmap/internal/domain/service"
	"regionmap/internal/usecase"

	"github.com/paulmach/orb"
)

// selection is the at-most-one selected group. Styles are always replaced whole.
type selection struct {
	surface       service.Surface
	defaultStyle  entity.Style
	selectedStyle entity.Style

	selected *RenderedGroup
	// attached gates view changes; styles apply to detached groups too
	attached bool
}

func newSelection(surface service.Surface, defaultStyle, selectedStyle entity.Style) *selection {
	return &selection{
		surface:       surface,
		defaultStyle:  defaultStyle,
		selectedStyle: selectedStyle,
	}
}

// Selected returns the selected group, nil when nothing is selected
func (s *selection) Selected() *RenderedGroup {
	return s.selected
}

// SelectByID selects the group owning featureID. An unknown id deselects.
func (s *selection) SelectByID(index *featureIndex, featureID string) usecase.Transition {
	group, ok := index.Lookup(featureID)
	if !ok {
		return s.Clear()
	}

	return s.SelectGroup(group)
}

// SelectGroup selects an already resolved group. Reselecting the current group does nothing.
func (s *selection) SelectGroup(group *RenderedGroup) usecase.Transition {
	if group == s.selected {
		return usecase.TransitionNone
	}

	if s.selected != nil {
		s.selected.handle.SetStyle(s.defaultStyle)
	}

	group.handle.SetStyle(s.selectedStyle)
	group.handle.BringToFront()
	s.selected = group
	s.focus()

	return usecase.TransitionSelected
}

// Clear resets the selected group to the default style
func (s *selection) Clear() usecase.Transition {
	if s.selected == nil {
		return usecase.TransitionNone
	}

	s.selected.handle.SetStyle(s.defaultStyle)
	s.selected = nil

	return usecase.TransitionDeselected
}

// Invalidate forgets a selection whose group was detached by a rebuild
func (s *selection) Invalidate() {
	s.selected = nil
}

// Attach enables view changes and centers on the current selection
func (s *selection) Attach() {
	s.attached = true
	// attaching redraws every group, so the selection has to be raised again
	if s.selected != nil {
		s.selected.handle.BringToFront()
	}
	s.focus()
}

// focus pans to the selected group when its bounds are usable
func (s *selection) focus() {
	if !s.attached || s.selected == nil {
		return
	}

	bounds := s.selected.handle.Bounds()
	if !wellFormed(bounds) {
		return
	}

	s.surface.PanTo(bounds.Center())
}

func wellFormed(bounds orb.Bound) bool {
	if bounds.IsEmpty() {
		return false
	}
	for _, v := range []float64{bounds.Min.X(), bounds.Min.Y(), bounds.Max.X(), bounds.Max.Y()} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}
