package usecases

import (
	"github.com/samirrijal/campusmap/internal/core/domain"
)

// NoSelection is the index reported when nothing is selected.
const NoSelection = -1

// Selection tracks the one highlighted row of the current place list.
type Selection struct {
	places []domain.Place
	index  int
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{index: NoSelection}
}

// Replace swaps the backing list and resets the index to the first row.
func (s *Selection) Replace(places []domain.Place) {
	s.places = places
	if len(places) > 0 {
		s.index = 0
	} else {
		s.index = NoSelection
	}
}

// Select moves the selection to i, clamped into the list bounds.
func (s *Selection) Select(i int) int {
	switch {
	case len(s.places) == 0:
		s.index = NoSelection
	case i < 0:
		s.index = 0
	case i >= len(s.places):
		s.index = len(s.places) - 1
	default:
		s.index = i
	}
	return s.index
}

// SelectID selects the first row holding id.
func (s *Selection) SelectID(id int64) (int, bool) {
	for i, p := range s.places {
		if p.ID == id {
			s.index = i
			return i, true
		}
	}
	return s.index, false
}

// SelectPosition selects the first row whose coordinates equal lat/lon exactly.
// Marker taps carry only a position; prefer SelectID when the id is known.
func (s *Selection) SelectPosition(lat, lon float64) (int, bool) {
	for i, p := range s.places {
		if p.Latitude == lat && p.Longitude == lon {
			s.index = i
			return i, true
		}
	}
	return s.index, false
}

// Index returns the selected row, or NoSelection.
func (s *Selection) Index() int {
	if s.index >= len(s.places) {
		return NoSelection
	}
	return s.index
}

// Places returns the list the selection indexes into.
func (s *Selection) Places() []domain.Place {
	return s.places
}

// Selected returns the selected place.
func (s *Selection) Selected() (domain.Place, bool) {
	i := s.Index()
	if i < 0 {
		return domain.Place{}, false
	}
	return s.places[i], true
}

// Highlight returns the circle to draw around the selected place.
func (s *Selection) Highlight(view domain.MapView) (domain.Highlight, bool) {
	p, ok := s.Selected()
	if !ok {
		return domain.Highlight{}, false
	}
	return domain.Highlight{
		PlaceID: p.ID,
		Center:  p.Point(),
		Radius:  view.HighlightRadius,
		Zoom:    view.FocusZoom,
	}, true
}
