package usecases

import (
	"strings"

	"github.com/samirrijal/campusmap/internal/core/domain"
)

// FilterByTitle returns the places whose title contains query, ignoring case.
// A blank query returns places unchanged.
func FilterByTitle(places []domain.Place, query string) []domain.Place {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return places
	}
	out := make([]domain.Place, 0, len(places))
	for _, p := range places {
		if strings.Contains(strings.ToLower(p.Title), q) {
			out = append(out, p)
		}
	}
	return out
}
