package usecases

import (
	"math"
	"strconv"
	"strings"

	"github.com/samirrijal/campusmap/internal/core/domain"
)

// PlaceInput is the raw text a user typed into the add/edit dialog.
type PlaceInput struct {
	Title     string `json:"title"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// ParsePlaceInput validates dialog text and builds a place with a zero id.
func ParsePlaceInput(in PlaceInput) (domain.Place, error) {
	title := strings.TrimSpace(in.Title)
	latStr := strings.TrimSpace(in.Latitude)
	lonStr := strings.TrimSpace(in.Longitude)

	switch {
	case title == "":
		return domain.Place{}, &domain.InvalidInputError{Field: "title", Reason: "all fields are required"}
	case latStr == "":
		return domain.Place{}, &domain.InvalidInputError{Field: "latitude", Reason: "all fields are required"}
	case lonStr == "":
		return domain.Place{}, &domain.InvalidInputError{Field: "longitude", Reason: "all fields are required"}
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return domain.Place{}, &domain.InvalidInputError{Field: "latitude", Reason: "invalid coordinates"}
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return domain.Place{}, &domain.InvalidInputError{Field: "longitude", Reason: "invalid coordinates"}
	}
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return domain.Place{}, &domain.InvalidInputError{Reason: "invalid coordinates"}
	}
	if lat < -90 || lat > 90 {
		return domain.Place{}, &domain.InvalidInputError{Field: "latitude", Reason: "must be between -90 and 90"}
	}
	if lon < -180 || lon > 180 {
		return domain.Place{}, &domain.InvalidInputError{Field: "longitude", Reason: "must be between -180 and 180"}
	}

	return domain.Place{Title: title, Latitude: lat, Longitude: lon}, nil
}
