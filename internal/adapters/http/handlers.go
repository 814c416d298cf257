package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/campusmap/internal/core/domain"
	"github.com/samirrijal/campusmap/internal/core/usecases"
)

// selectionRequest picks a row either by id or by marker position.
type selectionRequest struct {
	ID  *int64   `json:"id"`
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// selectionResponse reports the highlighted row.
type selectionResponse struct {
	Index     int               `json:"index"`
	Highlight *domain.Highlight `json:"highlight"`
}

func placeID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// MapViewHandler returns the initial camera position and highlight settings.
func MapViewHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(deps.Places.MapView())
	}
}

// ListPlacesHandler returns stored places, filtered by title when q is set.
func ListPlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Query("q")
		if len(query) > 200 {
			return errBadRequest(c, "query too long (max 200 characters)")
		}

		places, err := deps.Places.List(c.UserContext(), query)
		if err != nil {
			return errFromDomain(c, err)
		}

		pg := parsePagination(c, len(places))
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page(places, pg), Pagination: pg})
	}
}

// NearbyPlacesHandler returns places within a radius of a point.
func NearbyPlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Query("lat") == "" || c.Query("lon") == "" {
			return errBadRequest(c, "lat and lon are required")
		}
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		radius := c.QueryFloat("radius", 500)

		if !(domain.GeoPoint{Lat: lat, Lon: lon}).Valid() {
			return errBadRequest(c, "lat/lon out of range")
		}
		if radius <= 0 || radius > 20000 {
			return errBadRequest(c, "radius must be between 1 and 20000 meters")
		}

		places, err := deps.Places.Nearby(c.UserContext(), lat, lon, radius)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(places)
	}
}

// GetPlaceHandler returns a single place by id.
func GetPlaceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := placeID(c)
		if !ok {
			return errBadRequest(c, "place id must be an integer")
		}
		p, err := deps.Places.Get(c.UserContext(), id)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(p)
	}
}

// CreatePlaceHandler adds a user place from dialog text fields.
func CreatePlaceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in usecases.PlaceInput
		if err := c.BodyParser(&in); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		p, err := deps.Places.Create(c.UserContext(), in)
		if err != nil {
			return errFromDomain(c, err)
		}
		c.Location("/v1/places/" + strconv.FormatInt(p.ID, 10))
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// UpdatePlaceHandler replaces the title and coordinates of a place.
func UpdatePlaceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := placeID(c)
		if !ok {
			return errBadRequest(c, "place id must be an integer")
		}
		var in usecases.PlaceInput
		if err := c.BodyParser(&in); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		p, err := deps.Places.Edit(c.UserContext(), id, in)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(p)
	}
}

// DeletePlaceHandler removes every place with the id. Deleting twice is fine.
func DeletePlaceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := placeID(c)
		if !ok {
			return errBadRequest(c, "place id must be an integer")
		}
		if _, err := deps.Places.Remove(c.UserContext(), id); err != nil {
			return errFromDomain(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GetSelectionHandler returns the highlighted row, if any.
func GetSelectionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h, idx := deps.Places.Selection()
		return c.JSON(selectionResponse{Index: idx, Highlight: h})
	}
}

// PutSelectionHandler selects a row by id, or by marker position.
func PutSelectionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req selectionRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		var err error
		switch {
		case req.ID != nil:
			_, err = deps.Places.Select(c.UserContext(), *req.ID)
		case req.Lat != nil && req.Lon != nil:
			_, err = deps.Places.SelectAt(c.UserContext(), *req.Lat, *req.Lon)
		default:
			return errBadRequest(c, "id or lat/lon is required")
		}
		if err != nil {
			return errFromDomain(c, err)
		}

		h, idx := deps.Places.Selection()
		return c.JSON(selectionResponse{Index: idx, Highlight: h})
	}
}

// ReconcileHandler re-runs the seed reconciliation.
func ReconcileHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := deps.Places.Launch(c.UserContext())
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(result)
	}
}
