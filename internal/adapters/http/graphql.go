package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/campusmap/internal/core/domain"
	"github.com/samirrijal/campusmap/internal/core/usecases"
)

// Ids are millisecond timestamps and overflow GraphQL Int, so they travel as ID.
func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseID(v interface{}) (int64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("id must be a string")
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func placeMap(p domain.Place) map[string]interface{} {
	return map[string]interface{}{
		"id":        formatID(p.ID),
		"title":     p.Title,
		"latitude":  p.Latitude,
		"longitude": p.Longitude,
		"seed":      p.IsSeed(),
	}
}

func highlightMap(h *domain.Highlight) map[string]interface{} {
	if h == nil {
		return nil
	}
	return map[string]interface{}{
		"place_id": formatID(h.PlaceID),
		"center":   map[string]interface{}{"lat": h.Center.Lat, "lon": h.Center.Lon},
		"radius":   h.Radius,
		"zoom":     h.Zoom,
	}
}

// buildSchema creates the GraphQL schema wired to the place service.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	placeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Place",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.ID},
			"title":     &graphql.Field{Type: graphql.String},
			"latitude":  &graphql.Field{Type: graphql.Float},
			"longitude": &graphql.Field{Type: graphql.Float},
			"seed":      &graphql.Field{Type: graphql.Boolean},
			"distance":  &graphql.Field{Type: graphql.Float},
		},
	})

	highlightType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Highlight",
		Fields: graphql.Fields{
			"place_id": &graphql.Field{Type: graphql.ID},
			"center":   &graphql.Field{Type: geoPointType},
			"radius":   &graphql.Field{Type: graphql.Float},
			"zoom":     &graphql.Field{Type: graphql.Float},
		},
	})

	mapViewType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MapView",
		Fields: graphql.Fields{
			"center":           &graphql.Field{Type: geoPointType},
			"zoom":             &graphql.Field{Type: graphql.Float},
			"focus_zoom":       &graphql.Field{Type: graphql.Float},
			"highlight_radius": &graphql.Field{Type: graphql.Float},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"places": &graphql.Field{
				Type:        graphql.NewList(placeType),
				Description: "List stored places, optionally filtered by title",
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q, _ := p.Args["query"].(string)
					places, err := deps.Places.List(p.Context, q)
					if err != nil {
						return nil, err
					}
					out := make([]map[string]interface{}, 0, len(places))
					for _, pl := range places {
						out = append(out, placeMap(pl))
					}
					return out, nil
				},
			},
			"place": &graphql.Field{
				Type:        placeType,
				Description: "Get a place by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := parseID(p.Args["id"])
					if err != nil {
						return nil, err
					}
					pl, err := deps.Places.Get(p.Context, id)
					if err != nil {
						return nil, err
					}
					return placeMap(*pl), nil
				},
			},
			"placesNearby": &graphql.Field{
				Type:        graphql.NewList(placeType),
				Description: "Find places near a location, nearest first",
				Args: graphql.FieldConfigArgument{
					"lat":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 500.0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					radius := p.Args["radius"].(float64)
					nearby, err := deps.Places.Nearby(p.Context, lat, lon, radius)
					if err != nil {
						return nil, err
					}
					return nearbyMaps(nearby), nil
				},
			},
			"selection": &graphql.Field{
				Type:        highlightType,
				Description: "The highlighted place, if any",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					h, _ := deps.Places.Selection()
					return highlightMap(h), nil
				},
			},
			"mapView": &graphql.Field{
				Type:        mapViewType,
				Description: "Initial camera framing",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					v := deps.Places.MapView()
					return map[string]interface{}{
						"center":           map[string]interface{}{"lat": v.Center.Lat, "lon": v.Center.Lon},
						"zoom":             v.Zoom,
						"focus_zoom":       v.FocusZoom,
						"highlight_radius": v.HighlightRadius,
					}, nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"addPlace": &graphql.Field{
				Type:        placeType,
				Description: "Add a user place",
				Args: graphql.FieldConfigArgument{
					"title":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"latitude":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"longitude": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"id":        &graphql.ArgumentConfig{Type: graphql.ID, Description: "Defaults to a generated id"},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					place := domain.Place{
						Title:     p.Args["title"].(string),
						Latitude:  p.Args["latitude"].(float64),
						Longitude: p.Args["longitude"].(float64),
					}
					if raw, ok := p.Args["id"]; ok && raw != nil {
						id, err := parseID(raw)
						if err != nil {
							return nil, err
						}
						place.ID = id
					}
					pl, err := deps.Places.Import(p.Context, place)
					if err != nil {
						return nil, err
					}
					return placeMap(*pl), nil
				},
			},
			"selectPlace": &graphql.Field{
				Type:        highlightType,
				Description: "Highlight a place in the current list",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := parseID(p.Args["id"])
					if err != nil {
						return nil, err
					}
					h, err := deps.Places.Select(p.Context, id)
					if err != nil {
						return nil, err
					}
					return highlightMap(h), nil
				},
			},
			"deletePlace": &graphql.Field{
				Type:        graphql.Boolean,
				Description: "Delete a place; false when nothing matched",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := parseID(p.Args["id"])
					if err != nil {
						return nil, err
					}
					return deps.Places.Remove(p.Context, id)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

func nearbyMaps(nearby []usecases.NearbyPlace) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(nearby))
	for _, n := range nearby {
		m := placeMap(n.Place)
		m["distance"] = n.Distance
		out = append(out, m)
	}
	return out
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
