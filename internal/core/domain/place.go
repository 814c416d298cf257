package domain

// Reserved id range for built-in seed records. Any other id belongs to a
// user-created place.
const (
	SeedIDMin int64 = 1001
	SeedIDMax int64 = 1020
)

// Place is a named point of interest on the campus map.
type Place struct {
	ID        int64   `json:"id" mapstructure:"id"`
	Title     string  `json:"title" mapstructure:"title"`
	Latitude  float64 `json:"latitude" mapstructure:"latitude"`
	Longitude float64 `json:"longitude" mapstructure:"longitude"`
}

// IsSeed reports whether the place id falls inside the reserved seed range.
func (p Place) IsSeed() bool {
	return IsSeedID(p.ID)
}

// Point returns the place location as a GeoPoint.
func (p Place) Point() GeoPoint {
	return GeoPoint{Lat: p.Latitude, Lon: p.Longitude}
}

// IsSeedID reports whether id is reserved for seed records.
func IsSeedID(id int64) bool {
	return id >= SeedIDMin && id <= SeedIDMax
}

// PlaceEventType identifies what happened to a place.
type PlaceEventType string

const (
	PlaceCreated  PlaceEventType = "created"
	PlaceEdited   PlaceEventType = "edited"
	PlaceDeleted  PlaceEventType = "deleted"
	PlaceSelected PlaceEventType = "selected"
)

// PlaceEvent is broadcast to live clients when the place list changes.
type PlaceEvent struct {
	Type    PlaceEventType `json:"type"`
	PlaceID int64          `json:"place_id"`
	Place   *Place         `json:"place,omitempty"`
}

// Notice is a one-off message shown to the user (e.g. after the first launch).
type Notice struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// MapView describes how the client should frame the campus map.
type MapView struct {
	Center          GeoPoint `json:"center"`
	Zoom            float64  `json:"zoom"`
	FocusZoom       float64  `json:"focus_zoom"`
	HighlightRadius float64  `json:"highlight_radius_m"`
}

// Highlight is the circle drawn around the selected place.
type Highlight struct {
	PlaceID int64    `json:"place_id"`
	Center  GeoPoint `json:"center"`
	Radius  float64  `json:"radius_m"`
	Zoom    float64  `json:"zoom"`
}
