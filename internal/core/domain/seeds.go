package domain

import (
	"fmt"
	"sort"
)

// SeedSet is an ordered, named collection of built-in places. The reconciler
// writes it at the front of the store on every launch.
type SeedSet struct {
	Name   string  `json:"name" mapstructure:"name"`
	Places []Place `json:"places" mapstructure:"places"`
}

// DefaultSeedVariant is the seed set shipped with the app.
const DefaultSeedVariant = "campus_central"

var seedVariants = map[string][]Place{
	DefaultSeedVariant: {
		{ID: 1001, Title: "Facultad de Telemática", Latitude: 19.249197348831245, Longitude: -103.69736392365898},
		{ID: 1002, Title: "Rectoría Universidad de Colima", Latitude: 19.248844923842494, Longitude: -103.69875992175082},
		{ID: 1003, Title: "Facultad de Contabilidad y Administración", Latitude: 19.249034229016686, Longitude: -103.7000273493406},
		{ID: 1004, Title: "Facultad de Ciencias", Latitude: 19.244034959510827, Longitude: -103.70286018672438},
		{ID: 1005, Title: "Facultad de Ingeniería Civil", Latitude: 19.212860289021403, Longitude: -103.80435467458996},
		{ID: 1006, Title: "Biblioteca Ciencias de la Salud", Latitude: 19.247286485775675, Longitude: -103.69754462336094},
		{ID: 1007, Title: "Centro Universitario de Investigaciones Sociales", Latitude: 19.244279327390228, Longitude: -103.70141146109604},
		{ID: 1008, Title: "Facultad de Pedagogía", Latitude: 19.266288285542032, Longitude: -103.74282020342453},
		{ID: 1009, Title: "Facultad de Letras y Comunicación", Latitude: 19.248357150941153, Longitude: -103.6978450457537},
		{ID: 1010, Title: "Facultad de Psicología", Latitude: 19.248626285724974, Longitude: -103.69707357077569},
		{ID: 1011, Title: "Cafetería Central", Latitude: 19.249643986414963, Longitude: -103.69895211377904},
		{ID: 1012, Title: "Teatro Universitario", Latitude: 19.262466455159373, Longitude: -103.68589491308768},
		{ID: 1013, Title: "Centro de Idiomas", Latitude: 19.249462748643307, Longitude: -103.698480946333},
		{ID: 1014, Title: "Gimnasio Universitario", Latitude: 19.246463812710846, Longitude: -103.69850765530549},
		{ID: 1015, Title: "Alberca Olímpica", Latitude: 19.24598759583211, Longitude: -103.70221641876695},
		{ID: 1016, Title: "Estadio Universitario", Latitude: 19.246256812026072, Longitude: -103.70113890388686},
		{ID: 1017, Title: "Centro de Cómputo", Latitude: 19.249066455325533, Longitude: -103.69915400261941},
		{ID: 1018, Title: "Facultad de Derecho", Latitude: 19.261266216662275, Longitude: -103.68722668010331},
		{ID: 1019, Title: "Centro de Investigación Científica y Educación Superior", Latitude: 19.24411025478013, Longitude: -103.70140488992524},
		{ID: 1020, Title: "Plaza Cívica Campus Central", Latitude: 19.247594154419595, Longitude: -103.69980902211155},
	},
}

// SeedVariants returns the names of the built-in seed sets, sorted.
func SeedVariants() []string {
	names := make([]string, 0, len(seedVariants))
	for name := range seedVariants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupSeedSet returns a copy of a built-in seed set by name.
func LookupSeedSet(name string) (SeedSet, error) {
	places, ok := seedVariants[name]
	if !ok {
		return SeedSet{}, fmt.Errorf("unknown seed variant %q", name)
	}
	out := make([]Place, len(places))
	copy(out, places)
	return SeedSet{Name: name, Places: out}, nil
}

// DefaultSeedSet returns the Campus Central seed set.
func DefaultSeedSet() SeedSet {
	s, _ := LookupSeedSet(DefaultSeedVariant)
	return s
}

// Validate checks that every seed id is unique and inside the reserved range.
func (s SeedSet) Validate() error {
	if len(s.Places) == 0 {
		return fmt.Errorf("seed set %q is empty", s.Name)
	}
	seen := make(map[int64]bool, len(s.Places))
	for _, p := range s.Places {
		if !IsSeedID(p.ID) {
			return fmt.Errorf("seed set %q: id %d outside reserved range [%d, %d]", s.Name, p.ID, SeedIDMin, SeedIDMax)
		}
		if seen[p.ID] {
			return fmt.Errorf("seed set %q: duplicate id %d", s.Name, p.ID)
		}
		if p.Title == "" {
			return fmt.Errorf("seed set %q: id %d has no title", s.Name, p.ID)
		}
		if !p.Point().Valid() {
			return fmt.Errorf("seed set %q: id %d has out-of-range coordinates", s.Name, p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}
