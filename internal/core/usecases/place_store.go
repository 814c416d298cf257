package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/samirrijal/campusmap/internal/core/domain"
	"github.com/samirrijal/campusmap/internal/core/ports"
)

// DefaultPlacesKey is the slot holding the serialized place list.
const DefaultPlacesKey = "places_list"

// PlaceStore loads and saves the full place list as one JSON blob in a slot.
// Every mutation is a read-modify-write of the whole list; callers must not
// run two mutations concurrently.
type PlaceStore struct {
	slots ports.SlotStore
	key   string
	now   func() time.Time
}

// NewPlaceStore creates a PlaceStore writing to the given slot key.
func NewPlaceStore(slots ports.SlotStore, key string) *PlaceStore {
	if key == "" {
		key = DefaultPlacesKey
	}
	return &PlaceStore{slots: slots, key: key, now: time.Now}
}

// WithClock overrides the clock used to generate ids for new places.
func (s *PlaceStore) WithClock(now func() time.Time) *PlaceStore {
	s.now = now
	return s
}

// Key returns the slot key the store writes to.
func (s *PlaceStore) Key() string {
	return s.key
}

// Load returns the stored places, or an empty slice if nothing was saved yet.
func (s *PlaceStore) Load(ctx context.Context) ([]domain.Place, error) {
	data, err := s.slots.Get(ctx, s.key)
	if errors.Is(err, domain.ErrSlotEmpty) {
		return []domain.Place{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %s: %w", s.key, err)
	}

	var places []domain.Place
	if err := json.Unmarshal(data, &places); err != nil {
		return nil, &domain.CorruptDataError{Key: s.key, Err: err}
	}
	if places == nil {
		places = []domain.Place{}
	}
	return places, nil
}

// Save overwrites the stored list with places.
func (s *PlaceStore) Save(ctx context.Context, places []domain.Place) error {
	if places == nil {
		places = []domain.Place{}
	}
	data, err := json.Marshal(places)
	if err != nil {
		return fmt.Errorf("encode places: %w", err)
	}
	if err := s.slots.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("write slot %s: %w", s.key, err)
	}
	return nil
}

// Add appends p to the stored list. A zero id is replaced with the current
// time in milliseconds, bumped past the largest stored id when that
// millisecond is already taken.
func (s *PlaceStore) Add(ctx context.Context, p domain.Place) (domain.Place, error) {
	places, err := s.Load(ctx)
	if err != nil {
		return domain.Place{}, err
	}
	if p.ID == 0 {
		p.ID = nextID(places, s.now().UnixMilli())
	}
	places = append(places, p)
	if err := s.Save(ctx, places); err != nil {
		return domain.Place{}, err
	}
	return p, nil
}

func nextID(places []domain.Place, now int64) int64 {
	var maxID int64
	taken := false
	for _, p := range places {
		if p.ID == now {
			taken = true
		}
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	if !taken {
		return now
	}
	return max(now, maxID+1)
}

// Update replaces the first stored place whose id matches p.ID.
// An unknown id leaves the store untouched.
func (s *PlaceStore) Update(ctx context.Context, p domain.Place) error {
	places, err := s.Load(ctx)
	if err != nil {
		return err
	}
	for i := range places {
		if places[i].ID == p.ID {
			places[i] = p
			return s.Save(ctx, places)
		}
	}
	return nil
}

// Delete removes every stored place sharing p.ID.
func (s *PlaceStore) Delete(ctx context.Context, p domain.Place) error {
	places, err := s.Load(ctx)
	if err != nil {
		return err
	}
	kept := places[:0]
	for _, existing := range places {
		if existing.ID != p.ID {
			kept = append(kept, existing)
		}
	}
	return s.Save(ctx, kept)
}

// Get returns the first stored place with the given id.
func (s *PlaceStore) Get(ctx context.Context, id int64) (domain.Place, error) {
	places, err := s.Load(ctx)
	if err != nil {
		return domain.Place{}, err
	}
	for _, p := range places {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Place{}, domain.ErrNotFound
}
