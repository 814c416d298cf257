package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/samirrijal/campusmap/internal/core/domain"
	"github.com/samirrijal/campusmap/internal/core/usecases"
)

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func TestPlaceStore_LoadEmpty(t *testing.T) {
	store := usecases.NewPlaceStore(newMockSlots(), "")

	places, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if places == nil || len(places) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", places)
	}
	if store.Key() != usecases.DefaultPlacesKey {
		t.Errorf("expected default key, got %q", store.Key())
	}
}

func TestPlaceStore_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	slots := newMockSlots()
	store := usecases.NewPlaceStore(slots, "custom")

	want := []domain.Place{
		{ID: 1001, Title: "A", Latitude: 19.1, Longitude: -103.1},
		{ID: 1700000000000, Title: "Café ñandú", Latitude: -0.5, Longitude: 179.999999999},
	}
	if err := store.Save(ctx, want); err != nil {
		t.Fatal(err)
	}
	if slots.sets != 1 {
		t.Errorf("expected a single write, got %d", slots.sets)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestPlaceStore_SaveNilWritesEmptyList(t *testing.T) {
	slots := newMockSlots()
	store := usecases.NewPlaceStore(slots, "")

	if err := store.Save(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if got := slots.raw(usecases.DefaultPlacesKey); got != "[]" {
		t.Errorf("expected [], got %q", got)
	}
}

func TestPlaceStore_LoadCorrupt(t *testing.T) {
	slots := newMockSlots()
	slots.data[usecases.DefaultPlacesKey] = []byte(`[{"id":`)
	store := usecases.NewPlaceStore(slots, "")

	_, err := store.Load(context.Background())
	if !errors.Is(err, domain.ErrCorruptData) {
		t.Fatalf("expected ErrCorruptData, got %v", err)
	}
	var cde *domain.CorruptDataError
	if !errors.As(err, &cde) || cde.Key != usecases.DefaultPlacesKey {
		t.Errorf("expected CorruptDataError for %s, got %#v", usecases.DefaultPlacesKey, err)
	}
}

func TestPlaceStore_LoadNullIsEmpty(t *testing.T) {
	slots := newMockSlots()
	slots.data[usecases.DefaultPlacesKey] = []byte("null")

	places, err := usecases.NewPlaceStore(slots, "").Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if places == nil || len(places) != 0 {
		t.Errorf("expected empty slice, got %#v", places)
	}
}

func TestPlaceStore_SlotError(t *testing.T) {
	boom := errors.New("disk gone")
	slots := newMockSlots()
	slots.getFn = func(ctx context.Context, key string) ([]byte, error) { return nil, boom }

	_, err := usecases.NewPlaceStore(slots, "").Load(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped slot error, got %v", err)
	}
}

func TestPlaceStore_AddAssignsTimestampID(t *testing.T) {
	ctx := context.Background()
	store := usecases.NewPlaceStore(newMockSlots(), "").WithClock(fixedClock(1700000000123))

	p, err := store.Add(ctx, domain.Place{Title: "X", Latitude: 1, Longitude: 2})
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != 1700000000123 {
		t.Errorf("expected clock id, got %d", p.ID)
	}

	kept, err := store.Add(ctx, domain.Place{ID: 7, Title: "Y"})
	if err != nil {
		t.Fatal(err)
	}
	if kept.ID != 7 {
		t.Errorf("expected explicit id to be kept, got %d", kept.ID)
	}

	places, _ := store.Load(ctx)
	if diff := cmp.Diff([]int64{1700000000123, 7}, ids(places)); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestPlaceStore_AddSameMillisecondGetsDistinctIDs(t *testing.T) {
	ctx := context.Background()
	store := usecases.NewPlaceStore(newMockSlots(), "").WithClock(fixedClock(1700000000000))

	a, err := store.Add(ctx, domain.Place{Title: "A", Latitude: 1, Longitude: 1})
	if err != nil {
		t.Fatal(err)
	}
	b, err := store.Add(ctx, domain.Place{Title: "B", Latitude: 2, Longitude: 2})
	if err != nil {
		t.Fatal(err)
	}
	if a.ID != 1700000000000 || b.ID != 1700000000001 {
		t.Fatalf("expected consecutive ids, got %d and %d", a.ID, b.ID)
	}

	if err := store.Delete(ctx, a); err != nil {
		t.Fatal(err)
	}
	got, err := store.Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("deleting A must keep B: %v", err)
	}
	if got.Title != "B" {
		t.Errorf("expected B, got %q", got.Title)
	}
}

func TestPlaceStore_AddBumpsPastLargerStoredID(t *testing.T) {
	ctx := context.Background()
	store := usecases.NewPlaceStore(newMockSlots(), "").WithClock(fixedClock(1700000000000))
	_ = store.Save(ctx, []domain.Place{
		{ID: 1700000000000, Title: "now"},
		{ID: 1700000000500, Title: "later"},
	})

	p, err := store.Add(ctx, domain.Place{Title: "X"})
	if err != nil {
		t.Fatal(err)
	}
	if p.ID != 1700000000501 {
		t.Errorf("expected id past the largest stored id, got %d", p.ID)
	}
}

func TestPlaceStore_UpdateFirstMatchOnly(t *testing.T) {
	ctx := context.Background()
	store := usecases.NewPlaceStore(newMockSlots(), "")
	_ = store.Save(ctx, []domain.Place{
		{ID: 5, Title: "old"},
		{ID: 6, Title: "other"},
		{ID: 5, Title: "dup"},
	})

	if err := store.Update(ctx, domain.Place{ID: 5, Title: "new", Latitude: 1}); err != nil {
		t.Fatal(err)
	}
	got, _ := store.Load(ctx)
	want := []domain.Place{
		{ID: 5, Title: "new", Latitude: 1},
		{ID: 6, Title: "other"},
		{ID: 5, Title: "dup"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestPlaceStore_UpdateUnknownIsNoop(t *testing.T) {
	ctx := context.Background()
	slots := newMockSlots()
	store := usecases.NewPlaceStore(slots, "")
	_ = store.Save(ctx, []domain.Place{{ID: 1, Title: "a"}})
	before := slots.sets

	if err := store.Update(ctx, domain.Place{ID: 2, Title: "b"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if slots.sets != before {
		t.Error("update of unknown id must not write")
	}
}

func TestPlaceStore_DeleteAllMatches(t *testing.T) {
	ctx := context.Background()
	store := usecases.NewPlaceStore(newMockSlots(), "")
	_ = store.Save(ctx, []domain.Place{{ID: 5}, {ID: 6}, {ID: 5}})

	for i := 0; i < 2; i++ {
		if err := store.Delete(ctx, domain.Place{ID: 5}); err != nil {
			t.Fatal(err)
		}
	}
	got, _ := store.Load(ctx)
	if diff := cmp.Diff([]int64{6}, ids(got)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestPlaceStore_Get(t *testing.T) {
	ctx := context.Background()
	store := usecases.NewPlaceStore(newMockSlots(), "")
	_ = store.Save(ctx, []domain.Place{{ID: 1, Title: "a"}})

	p, err := store.Get(ctx, 1)
	if err != nil || p.Title != "a" {
		t.Errorf("expected place a, got %+v, %v", p, err)
	}
	if _, err := store.Get(ctx, 2); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
