package usecases_test

import (
	"context"
	"sync"

	"github.com/samirrijal/campusmap/internal/core/domain"
)

// --- Mock SlotStore ---

// mockSlots is a map-backed slot store whose calls can be overridden per test.
type mockSlots struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int

	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte) error
}

func newMockSlots() *mockSlots {
	return &mockSlots{data: make(map[string][]byte)}
}

func (m *mockSlots) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, domain.ErrSlotEmpty
	}
	return append([]byte(nil), v...), nil
}

func (m *mockSlots) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *mockSlots) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *mockSlots) Ping(ctx context.Context) error { return nil }

func (m *mockSlots) raw(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.data[key])
}

// --- Mock Notifier ---

type mockNotifier struct {
	notices []domain.Notice
	err     error
}

func (m *mockNotifier) Notify(ctx context.Context, n domain.Notice) error {
	m.notices = append(m.notices, n)
	return m.err
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	events []domain.PlaceEvent
	err    error
}

func (m *mockPublisher) PublishPlaceEvent(ctx context.Context, e *domain.PlaceEvent) error {
	m.events = append(m.events, *e)
	return m.err
}

func (m *mockPublisher) types() []domain.PlaceEventType {
	out := make([]domain.PlaceEventType, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Type)
	}
	return out
}

// --- Mock PlaceObserver ---

type mockObserver struct {
	selected, edited, deleted []int64
}

func (m *mockObserver) OnSelect(ctx context.Context, id int64) { m.selected = append(m.selected, id) }
func (m *mockObserver) OnEdit(ctx context.Context, id int64)   { m.edited = append(m.edited, id) }
func (m *mockObserver) OnDelete(ctx context.Context, id int64) { m.deleted = append(m.deleted, id) }

func ids(places []domain.Place) []int64 {
	out := make([]int64, 0, len(places))
	for _, p := range places {
		out = append(out, p.ID)
	}
	return out
}
