package memory

import (
	"context"
	"sync"

	"github.com/samirrijal/campusmap/internal/core/domain"
)

// Slots implements ports.SlotStore in process memory. Data does not survive
// a restart; it backs tests and throwaway demo instances.
type Slots struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New creates an empty in-memory slot store.
func New() *Slots {
	return &Slots{data: make(map[string][]byte)}
}

func (s *Slots) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, domain.ErrSlotEmpty
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *Slots) Set(ctx context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)
	s.mu.Lock()
	s.data[key] = v
	s.mu.Unlock()
	return nil
}

func (s *Slots) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

func (s *Slots) Ping(ctx context.Context) error { return nil }
