package valkey

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/samirrijal/campusmap/internal/core/domain"
	"github.com/samirrijal/campusmap/internal/pkg/metrics"
)

// Slots implements ports.SlotStore using Valkey (Redis-compatible). Keys are
// namespaced with prefix and never expire.
type Slots struct {
	client valkey.Client
	prefix string
}

// New creates a new Valkey slot store.
func New(addr, prefix string) (*Slots, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect: %w", err)
	}
	return &Slots{client: client, prefix: prefix}, nil
}

// Get retrieves a slot value by key.
func (s *Slots) Get(ctx context.Context, key string) ([]byte, error) {
	defer metrics.ObserveSlot("valkey", "get", time.Now())

	b, err := s.client.Do(ctx, s.client.B().Get().Key(s.prefix+key).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, domain.ErrSlotEmpty
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Set overwrites a slot value. SET replaces the whole value in one step.
func (s *Slots) Set(ctx context.Context, key string, value []byte) error {
	defer metrics.ObserveSlot("valkey", "set", time.Now())

	cmd := s.client.Do(ctx, s.client.B().Set().Key(s.prefix+key).Value(valkey.BinaryString(value)).Build())
	return cmd.Error()
}

// Delete removes a key.
func (s *Slots) Delete(ctx context.Context, key string) error {
	cmd := s.client.Do(ctx, s.client.B().Del().Key(s.prefix+key).Build())
	return cmd.Error()
}

// Ping checks the connection.
func (s *Slots) Ping(ctx context.Context) error {
	return s.client.Do(ctx, s.client.B().Ping().Build()).Error()
}

// Close releases the client.
func (s *Slots) Close() {
	s.client.Close()
}
