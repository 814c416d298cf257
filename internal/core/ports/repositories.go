package ports

import (
	"context"
)

// SlotStore persists opaque blobs under fixed string keys. Implementations
// must make a single Set atomic from the caller's point of view and return
// domain.ErrSlotEmpty from Get when the key has never been written.
type SlotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
