package ports

import (
	"context"

	"github.com/samirrijal/campusmap/internal/core/domain"
)

// EventPublisher publishes place events to a message broker.
type EventPublisher interface {
	PublishPlaceEvent(ctx context.Context, event *domain.PlaceEvent) error
}

// Notifier shows a one-off notice to the user.
type Notifier interface {
	Notify(ctx context.Context, notice domain.Notice) error
}

// PlaceObserver receives row and marker interactions from the list/map view.
type PlaceObserver interface {
	OnSelect(ctx context.Context, id int64)
	OnEdit(ctx context.Context, id int64)
	OnDelete(ctx context.Context, id int64)
}
