package usecases

import (
	"context"
	"log/slog"
)

// LogObserver records row and marker interactions in the structured log.
type LogObserver struct {
	Logger *slog.Logger
}

func (o LogObserver) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o LogObserver) OnSelect(ctx context.Context, id int64) {
	o.logger().DebugContext(ctx, "place selected", "place_id", id)
}

func (o LogObserver) OnEdit(ctx context.Context, id int64) {
	o.logger().InfoContext(ctx, "place edited", "place_id", id)
}

func (o LogObserver) OnDelete(ctx context.Context, id int64) {
	o.logger().InfoContext(ctx, "place deleted", "place_id", id)
}
