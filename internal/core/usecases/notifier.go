package usecases

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samirrijal/campusmap/internal/core/domain"
	"github.com/samirrijal/campusmap/internal/core/ports"
)

// LogNotifier writes notices to the structured log.
type LogNotifier struct{}

// Notify implements ports.Notifier.
func (LogNotifier) Notify(ctx context.Context, notice domain.Notice) error {
	slog.InfoContext(ctx, notice.Message, "count", notice.Count)
	return nil
}

// Notifiers fans a notice out to every notifier and joins their errors.
type Notifiers []ports.Notifier

// Notify implements ports.Notifier.
func (n Notifiers) Notify(ctx context.Context, notice domain.Notice) error {
	var errs []error
	for _, notifier := range n {
		if notifier == nil {
			continue
		}
		if err := notifier.Notify(ctx, notice); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
