// Package app assembles slot stores, event brokers and the place service from
// configuration. Each binary under cmd/ calls into it.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	kafkaadapter "github.com/samirrijal/campusmap/internal/adapters/kafka"
	"github.com/samirrijal/campusmap/internal/adapters/memory"
	natsadapter "github.com/samirrijal/campusmap/internal/adapters/nats"
	"github.com/samirrijal/campusmap/internal/adapters/postgres"
	"github.com/samirrijal/campusmap/internal/adapters/s3"
	"github.com/samirrijal/campusmap/internal/adapters/sqlite"
	"github.com/samirrijal/campusmap/internal/adapters/valkey"
	"github.com/samirrijal/campusmap/internal/core/ports"
	"github.com/samirrijal/campusmap/internal/core/usecases"
	"github.com/samirrijal/campusmap/internal/pkg/config"
)

// OpenSlots connects the configured slot store backend. The returned func
// releases it.
func OpenSlots(ctx context.Context, cfg *config.Config) (ports.SlotStore, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		slog.Warn("using in-memory store; places are lost on restart")
		return memory.New(), func() {}, nil

	case config.BackendSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil

	case config.BackendPostgres:
		db, err := postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewSlotRepo(db), db.Close, nil

	case config.BackendValkey:
		s, err := valkey.New(cfg.Valkey.Addr, "campusmap:")
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil

	case config.BackendS3:
		s, err := s3.New(ctx, s3.Options{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			Prefix:    cfg.S3.Prefix,
			UseSSL:    cfg.S3.UseSSL,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

// Events is the broker side of the service: who hears about place changes
// and first-run notices.
type Events struct {
	Publisher ports.EventPublisher
	Notifier  ports.Notifier
	// NATS is set only for the nats driver; the WebSocket relay needs it.
	NATS  *nats.Conn
	close func()
}

// Close releases the broker connection.
func (e *Events) Close() {
	if e.close != nil {
		e.close()
	}
}

// OpenEvents connects the configured broker. A broker that cannot be reached
// is logged and skipped so the store stays usable.
func OpenEvents(cfg *config.Config) *Events {
	notifiers := usecases.Notifiers{usecases.LogNotifier{}}
	ev := &Events{Notifier: notifiers}

	switch cfg.Events.Driver {
	case config.EventsNATS:
		p, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable", "error", err)
			return ev
		}
		ev.Publisher = p
		ev.Notifier = append(notifiers, p)
		ev.NATS = p.Conn()
		ev.close = p.Close

	case config.EventsKafka:
		p := kafkaadapter.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		ev.Publisher = p
		ev.Notifier = append(notifiers, p)
		ev.close = func() {
			if err := p.Close(); err != nil {
				slog.Warn("kafka writer close", "error", err)
			}
		}
	}
	return ev
}

// NewPlaceService builds the reconciler and place service on top of slots.
func NewPlaceService(cfg *config.Config, slots ports.SlotStore, ev *Events) (*usecases.PlaceService, error) {
	seeds, err := cfg.Seeds.SeedSet()
	if err != nil {
		return nil, fmt.Errorf("seeds: %w", err)
	}

	store := usecases.NewPlaceStore(slots, cfg.Store.PlacesKey)
	reconciler := usecases.NewReconciler(slots, store, seeds, ev.Notifier, cfg.Store.FlagKey)

	return usecases.NewPlaceService(store, reconciler, cfg.Map.View(), ev.Publisher, usecases.LogObserver{}), nil
}
