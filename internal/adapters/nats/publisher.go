package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/campusmap/internal/core/domain"
	"github.com/samirrijal/campusmap/internal/pkg/metrics"
)

// Subjects the publisher writes to. Live clients subscribe to SubjectAll.
const (
	SubjectPlaces  = "campus.places."
	SubjectNotices = "campus.notices"
	SubjectAll     = "campus.>"
)

// Publisher implements ports.EventPublisher and ports.Notifier using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return newPublisher(conn, 5*time.Second)
}

// newPublisher takes ownership of conn and closes it if the stream cannot be
// set up.
func newPublisher(conn *nats.Conn, wait time.Duration) (*Publisher, error) {
	js, err := conn.JetStream(nats.MaxWait(wait))
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	// Ensure stream exists
	cfg := nats.StreamConfig{
		Name:      "CAMPUS_PLACES",
		Subjects:  []string{SubjectAll},
		Retention: nats.LimitsPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist, try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			conn.Close()
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

func (p *Publisher) PublishPlaceEvent(ctx context.Context, event *domain.PlaceEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := p.js.Publish(SubjectPlaces+string(event.Type), data, nats.Context(ctx)); err != nil {
		return err
	}
	metrics.EventsPublished.WithLabelValues("nats", string(event.Type)).Inc()
	return nil
}

// Notify publishes a user notice.
func (p *Publisher) Notify(ctx context.Context, notice domain.Notice) error {
	data, err := json.Marshal(notice)
	if err != nil {
		return err
	}
	if _, err := p.js.Publish(SubjectNotices, data, nats.Context(ctx)); err != nil {
		return err
	}
	metrics.EventsPublished.WithLabelValues("nats", "notice").Inc()
	return nil
}

// Conn exposes the underlying connection for readiness checks.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
