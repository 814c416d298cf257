package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/samirrijal/campusmap/internal/core/domain"
	"github.com/samirrijal/campusmap/internal/pkg/metrics"
)

// Writer is the subset of *kafka.Writer the publisher needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher implements ports.EventPublisher and ports.Notifier on a Kafka topic.
// Place events are keyed by place id so one place's history stays ordered.
type Publisher struct {
	writer Writer
}

// NewPublisher creates a publisher writing to topic on brokers.
func NewPublisher(brokers []string, topic string) *Publisher {
	return NewPublisherWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	})
}

// NewPublisherWithWriter wraps an existing writer, e.g. a test double.
func NewPublisherWithWriter(w Writer) *Publisher {
	return &Publisher{writer: w}
}

func (p *Publisher) PublishPlaceEvent(ctx context.Context, event *domain.PlaceEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(event.PlaceID, 10)),
		Value: data,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	metrics.EventsPublished.WithLabelValues("kafka", string(event.Type)).Inc()
	return nil
}

// Notify publishes a user notice.
func (p *Publisher) Notify(ctx context.Context, notice domain.Notice) error {
	data, err := json.Marshal(notice)
	if err != nil {
		return err
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte("notice"),
		Value:   data,
		Headers: []kafka.Header{{Key: "type", Value: []byte("notice")}},
	})
	if err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	metrics.EventsPublished.WithLabelValues("kafka", "notice").Inc()
	return nil
}

// Close flushes pending messages.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
