// Package events publishes booking lifecycle events to Kafka.
package events

import (
	"context"
	"fmt"
	"time"

	"toolrent/pkg/kafka"
	kafka_config "toolrent/pkg/kafka/config"
	kafka_middleware "toolrent/pkg/kafka/middleware"
	"toolrent/pkg/logger"
	"toolrent/pkg/middleware"
	"toolrent/pkg/model"
)

const (
	BookingCreated   = "booking.created"
	BookingCancelled = "booking.cancelled"

	SchemaVersion = "1"
	Source        = "toolrent-bookings"
)

// Event is the JSON value of every message on the bookings topic. The message
// key is the tool id so all events of one tool land on one partition.
type Event struct {
	Type       string        `json:"type"`
	Booking    model.Booking `json:"booking"`
	OccurredAt time.Time     `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, eventType string, booking *model.Booking) error
	Close() error
}

// MessagePublisher is satisfied by *kafka.Producer.
type MessagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	producer MessagePublisher
	now      func() time.Time
}

// NewPublisher returns a Kafka-backed publisher when cfg.Enabled, otherwise a
// publisher that drops every event.
func NewPublisher(cfg *kafka_config.Config, log *logger.Logger) (Publisher, error) {
	if cfg == nil || !cfg.Enabled {
		log.Info("Kafka disabled, booking events will not be published")
		return NoopPublisher{}, nil
	}

	producer, err := kafka.NewProducer(cfg, cfg.BookingsTopic, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create bookings producer: %w", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(log))

	log.Info("Booking events enabled", cfg.LogAttrs()...)
	return NewKafkaPublisher(producer), nil
}

func NewKafkaPublisher(producer MessagePublisher) Publisher {
	return &kafkaPublisher{producer: producer, now: time.Now}
}

func (p *kafkaPublisher) Publish(ctx context.Context, eventType string, booking *model.Booking) error {
	msg, err := kafka.NewMessage().
		WithKey(booking.ToolID).
		WithValue(Event{Type: eventType, Booking: *booking, OccurredAt: p.now().UTC()}).
		WithEventType(eventType).
		WithSchemaVersion(SchemaVersion).
		WithSource(Source).
		WithCorrelationID(middleware.RequestIDFromContext(ctx)).
		Build()
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, msg)
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, *model.Booking) error { return nil }

func (NoopPublisher) Close() error { return nil }
