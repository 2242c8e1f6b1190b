// Package notifier turns booking lifecycle events into renter notifications.
package notifier

import (
	"context"
	"fmt"

	"toolrent/internal/bookings/events"
	"toolrent/pkg/kafka"
	"toolrent/pkg/logger"
)

type Notification struct {
	EventID   string
	Kind      string
	UserID    string
	ToolID    string
	BookingID string
	StartDate string
	EndDate   string
}

func (n Notification) Text() string {
	switch n.Kind {
	case events.BookingCreated:
		return fmt.Sprintf("Your rental of tool %s from %s to %s is confirmed.", n.ToolID, n.StartDate, n.EndDate)
	case events.BookingCancelled:
		return fmt.Sprintf("Your rental of tool %s from %s to %s was cancelled.", n.ToolID, n.StartDate, n.EndDate)
	default:
		return ""
	}
}

// Sink delivers a notification. Delivery channels live outside this module;
// LogSink records what would be sent.
type Sink interface {
	Notify(ctx context.Context, n Notification) error
}

type LogSink struct {
	log *logger.Logger
}

func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Notify(_ context.Context, n Notification) error {
	s.log.Info("Renter notification",
		"event_id", n.EventID,
		"kind", n.Kind,
		"user_id", n.UserID,
		"booking_id", n.BookingID,
		"text", n.Text(),
	)
	return nil
}

type Handler struct {
	sink Sink
	log  *logger.Logger
}

func NewHandler(sink Sink, log *logger.Logger) *Handler {
	return &Handler{sink: sink, log: log}
}

// Handle is a kafka.MessageHandler. Undecodable payloads are permanent
// failures; event types it does not know are skipped.
func (h *Handler) Handle(ctx context.Context, msg kafka.Message) error {
	var event events.Event
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("failed to decode booking event", err)
	}

	switch event.Type {
	case events.BookingCreated, events.BookingCancelled:
	default:
		h.log.Debug("Skipping unknown booking event", "type", event.Type, "event_id", msg.GetEventID())
		return nil
	}

	n := Notification{
		EventID:   msg.GetEventID(),
		Kind:      event.Type,
		UserID:    event.Booking.UserID,
		ToolID:    event.Booking.ToolID,
		BookingID: event.Booking.ID,
		StartDate: event.Booking.StartDate,
		EndDate:   event.Booking.EndDate,
	}
	if err := h.sink.Notify(ctx, n); err != nil {
		return kafka.NewTransientError("failed to deliver notification", err)
	}
	return nil
}
