package events

import (
	"context"
	"testing"
	"time"

	"toolrent/pkg/kafka"
	kafka_config "toolrent/pkg/kafka/config"
	"toolrent/pkg/logger"
	"toolrent/pkg/middleware"
	"toolrent/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProducer struct {
	messages []kafka.Message
	closed   bool
}

func (r *recordingProducer) Publish(_ context.Context, msg kafka.Message) error {
	r.messages = append(r.messages, msg)
	return nil
}

func (r *recordingProducer) Close() error {
	r.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := &recordingProducer{}
	p := NewKafkaPublisher(producer).(*kafkaPublisher)
	p.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	booking := &model.Booking{
		ID:        "65f000000000000000000001",
		ToolID:    "65f0000000000000000000aa",
		UserID:    "renter-1",
		StartDate: "2026-03-10",
		EndDate:   "2026-03-12",
	}

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	require.NoError(t, p.Publish(ctx, BookingCreated, booking))
	require.Len(t, producer.messages, 1)

	msg := producer.messages[0]
	assert.Equal(t, booking.ToolID, msg.Key)
	assert.Equal(t, BookingCreated, msg.GetEventType())
	assert.Equal(t, "req-42", msg.GetCorrelationID())
	assert.Equal(t, Source, msg.Headers[kafka.HeaderSource])

	var event Event
	require.NoError(t, msg.DecodeValue(&event))
	assert.Equal(t, BookingCreated, event.Type)
	assert.Equal(t, booking.StartDate, event.Booking.StartDate)
	assert.Equal(t, "2026-03-01T12:00:00Z", event.OccurredAt.Format(time.RFC3339))

	require.NoError(t, p.Close())
	assert.True(t, producer.closed)
}

func TestNewPublisher_DisabledIsNoop(t *testing.T) {
	p, err := NewPublisher(&kafka_config.Config{Enabled: false}, logger.Discard())
	require.NoError(t, err)
	assert.IsType(t, NoopPublisher{}, p)
	assert.NoError(t, p.Publish(context.Background(), BookingCancelled, &model.Booking{}))
}
