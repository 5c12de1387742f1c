package kafka

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/YelzhanWeb/dinein/internal/adapter/logger"
	"github.com/YelzhanWeb/dinein/internal/domain"
	"github.com/YelzhanWeb/dinein/internal/interfaces"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishOrderEvent(t *testing.T) {
	w := &fakeWriter{}
	p := NewOrderEventPublisher(w)
	at := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	event := interfaces.OrderEvent{
		OrderID:    1,
		OrderToken: "ORD-0000CAFE",
		UserID:     2,
		OldStatus:  domain.OrderPending,
		NewStatus:  domain.OrderPaid,
		Total:      "33.53",
		OccurredAt: at,
	}
	require.NoError(t, p.PublishOrderEvent(context.Background(), event))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "ORD-0000CAFE", string(msg.Key))
	assert.Equal(t, at, msg.Time)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "PENDING", got["old_status"])
	assert.Equal(t, "PAID", got["new_status"])
	assert.Equal(t, "33.53", got["total"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishOrderEvent_WriteError(t *testing.T) {
	p := NewOrderEventPublisher(&fakeWriter{err: errors.New("leader not available")})

	err := p.PublishOrderEvent(context.Background(), interfaces.OrderEvent{OrderToken: "ORD-1"})
	assert.ErrorContains(t, err, "failed to write order event")
}

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter("localhost:9092", "", logger.NewWithWriter("api-service", &buf))

	assert.Equal(t, DefaultOrderTopic, w.Topic)
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
	assert.True(t, w.Async)

	w.Completion([]kafka.Message{{Key: []byte("ORD-1")}}, nil)
	assert.Zero(t, buf.Len())

	w.Completion([]kafka.Message{{Key: []byte("ORD-1")}}, errors.New("broker down"))
	assert.Contains(t, buf.String(), `"action":"order_event_failed"`)
	assert.Contains(t, buf.String(), "ORD-1")
}
