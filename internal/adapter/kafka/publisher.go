package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/YelzhanWeb/dinein/internal/adapter/logger"
	"github.com/YelzhanWeb/dinein/internal/interfaces"

	"github.com/segmentio/kafka-go"
)

const DefaultOrderTopic = "order-events"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderEventPublisher streams order status changes keyed by order token, so
// events of one order stay on one partition.
type OrderEventPublisher struct {
	writer messageWriter
}

var _ interfaces.OrderEventPublisher = (*OrderEventPublisher)(nil)

// NewWriter returns an async writer. Delivery failures surface in the
// completion callback and are logged there.
func NewWriter(broker, topic string, lgr logger.Logger) *kafka.Writer {
	if topic == "" {
		topic = DefaultOrderTopic
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(messages []kafka.Message, err error) {
			if err == nil {
				return
			}
			keys := make([]string, 0, len(messages))
			for _, m := range messages {
				keys = append(keys, string(m.Key))
			}
			lgr.Error("order_event_failed", "Failed to deliver order events", "", map[string]interface{}{
				"topic":  topic,
				"orders": keys,
			}, err)
		},
	}
}

func NewOrderEventPublisher(writer messageWriter) *OrderEventPublisher {
	return &OrderEventPublisher{writer: writer}
}

func (p *OrderEventPublisher) PublishOrderEvent(ctx context.Context, event interfaces.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderToken),
		Value: payload,
		Time:  event.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("failed to write order event: %w", err)
	}
	return nil
}

func (p *OrderEventPublisher) Close() error {
	return p.writer.Close()
}
