// Package events publishes order lifecycle events to Kafka for the
// notification consumer.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/muhammedsharbag/E-Shop-App/internal/domain"
)

const eventTypeOrderCreated = "order.created"

type orderCreatedEvent struct {
	EventID       string    `json:"event_id"`
	OrderID       string    `json:"order_id"`
	UserID        string    `json:"user_id"`
	TotalPrice    float64   `json:"total_price"`
	PaymentMethod string    `json:"payment_method"`
	IsPaid        bool      `json:"is_paid"`
	CreatedAt     time.Time `json:"created_at"`
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) OrderCreated(ctx context.Context, order *domain.Order) error {
	payload, err := json.Marshal(orderCreatedEvent{
		EventID:       uuid.NewString(), // consumers dedup on this
		OrderID:       order.ID.Hex(),
		UserID:        order.UserID.Hex(),
		TotalPrice:    order.TotalOrderPrice,
		PaymentMethod: string(order.PaymentMethod),
		IsPaid:        order.IsPaid,
		CreatedAt:     order.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.ID.Hex()), // order id for ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventTypeOrderCreated)},
		},
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
