package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// BookingEvent is the wire shape for both lifecycle events and notification
// requests. The worker renders the traveler-facing message from it.
type BookingEvent struct {
	Type                string `json:"type"`
	BookingID           int64  `json:"booking_id"`
	Reference           string `json:"reference"`
	TripID              int64  `json:"trip_id"`
	TravelerID          int64  `json:"traveler_id"`
	TravelerEmail       string `json:"traveler_email"`
	Status              string `json:"status"`
	PriceCents          int64  `json:"price_cents"`
	PaymentID           int64  `json:"payment_id,omitempty"`
	OperatorReserveCode string `json:"operator_reserve_code,omitempty"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
	return &Producer{writer: writer}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
