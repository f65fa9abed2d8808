// Package events publishes order lifecycle events to kafka for
// downstream consumers (notifications, analytics). Publishing is
// best-effort: a broker failure is logged, never surfaced to the
// request that triggered it. A nil *Publisher is valid and disables
// publishing.
package events

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"food-ordering-api/models"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "events").Logger()

type OrderStatusEvent struct {
	OrderID      string             `json:"order_id"`
	RestaurantID uint               `json:"restaurant_id"`
	CustomerID   uint               `json:"customer_id"`
	From         models.OrderStatus `json:"from"`
	To           models.OrderStatus `json:"to"`
	Actor        string             `json:"actor"`
	At           time.Time          `json:"at"`
}

type Publisher struct {
	writer *kafka.Writer
}

// New creates a publisher for the given broker and topic. An empty
// broker returns nil, which disables publishing.
func New(broker, topic string) *Publisher {
	if broker == "" {
		return nil
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(broker),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// OrderStatusChanged emits one event per applied transition, keyed by
// order ID so a partitioned topic preserves per-order ordering.
func (p *Publisher) OrderStatusChanged(ctx context.Context, ev OrderStatusEvent) {
	if p == nil {
		return
	}
	ev.At = time.Now().UTC()
	value, err := json.Marshal(ev)
	if err != nil {
		logger.Error().Err(err).Msg("marshal order status event")
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.OrderID),
		Value: value,
	})
	if err != nil {
		logger.Warn().Err(err).Str("order_id", ev.OrderID).Msg("publish order status event")
	}
}

// Close flushes the underlying writer.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
