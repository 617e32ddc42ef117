package events

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"time"

	"redmango-orders/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	exchange             = "orders.events"
	routingCreated       = "orders.created"
	routingStatusChanged = "orders.status_changed"
)

// Event is the JSON payload published for order lifecycle changes.
type Event struct {
	OrderID        int64     `json:"orderId"`
	UserID         string    `json:"userId"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previousStatus,omitempty"`
	TotalCents     int64     `json:"totalCents"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// Publisher emits order events to a durable AMQP topic exchange. Publishing
// is best-effort: failures are logged and never fail the originating request.
type Publisher struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	logger *log.Logger
}

func Dial(url string, logger *log.Logger) (*Publisher, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, ch: ch, logger: logger}, nil
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

func (p *Publisher) OrderCreated(ctx context.Context, o domain.OrderHeader) {
	p.publish(ctx, routingCreated, Event{
		OrderID:    o.ID,
		UserID:     o.UserID,
		Status:     string(o.Status),
		TotalCents: o.TotalCents,
		OccurredAt: time.Now().UTC(),
	})
}

func (p *Publisher) OrderStatusChanged(ctx context.Context, o domain.OrderHeader, from domain.Status) {
	p.publish(ctx, routingStatusChanged, Event{
		OrderID:        o.ID,
		UserID:         o.UserID,
		Status:         string(o.Status),
		PreviousStatus: string(from),
		TotalCents:     o.TotalCents,
		OccurredAt:     time.Now().UTC(),
	})
}

func (p *Publisher) publish(ctx context.Context, key string, evt Event) {
	body, err := json.Marshal(evt)
	if err != nil {
		p.logger.Printf("events: marshal key=%s error=%v", key, err)
		return
	}
	err = p.ch.PublishWithContext(ctx, exchange, key, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		ContentType:  "application/json",
		Body:         body,
	})
	if err != nil {
		p.logger.Printf("events: publish key=%s order_id=%d error=%v", key, evt.OrderID, err)
		return
	}
	p.logger.Printf("events: published key=%s order_id=%d status=%s", key, evt.OrderID, evt.Status)
}

// Noop satisfies the publisher contract when AMQP is not configured.
type Noop struct{}

func (Noop) OrderCreated(context.Context, domain.OrderHeader) {}

func (Noop) OrderStatusChanged(context.Context, domain.OrderHeader, domain.Status) {}
