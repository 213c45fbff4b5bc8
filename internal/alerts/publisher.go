package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/stockroom/backend/internal/models"
)

const (
	ExchangeName = "stockroom.alerts"
	ExchangeType = "topic"
)

// LowStockEvent is emitted when a mutation leaves an item below its reorder
// threshold. Consumers bind with patterns like "stock.low.*".
type LowStockEvent struct {
	EventID    string    `json:"event_id"`
	ItemID     string    `json:"item_id"`
	SKU        string    `json:"sku"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	MinStock   int       `json:"min_stock"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher sends low-stock events to a RabbitMQ topic exchange.
type Publisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher connects, opens a channel, and declares the exchange.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("could not connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("could not open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		ExchangeName, // name
		ExchangeType, // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("could not declare exchange: %w", err)
	}

	return &Publisher{conn: conn, ch: ch}, nil
}

// LowStock publishes an event for the given item.
func (p *Publisher) LowStock(ctx context.Context, item *models.Item) error {
	event := LowStockEvent{
		EventID:    uuid.New().String(),
		ItemID:     item.ID.Hex(),
		SKU:        item.SKU,
		Name:       item.Name,
		Quantity:   item.Quantity,
		MinStock:   item.MinStock,
		OccurredAt: time.Now().UTC(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal event: %w", err)
	}

	return p.ch.PublishWithContext(ctx,
		ExchangeName,         // exchange
		routingKey(item.SKU), // routing key
		false,                // mandatory
		false,                // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// routingKey builds the per-SKU topic key, e.g. stock.low.wdg-001.
func routingKey(sku string) string {
	return fmt.Sprintf("stock.low.%s", strings.ToLower(sku))
}

func (p *Publisher) Close() error {
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}
