package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dwikikusuma/ordersvc/internal/order/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// OrderPlacedEvent is the JSON value published for each stored order.
type OrderPlacedEvent struct {
	OrderID     string      `json:"order_id"`
	Timestamp   time.Time   `json:"timestamp"`
	TotalAmount string      `json:"total_amount"`
	Items       []EventItem `json:"items"`
	OccurredAt  time.Time   `json:"occurred_at"`
}

type EventItem struct {
	ProductID      string `json:"product_id"`
	BoughtQuantity int64  `json:"bought_quantity"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

type Publisher struct {
	w   messageWriter
	now func() time.Time
}

func NewWriter(brokers []string, topic string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{w: NewWriter(brokers, topic), now: time.Now}
}

// OrderPlaced is keyed by order id so every event of one order lands on one
// partition.
func (p *Publisher) OrderPlaced(ctx context.Context, order domain.Order) error {
	items := make([]EventItem, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, EventItem{ProductID: it.ProductID, BoughtQuantity: it.BoughtQuantity})
	}

	data, err := json.Marshal(OrderPlacedEvent{
		OrderID:     order.ID,
		Timestamp:   order.Timestamp,
		TotalAmount: order.TotalAmount.String(),
		Items:       items,
		OccurredAt:  p.now().UTC(),
	})
	if err != nil {
		return err
	}

	return p.w.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(order.ID),
		Value: data,
		Time:  p.now().UTC(),
	})
}

func (p *Publisher) Close() error {
	return p.w.Close()
}
