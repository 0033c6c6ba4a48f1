package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prwkhar/aura-gift/internal/cart"
	"github.com/prwkhar/aura-gift/internal/domain"
	pkgkafka "github.com/prwkhar/aura-gift/pkg/kafka"
)

// Kafka topics for storefront domain events.
const (
	TopicCartUpdated    = "aura.cart.updated"
	TopicCartCleared    = "aura.cart.cleared"
	TopicOrderSubmitted = "aura.order.submitted"
)

const (
	aggregateTypeCart  = "cart"
	aggregateTypeOrder = "order"
	source             = "storefront"
)

// CartLineData is the line payload within cart events.
type CartLineData struct {
	LineID    string `json:"line_id"`
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"note,omitempty"`
}

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	SessionID string         `json:"session_id"`
	Lines     []CartLineData `json:"lines"`
	ItemCount int            `json:"item_count"`
	Total     string         `json:"total"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
}

// OrderSubmittedData is the payload for an order.submitted event.
type OrderSubmittedData struct {
	SessionID string `json:"session_id"`
	Total     string `json:"total"`
	LineCount int    `json:"line_count"`
}

// Producer publishes storefront domain events. Registered as a cart store
// listener it turns every mutation notification into a cart.updated or
// cart.cleared event; publish failures are logged and never fail the
// originating operation.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new storefront event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// CartListener adapts the producer into a cart store listener.
func (p *Producer) CartListener() cart.Listener {
	return func(ctx context.Context, sessionID string, lines []domain.CartLine) {
		var err error
		if len(lines) == 0 {
			err = p.publishCartCleared(ctx, sessionID)
		} else {
			err = p.publishCartUpdated(ctx, sessionID, lines)
		}
		if err != nil {
			p.logger.ErrorContext(ctx, "failed to publish cart event",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (p *Producer) publishCartUpdated(ctx context.Context, sessionID string, lines []domain.CartLine) error {
	data := CartUpdatedData{
		SessionID: sessionID,
		Lines:     make([]CartLineData, len(lines)),
		ItemCount: domain.ItemCount(lines),
		Total:     domain.TotalPrice(lines).StringFixed(2),
	}
	for i, l := range lines {
		data.Lines[i] = CartLineData{
			LineID:    l.LineID,
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price.StringFixed(2),
			Quantity:  l.Quantity,
			Note:      l.Note,
		}
	}

	event, err := pkgkafka.NewEvent(TopicCartUpdated, sessionID, aggregateTypeCart, source, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	return p.kafka.Publish(ctx, TopicCartUpdated, event)
}

func (p *Producer) publishCartCleared(ctx context.Context, sessionID string) error {
	event, err := pkgkafka.NewEvent(TopicCartCleared, sessionID, aggregateTypeCart, source, CartClearedData{SessionID: sessionID})
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	return p.kafka.Publish(ctx, TopicCartCleared, event)
}

// OrderSubmitted publishes an order.submitted event after a successful
// checkout relay call.
func (p *Producer) OrderSubmitted(ctx context.Context, sessionID, total string, lineCount int) error {
	data := OrderSubmittedData{
		SessionID: sessionID,
		Total:     total,
		LineCount: lineCount,
	}

	event, err := pkgkafka.NewEvent(TopicOrderSubmitted, sessionID, aggregateTypeOrder, source, data)
	if err != nil {
		return fmt.Errorf("create order.submitted event: %w", err)
	}

	return p.kafka.Publish(ctx, TopicOrderSubmitted, event)
}
