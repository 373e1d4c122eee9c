package event

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/kafka"
	"github.com/maiphuongbrt9a1/be-ecomerce-shop-sub001/pkg/logger"
)

// Event types published by the application.
const (
	TypeUserRegistered  = "user.registered"
	TypeUserActivated   = "user.activated"
	TypeOrderCreated    = "order.created"
	TypeOrderStatus     = "order.status_changed"
	TypeProductDeleted  = "product.deleted"
	TypeShipmentCreated = "shipment.created"
	TypeReturnRequested = "return.requested"
	TypeReturnResolved  = "return.resolved"
)

// Topics per aggregate.
const (
	TopicUsers     = "shop.users"
	TopicOrders    = "shop.orders"
	TopicProducts  = "shop.products"
	TopicShipments = "shop.shipments"
)

const source = "shop-api"

// Publisher is the subset of the Kafka producer the event publisher needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *kafka.Event) error
}

// Producer publishes domain events. Publishing is best effort: a broker
// failure is logged and swallowed so the triggering operation still succeeds.
type Producer struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewProducer creates a domain event producer. A nil publisher disables
// publishing, which keeps tests and broker-less development setups simple.
func NewProducer(publisher Publisher, logger *slog.Logger) *Producer {
	return &Producer{publisher: publisher, logger: logger}
}

// UserRegistered publishes a user.registered event.
func (p *Producer) UserRegistered(ctx context.Context, userID int64, email string) {
	p.publish(ctx, TopicUsers, TypeUserRegistered, userID, "user", map[string]any{
		"user_id": userID,
		"email":   email,
	})
}

// UserActivated publishes a user.activated event.
func (p *Producer) UserActivated(ctx context.Context, userID int64) {
	p.publish(ctx, TopicUsers, TypeUserActivated, userID, "user", map[string]any{
		"user_id": userID,
	})
}

// OrderCreated publishes an order.created event.
func (p *Producer) OrderCreated(ctx context.Context, orderID, userID, total int64, currency string) {
	p.publish(ctx, TopicOrders, TypeOrderCreated, orderID, "order", map[string]any{
		"order_id": orderID,
		"user_id":  userID,
		"total":    total,
		"currency": currency,
	})
}

// OrderStatusChanged publishes an order.status_changed event.
func (p *Producer) OrderStatusChanged(ctx context.Context, orderID int64, from, to string) {
	p.publish(ctx, TopicOrders, TypeOrderStatus, orderID, "order", map[string]any{
		"order_id": orderID,
		"from":     from,
		"to":       to,
	})
}

// ProductDeleted publishes a product.deleted event.
func (p *Producer) ProductDeleted(ctx context.Context, productID int64) {
	p.publish(ctx, TopicProducts, TypeProductDeleted, productID, "product", map[string]any{
		"product_id": productID,
	})
}

// ShipmentCreated publishes a shipment.created event.
func (p *Producer) ShipmentCreated(ctx context.Context, shipmentID, orderID, shopOfficeID int64) {
	p.publish(ctx, TopicShipments, TypeShipmentCreated, shipmentID, "shipment", map[string]any{
		"shipment_id":    shipmentID,
		"order_id":       orderID,
		"shop_office_id": shopOfficeID,
	})
}

// ReturnRequested publishes a return.requested event.
func (p *Producer) ReturnRequested(ctx context.Context, returnID, orderID, userID int64) {
	p.publish(ctx, TopicOrders, TypeReturnRequested, returnID, "return_request", map[string]any{
		"return_id": returnID,
		"order_id":  orderID,
		"user_id":   userID,
	})
}

// ReturnResolved publishes a return.resolved event.
func (p *Producer) ReturnResolved(ctx context.Context, returnID int64, status string) {
	p.publish(ctx, TopicOrders, TypeReturnResolved, returnID, "return_request", map[string]any{
		"return_id": returnID,
		"status":    status,
	})
}

func (p *Producer) publish(ctx context.Context, topic, eventType string, aggregateID int64, aggregateType string, data map[string]any) {
	if p.publisher == nil {
		return
	}

	evt, err := kafka.NewEvent(eventType, strconv.FormatInt(aggregateID, 10), aggregateType, source, data)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
		return
	}

	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		evt.WithCorrelationID(cid)
	}

	if err := p.publisher.Publish(ctx, topic, evt); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish event",
			slog.String("topic", topic),
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
	}
}
