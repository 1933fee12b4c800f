package orders

import "github.com/google/uuid"

const (
	TopicOrderCreated       = "order.created"
	TopicOrderStatusChanged = "order.status.changed"
	TopicOrderClaimed       = "order.claimed"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
	EventOrderClaimed       = "OrderClaimed"
)

type ItemSnapshot struct {
	MenuItemID *uuid.UUID `json:"menu_item_id"`
	Name       string     `json:"name"`
	PriceCents int64      `json:"price_cents"`
	Quantity   int        `json:"quantity"`
	LineTotal  int64      `json:"line_total_cents"`
}

type OrderCreatedPayload struct {
	OrderID    uuid.UUID      `json:"order_id"`
	CustomerID uuid.UUID      `json:"customer_id"`
	MerchantID uuid.UUID      `json:"merchant_id"`
	TotalCents int64          `json:"total_cents"`
	Items      []ItemSnapshot `json:"items"`
}

type OrderStatusChangedPayload struct {
	OrderID uuid.UUID `json:"order_id"`
	From    Status    `json:"from"`
	To      Status    `json:"to"`
}

type OrderClaimedPayload struct {
	OrderID   uuid.UUID `json:"order_id"`
	ShipperID uuid.UUID `json:"shipper_id"`
}
