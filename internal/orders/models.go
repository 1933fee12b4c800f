package orders

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "UNPAID"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

type Order struct {
	ID              uuid.UUID     `json:"id"`
	CustomerID      uuid.UUID     `json:"customer_id"`
	MerchantID      uuid.UUID     `json:"merchant_id"`
	ShipperID       *uuid.UUID    `json:"shipper_id"`
	Status          Status        `json:"status"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	TotalCents      int64         `json:"total_cents"`
	DeliveryAddress string        `json:"delivery_address"`
	Note            string        `json:"note"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	Items           []OrderItem   `json:"items,omitempty"`
}

// OrderItem is an immutable snapshot of a purchased line. Name and price are
// copied from the menu item at checkout so later edits never touch history.
type OrderItem struct {
	ID                 uuid.UUID  `json:"id"`
	OrderID            uuid.UUID  `json:"order_id"`
	MenuItemID         *uuid.UUID `json:"menu_item_id"`
	NameSnapshot       string     `json:"name_snapshot"`
	PriceCentsSnapshot int64      `json:"price_cents_snapshot"`
	Quantity           int        `json:"quantity"`
	LineTotalCents     int64      `json:"line_total_cents"`
}

type ItemInput struct {
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Quantity   int       `json:"quantity"`
}

type CreateParams struct {
	CustomerID      uuid.UUID
	MerchantID      uuid.UUID
	DeliveryAddress string
	Note            string
	Items           []ItemInput
}
