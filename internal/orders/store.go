package orders

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence contract for the order engine. The pgx Repo is the
// real implementation; tests use an in-memory one.
type Store interface {
	CreateOrder(ctx context.Context, p CreateParams) (*Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*Order, error)
	// SetStatus also reports the status the order held before the transition,
	// read under the same lock that applied it.
	SetStatus(ctx context.Context, id uuid.UUID, next Status) (*Order, Status, error)
	Claim(ctx context.Context, orderID, shipperID uuid.UUID) (*Order, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (*Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]Order, error)
	ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]Order, error)
	ListAvailableForShipper(ctx context.Context, limit int) ([]Order, error)
}
