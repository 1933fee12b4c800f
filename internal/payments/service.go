package payments

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/fastfood-vn/backend/internal/orders"
)

var (
	ErrBadSignature = errors.New("invalid gateway signature")
	ErrBadCallback  = errors.New("malformed gateway callback")
)

// Execer is the slice of pgxpool.Pool the audit insert needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Service struct {
	Orders  orders.Store
	Gateway *Gateway
	DB      Execer // *pgxpool.Pool in production, nil in tests
}

// Checkout returns the hosted payment URL for an unpaid order.
func (s *Service) Checkout(ctx context.Context, orderID uuid.UUID) (string, error) {
	o, err := s.Orders.GetOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	if o.PaymentStatus != orders.PaymentUnpaid {
		return "", orders.ErrAlreadyPaid
	}
	return s.Gateway.CheckoutURL(o.ID, o.TotalCents), nil
}

// HandleCallback marks the order paid after signature verification. The
// UNPAID guard in MarkPaid makes replayed callbacks harmless.
func (s *Service) HandleCallback(ctx context.Context, params url.Values) (*orders.Order, error) {
	if !s.Gateway.VerifyCallback(params) {
		return nil, ErrBadSignature
	}
	orderID, err := uuid.Parse(params.Get("order"))
	if err != nil {
		return nil, ErrBadCallback
	}
	amount, err := strconv.ParseInt(params.Get("amount"), 10, 64)
	if err != nil {
		return nil, ErrBadCallback
	}

	o, err := s.Orders.MarkPaid(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// The audit row is best-effort: the order is already PAID, so a failed
	// insert must not turn a successful callback into a 500.
	if s.DB != nil {
		if _, err := s.DB.Exec(ctx, `
			INSERT INTO payments (id, order_id, amount_cents, method, transaction_id, status)
			VALUES ($1,$2,$3,'GATEWAY',NULLIF($4,''),'COMPLETED')
			ON CONFLICT (transaction_id) DO NOTHING`,
			uuid.New(), orderID, amount, params.Get("txn")); err != nil {
			logrus.WithError(err).WithField("order_id", orderID).Warn("payment audit row")
		}
	}
	return o, nil
}
