package payments

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastfood-vn/backend/internal/orders"
)

type stubOrders struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*orders.Order
}

func newStubOrders(list ...*orders.Order) *stubOrders {
	s := &stubOrders{byID: map[uuid.UUID]*orders.Order{}}
	for _, o := range list {
		s.byID[o.ID] = o
	}
	return s
}

func (s *stubOrders) GetOrder(ctx context.Context, id uuid.UUID) (*orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.byID[id]
	if !ok {
		return nil, orders.ErrOrderNotFound
	}
	c := *o
	return &c, nil
}

func (s *stubOrders) MarkPaid(ctx context.Context, id uuid.UUID) (*orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.byID[id]
	if !ok {
		return nil, orders.ErrOrderNotFound
	}
	if o.PaymentStatus != orders.PaymentUnpaid {
		return nil, orders.ErrAlreadyPaid
	}
	o.PaymentStatus = orders.PaymentPaid
	c := *o
	return &c, nil
}

func (s *stubOrders) CreateOrder(ctx context.Context, p orders.CreateParams) (*orders.Order, error) {
	return nil, nil
}
func (s *stubOrders) SetStatus(ctx context.Context, id uuid.UUID, next orders.Status) (*orders.Order, orders.Status, error) {
	return nil, "", nil
}
func (s *stubOrders) Claim(ctx context.Context, orderID, shipperID uuid.UUID) (*orders.Order, error) {
	return nil, nil
}
func (s *stubOrders) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]orders.Order, error) {
	return nil, nil
}
func (s *stubOrders) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]orders.Order, error) {
	return nil, nil
}
func (s *stubOrders) ListAvailableForShipper(ctx context.Context, limit int) ([]orders.Order, error) {
	return nil, nil
}

var _ orders.Store = (*stubOrders)(nil)

func TestCheckoutBuildsURLForUnpaidOrder(t *testing.T) {
	o := &orders.Order{ID: uuid.New(), PaymentStatus: orders.PaymentUnpaid, TotalCents: 9900}
	svc := &Service{
		Orders:  newStubOrders(o),
		Gateway: &Gateway{BaseURL: "https://payments.example", Secret: "s"},
	}

	raw, err := svc.Checkout(context.Background(), o.ID)
	require.NoError(t, err)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, o.ID.String(), u.Query().Get("order"))
	assert.Equal(t, "9900", u.Query().Get("amount"))
}

func TestCheckoutRejectsPaidOrder(t *testing.T) {
	o := &orders.Order{ID: uuid.New(), PaymentStatus: orders.PaymentPaid, TotalCents: 9900}
	svc := &Service{
		Orders:  newStubOrders(o),
		Gateway: &Gateway{BaseURL: "https://payments.example", Secret: "s"},
	}

	_, err := svc.Checkout(context.Background(), o.ID)
	assert.ErrorIs(t, err, orders.ErrAlreadyPaid)
}

func TestCallbackMarksPaidOnce(t *testing.T) {
	o := &orders.Order{ID: uuid.New(), PaymentStatus: orders.PaymentUnpaid, TotalCents: 5000}
	g := &Gateway{BaseURL: "https://payments.example", Secret: "s"}
	svc := &Service{Orders: newStubOrders(o), Gateway: g}

	u, err := url.Parse(g.CheckoutURL(o.ID, o.TotalCents))
	require.NoError(t, err)
	params := u.Query()

	paid, err := svc.HandleCallback(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, orders.PaymentPaid, paid.PaymentStatus)

	// replayed callback hits the UNPAID guard
	_, err = svc.HandleCallback(context.Background(), params)
	assert.ErrorIs(t, err, orders.ErrAlreadyPaid)
}

type failingExec struct{}

func (failingExec) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("connection refused")
}

// The order is PAID once MarkPaid commits; a failed audit insert must not
// surface as an error to the gateway.
func TestCallbackSurvivesAuditFailure(t *testing.T) {
	o := &orders.Order{ID: uuid.New(), PaymentStatus: orders.PaymentUnpaid, TotalCents: 5000}
	g := &Gateway{BaseURL: "https://payments.example", Secret: "s"}
	svc := &Service{Orders: newStubOrders(o), Gateway: g, DB: failingExec{}}

	u, err := url.Parse(g.CheckoutURL(o.ID, o.TotalCents))
	require.NoError(t, err)

	paid, err := svc.HandleCallback(context.Background(), u.Query())
	require.NoError(t, err)
	assert.Equal(t, orders.PaymentPaid, paid.PaymentStatus)
}

func TestCallbackRejectsBadSignature(t *testing.T) {
	o := &orders.Order{ID: uuid.New(), PaymentStatus: orders.PaymentUnpaid, TotalCents: 5000}
	g := &Gateway{BaseURL: "https://payments.example", Secret: "s"}
	svc := &Service{Orders: newStubOrders(o), Gateway: g}

	params := url.Values{}
	params.Set("order", o.ID.String())
	params.Set("amount", "5000")
	params.Set("sig", "deadbeef")

	_, err := svc.HandleCallback(context.Background(), params)
	assert.ErrorIs(t, err, ErrBadSignature)
}
