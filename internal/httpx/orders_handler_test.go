package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastfood-vn/backend/internal/orders"
)

// fakeStore serves the handler tests with a fixed menu of one item. It keeps
// the same contracts as the pgx repo: all-or-nothing stock decrement, guarded
// transitions, conditional claim.
type fakeStore struct {
	mu     sync.Mutex
	stock  int
	price  int64
	itemID uuid.UUID
	byID   map[uuid.UUID]*orders.Order
}

func newFakeStore(stock int) *fakeStore {
	return &fakeStore{
		stock:  stock,
		price:  4500,
		itemID: uuid.New(),
		byID:   map[uuid.UUID]*orders.Order{},
	}
}

func (f *fakeStore) CreateOrder(ctx context.Context, p orders.CreateParams) (*orders.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var want int
	for _, it := range p.Items {
		if it.MenuItemID != f.itemID {
			return nil, orders.ErrMenuItemNotFound
		}
		want += it.Quantity
	}
	if want > f.stock {
		return nil, &orders.InsufficientStockError{
			MenuItemID: f.itemID, Name: "pho bo", Requested: want, Available: f.stock,
		}
	}
	f.stock -= want
	o := &orders.Order{
		ID:              uuid.New(),
		CustomerID:      p.CustomerID,
		MerchantID:      p.MerchantID,
		Status:          orders.StatusPending,
		PaymentStatus:   orders.PaymentUnpaid,
		TotalCents:      int64(want) * f.price,
		DeliveryAddress: p.DeliveryAddress,
		Note:            p.Note,
	}
	f.byID[o.ID] = o
	return o, nil
}

func (f *fakeStore) GetOrder(ctx context.Context, id uuid.UUID) (*orders.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byID[id]
	if !ok {
		return nil, orders.ErrOrderNotFound
	}
	c := *o
	return &c, nil
}

func (f *fakeStore) SetStatus(ctx context.Context, id uuid.UUID, next orders.Status) (*orders.Order, orders.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byID[id]
	if !ok {
		return nil, "", orders.ErrOrderNotFound
	}
	prev := o.Status
	if !orders.CanTransition(prev, next) {
		return nil, "", fmt.Errorf("%w: %s to %s", orders.ErrInvalidTransition, prev, next)
	}
	o.Status = next
	c := *o
	return &c, prev, nil
}

func (f *fakeStore) Claim(ctx context.Context, orderID, shipperID uuid.UUID) (*orders.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byID[orderID]
	if !ok {
		return nil, orders.ErrOrderNotFound
	}
	if o.Status != orders.StatusReadyForPickup || o.ShipperID != nil {
		return nil, orders.ErrOrderNotAvailable
	}
	sid := shipperID
	o.ShipperID = &sid
	o.Status = orders.StatusPickedUp
	c := *o
	return &c, nil
}

func (f *fakeStore) MarkPaid(ctx context.Context, id uuid.UUID) (*orders.Order, error) {
	return nil, orders.ErrOrderNotFound
}

func (f *fakeStore) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]orders.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []orders.Order
	for _, o := range f.byID {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]orders.Order, error) {
	return nil, nil
}

func (f *fakeStore) ListAvailableForShipper(ctx context.Context, limit int) ([]orders.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []orders.Order
	for _, o := range f.byID {
		if o.Status == orders.StatusReadyForPickup && o.ShipperID == nil {
			out = append(out, *o)
		}
	}
	return out, nil
}

var _ orders.Store = (*fakeStore)(nil)

func newTestServer(store *fakeStore) *httptest.Server {
	svc := &orders.Service{Store: store, Name: "api-test"}
	r := NewRouter()
	(&OrdersHandler{Svc: svc}).Register(r)
	(&ShipperHandler{Svc: svc}).Register(r)
	return httptest.NewServer(r)
}

func postJSON(t *testing.T, url, userID string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req, err := http.NewRequest(http.MethodPost, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(userHeader, userID)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeOrder(t *testing.T, resp *http.Response) orders.Order {
	t.Helper()
	defer resp.Body.Close()
	var o orders.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&o))
	return o
}

func TestCreateOrderEndpoint(t *testing.T) {
	store := newFakeStore(10)
	ts := newTestServer(store)
	defer ts.Close()

	customer := uuid.NewString()
	resp := postJSON(t, ts.URL+"/api/orders", customer, map[string]any{
		"merchant_id":      uuid.New(),
		"delivery_address": "12 Nguyen Hue",
		"items":            []map[string]any{{"menu_item_id": store.itemID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	o := decodeOrder(t, resp)
	assert.Equal(t, orders.StatusPending, o.Status)
	assert.Equal(t, int64(9000), o.TotalCents)
	assert.Equal(t, 8, store.stock)
}

func TestCreateOrderRejectsEmptyCart(t *testing.T) {
	ts := newTestServer(newFakeStore(10))
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/orders", uuid.NewString(), map[string]any{
		"merchant_id": uuid.New(),
		"items":       []map[string]any{},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	store := newFakeStore(1)
	ts := newTestServer(store)
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/orders", uuid.NewString(), map[string]any{
		"merchant_id": uuid.New(),
		"items":       []map[string]any{{"menu_item_id": store.itemID, "quantity": 3}},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, 1, store.stock, "failed checkout must not touch stock")
}

func TestCreateOrderRequiresCaller(t *testing.T) {
	ts := newTestServer(newFakeStore(10))
	defer ts.Close()

	resp := postJSON(t, ts.URL+"/api/orders", "", map[string]any{})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetUnknownOrder(t *testing.T) {
	ts := newTestServer(newFakeStore(10))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/orders/" + uuid.NewString())
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPickupClaimsOnce(t *testing.T) {
	store := newFakeStore(10)
	ts := newTestServer(store)
	defer ts.Close()

	o, err := store.CreateOrder(context.Background(), orders.CreateParams{
		CustomerID: uuid.New(),
		MerchantID: uuid.New(),
		Items:      []orders.ItemInput{{MenuItemID: store.itemID, Quantity: 1}},
	})
	require.NoError(t, err)
	_, _, err = store.SetStatus(context.Background(), o.ID, orders.StatusConfirmed)
	require.NoError(t, err)
	_, _, err = store.SetStatus(context.Background(), o.ID, orders.StatusReadyForPickup)
	require.NoError(t, err)

	url := ts.URL + "/api/shipper/orders/" + o.ID.String() + "/pickup"

	resp := postJSON(t, url, uuid.NewString(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	claimed := decodeOrder(t, resp)
	assert.Equal(t, orders.StatusPickedUp, claimed.Status)
	require.NotNil(t, claimed.ShipperID)

	// a second shipper hits the already-assigned order
	resp = postJSON(t, url, uuid.NewString(), nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestInvalidTransitionRejected(t *testing.T) {
	store := newFakeStore(10)
	ts := newTestServer(store)
	defer ts.Close()

	o, err := store.CreateOrder(context.Background(), orders.CreateParams{
		CustomerID: uuid.New(),
		MerchantID: uuid.New(),
		Items:      []orders.ItemInput{{MenuItemID: store.itemID, Quantity: 1}},
	})
	require.NoError(t, err)

	resp := postJSON(t, ts.URL+"/api/orders/"+o.ID.String()+"/status", "", map[string]any{
		"status": orders.StatusDelivered,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
