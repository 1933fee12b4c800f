package orders

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

var _ Store = (*Repo)(nil)

const orderColumns = `id, customer_id, merchant_id, shipper_id, status, payment_status,
	total_cents, delivery_address, note, created_at, updated_at`

// CreateOrder reserves stock and materializes the order in one transaction.
// Menu item rows are locked FOR UPDATE in ascending id order so two concurrent
// checkouts touching overlapping items cannot deadlock, and the stock counter
// can never go negative. Any failure rolls back every decrement.
func (r *Repo) CreateOrder(ctx context.Context, p CreateParams) (*Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var active bool
	err = tx.QueryRow(ctx, `SELECT is_active FROM merchants WHERE id=$1`, p.MerchantID).Scan(&active)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMerchantNotFound
	}
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrMerchantNotFound
	}

	lines := make([]ItemInput, len(p.Items))
	copy(lines, p.Items)
	sort.Slice(lines, func(i, j int) bool {
		return strings.Compare(lines[i].MenuItemID.String(), lines[j].MenuItemID.String()) < 0
	})

	orderID := uuid.New()
	var total int64
	items := make([]OrderItem, 0, len(lines))

	for _, line := range lines {
		var (
			name      string
			price     int64
			stock     int
			available bool
		)
		err := tx.QueryRow(ctx, `
			SELECT name, price_cents, stock, is_available
			FROM menu_items
			WHERE id=$1 AND merchant_id=$2
			FOR UPDATE`, line.MenuItemID, p.MerchantID).Scan(&name, &price, &stock, &available)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMenuItemNotFound
		}
		if err != nil {
			return nil, err
		}
		if !available {
			return nil, ErrMenuItemNotFound
		}
		if stock < line.Quantity {
			return nil, &InsufficientStockError{
				MenuItemID: line.MenuItemID,
				Name:       name,
				Requested:  line.Quantity,
				Available:  stock,
			}
		}

		if _, err := tx.Exec(ctx, `
			UPDATE menu_items SET stock = stock - $2, updated_at = now()
			WHERE id=$1`, line.MenuItemID, line.Quantity); err != nil {
			return nil, err
		}

		itemID := line.MenuItemID
		lineTotal := price * int64(line.Quantity)
		total += lineTotal
		items = append(items, OrderItem{
			ID:                 uuid.New(),
			OrderID:            orderID,
			MenuItemID:         &itemID,
			NameSnapshot:       name,
			PriceCentsSnapshot: price,
			Quantity:           line.Quantity,
			LineTotalCents:     lineTotal,
		})
	}

	o := &Order{
		ID:              orderID,
		CustomerID:      p.CustomerID,
		MerchantID:      p.MerchantID,
		Status:          StatusPending,
		PaymentStatus:   PaymentUnpaid,
		TotalCents:      total,
		DeliveryAddress: p.DeliveryAddress,
		Note:            p.Note,
		Items:           items,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (id, customer_id, merchant_id, status, payment_status,
			total_cents, delivery_address, note)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		o.ID, o.CustomerID, o.MerchantID, o.Status, o.PaymentStatus,
		o.TotalCents, o.DeliveryAddress, o.Note).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}

	for _, it := range items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, menu_item_id, name_snapshot,
				price_cents_snapshot, quantity, line_total_cents)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			it.ID, it.OrderID, it.MenuItemID, it.NameSnapshot,
			it.PriceCentsSnapshot, it.Quantity, it.LineTotalCents); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *Repo) GetOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id).Scan(
		&o.ID, &o.CustomerID, &o.MerchantID, &o.ShipperID, &o.Status, &o.PaymentStatus,
		&o.TotalCents, &o.DeliveryAddress, &o.Note, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT id, order_id, menu_item_id, name_snapshot, price_cents_snapshot,
			quantity, line_total_cents
		FROM order_items WHERE order_id=$1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.NameSnapshot,
			&it.PriceCentsSnapshot, &it.Quantity, &it.LineTotalCents); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}

// SetStatus validates the transition under a row lock so concurrent updates
// serialize; an invalid transition leaves the order untouched. The returned
// previous status is the one read under the lock.
func (r *Repo) SetStatus(ctx context.Context, id uuid.UUID, next Status) (*Order, Status, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var cur Status
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, id).Scan(&cur)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", ErrOrderNotFound
	}
	if err != nil {
		return nil, "", err
	}
	if !CanTransition(cur, next) {
		return nil, "", ErrInvalidTransition
	}

	if _, err := tx.Exec(ctx, `
		UPDATE orders SET status=$2, updated_at=now() WHERE id=$1`, id, next); err != nil {
		return nil, "", err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, "", err
	}
	o, err := r.GetOrder(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return o, cur, nil
}

// Claim assigns the acting shipper with a single conditional update, so two
// concurrent claims on the same order have exactly one winner.
func (r *Repo) Claim(ctx context.Context, orderID, shipperID uuid.UUID) (*Order, error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE orders SET shipper_id=$2, status=$3, updated_at=now()
		WHERE id=$1 AND status=$4 AND shipper_id IS NULL`,
		orderID, shipperID, StatusPickedUp, StatusReadyForPickup)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		var exists bool
		if err := r.DB.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM orders WHERE id=$1)`, orderID).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrOrderNotFound
		}
		return nil, ErrOrderNotAvailable
	}
	return r.GetOrder(ctx, orderID)
}

func (r *Repo) MarkPaid(ctx context.Context, id uuid.UUID) (*Order, error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE orders SET payment_status=$2, updated_at=now()
		WHERE id=$1 AND payment_status=$3`, id, PaymentPaid, PaymentUnpaid)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		var exists bool
		if err := r.DB.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM orders WHERE id=$1)`, id).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrOrderNotFound
		}
		return nil, ErrAlreadyPaid
	}
	return r.GetOrder(ctx, id)
}

func (r *Repo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders
		WHERE customer_id=$1 ORDER BY created_at DESC`, customerID)
}

func (r *Repo) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders
		WHERE merchant_id=$1 ORDER BY created_at DESC`, merchantID)
}

func (r *Repo) ListAvailableForShipper(ctx context.Context, limit int) ([]Order, error) {
	if limit <= 0 {
		limit = 50
	}
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders
		WHERE status=$1 AND shipper_id IS NULL
		ORDER BY created_at ASC LIMIT $2`, StatusReadyForPickup, limit)
}

func (r *Repo) list(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.MerchantID, &o.ShipperID, &o.Status,
			&o.PaymentStatus, &o.TotalCents, &o.DeliveryAddress, &o.Note,
			&o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
