package menus

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrMerchantNotFound = errors.New("merchant not found")
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrNegativeStock    = errors.New("stock must not be negative")
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) GetMerchant(ctx context.Context, id uuid.UUID) (*Merchant, error) {
	var m Merchant
	err := r.DB.QueryRow(ctx, `
		SELECT id, owner_id, name, address, phone, is_active, created_at
		FROM merchants WHERE id=$1`, id).Scan(
		&m.ID, &m.OwnerID, &m.Name, &m.Address, &m.Phone, &m.IsActive, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMerchantNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repo) ListMenu(ctx context.Context, merchantID uuid.UUID) ([]MenuItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, merchant_id, name, price_cents, stock, is_available, created_at, updated_at
		FROM menu_items WHERE merchant_id=$1 ORDER BY name`, merchantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MenuItem
	for rows.Next() {
		var it MenuItem
		if err := rows.Scan(&it.ID, &it.MerchantID, &it.Name, &it.PriceCents, &it.Stock,
			&it.IsAvailable, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// UpdateStock replaces the stock counter for a merchant-owned item. Checkout
// decrements race-free against this because both paths write the same row
// under row locks and the schema enforces stock >= 0.
func (r *Repo) UpdateStock(ctx context.Context, merchantID, itemID uuid.UUID, stock int) (*MenuItem, error) {
	if stock < 0 {
		return nil, ErrNegativeStock
	}
	return r.updateItem(ctx, `
		UPDATE menu_items SET stock=$3, updated_at=now()
		WHERE id=$1 AND merchant_id=$2
		RETURNING id, merchant_id, name, price_cents, stock, is_available, created_at, updated_at`,
		itemID, merchantID, stock)
}

func (r *Repo) SetAvailability(ctx context.Context, merchantID, itemID uuid.UUID, available bool) (*MenuItem, error) {
	return r.updateItem(ctx, `
		UPDATE menu_items SET is_available=$3, updated_at=now()
		WHERE id=$1 AND merchant_id=$2
		RETURNING id, merchant_id, name, price_cents, stock, is_available, created_at, updated_at`,
		itemID, merchantID, available)
}

func (r *Repo) updateItem(ctx context.Context, query string, args ...any) (*MenuItem, error) {
	var it MenuItem
	err := r.DB.QueryRow(ctx, query, args...).Scan(
		&it.ID, &it.MerchantID, &it.Name, &it.PriceCents, &it.Stock,
		&it.IsAvailable, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMenuItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *Repo) GetDashboard(ctx context.Context, merchantID uuid.UUID) (*Dashboard, error) {
	m, err := r.GetMerchant(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	d := Dashboard{Merchant: *m}

	err = r.DB.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(total_cents) FILTER (WHERE payment_status='PAID'), 0)
		FROM orders
		WHERE merchant_id=$1 AND created_at >= date_trunc('day', now())`,
		merchantID).Scan(&d.OrdersToday, &d.RevenueToday)
	if err != nil {
		return nil, err
	}

	err = r.DB.QueryRow(ctx, `
		SELECT COUNT(*) FROM menu_items WHERE merchant_id=$1 AND stock=0`,
		merchantID).Scan(&d.SoldOutItems)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
