package orders

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrEmptyCart         = errors.New("order has no items")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrMerchantNotFound  = errors.New("merchant not found")
	ErrMenuItemNotFound  = errors.New("menu item not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderNotAvailable = errors.New("order is not available for pickup")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyPaid       = errors.New("order is not unpaid")
)

type InsufficientStockError struct {
	MenuItemID uuid.UUID
	Name       string
	Requested  int
	Available  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s: requested %d, available %d",
		e.Name, e.Requested, e.Available)
}
