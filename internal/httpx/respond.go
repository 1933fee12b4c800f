package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fastfood-vn/backend/internal/accounts"
	"github.com/fastfood-vn/backend/internal/menus"
	"github.com/fastfood-vn/backend/internal/orders"
	"github.com/fastfood-vn/backend/internal/otp"
	"github.com/fastfood-vn/backend/internal/payments"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to status codes: bad input 400, missing
// references 404, state conflicts 409, throttling 429.
func writeError(w http.ResponseWriter, err error) {
	var stockErr *orders.InsufficientStockError

	switch {
	case errors.Is(err, orders.ErrEmptyCart),
		errors.Is(err, orders.ErrInvalidQuantity),
		errors.Is(err, accounts.ErrInvalidRole),
		errors.Is(err, menus.ErrNegativeStock),
		errors.Is(err, payments.ErrBadCallback),
		errors.Is(err, payments.ErrBadSignature),
		errors.Is(err, otp.ErrInvalidOrExpired):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})

	case errors.Is(err, orders.ErrMerchantNotFound),
		errors.Is(err, orders.ErrMenuItemNotFound),
		errors.Is(err, orders.ErrOrderNotFound),
		errors.Is(err, menus.ErrMerchantNotFound),
		errors.Is(err, menus.ErrMenuItemNotFound),
		errors.Is(err, accounts.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})

	case errors.As(err, &stockErr),
		errors.Is(err, orders.ErrInvalidTransition),
		errors.Is(err, orders.ErrOrderNotAvailable),
		errors.Is(err, orders.ErrAlreadyPaid),
		errors.Is(err, accounts.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})

	case errors.Is(err, otp.ErrThrottled):
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": err.Error()})

	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
