package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fastfood-vn/backend/internal/payments"
)

type PaymentsHandler struct {
	Svc *payments.Service
}

type checkoutReq struct {
	OrderID uuid.UUID `json:"order_id"`
}

func (h *PaymentsHandler) Register(r *chi.Mux) {
	r.Post("/api/payments/checkout", h.checkout)
	r.Post("/api/payments/callback", h.callback)
}

func (h *PaymentsHandler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	url, err := h.Svc.Checkout(ctx, req.OrderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"payment_url": url})
}

func (h *PaymentsHandler) callback(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid form"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Svc.HandleCallback(ctx, r.Form)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"order_id":       o.ID,
		"payment_status": o.PaymentStatus,
	})
}
