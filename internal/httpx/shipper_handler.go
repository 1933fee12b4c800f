package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fastfood-vn/backend/internal/orders"
)

type ShipperHandler struct {
	Svc *orders.Service
}

func (h *ShipperHandler) Register(r *chi.Mux) {
	r.Route("/api/shipper/orders", func(r chi.Router) {
		r.Get("/", h.listAvailable)
		r.Post("/{id}/pickup", h.pickup)
		r.Post("/{id}/delivering", h.delivering)
		r.Post("/{id}/delivered", h.delivered)
	})
}

func (h *ShipperHandler) listAvailable(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Svc.ListAvailableForShipper(ctx, 50)
	if err != nil {
		writeError(w, err)
		return
	}
	if out == nil {
		out = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ShipperHandler) pickup(w http.ResponseWriter, r *http.Request) {
	shipperID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Svc.Claim(ctx, id, shipperID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *ShipperHandler) delivering(w http.ResponseWriter, r *http.Request) {
	h.advance(w, r, orders.StatusDelivering)
}

func (h *ShipperHandler) delivered(w http.ResponseWriter, r *http.Request) {
	h.advance(w, r, orders.StatusDelivered)
}

func (h *ShipperHandler) advance(w http.ResponseWriter, r *http.Request, next orders.Status) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Svc.SetStatus(ctx, id, next)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}
