package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fastfood-vn/backend/internal/menus"
	"github.com/fastfood-vn/backend/internal/orders"
)

type MerchantHandler struct {
	Menus  *menus.Repo
	Orders *orders.Service
}

type updateStockReq struct {
	Stock int `json:"stock"`
}

type availabilityReq struct {
	Available bool `json:"available"`
}

func (h *MerchantHandler) Register(r *chi.Mux) {
	r.Route("/api/merchants/{id}", func(r chi.Router) {
		r.Get("/menu", h.listMenu)
		r.Get("/orders", h.listOrders)
		r.Get("/dashboard", h.dashboard)
		r.Post("/items/{itemID}/stock", h.updateStock)
		r.Post("/items/{itemID}/availability", h.setAvailability)
	})
}

func (h *MerchantHandler) listMenu(w http.ResponseWriter, r *http.Request) {
	merchantID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	items, err := h.Menus.ListMenu(ctx, merchantID)
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []menus.MenuItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *MerchantHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	merchantID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Orders.ListByMerchant(ctx, merchantID)
	if err != nil {
		writeError(w, err)
		return
	}
	if out == nil {
		out = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *MerchantHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	merchantID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	d, err := h.Menus.GetDashboard(ctx, merchantID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *MerchantHandler) updateStock(w http.ResponseWriter, r *http.Request) {
	merchantID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := pathUUID(w, r, "itemID")
	if !ok {
		return
	}
	var req updateStockReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.Menus.UpdateStock(ctx, merchantID, itemID, req.Stock)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *MerchantHandler) setAvailability(w http.ResponseWriter, r *http.Request) {
	merchantID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := pathUUID(w, r, "itemID")
	if !ok {
		return
	}
	var req availabilityReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.Menus.SetAvailability(ctx, merchantID, itemID, req.Available)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
