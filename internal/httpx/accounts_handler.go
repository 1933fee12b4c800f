package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fastfood-vn/backend/internal/accounts"
)

type AccountsHandler struct {
	Svc      *accounts.Service
	OTPDebug bool // echo codes in responses; dev environments only
}

type requestOTPReq struct {
	Email string `json:"email"`
}

type confirmRegisterReq struct {
	Email    string        `json:"email"`
	OTP      string        `json:"otp"`
	Password string        `json:"password"`
	Role     accounts.Role `json:"role"`
}

type resetPasswordReq struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

func (h *AccountsHandler) Register(r *chi.Mux) {
	r.Route("/api/accounts", func(r chi.Router) {
		r.Post("/register/request-otp", h.requestRegisterOTP)
		r.Post("/register/confirm", h.confirmRegister)
		r.Post("/forgot/request-otp", h.forgotPassword)
		r.Post("/reset-password/confirm", h.resetPassword)
	})
}

func (h *AccountsHandler) requestRegisterOTP(w http.ResponseWriter, r *http.Request) {
	email, ok := decodeEmail(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	req, err := h.Svc.RequestRegisterOTP(ctx, email)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := map[string]any{
		"detail":     "verification code sent",
		"expires_at": req.ExpiresAt,
	}
	if h.OTPDebug {
		resp["debug_otp"] = req.Code
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AccountsHandler) confirmRegister(w http.ResponseWriter, r *http.Request) {
	var req confirmRegisterReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Email == "" || req.OTP == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	u, err := h.Svc.ConfirmRegister(ctx, strings.TrimSpace(req.Email), req.OTP, req.Password, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"user_id": u.ID,
		"email":   u.Email,
		"role":    u.Role,
	})
}

// forgotPassword answers 200 whether or not the email is registered.
func (h *AccountsHandler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	email, ok := decodeEmail(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	req, err := h.Svc.RequestPasswordReset(ctx, email)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := map[string]any{"detail": "if the email is registered, a code has been sent"}
	if req != nil {
		resp["expires_at"] = req.ExpiresAt
		if h.OTPDebug {
			resp["debug_otp"] = req.Code
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AccountsHandler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Email == "" || req.OTP == "" || req.NewPassword == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.ResetPassword(ctx, strings.TrimSpace(req.Email), req.OTP, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"detail": "password updated"})
}

func decodeEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req requestOTPReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return "", false
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "valid email required"})
		return "", false
	}
	return email, true
}
