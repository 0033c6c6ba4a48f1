package http

import (
	"log/slog"
	"net/http"

	"github.com/prwkhar/aura-gift/internal/cart"
	"github.com/prwkhar/aura-gift/internal/checkout"
	apperrors "github.com/prwkhar/aura-gift/pkg/errors"
	"github.com/prwkhar/aura-gift/pkg/httputil"
	"github.com/prwkhar/aura-gift/pkg/validator"
)

// CheckoutHandler handles HTTP requests for checkout endpoints.
type CheckoutHandler struct {
	service *checkout.Service
	carts   *cart.Manager
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc *checkout.Service, carts *cart.Manager, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: svc,
		carts:   carts,
		logger:  logger,
	}
}

// SubmitRequest is the JSON request body for submitting an order.
type SubmitRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required,min=6,max=20"`
	Address string `json:"address" validate:"required,min=1,max=1000"`
}

// confirmationView is the JSON projection of the confirmation hand-off.
type confirmationView struct {
	Summary string `json:"summary"`
	Total   string `json:"total"`
}

// Submit handles POST /api/v1/checkout
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("session id is required"), h.logger)
		return
	}

	var req SubmitRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	store, err := h.carts.ForSession(r.Context(), sid)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	order := checkout.Order{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}

	if err := h.service.Submit(r.Context(), store, order); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "submitted"}})
}

// Confirmation handles GET /api/v1/checkout/confirmation
func (h *CheckoutHandler) Confirmation(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("session id is required"), h.logger)
		return
	}

	summary, total, err := h.service.Confirmation(r.Context(), sid)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: confirmationView{Summary: summary, Total: total}})
}
