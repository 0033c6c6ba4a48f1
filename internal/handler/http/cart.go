package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/prwkhar/aura-gift/internal/cart"
	"github.com/prwkhar/aura-gift/internal/domain"
	apperrors "github.com/prwkhar/aura-gift/pkg/errors"
	"github.com/prwkhar/aura-gift/pkg/httputil"
	"github.com/prwkhar/aura-gift/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	carts  *cart.Manager
	logger *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(carts *cart.Manager, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		carts:  carts,
		logger: logger,
	}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding a product to the cart.
type AddItemRequest struct {
	ProductID int    `json:"product_id" validate:"required"`
	Note      string `json:"note" validate:"max=500"`
}

// SetQuantityRequest is the JSON request body for updating a line's quantity.
type SetQuantityRequest struct {
	Quantity int `json:"quantity" validate:"lte=100"`
}

// UpdateNoteRequest is the JSON request body for replacing a line's gift note.
type UpdateNoteRequest struct {
	Note string `json:"note" validate:"max=500"`
}

// cartView is the JSON projection of a cart snapshot. The total is
// recomputed from the lines on every render.
type cartView struct {
	Lines     []domain.CartLine `json:"lines"`
	ItemCount int               `json:"item_count"`
	Total     string            `json:"total"`
}

func viewOf(lines []domain.CartLine) cartView {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return cartView{
		Lines:     lines,
		ItemCount: domain.ItemCount(lines),
		Total:     domain.TotalPrice(lines).StringFixed(2),
	}
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: viewOf(store.Snapshot())})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if _, err := store.Add(r.Context(), req.ProductID, req.Note); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: viewOf(store.Snapshot())})
}

// SetQuantity handles PUT /api/v1/cart/items/{lineRef}
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	productID, err := strconv.Atoi(chi.URLParam(r, "lineRef"))
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("quantity updates address lines by numeric product id"), h.logger)
		return
	}

	var req SetQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := store.SetQuantity(r.Context(), productID, req.Quantity); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: viewOf(store.Snapshot())})
}

// UpdateNote handles PUT /api/v1/cart/items/{lineRef}/note
func (h *CartHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	var req UpdateNoteRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := store.UpdateNote(r.Context(), chi.URLParam(r, "lineRef"), req.Note); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: viewOf(store.Snapshot())})
}

// RemoveItem handles DELETE /api/v1/cart/items/{lineRef}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	if err := store.Remove(r.Context(), chi.URLParam(r, "lineRef")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: viewOf(store.Snapshot())})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	if err := store.Clear(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: viewOf(nil)})
}

// store resolves the session's cart store, writing the error response on
// failure.
func (h *CartHandler) store(w http.ResponseWriter, r *http.Request) (*cart.Store, bool) {
	sid, ok := sessionFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.InvalidInput("session id is required"), h.logger)
		return nil, false
	}

	store, err := h.carts.ForSession(r.Context(), sid)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return nil, false
	}
	return store, true
}
