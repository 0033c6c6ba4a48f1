package http

import (
	"log/slog"
	"net/http"

	"github.com/prwkhar/aura-gift/internal/catalog"
	apperrors "github.com/prwkhar/aura-gift/pkg/errors"
	"github.com/prwkhar/aura-gift/pkg/httputil"
)

// CatalogHandler handles HTTP requests for the product catalog.
type CatalogHandler struct {
	service *catalog.Service
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(svc *catalog.Service, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: svc,
		logger:  logger,
	}
}

// ListProducts handles GET /api/v1/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	if !h.service.Loaded() {
		httputil.WriteError(w, r, apperrors.Unavailable("the catalog could not be loaded, please try again later"), h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.service.Products()})
}

// RefreshCatalog handles POST /api/v1/products/refresh
func (h *CatalogHandler) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Refresh(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.service.Products()})
}
