package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/delakti/faithassembly-storefront/pkg/httputil"
	"github.com/delakti/faithassembly-storefront/pkg/pagination"

	"github.com/delakti/faithassembly-storefront/internal/repository"
	"github.com/delakti/faithassembly-storefront/internal/service"
)

// CatalogHandler handles HTTP requests for the product catalog.
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: svc,
		logger:  logger,
	}
}

// ListProducts handles GET /api/v1/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	filter := repository.ProductFilter{
		Page:    params.Page,
		PerPage: params.PerPage,
	}
	if category := r.URL.Query().Get("category"); category != "" {
		filter.Category = &category
	}
	if search := r.URL.Query().Get("search"); search != "" {
		filter.Search = &search
	}

	products, total, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: pagination.NewResult(products, total, params),
	})
}

// GetProduct handles GET /api/v1/products/{productId}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	product, err := h.service.GetProduct(r.Context(), productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}
