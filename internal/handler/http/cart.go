package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/delakti/faithassembly-storefront/pkg/httputil"
	"github.com/delakti/faithassembly-storefront/pkg/validator"

	"github.com/delakti/faithassembly-storefront/internal/domain"
	"github.com/delakti/faithassembly-storefront/internal/service"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// ProductSnapshot is the embedded product payload on an add-to-cart request.
// The frontend sends the whole product it rendered, and that snapshot is
// what the cart keeps.
type ProductSnapshot struct {
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"name" validate:"required,min=1,max=500"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"gte=0"`
	Category    string   `json:"category"`
	Images      []string `json:"images"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Variants    []string `json:"variants"`
}

// AddItemRequest is the JSON request body for adding an item to the cart.
// Quantity is optional; anything below 1 is treated as 1.
type AddItemRequest struct {
	Product  ProductSnapshot `json:"product"`
	Quantity int             `json:"quantity"`
	Variant  string          `json:"variant"`
}

// UpdateQuantityRequest is the JSON request body for updating a line's
// quantity. Values below 1 are a silent no-op, so no bound is enforced here.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (p ProductSnapshot) toDomain() domain.Product {
	return domain.Product{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Images:      p.Images,
		Stock:       p.Stock,
		Variants:    p.Variants,
	}
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, errors.New("session id missing from context"), h.logger)
		return
	}

	cart, err := h.service.GetCart(r.Context(), sessionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, errors.New("session id missing from context"), h.logger)
		return
	}

	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.service.AddItem(r.Context(), sessionID, service.AddItemInput{
		Product:  req.Product.toDomain(),
		Quantity: req.Quantity,
		Variant:  req.Variant,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// UpdateQuantity handles PUT /api/v1/cart/items/{productId}?variant=
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, errors.New("session id missing from context"), h.logger)
		return
	}

	productID := chi.URLParam(r, "productId")
	variant := r.URL.Query().Get("variant")

	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.service.UpdateQuantity(r.Context(), sessionID, productID, variant, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// RemoveItem handles DELETE /api/v1/cart/items/{productId}?variant=
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, errors.New("session id missing from context"), h.logger)
		return
	}

	productID := chi.URLParam(r, "productId")
	variant := r.URL.Query().Get("variant")

	cart, err := h.service.RemoveItem(r.Context(), sessionID, productID, variant)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, errors.New("session id missing from context"), h.logger)
		return
	}

	if err := h.service.ClearCart(r.Context(), sessionID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "cleared"}})
}
