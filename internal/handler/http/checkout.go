package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/delakti/faithassembly-storefront/pkg/httputil"
	"github.com/delakti/faithassembly-storefront/pkg/validator"

	"github.com/delakti/faithassembly-storefront/internal/service"
)

// PaymentConfig holds the environment-provided payment widget identifiers.
// Both are required for the hosted card form to render; without them the
// storefront shows a configuration warning instead of a payment form.
type PaymentConfig struct {
	ApplicationID string
	LocationID    string
}

// Configured reports whether the payment widget can be rendered.
func (c PaymentConfig) Configured() bool {
	return c.ApplicationID != "" && c.LocationID != ""
}

// CheckoutHandler handles HTTP requests for the checkout flow.
type CheckoutHandler struct {
	service       *service.CheckoutService
	paymentConfig PaymentConfig
	logger        *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc *service.CheckoutService, paymentConfig PaymentConfig, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service:       svc,
		paymentConfig: paymentConfig,
		logger:        logger,
	}
}

// CheckoutRequest is the JSON request body for completing a checkout.
// Email shape is owned by the checkout service, which accepts anything
// matching local@domain-with-dot; the handler only requires presence.
type CheckoutRequest struct {
	SourceID  string `json:"source_id" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Address   string `json:"address" validate:"required"`
	City      string `json:"city" validate:"required"`
	Postcode  string `json:"postcode" validate:"required"`
}

// paymentNotConfigured is the recognized configuration-error state.
func (h *CheckoutHandler) paymentNotConfigured(w http.ResponseWriter) {
	httputil.WriteJSON(w, http.StatusServiceUnavailable, httputil.Response{
		Error: &httputil.ErrorResponse{
			Code:    "PAYMENT_NOT_CONFIGURED",
			Message: "payment provider identifiers are not configured",
		},
	})
}

// GetConfig handles GET /api/v1/checkout/config. The frontend needs the
// application and location identifiers to render the hosted payment widget.
func (h *CheckoutHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	if !h.paymentConfig.Configured() {
		h.paymentNotConfigured(w)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{
		"application_id": h.paymentConfig.ApplicationID,
		"location_id":    h.paymentConfig.LocationID,
	}})
}

// Checkout handles POST /api/v1/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if !h.paymentConfig.Configured() {
		h.paymentNotConfigured(w)
		return
	}

	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, errors.New("session id missing from context"), h.logger)
		return
	}

	var req CheckoutRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	order, err := h.service.Checkout(r.Context(), sessionID, &service.CheckoutInput{
		SourceID:  req.SourceID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Address:   req.Address,
		City:      req.City,
		Postcode:  req.Postcode,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: order})
}
