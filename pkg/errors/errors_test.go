package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFound(t *testing.T) {
	err := NotFound("product", "prod-42")

	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Contains(t, err.Message, "prod-42")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("quantity must be positive")

	assert.Equal(t, "INVALID_INPUT", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestPaymentFailed(t *testing.T) {
	err := PaymentFailed("card declined")

	assert.Equal(t, "PAYMENT_FAILED", err.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, err.Status)
	assert.True(t, errors.Is(err, ErrPaymentFailed))
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal(cause)

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "INTERNAL_ERROR")
}

func TestAppError_WrappedThroughFmt(t *testing.T) {
	err := fmt.Errorf("get product: %w", NotFound("product", "p1"))

	var appErr *AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found sentinel", ErrNotFound, http.StatusNotFound},
		{"invalid input sentinel", ErrInvalidInput, http.StatusBadRequest},
		{"conflict sentinel", ErrConflict, http.StatusConflict},
		{"payment failed sentinel", ErrPaymentFailed, http.StatusUnprocessableEntity},
		{"unavailable sentinel", ErrServiceUnavail, http.StatusServiceUnavailable},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"app error", Conflict("version mismatch"), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
