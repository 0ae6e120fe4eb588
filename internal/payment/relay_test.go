package payment

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/delakti/faithassembly-storefront/pkg/errors"
	"github.com/delakti/faithassembly-storefront/pkg/httpclient"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// noRetryClient mirrors the production wiring: charges are never retried.
func noRetryClient() *httpclient.Client {
	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	return httpclient.New(cfg)
}

func TestRelayClient_Charge_Success(t *testing.T) {
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"payment":{"id":"pay-123","status":"COMPLETED"}}`))
	}))
	defer srv.Close()

	client := NewRelayClient(noRetryClient(), srv.URL+"/api/payment", testLogger())

	ref, err := client.Charge(context.Background(), "tok-abc", 4000)
	require.NoError(t, err)
	assert.Equal(t, "pay-123", ref)

	// The wire format is camelCase sourceId plus integer minor units.
	assert.Equal(t, "tok-abc", gotBody["sourceId"])
	assert.Equal(t, float64(4000), gotBody["amount"])
}

func TestRelayClient_Charge_DeclinedWithMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Card declined"}`))
	}))
	defer srv.Close()

	client := NewRelayClient(noRetryClient(), srv.URL, testLogger())

	_, err := client.Charge(context.Background(), "tok-abc", 4000)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrPaymentFailed))

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Card declined", appErr.Message)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
}

func TestRelayClient_Charge_NonJSONFailureBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	client := NewRelayClient(noRetryClient(), srv.URL, testLogger())

	_, err := client.Charge(context.Background(), "tok-abc", 4000)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrPaymentFailed))

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, genericFailureMessage, appErr.Message)
}

func TestRelayClient_Charge_UnparseableSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	client := NewRelayClient(noRetryClient(), srv.URL, testLogger())

	_, err := client.Charge(context.Background(), "tok-abc", 4000)
	assert.True(t, errors.Is(err, apperrors.ErrPaymentFailed))
}

func TestRelayClient_Charge_SuccessWithoutPaymentID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"payment":{}}`))
	}))
	defer srv.Close()

	client := NewRelayClient(noRetryClient(), srv.URL, testLogger())

	_, err := client.Charge(context.Background(), "tok-abc", 4000)
	assert.True(t, errors.Is(err, apperrors.ErrPaymentFailed))
}

func TestRelayClient_Charge_RelayUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // immediately, so the address refuses connections

	client := NewRelayClient(noRetryClient(), srv.URL, testLogger())

	_, err := client.Charge(context.Background(), "tok-abc", 4000)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrServiceUnavail))
}

func TestRelayClient_Charge_ChargesExactlyOnce(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"gateway error"}`))
	}))
	defer srv.Close()

	client := NewRelayClient(noRetryClient(), srv.URL, testLogger())

	_, err := client.Charge(context.Background(), "tok-abc", 4000)
	require.Error(t, err)
	assert.Equal(t, 1, calls, "a failed charge must not be retried")
}
