package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	apperrors "github.com/delakti/faithassembly-storefront/pkg/errors"
	"github.com/delakti/faithassembly-storefront/pkg/httpclient"
)

// genericFailureMessage is shown when the relay gives no usable message.
// Raw transport or parse errors are never surfaced to the shopper.
const genericFailureMessage = "payment failed, please try again"

// HTTPDoer is the interface for executing HTTP requests. Both
// httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
//
// Charge requests must NOT be retried automatically: a retried POST could
// charge the card twice. Wire this with a client configured for zero
// retries.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// RelayClient calls the server-side payment relay, which exchanges an
// opaque payment-method token for a charge with the external gateway. Card
// data never passes through this service; the hosted widget produces the
// token and the relay does the rest.
type RelayClient struct {
	doer   HTTPDoer
	url    string
	logger *slog.Logger
}

// NewRelayClient creates a relay client. url is the full endpoint, e.g.
// "https://pay.example.com/api/payment".
func NewRelayClient(doer HTTPDoer, url string, logger *slog.Logger) *RelayClient {
	return &RelayClient{
		doer:   doer,
		url:    url,
		logger: logger,
	}
}

type chargeRequest struct {
	SourceID string `json:"sourceId"`
	Amount   int64  `json:"amount"`
}

type chargeResponse struct {
	Payment struct {
		ID string `json:"id"`
	} `json:"payment"`
}

type relayFailure struct {
	Message string `json:"message"`
}

// Charge posts the payment token and an integer minor-unit amount to the
// relay and returns the payment reference on success. Any non-2xx status
// or unparseable body is a failure; the relay's message field is preferred
// as the user-visible error, falling back to a generic one.
func (c *RelayClient) Charge(ctx context.Context, sourceID string, amountMinor int64) (string, error) {
	body, err := json.Marshal(chargeRequest{SourceID: sourceID, Amount: amountMinor})
	if err != nil {
		return "", fmt.Errorf("marshal charge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create charge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		if errors.Is(err, httpclient.ErrCircuitOpen) {
			return "", apperrors.Unavailable("payment service is temporarily unavailable, please retry shortly")
		}
		c.logger.ErrorContext(ctx, "payment relay call failed",
			slog.String("error", err.Error()),
		)
		return "", apperrors.Unavailable("could not reach the payment service, please try again")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", c.failureFromResponse(ctx, resp)
	}

	var charge chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&charge); err != nil || charge.Payment.ID == "" {
		c.logger.ErrorContext(ctx, "payment relay returned unparseable success body",
			slog.Int("status", resp.StatusCode),
		)
		return "", apperrors.PaymentFailed(genericFailureMessage)
	}

	c.logger.InfoContext(ctx, "payment charged",
		slog.String("payment_ref", charge.Payment.ID),
		slog.Int64("amount_minor", amountMinor),
	)

	return charge.Payment.ID, nil
}

// failureFromResponse turns a non-2xx relay response into a PaymentFailed
// error, preferring the relay's own message over the generic fallback.
func (c *RelayClient) failureFromResponse(ctx context.Context, resp *http.Response) error {
	message := genericFailureMessage

	var failure relayFailure
	if err := json.NewDecoder(resp.Body).Decode(&failure); err == nil && failure.Message != "" {
		message = failure.Message
	}

	c.logger.WarnContext(ctx, "payment relay rejected charge",
		slog.Int("status", resp.StatusCode),
		slog.String("message", message),
	)

	return apperrors.PaymentFailed(message)
}
