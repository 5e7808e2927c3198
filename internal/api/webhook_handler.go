package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/muhammedsharbag/E-Shop-App/internal/payment"
)

// maxWebhookBodySize caps gateway deliveries; real events are a few KB.
const maxWebhookBodySize = 1 << 20 // 1MB

// WebhookProcessor reconciles a verified gateway delivery into an
// order.
type WebhookProcessor interface {
	HandleWebhookEvent(ctx context.Context, rawBody []byte, signatureHeader string) error
}

// WebhookHandler receives payment-gateway deliveries. The body must
// stay raw bytes until signature verification; any middleware that
// re-encodes it breaks the signature.
type WebhookHandler struct {
	orders WebhookProcessor
	logger zerolog.Logger
}

func NewWebhookHandler(orders WebhookProcessor, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{orders: orders, logger: logger}
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodySize))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "failed to read request body")
		return
	}

	err = h.orders.HandleWebhookEvent(r.Context(), body, r.Header.Get("Stripe-Signature"))
	if errors.Is(err, payment.ErrVerification) {
		respondError(w, http.StatusBadRequest, "invalid_signature", "webhook signature verification failed")
		return
	}
	if err != nil {
		// A 500 makes the gateway redeliver, which is what we want for
		// transient store failures.
		h.logger.Error().Err(err).Msg("webhook processing failed")
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"received": true})
}
