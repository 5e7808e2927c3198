// Package payment wraps the hosted-checkout payment gateway. The client
// is constructed explicitly and injected; nothing here is process-global.
package payment

import (
	"context"
	"errors"

	"github.com/muhammedsharbag/E-Shop-App/internal/domain"
)

var (
	// ErrVerification covers a bad signature or a payload that does not
	// parse as a signed event. Callers must reject the delivery without
	// processing it.
	ErrVerification = errors.New("webhook event verification failed")
)

// EventCheckoutCompleted is the only event type the reconciler acts on.
const EventCheckoutCompleted = "checkout.session.completed"

// SessionParams describes a hosted checkout session to open. CartID and
// the shipping address ride in the session's reference/metadata fields;
// the webhook has no other channel to recover them.
type SessionParams struct {
	AmountMinor     int64
	Currency        string
	CustomerEmail   string
	CustomerName    string
	CartID          string
	ShippingAddress domain.ShippingAddress
	SuccessURL      string
	CancelURL       string
}

type Session struct {
	ID  string `json:"sessionId"`
	URL string `json:"url"`
}

// Event is a verified gateway notification. Session fields are populated
// only for checkout-completed events.
type Event struct {
	ID              string
	Type            string
	SessionID       string
	CartID          string
	AmountMinor     int64
	CustomerEmail   string
	ShippingAddress domain.ShippingAddress
}

type Gateway interface {
	CreateSession(ctx context.Context, params SessionParams) (*Session, error)
	// VerifyEvent checks the signature header against the raw body and
	// returns the parsed event, or an error wrapping ErrVerification.
	VerifyEvent(rawBody []byte, signatureHeader string) (*Event, error)
}
