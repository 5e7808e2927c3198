package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/muhammedsharbag/E-Shop-App/internal/domain"
)

const (
	metaDetails    = "details"
	metaPhone      = "phone"
	metaCity       = "city"
	metaPostalCode = "postal_code"
)

type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{
		api:           api,
		webhookSecret: webhookSecret,
	}
}

func (g *StripeGateway) CreateSession(ctx context.Context, p SessionParams) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(p.SuccessURL),
		CancelURL:         stripe.String(p.CancelURL),
		CustomerEmail:     stripe.String(p.CustomerEmail),
		ClientReferenceID: stripe.String(p.CartID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(p.Currency),
					UnitAmount: stripe.Int64(p.AmountMinor),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(p.CustomerName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	params.AddMetadata(metaDetails, p.ShippingAddress.Details)
	params.AddMetadata(metaPhone, p.ShippingAddress.Phone)
	params.AddMetadata(metaCity, p.ShippingAddress.City)
	params.AddMetadata(metaPostalCode, p.ShippingAddress.PostalCode)

	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &Session{ID: s.ID, URL: s.URL}, nil
}

func (g *StripeGateway) VerifyEvent(rawBody []byte, signatureHeader string) (*Event, error) {
	ev, err := webhook.ConstructEventWithOptions(rawBody, signatureHeader, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerification, err)
	}

	out := &Event{ID: ev.ID, Type: string(ev.Type)}
	if out.Type != EventCheckoutCompleted {
		return out, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(ev.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("%w: malformed session payload: %v", ErrVerification, err)
	}

	out.SessionID = session.ID
	out.CartID = session.ClientReferenceID
	out.AmountMinor = session.AmountTotal
	out.CustomerEmail = session.CustomerEmail
	if session.CustomerDetails != nil && session.CustomerDetails.Email != "" {
		out.CustomerEmail = session.CustomerDetails.Email
	}
	out.ShippingAddress = domain.ShippingAddress{
		Details:    session.Metadata[metaDetails],
		Phone:      session.Metadata[metaPhone],
		City:       session.Metadata[metaCity],
		PostalCode: session.Metadata[metaPostalCode],
	}

	return out, nil
}
