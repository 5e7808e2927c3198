package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammedsharbag/E-Shop-App/internal/payment"
)

type processorStub struct {
	err     error
	gotBody []byte
	gotSig  string
}

func (p *processorStub) HandleWebhookEvent(_ context.Context, rawBody []byte, signatureHeader string) error {
	p.gotBody = rawBody
	p.gotSig = signatureHeader
	return p.err
}

func TestWebhookHandler_PassesRawBodyAndSignature(t *testing.T) {
	stub := &processorStub{}
	handler := NewWebhookHandler(stub, zerolog.Nop())

	body := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	request := httptest.NewRequest("POST", "/webhook-checkout", bytes.NewReader(body))
	request.Header.Set("Stripe-Signature", "t=123,v1=abc")
	recorder := httptest.NewRecorder()

	handler.Handle(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"received":true}`, recorder.Body.String())
	assert.Equal(t, body, stub.gotBody)
	assert.Equal(t, "t=123,v1=abc", stub.gotSig)
}

func TestWebhookHandler_BadSignatureIsRejected(t *testing.T) {
	stub := &processorStub{err: fmt.Errorf("%w: signature mismatch", payment.ErrVerification)}
	handler := NewWebhookHandler(stub, zerolog.Nop())

	request := httptest.NewRequest("POST", "/webhook-checkout", bytes.NewReader([]byte("{}")))
	recorder := httptest.NewRecorder()

	handler.Handle(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestWebhookHandler_TransientFailureAsksForRedelivery(t *testing.T) {
	stub := &processorStub{err: errors.New("store unavailable")}
	handler := NewWebhookHandler(stub, zerolog.Nop())

	request := httptest.NewRequest("POST", "/webhook-checkout", bytes.NewReader([]byte("{}")))
	recorder := httptest.NewRecorder()

	handler.Handle(recorder, request)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}
