package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/muhammedsharbag/E-Shop-App/internal/payment"
	"github.com/muhammedsharbag/E-Shop-App/internal/repository"
	"github.com/muhammedsharbag/E-Shop-App/internal/service"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// respondServiceError maps sentinel errors from the service and
// repository layers onto HTTP statuses. Anything unrecognized is a 500
// with no detail leaked.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrCartNotFound):
		respondError(w, http.StatusNotFound, "cart_not_found", "cart not found")
	case errors.Is(err, repository.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "order_not_found", "order not found")
	case errors.Is(err, repository.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
	case errors.Is(err, service.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "item_not_found", "item not found in cart")
	case errors.Is(err, service.ErrCouponInvalid):
		respondError(w, http.StatusBadRequest, "invalid_coupon", "coupon is invalid or expired")
	case errors.Is(err, service.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be positive")
	case errors.Is(err, service.ErrNonPositiveTotal):
		respondError(w, http.StatusBadRequest, "empty_cart", "cart total must be positive")
	case errors.Is(err, service.ErrCouponDiscountRange):
		respondError(w, http.StatusBadRequest, "invalid_discount", "discount must be between 1 and 100 percent")
	case errors.Is(err, service.ErrCouponExpired):
		respondError(w, http.StatusBadRequest, "invalid_expiry", "expiry must be in the future")
	case errors.Is(err, service.ErrEmailTaken):
		respondError(w, http.StatusConflict, "email_taken", "email already registered")
	case errors.Is(err, service.ErrCouponExists):
		respondError(w, http.StatusConflict, "coupon_exists", "coupon name already exists")
	case errors.Is(err, service.ErrTooMuchContention):
		respondError(w, http.StatusConflict, "conflict", "cart modified concurrently, try again")
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
	case errors.Is(err, service.ErrAccountDisabled):
		respondError(w, http.StatusForbidden, "account_disabled", "account is deactivated")
	case errors.Is(err, service.ErrGateway):
		respondError(w, http.StatusBadGateway, "gateway_error", "payment gateway unavailable")
	case errors.Is(err, payment.ErrVerification):
		respondError(w, http.StatusBadRequest, "invalid_signature", "webhook signature verification failed")
	default:
		log.Error().Err(err).Msg("unhandled service error")
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
