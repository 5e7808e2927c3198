package service

import "errors"

var (
	ErrItemNotFound     = errors.New("item not found in cart")
	ErrCouponInvalid    = errors.New("coupon is invalid or expired")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrNonPositiveTotal = errors.New("cart total must be positive")
	ErrProductMissing   = errors.New("product missing during stock adjustment")
	// ErrGateway wraps payment-gateway call failures; surfaced as an
	// upstream error, never retried here.
	ErrGateway = errors.New("payment gateway request failed")
	// ErrTooMuchContention means a cart mutation kept losing the
	// optimistic-concurrency race.
	ErrTooMuchContention = errors.New("cart modified concurrently, retries exhausted")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is deactivated")
)
