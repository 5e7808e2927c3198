// Package cache keeps a short-lived Redis copy of each user's cart so
// hot reads skip Mongo. The cache is disposable: callers fall back to
// the store on a miss and never trust it over the repository.
package cache

import (
	"context"
	"errors"

	"github.com/muhammedsharbag/E-Shop-App/internal/domain"
)

// ErrCacheMiss reports that no cached copy exists for the user.
var ErrCacheMiss = errors.New("cart not cached")

// CartCache is keyed by the owning user's id.
type CartCache interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Set(ctx context.Context, userID string, cart *domain.Cart) error
	Delete(ctx context.Context, userID string) error
}
