// Package repository holds the MongoDB persistence layer. Consumers
// depend on the interfaces, not the Mongo implementations.
package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/muhammedsharbag/E-Shop-App/internal/domain"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrCouponNotFound  = errors.New("coupon not found")
	ErrProductNotFound = errors.New("product not found")
	ErrUserNotFound    = errors.New("user not found")

	// ErrVersionConflict is returned when a cart replace loses an
	// optimistic-concurrency race and the caller should retry.
	ErrVersionConflict = errors.New("cart version conflict")

	// ErrDuplicateCart means another request created this user's cart
	// first; the caller should re-read and retry.
	ErrDuplicateCart = errors.New("cart already exists for user")

	ErrDuplicateCoupon = errors.New("coupon name already exists")
	ErrDuplicateUser   = errors.New("email already registered")
	// ErrDuplicateOrder means an order for the same payment session was
	// already materialized.
	ErrDuplicateOrder = errors.New("order already exists for payment session")
)

type CartRepository interface {
	GetByUser(ctx context.Context, userID primitive.ObjectID) (*domain.Cart, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Cart, error)
	Create(ctx context.Context, cart *domain.Cart) error
	// Replace swaps the whole cart document, guarded by the version it
	// was read at. Returns ErrVersionConflict on a lost race.
	Replace(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error)
	GetByPaymentSession(ctx context.Context, sessionID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	SetPaid(ctx context.Context, id primitive.ObjectID, at time.Time) (*domain.Order, error)
	SetDelivered(ctx context.Context, id primitive.ObjectID, at time.Time) (*domain.Order, error)
}

type CouponRepository interface {
	// FindValid returns the coupon with the given name whose expiry is
	// strictly after now, or ErrCouponNotFound.
	FindValid(ctx context.Context, name string, now time.Time) (*domain.Coupon, error)
	Create(ctx context.Context, coupon *domain.Coupon) error
	List(ctx context.Context) ([]domain.Coupon, error)
}

type ProductRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)
	// AdjustStock applies the deltas as one bulk write and reports how
	// many products were matched. Missing products do not fail the batch.
	AdjustStock(ctx context.Context, deltas []domain.StockDelta) (matched int64, err error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}
