package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/singleflight"

	"github.com/muhammedsharbag/E-Shop-App/internal/cache"
	"github.com/muhammedsharbag/E-Shop-App/internal/domain"
	"github.com/muhammedsharbag/E-Shop-App/internal/pricing"
	"github.com/muhammedsharbag/E-Shop-App/internal/repository"
)

// maxReplaceRetries bounds the optimistic-concurrency retry loop for
// read-mutate-replace cart updates.
const maxReplaceRetries = 3

type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	coupons  repository.CouponRepository
	cache    cache.CartCache
	logger   zerolog.Logger
	sfg      singleflight.Group // Prevents cache stampede
}

func NewCartService(
	carts repository.CartRepository,
	products repository.ProductRepository,
	coupons repository.CouponRepository,
	cartCache cache.CartCache,
	logger zerolog.Logger,
) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		coupons:  coupons,
		cache:    cartCache,
		logger:   logger,
	}
}

// AddItem snapshots the product's current catalog price and merges it
// into the user's cart: same product and color bumps the quantity by one,
// anything else appends a new line item. The cart is created lazily on
// first add.
func (s *CartService) AddItem(ctx context.Context, userID, productID primitive.ObjectID, color string) (*domain.Cart, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxReplaceRetries; attempt++ {
		cart, err := s.carts.GetByUser(ctx, userID)
		if errors.Is(err, repository.ErrCartNotFound) {
			cart = &domain.Cart{
				UserID: userID,
				Items: []domain.CartItem{
					{ProductID: productID, Color: color, Price: product.Price, Quantity: 1},
				},
			}
			pricing.ComputeTotal(cart)
			err = s.carts.Create(ctx, cart)
			if errors.Is(err, repository.ErrDuplicateCart) {
				continue // another request created the cart first
			}
			if err != nil {
				return nil, err
			}
			s.invalidateCache(userID)
			return cart, nil
		}
		if err != nil {
			return nil, err
		}

		merged := false
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID && cart.Items[i].Color == color {
				cart.Items[i].Quantity++
				merged = true
				break
			}
		}
		if !merged {
			cart.Items = append(cart.Items, domain.CartItem{
				ProductID: productID,
				Color:     color,
				Price:     product.Price,
				Quantity:  1,
			})
		}
		pricing.ComputeTotal(cart)

		err = s.carts.Replace(ctx, cart)
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		s.invalidateCache(userID)
		return cart, nil
	}

	return nil, ErrTooMuchContention
}

func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, itemID primitive.ObjectID, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	for attempt := 0; attempt < maxReplaceRetries; attempt++ {
		cart, err := s.carts.GetByUser(ctx, userID)
		if err != nil {
			return nil, err
		}

		found := false
		for i := range cart.Items {
			if cart.Items[i].ID == itemID {
				cart.Items[i].Quantity = quantity
				found = true
				break
			}
		}
		if !found {
			return nil, ErrItemNotFound
		}
		pricing.ComputeTotal(cart)

		err = s.carts.Replace(ctx, cart)
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		s.invalidateCache(userID)
		return cart, nil
	}

	return nil, ErrTooMuchContention
}

// RemoveItem pulls the matching line item. A missing cart is an error; a
// missing item is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID primitive.ObjectID) (*domain.Cart, error) {
	for attempt := 0; attempt < maxReplaceRetries; attempt++ {
		cart, err := s.carts.GetByUser(ctx, userID)
		if err != nil {
			return nil, err
		}

		kept := cart.Items[:0]
		for _, item := range cart.Items {
			if item.ID != itemID {
				kept = append(kept, item)
			}
		}
		cart.Items = kept
		pricing.ComputeTotal(cart)

		err = s.carts.Replace(ctx, cart)
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		s.invalidateCache(userID)
		return cart, nil
	}

	return nil, ErrTooMuchContention
}

// Clear deletes the cart document entirely. Idempotent.
func (s *CartService) Clear(ctx context.Context, userID primitive.ObjectID) error {
	if err := s.carts.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	s.invalidateCache(userID)
	return nil
}

// Get returns the user's cart with any applied discount masked: a
// discounted total is only valid on the read that applied the coupon,
// never on later unrelated reads.
func (s *CartService) Get(ctx context.Context, userID primitive.ObjectID) (*domain.Cart, error) {
	key := userID.Hex()
	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, key)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn().Err(err).Msg("cart cache get failed")
		}

		cart, err = s.carts.GetByUser(ctx, userID)
		if err != nil {
			return nil, err
		}

		go func() {
			cacheCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := s.cache.Set(cacheCtx, key, cart); err != nil {
				s.logger.Warn().Err(err).Msg("cart cache set failed")
			}
		}()

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	cart := *v.(*domain.Cart)
	cart.TotalAfterDiscount = nil
	return &cart, nil
}

// ApplyCoupon looks up an unexpired coupon by exact name and stores the
// discounted total on the cart. The total is recomputed first so the
// discount always reflects the cart's current contents.
func (s *CartService) ApplyCoupon(ctx context.Context, userID primitive.ObjectID, name string) (*domain.Cart, error) {
	coupon, err := s.coupons.FindValid(ctx, strings.ToUpper(strings.TrimSpace(name)), time.Now())
	if errors.Is(err, repository.ErrCouponNotFound) {
		return nil, ErrCouponInvalid
	}
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxReplaceRetries; attempt++ {
		cart, err := s.carts.GetByUser(ctx, userID)
		if err != nil {
			return nil, err
		}

		pricing.ComputeTotal(cart)
		pricing.ApplyDiscount(cart, coupon.Discount)

		err = s.carts.Replace(ctx, cart)
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		s.invalidateCache(userID)
		return cart, nil
	}

	return nil, ErrTooMuchContention
}

func (s *CartService) invalidateCache(userID primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID.Hex()); err != nil {
		s.logger.Warn().Err(err).Msg("cart cache invalidate failed")
	}
}
