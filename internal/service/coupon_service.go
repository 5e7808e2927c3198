package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/muhammedsharbag/E-Shop-App/internal/domain"
	"github.com/muhammedsharbag/E-Shop-App/internal/repository"
)

var (
	ErrCouponDiscountRange = errors.New("discount must be between 1 and 100 percent")
	ErrCouponExpired       = errors.New("expiry must be in the future")
	ErrCouponExists        = errors.New("coupon name already exists")
)

// CouponService covers the admin side of coupons; redemption lives on
// the cart.
type CouponService struct {
	coupons repository.CouponRepository
}

func NewCouponService(coupons repository.CouponRepository) *CouponService {
	return &CouponService{coupons: coupons}
}

// Create registers a coupon. Names are stored uppercase so lookup at
// redemption time is exact-match.
func (s *CouponService) Create(ctx context.Context, name string, discount float64, expire time.Time) (*domain.Coupon, error) {
	if discount < 1 || discount > 100 {
		return nil, ErrCouponDiscountRange
	}
	if !expire.After(time.Now()) {
		return nil, ErrCouponExpired
	}

	coupon := &domain.Coupon{
		Name:     strings.ToUpper(strings.TrimSpace(name)),
		Discount: discount,
		Expire:   expire,
	}
	err := s.coupons.Create(ctx, coupon)
	if errors.Is(err, repository.ErrDuplicateCoupon) {
		return nil, ErrCouponExists
	}
	if err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *CouponService) List(ctx context.Context) ([]domain.Coupon, error) {
	return s.coupons.List(ctx)
}
