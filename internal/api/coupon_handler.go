package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/muhammedsharbag/E-Shop-App/internal/domain"
)

// CouponService is the admin side of coupons.
type CouponService interface {
	Create(ctx context.Context, name string, discount float64, expire time.Time) (*domain.Coupon, error)
	List(ctx context.Context) ([]domain.Coupon, error)
}

type CouponHandler struct {
	coupons CouponService
}

func NewCouponHandler(coupons CouponService) *CouponHandler {
	return &CouponHandler{coupons: coupons}
}

type CreateCouponRequestDTO struct {
	Name     string    `json:"name"`
	Discount float64   `json:"discount"`
	Expire   time.Time `json:"expire"`
}

func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCouponRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "invalid_name", "coupon name is required")
		return
	}

	coupon, err := h.coupons.Create(r.Context(), req.Name, req.Discount, req.Expire)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, coupon)
}

func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.coupons.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if coupons == nil {
		coupons = []domain.Coupon{}
	}
	respondJSON(w, http.StatusOK, coupons)
}
