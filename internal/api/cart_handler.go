package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/muhammedsharbag/E-Shop-App/internal/domain"
)

// CartService is the slice of the service layer the cart endpoints
// need.
type CartService interface {
	AddItem(ctx context.Context, userID, productID primitive.ObjectID, color string) (*domain.Cart, error)
	Get(ctx context.Context, userID primitive.ObjectID) (*domain.Cart, error)
	Clear(ctx context.Context, userID primitive.ObjectID) error
	UpdateItemQuantity(ctx context.Context, userID, itemID primitive.ObjectID, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, itemID primitive.ObjectID) (*domain.Cart, error)
	ApplyCoupon(ctx context.Context, userID primitive.ObjectID, name string) (*domain.Cart, error)
}

type CartHandler struct {
	carts CartService
}

func NewCartHandler(carts CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type AddItemRequestDTO struct {
	ProductID string `json:"productId"`
	Color     string `json:"color"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type ApplyCouponRequestDTO struct {
	Coupon string `json:"coupon"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId must be a valid object id")
		return
	}

	cart, err := h.carts.AddItem(r.Context(), user.ID, productID, req.Color)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, cart)
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	cart, err := h.carts.Get(r.Context(), user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	if err := h.carts.Clear(r.Context(), user.ID); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	itemID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "itemID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "itemID must be a valid object id")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	cart, err := h.carts.UpdateItemQuantity(r.Context(), user.ID, itemID, req.Quantity)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	itemID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "itemID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "itemID must be a valid object id")
		return
	}

	cart, err := h.carts.RemoveItem(r.Context(), user.ID, itemID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req ApplyCouponRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Coupon == "" {
		respondError(w, http.StatusBadRequest, "invalid_coupon", "coupon name is required")
		return
	}

	cart, err := h.carts.ApplyCoupon(r.Context(), user.ID, req.Coupon)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}
