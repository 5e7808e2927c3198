package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/muhammedsharbag/E-Shop-App/internal/domain"
	"github.com/muhammedsharbag/E-Shop-App/internal/payment"
)

// OrderService is the slice of the service layer the order endpoints
// need.
type OrderService interface {
	CreateCashOrder(ctx context.Context, userID, cartID primitive.ObjectID, addr domain.ShippingAddress) (*domain.Order, error)
	CreateCheckoutSession(ctx context.Context, user *domain.User, cartID primitive.ObjectID, addr domain.ShippingAddress) (*payment.Session, error)
	ListOrders(ctx context.Context, user *domain.User) ([]domain.Order, error)
	GetOrder(ctx context.Context, orderID primitive.ObjectID) (*domain.Order, error)
	MarkPaid(ctx context.Context, orderID primitive.ObjectID) (*domain.Order, error)
	MarkDelivered(ctx context.Context, orderID primitive.ObjectID) (*domain.Order, error)
}

type OrderHandler struct {
	orders OrderService
}

func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type CreateOrderRequestDTO struct {
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
}

// CreateCashOrder converts the cart at {cartID} into a cash-on-delivery
// order.
func (h *OrderHandler) CreateCashOrder(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	cartID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "cartID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_cart_id", "cartID must be a valid object id")
		return
	}

	var req CreateOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.orders.CreateCashOrder(r.Context(), user.ID, cartID, req.ShippingAddress)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

// CreateCheckoutSession opens a hosted card-payment session for the
// cart and returns its redirect URL.
func (h *OrderHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	cartID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "cartID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_cart_id", "cartID must be a valid object id")
		return
	}

	var req CreateOrderRequestDTO
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
			return
		}
	}

	session, err := h.orders.CreateCheckoutSession(r.Context(), user, cartID, req.ShippingAddress)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

// List returns the caller's orders, or every order for staff roles.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orders, err := h.orders.ListOrders(r.Context(), user)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orderID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "orderID must be a valid object id")
		return
	}

	order, err := h.orders.GetOrder(r.Context(), orderID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	// Plain users only ever see their own orders.
	if user.Role == domain.RoleUser && order.UserID != user.ID {
		respondError(w, http.StatusNotFound, "order_not_found", "order not found")
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	orderID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "orderID must be a valid object id")
		return
	}

	order, err := h.orders.MarkPaid(r.Context(), orderID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	orderID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "orderID must be a valid object id")
		return
	}

	order, err := h.orders.MarkDelivered(r.Context(), orderID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}
