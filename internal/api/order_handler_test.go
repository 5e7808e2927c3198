package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/muhammedsharbag/E-Shop-App/internal/domain"
	"github.com/muhammedsharbag/E-Shop-App/internal/payment"
	"github.com/muhammedsharbag/E-Shop-App/internal/repository"
)

type orderServiceStub struct {
	order   *domain.Order
	orders  []domain.Order
	session *payment.Session
	err     error

	lastAddr domain.ShippingAddress
}

func (s *orderServiceStub) CreateCashOrder(_ context.Context, _, _ primitive.ObjectID, addr domain.ShippingAddress) (*domain.Order, error) {
	s.lastAddr = addr
	return s.order, s.err
}

func (s *orderServiceStub) CreateCheckoutSession(_ context.Context, _ *domain.User, _ primitive.ObjectID, addr domain.ShippingAddress) (*payment.Session, error) {
	s.lastAddr = addr
	return s.session, s.err
}

func (s *orderServiceStub) ListOrders(_ context.Context, _ *domain.User) ([]domain.Order, error) {
	return s.orders, s.err
}

func (s *orderServiceStub) GetOrder(_ context.Context, _ primitive.ObjectID) (*domain.Order, error) {
	return s.order, s.err
}

func (s *orderServiceStub) MarkPaid(_ context.Context, _ primitive.ObjectID) (*domain.Order, error) {
	return s.order, s.err
}

func (s *orderServiceStub) MarkDelivered(_ context.Context, _ primitive.ObjectID) (*domain.Order, error) {
	return s.order, s.err
}

func orderRouter(h *OrderHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Post("/{cartID}", h.CreateCashOrder)
	r.Get("/checkout-session/{cartID}", h.CreateCheckoutSession)
	r.Get("/", h.List)
	r.Get("/{orderID}", h.Get)
	r.Put("/{orderID}/pay", h.MarkPaid)
	r.Put("/{orderID}/deliver", h.MarkDelivered)
	return r
}

func TestOrderHandler_CreateCashOrder(t *testing.T) {
	stub := &orderServiceStub{order: &domain.Order{
		ID:              primitive.NewObjectID(),
		TotalOrderPrice: 90,
		PaymentMethod:   domain.PaymentMethodCash,
	}}
	router := orderRouter(NewOrderHandler(stub))

	addr := domain.ShippingAddress{Details: "14 Tahrir Sq", Phone: "+20100000000", City: "Cairo", PostalCode: "11511"}
	body, _ := json.Marshal(CreateOrderRequestDTO{ShippingAddress: addr})
	request := withUser(httptest.NewRequest("POST", "/"+primitive.NewObjectID().Hex(), bytes.NewReader(body)), testUser())
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, addr, stub.lastAddr)

	var order domain.Order
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&order))
	assert.Equal(t, 90.0, order.TotalOrderPrice)
}

func TestOrderHandler_CreateCashOrder_CartGone(t *testing.T) {
	router := orderRouter(NewOrderHandler(&orderServiceStub{err: repository.ErrCartNotFound}))

	request := withUser(httptest.NewRequest("POST", "/"+primitive.NewObjectID().Hex(), bytes.NewReader([]byte("{}"))), testUser())
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestOrderHandler_CreateCheckoutSession(t *testing.T) {
	stub := &orderServiceStub{session: &payment.Session{ID: "cs_test", URL: "https://pay.example.com/cs_test"}}
	router := orderRouter(NewOrderHandler(stub))

	request := withUser(httptest.NewRequest("GET", "/checkout-session/"+primitive.NewObjectID().Hex(), nil), testUser())
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "https://pay.example.com/cs_test")
}

func TestOrderHandler_Get_HidesForeignOrdersFromPlainUsers(t *testing.T) {
	order := &domain.Order{ID: primitive.NewObjectID(), UserID: primitive.NewObjectID()}
	router := orderRouter(NewOrderHandler(&orderServiceStub{order: order}))

	request := withUser(httptest.NewRequest("GET", "/"+order.ID.Hex(), nil), testUser())
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNotFound, recorder.Code)

	// Staff can read any order.
	admin := &domain.User{ID: primitive.NewObjectID(), Role: domain.RoleAdmin, Active: true}
	request = withUser(httptest.NewRequest("GET", "/"+order.ID.Hex(), nil), admin)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestOrderHandler_List(t *testing.T) {
	stub := &orderServiceStub{orders: []domain.Order{{ID: primitive.NewObjectID()}, {ID: primitive.NewObjectID()}}}
	router := orderRouter(NewOrderHandler(stub))

	request := withUser(httptest.NewRequest("GET", "/", nil), testUser())
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var orders []domain.Order
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&orders))
	assert.Len(t, orders, 2)
}

func TestOrderHandler_MarkPaid_BadID(t *testing.T) {
	router := orderRouter(NewOrderHandler(&orderServiceStub{}))

	request := withUser(httptest.NewRequest("PUT", "/not-an-id/pay", nil), testUser())
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
