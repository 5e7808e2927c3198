package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/muhammedsharbag/E-Shop-App/internal/cache"
	"github.com/muhammedsharbag/E-Shop-App/internal/domain"
	"github.com/muhammedsharbag/E-Shop-App/internal/metrics"
	"github.com/muhammedsharbag/E-Shop-App/internal/payment"
	"github.com/muhammedsharbag/E-Shop-App/internal/repository"
)

// OrderPublisher notifies downstream consumers about materialized
// orders. Publishing is best-effort; a broker outage never fails a
// checkout.
type OrderPublisher interface {
	OrderCreated(ctx context.Context, order *domain.Order) error
}

// OrderConfig carries the checkout knobs an admin would tune: currently
// flat tax/shipping (both zero) and the redirect pair for the hosted
// payment flow.
type OrderConfig struct {
	TaxPrice      float64
	ShippingPrice float64
	Currency      string
	SuccessURL    string
	CancelURL     string
}

type OrderService struct {
	orders    repository.OrderRepository
	carts     repository.CartRepository
	users     repository.UserRepository
	inventory *InventoryAdjuster
	gateway   payment.Gateway
	publisher OrderPublisher
	cache     cache.CartCache
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	cfg       OrderConfig
}

func NewOrderService(
	orders repository.OrderRepository,
	carts repository.CartRepository,
	users repository.UserRepository,
	inventory *InventoryAdjuster,
	gateway payment.Gateway,
	publisher OrderPublisher,
	cartCache cache.CartCache,
	m *metrics.Metrics,
	logger zerolog.Logger,
	cfg OrderConfig,
) *OrderService {
	return &OrderService{
		orders:    orders,
		carts:     carts,
		users:     users,
		inventory: inventory,
		gateway:   gateway,
		publisher: publisher,
		cache:     cartCache,
		metrics:   m,
		logger:    logger,
		cfg:       cfg,
	}
}

// orderPrice picks the discounted total when a coupon is applied, the
// plain total otherwise.
func orderPrice(cart *domain.Cart) float64 {
	if cart.TotalAfterDiscount != nil {
		return *cart.TotalAfterDiscount
	}
	return cart.TotalPrice
}

// CreateCashOrder converts the cart into an unpaid cash order. The cart
// is deleted only after both the order record and the inventory batch
// have succeeded, so a mid-flight failure never loses the cart without
// an order on file.
func (s *OrderService) CreateCashOrder(ctx context.Context, userID, cartID primitive.ObjectID, addr domain.ShippingAddress) (*domain.Order, error) {
	cart, err := s.carts.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		UserID:          userID,
		Items:           cart.Items,
		TaxPrice:        s.cfg.TaxPrice,
		ShippingPrice:   s.cfg.ShippingPrice,
		ShippingAddress: addr,
		TotalOrderPrice: orderPrice(cart) + s.cfg.TaxPrice + s.cfg.ShippingPrice,
		PaymentMethod:   domain.PaymentMethodCash,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	if err := s.inventory.Apply(ctx, cart.Items); err != nil {
		return nil, err
	}

	s.finishCheckout(ctx, cart, order)
	s.metrics.OrdersCreated.WithLabelValues(string(domain.PaymentMethodCash)).Inc()
	return order, nil
}

// CreateCheckoutSession opens a hosted payment session for the cart. The
// cart id travels in the session's client reference and the shipping
// address in its metadata; the completion webhook has no other way to
// recover either.
func (s *OrderService) CreateCheckoutSession(ctx context.Context, user *domain.User, cartID primitive.ObjectID, addr domain.ShippingAddress) (*payment.Session, error) {
	cart, err := s.carts.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}

	total := orderPrice(cart) + s.cfg.TaxPrice + s.cfg.ShippingPrice
	if total <= 0 {
		return nil, ErrNonPositiveTotal
	}

	session, err := s.gateway.CreateSession(ctx, payment.SessionParams{
		AmountMinor:     int64(math.Round(total * 100)),
		Currency:        s.cfg.Currency,
		CustomerEmail:   user.Email,
		CustomerName:    user.Name,
		CartID:          cartID.Hex(),
		ShippingAddress: addr,
		SuccessURL:      s.cfg.SuccessURL,
		CancelURL:       s.cfg.CancelURL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	return session, nil
}

// HandleWebhookEvent is the reconciler's entry point: raw body bytes and
// the signature header, nothing pre-parsed. Verification failures
// propagate (the delivery is rejected); a missing cart or buyer is
// logged and acknowledged so the gateway stops redelivering an event we
// can never act on.
func (s *OrderService) HandleWebhookEvent(ctx context.Context, rawBody []byte, signatureHeader string) error {
	event, err := s.gateway.VerifyEvent(rawBody, signatureHeader)
	if err != nil {
		s.metrics.WebhookEvents.WithLabelValues("rejected").Inc()
		return err
	}

	if event.Type != payment.EventCheckoutCompleted {
		s.metrics.WebhookEvents.WithLabelValues("ignored").Inc()
		return nil
	}

	// Redelivery guard: one order per payment session, ever. This also
	// holds when a prior delivery failed after the order insert but
	// before inventory and cart cleanup: the order is the durable
	// record, and replaying the stock batch without knowing whether it
	// already landed risks double-decrementing. The cost is a possible
	// under-decrement and a leftover cart, which the cart TTL index
	// reaps.
	if _, err := s.orders.GetByPaymentSession(ctx, event.SessionID); err == nil {
		s.logger.Info().Str("session_id", event.SessionID).Msg("webhook redelivery, order already materialized")
		s.metrics.WebhookEvents.WithLabelValues("duplicate").Inc()
		return nil
	} else if !errors.Is(err, repository.ErrOrderNotFound) {
		return err
	}

	cartID, err := primitive.ObjectIDFromHex(event.CartID)
	if err != nil {
		s.logger.Error().Str("session_id", event.SessionID).Str("cart_id", event.CartID).
			Msg("webhook carries unusable cart reference, skipping order")
		s.metrics.WebhookEvents.WithLabelValues("skipped").Inc()
		return nil
	}

	cart, err := s.carts.GetByID(ctx, cartID)
	if errors.Is(err, repository.ErrCartNotFound) {
		s.logger.Warn().Str("session_id", event.SessionID).Str("cart_id", event.CartID).
			Msg("cart gone before payment confirmation, skipping order")
		s.metrics.WebhookEvents.WithLabelValues("skipped").Inc()
		return nil
	}
	if err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, event.CustomerEmail)
	if errors.Is(err, repository.ErrUserNotFound) {
		s.logger.Warn().Str("session_id", event.SessionID).Str("email", event.CustomerEmail).
			Msg("paying user not found, skipping order")
		s.metrics.WebhookEvents.WithLabelValues("skipped").Inc()
		return nil
	}
	if err != nil {
		return err
	}

	now := time.Now()
	order := &domain.Order{
		UserID:           user.ID,
		Items:            cart.Items,
		TaxPrice:         s.cfg.TaxPrice,
		ShippingPrice:    s.cfg.ShippingPrice,
		ShippingAddress:  event.ShippingAddress,
		TotalOrderPrice:  float64(event.AmountMinor) / 100,
		PaymentMethod:    domain.PaymentMethodCard,
		PaymentSessionID: event.SessionID,
		IsPaid:           true,
		PaidAt:           &now,
	}
	err = s.orders.Create(ctx, order)
	if errors.Is(err, repository.ErrDuplicateOrder) {
		// Concurrent delivery of the same event won the race; nothing
		// left to do.
		s.metrics.WebhookEvents.WithLabelValues("duplicate").Inc()
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.inventory.Apply(ctx, cart.Items); err != nil {
		return err
	}

	s.finishCheckout(ctx, cart, order)
	s.metrics.OrdersCreated.WithLabelValues(string(domain.PaymentMethodCard)).Inc()
	s.metrics.WebhookEvents.WithLabelValues("processed").Inc()
	return nil
}

// finishCheckout is the shared tail of both payment paths: drop the
// cart, drop its cache entry, announce the order. All best-effort; the
// order is already durable.
func (s *OrderService) finishCheckout(ctx context.Context, cart *domain.Cart, order *domain.Order) {
	if err := s.carts.Delete(ctx, cart.ID); err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		s.logger.Error().Err(err).Str("cart_id", cart.ID.Hex()).Msg("failed to delete cart after checkout")
	}

	cacheCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(cacheCtx, cart.UserID.Hex()); err != nil {
		s.logger.Warn().Err(err).Msg("cart cache invalidate failed")
	}

	if s.publisher != nil {
		if err := s.publisher.OrderCreated(ctx, order); err != nil {
			s.logger.Error().Err(err).Str("order_id", order.ID.Hex()).Msg("failed to publish order event")
		}
	}
}

// GetOrder returns one order by id.
func (s *OrderService) GetOrder(ctx context.Context, orderID primitive.ObjectID) (*domain.Order, error) {
	return s.orders.GetByID(ctx, orderID)
}

// ListOrders returns the caller's own orders for plain users and every
// order for admins and managers.
func (s *OrderService) ListOrders(ctx context.Context, user *domain.User) ([]domain.Order, error) {
	if user.Role == domain.RoleUser {
		return s.orders.ListByUser(ctx, user.ID)
	}
	return s.orders.ListAll(ctx)
}

func (s *OrderService) MarkPaid(ctx context.Context, orderID primitive.ObjectID) (*domain.Order, error) {
	return s.orders.SetPaid(ctx, orderID, time.Now())
}

func (s *OrderService) MarkDelivered(ctx context.Context, orderID primitive.ObjectID) (*domain.Order, error) {
	return s.orders.SetDelivered(ctx, orderID, time.Now())
}
