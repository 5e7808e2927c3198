package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/muhammedsharbag/E-Shop-App/internal/domain"
	"github.com/muhammedsharbag/E-Shop-App/internal/metrics"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth     *AuthHandler
	Cart     *CartHandler
	Order    *OrderHandler
	Coupon   *CouponHandler
	Webhook  *WebhookHandler
	AuthGate *Authenticator
	Metrics  *metrics.Metrics
}

// NewRouter wires the full HTTP surface. The webhook endpoint is
// mounted outside /api/v1 and before auth: the gateway signs its own
// requests and carries no bearer token.
func NewRouter(h Handlers, requestTimeout time.Duration) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", h.Metrics.Handler())

	r.Post("/webhook-checkout", h.Webhook.Handle)

	authLimiter := newIPRateLimiter(rate.Every(6*time.Second), 10)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(limitBody(maxJSONBodySize))
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.middleware)
			r.Post("/signup", h.Auth.Signup)
			r.Post("/login", h.Auth.Login)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(h.AuthGate.Middleware)
			r.Use(allowedTo(domain.RoleUser))
			r.Post("/", h.Cart.AddItem)
			r.Get("/", h.Cart.Get)
			r.Delete("/", h.Cart.Clear)
			r.Put("/applyCoupon", h.Cart.ApplyCoupon)
			r.Put("/{itemID}", h.Cart.UpdateItemQuantity)
			r.Delete("/{itemID}", h.Cart.RemoveItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(h.AuthGate.Middleware)
			r.Group(func(r chi.Router) {
				r.Use(allowedTo(domain.RoleUser))
				r.Post("/{cartID}", h.Order.CreateCashOrder)
				r.Get("/checkout-session/{cartID}", h.Order.CreateCheckoutSession)
			})
			r.Group(func(r chi.Router) {
				r.Use(allowedTo(domain.RoleUser, domain.RoleAdmin, domain.RoleManager))
				r.Get("/", h.Order.List)
				r.Get("/{orderID}", h.Order.Get)
			})
			r.Group(func(r chi.Router) {
				r.Use(allowedTo(domain.RoleAdmin, domain.RoleManager))
				r.Put("/{orderID}/pay", h.Order.MarkPaid)
				r.Put("/{orderID}/deliver", h.Order.MarkDelivered)
			})
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Use(h.AuthGate.Middleware)
			r.Use(allowedTo(domain.RoleAdmin, domain.RoleManager))
			r.Get("/", h.Coupon.List)
			r.Post("/", h.Coupon.Create)
		})
	})

	return r
}
