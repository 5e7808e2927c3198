// Package metrics exposes Prometheus instrumentation for the checkout
// core.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	OrdersCreated *prometheus.CounterVec
	WebhookEvents *prometheus.CounterVec

	registry *prometheus.Registry
}

// New registers the counters on a fresh registry. Tests build their own
// Metrics so parallel packages never collide on the default registry.
func New(reg *prometheus.Registry) *Metrics {
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eshop",
		Name:      "orders_created_total",
		Help:      "Orders materialized, by payment method.",
	}, []string{"method"})
	webhookEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eshop",
		Name:      "webhook_events_total",
		Help:      "Payment webhook deliveries, by outcome.",
	}, []string{"outcome"})

	reg.MustRegister(ordersCreated, webhookEvents)
	return &Metrics{
		OrdersCreated: ordersCreated,
		WebhookEvents: webhookEvents,
		registry:      reg,
	}
}

// Handler serves the scrape endpoint for this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
