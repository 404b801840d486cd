package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records counters for the order-splitting engine.
type CheckoutMetrics struct {
	ordersCreated      *prometheus.CounterVec
	checkoutFailures   *prometheus.CounterVec
	statsWriteFailures prometheus.Counter
	placeOrderDuration prometheus.Histogram
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_orders_created_total",
		Help: "Orders created per payment method.",
	}, []string{"payment_method"})
	checkoutFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failures_total",
		Help: "Failed PlaceOrder calls by error code.",
	}, []string{"code"})
	statsWriteFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_stats_write_failures_total",
		Help: "Best-effort manufacturer stats updates that failed.",
	})
	placeOrderDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_place_order_duration_seconds",
		Help:    "Duration of PlaceOrder calls in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(ordersCreated, checkoutFailures, statsWriteFailures, placeOrderDuration)
	return &CheckoutMetrics{
		ordersCreated:      ordersCreated,
		checkoutFailures:   checkoutFailures,
		statsWriteFailures: statsWriteFailures,
		placeOrderDuration: placeOrderDuration,
	}
}

// IncOrderCreated increments the created counter for the payment method.
func (c *CheckoutMetrics) IncOrderCreated(paymentMethod string) {
	if c == nil || c.ordersCreated == nil {
		return
	}
	c.ordersCreated.WithLabelValues(paymentMethod).Inc()
}

// IncCheckoutFailure increments the failure counter for the error code.
func (c *CheckoutMetrics) IncCheckoutFailure(code string) {
	if c == nil || c.checkoutFailures == nil {
		return
	}
	c.checkoutFailures.WithLabelValues(code).Inc()
}

// IncStatsWriteFailure increments the best-effort stats failure counter.
func (c *CheckoutMetrics) IncStatsWriteFailure() {
	if c == nil || c.statsWriteFailures == nil {
		return
	}
	c.statsWriteFailures.Inc()
}

// ObservePlaceOrderDuration records the duration of a PlaceOrder call.
func (c *CheckoutMetrics) ObservePlaceOrderDuration(duration time.Duration) {
	if c == nil || c.placeOrderDuration == nil {
		return
	}
	c.placeOrderDuration.Observe(duration.Seconds())
}
