package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for store-level observability.
type BusinessMetrics struct {
	// Catalog
	BookViews     prometheus.Counter
	BookSearches  *prometheus.CounterVec
	StockConflict *prometheus.CounterVec

	// Cart & wishlist
	CartItemsAdded    prometheus.Counter
	CartItemsRemoved  prometheus.Counter
	CartCleared       prometheus.Counter
	WishlistAdds      *prometheus.CounterVec
	WishlistMovedCart prometheus.Counter

	// Checkout & orders
	CheckoutCompleted prometheus.Counter
	CheckoutFailed    *prometheus.CounterVec
	OrderValue        prometheus.Histogram
	OrderItemCount    prometheus.Histogram
	OrderTransitions  *prometheus.CounterVec
	OrdersCancelled   *prometheus.CounterVec
	RevenueCollected  prometheus.Counter
	LowStockAlerts    prometheus.Counter

	// Accounts
	Signups     *prometheus.CounterVec
	Logins      *prometheus.CounterVec
	LoginFailed *prometheus.CounterVec

	// Events & jobs
	EventsPublished *prometheus.CounterVec
	EventsDropped   *prometheus.CounterVec
	EventsForwarded *prometheus.CounterVec
	JobsProcessed   *prometheus.CounterVec
	JobsFailed      *prometheus.CounterVec
	JobDuration     *prometheus.HistogramVec

	// Email delivery
	EmailSent   *prometheus.CounterVec
	EmailFailed *prometheus.CounterVec
}

// NewBusinessMetrics creates business metrics registered on reg.
// A nil reg uses the default Prometheus registerer.
func NewBusinessMetrics(namespace string, reg prometheus.Registerer) *BusinessMetrics {
	if namespace == "" {
		namespace = "bookworld"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	subsystem := "business"

	counter := func(name, help string) prometheus.Counter {
		return f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		})
	}
	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		}, labels)
	}

	return &BusinessMetrics{
		// =======================================================================
		// Catalog
		// =======================================================================
		BookViews:     counter("book_views_total", "Total book detail requests"),
		BookSearches:  counterVec("book_searches_total", "Total catalog listings by filter kind", "filter_type"),      // filter_type: search, category, author, none
		StockConflict: counterVec("stock_conflicts_total", "Total requests rejected for insufficient stock", "stage"), // stage: cart, checkout

		// =======================================================================
		// Cart & Wishlist
		// =======================================================================
		CartItemsAdded:    counter("cart_items_added_total", "Total add to cart actions"),
		CartItemsRemoved:  counter("cart_items_removed_total", "Total cart line removals"),
		CartCleared:       counter("cart_cleared_total", "Total carts emptied by the customer"),
		WishlistAdds:      counterVec("wishlist_adds_total", "Total wishlist add attempts", "outcome"), // outcome: added, duplicate
		WishlistMovedCart: counter("wishlist_moved_to_cart_total", "Total wishlist items moved to the cart"),

		// =======================================================================
		// Checkout & Orders
		// =======================================================================
		CheckoutCompleted: counter("checkout_completed_total", "Total successful checkouts"),
		CheckoutFailed:    counterVec("checkout_failed_total", "Total failed checkouts", "reason"), // reason: empty_cart, out_of_stock, invalid, error
		OrderValue: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "order_value_paise",
			Help:      "Order totals in paise",
			Buckets:   []float64{10000, 25000, 50000, 100000, 250000, 500000, 1000000},
		}),
		OrderItemCount: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "order_item_count",
			Help:      "Units per order",
			Buckets:   []float64{1, 2, 3, 5, 10, 20, 50},
		}),
		OrderTransitions: counterVec("order_transitions_total", "Total order status changes", "from", "to"),
		OrdersCancelled:  counterVec("orders_cancelled_total", "Total cancelled orders", "actor"), // actor: customer, admin
		RevenueCollected: counter("revenue_collected_paise_total", "Revenue of delivered orders in paise"),
		LowStockAlerts:   counter("low_stock_alerts_total", "Total low stock alerts raised after checkout"),

		// =======================================================================
		// Accounts
		// =======================================================================
		Signups:     counterVec("signups_total", "Total account registrations", "provider"),
		Logins:      counterVec("logins_total", "Total successful sign-ins", "provider"),
		LoginFailed: counterVec("login_failed_total", "Total failed sign-ins", "reason"),

		// =======================================================================
		// Events & Jobs
		// =======================================================================
		EventsPublished: counterVec("events_published_total", "Total domain events published", "type"),
		EventsDropped:   counterVec("events_dropped_total", "Total events dropped for slow subscribers", "type"),
		EventsForwarded: counterVec("events_forwarded_total", "Total events forwarded to the external broker", "broker", "status"),
		JobsProcessed:   counterVec("jobs_processed_total", "Total event jobs processed", "type"),
		JobsFailed:      counterVec("jobs_failed_total", "Total event jobs failed", "type"),
		JobDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "job_duration_seconds",
			Help:      "Event job duration",
			Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30},
		}, []string{"type"}),

		// =======================================================================
		// Email Delivery
		// =======================================================================
		EmailSent:   counterVec("email_sent_total", "Total emails sent", "email_type"),
		EmailFailed: counterVec("email_failed_total", "Total emails that failed to send", "email_type"),
	}
}

// Global instance for easy access from services and handlers
var Business *BusinessMetrics

// InitBusinessMetrics initializes the global business metrics instance
func InitBusinessMetrics(namespace string) *BusinessMetrics {
	Business = NewBusinessMetrics(namespace, nil)
	return Business
}
