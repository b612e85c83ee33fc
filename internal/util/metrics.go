package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CartOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_operations_total",
		Help: "Cart transitions by command kind",
	}, []string{"command"})

	CartRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_rejections_total",
		Help: "Cart operations rejected with a notice",
	}, []string{"reason"})

	WishlistOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_wishlist_operations_total",
		Help: "Wishlist operations by kind",
	}, []string{"operation"})

	CatalogQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_catalog_query_latency_seconds",
		Help:    "Latency of catalog reads including simulated delay",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	CatalogQueryResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_catalog_query_results",
		Help:    "Number of products matched by a listing query before pagination",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
	})

	StaleSearchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_stale_searches_total",
		Help: "Type-ahead searches superseded before they resolved",
	})

	StorageFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_storage_failures_total",
		Help: "Failed client state reads and writes",
	}, []string{"operation", "key"})

	StorageDiscardedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_storage_discarded_total",
		Help: "Malformed stored records discarded on load",
	}, []string{"key"})

	AuthAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_auth_attempts_total",
		Help: "Login attempts by outcome",
	}, []string{"outcome"})

	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_placed_total",
		Help: "Total number of orders placed",
	})

	OrdersFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_orders_failed_total",
		Help: "Total number of failed order placements",
	}, []string{"reason"})

	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_events_published_total",
		Help: "Storefront events published to the event stream",
	}, []string{"event_type"})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_active_sessions",
		Help: "Sessions currently held in memory",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
