// Package metrics defines Prometheus metrics for the storefront.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// Remote catalog API metrics.
var (
	RemoteRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "remote_requests_total",
		Help:      "Total remote catalog API requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	RemoteRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "remote_request_duration_seconds",
		Help:      "Duration of remote catalog API requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	RemoteProductsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "remote_products_rejected_total",
		Help:      "Total products dropped because they failed validation.",
	})

	RateLimitWaitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_waits_total",
		Help:      "Total remote calls that went through the client-side rate limiter.",
	})
)

// Catalog controller metrics.
var (
	CatalogStaleResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_stale_responses_total",
		Help:      "Total list responses discarded because a newer request superseded them.",
	}, []string{"kind"})

	CatalogSearchesCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_searches_cancelled_total",
		Help:      "Total debounced searches cancelled before they fired.",
	})

	CatalogFetchFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_fetch_failures_total",
		Help:      "Total page or search fetches collapsed into an empty result.",
	}, []string{"kind"})
)

// Cart metrics.
var (
	CartSeedFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_seed_failures_total",
		Help:      "Total failed attempts to seed the cart from the remote API.",
	})

	CartLineItems = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cart_line_items",
		Help:      "Number of line items in the most recently mutated cart.",
	})
)

// Mock API HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of mock API HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of mock API HTTP requests.",
	}, []string{"method", "path", "status"})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "Whether the last /healthz probe succeeded (1) or failed (0).",
	})
)
