package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CartItemsAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_items_added_total",
		Help: "Total number of add-to-cart operations",
	})

	CartQuantityUpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_quantity_updates_total",
		Help: "Total number of line quantity updates",
	})

	CartItemsRemovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_items_removed_total",
		Help: "Total number of lines removed from carts",
	})

	CartClearsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_clears_total",
		Help: "Total number of carts emptied",
	})

	CartQuantityClampedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_quantity_clamped_total",
		Help: "Requested quantities outside the allowed range that were clamped",
	}, []string{"operation"})

	CartRestoreFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_restore_failures_total",
		Help: "Cart snapshots discarded at session start",
	}, []string{"reason"})

	CartPersistFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_persist_failures_total",
		Help: "Total number of failed cart snapshot writes",
	})

	CartPersistLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cart_persist_latency_seconds",
		Help:    "Latency of cart mutations including the snapshot write",
		Buckets: prometheus.DefBuckets,
	})

	CartSessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cart_sessions_active",
		Help: "Carts currently held in memory",
	})

	CatalogQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_queries_total",
		Help: "Catalog queries by kind",
	}, []string{"query"})

	CatalogProductNotFoundTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_product_not_found_total",
		Help: "Lookups of unknown product ids",
	})

	CartEventsConsumedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_events_consumed_total",
		Help: "Cart events processed by the activity worker",
	}, []string{"type"})

	CartProductDemandTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_product_demand_total",
		Help: "Units added to carts per product category",
	}, []string{"category"})

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
