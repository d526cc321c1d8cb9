// internal/pkg/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CatalogLoads counts catalog batches by category and outcome
	CatalogLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "catalog_loads_total",
		Help:      "Catalog loads by category and outcome.",
	}, []string{"category", "outcome"})

	// CatalogLoadDuration observes how long a full category batch takes
	CatalogLoadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "storefront",
		Name:      "catalog_load_duration_seconds",
		Help:      "Duration of catalog loads.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"category"})

	// CartOperations counts cart mutations by operation
	CartOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "cart_operations_total",
		Help:      "Cart mutations by operation.",
	}, []string{"operation"})

	// CheckoutTransitions counts checkout state changes by target state
	CheckoutTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "checkout_transitions_total",
		Help:      "Checkout flow transitions by target state.",
	}, []string{"state"})

	// DashboardSyncs counts dashboard asset merges by outcome
	DashboardSyncs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "dashboard_syncs_total",
		Help:      "Dashboard product syncs by outcome.",
	}, []string{"outcome"})

	// StorageCorruptions counts snapshots that failed to decode and were reset
	StorageCorruptions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "storage_corruptions_total",
		Help:      "Stored snapshots that could not be decoded.",
	}, []string{"key"})
)
