// Package metrics provides Prometheus metrics for the catalog splitter.
package metrics

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for a build pass.
type Metrics struct {
	LocationsTotal       prometheus.Gauge
	LocationsPartitioned *prometheus.CounterVec
	DependenciesPulled   *prometheus.CounterVec
	UnresolvedRefs       *prometheus.CounterVec
	BundlesCopied        prometheus.Counter
	SourcesDeleted       prometheus.Counter
	DirectoriesCleaned   prometheus.Counter
	PassDuration         prometheus.Histogram
}

// New registers all metrics with the default registry.
func New() *Metrics {
	return &Metrics{
		LocationsTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_splitter_locations_total",
			Help: "Locations in the default graph for the current pass.",
		}),
		LocationsPartitioned: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_splitter_locations_partitioned_total",
			Help: "Locations assigned to each catalog.",
		}, []string{"catalog"}),
		DependenciesPulled: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_splitter_dependencies_pulled_total",
			Help: "Dependencies pulled into each catalog by closure.",
		}, []string{"catalog"}),
		UnresolvedRefs: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_splitter_unresolved_references_total",
			Help: "Dependency references that resolved nowhere.",
		}, []string{"catalog"}),
		BundlesCopied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "catalog_splitter_bundles_copied_total",
			Help: "Bundle artifacts copied into catalog build directories.",
		}),
		SourcesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "catalog_splitter_sources_deleted_total",
			Help: "Default-directory bundle copies deleted after relocation.",
		}),
		DirectoriesCleaned: promauto.NewCounter(prometheus.CounterOpts{
			Name: "catalog_splitter_directories_cleaned_total",
			Help: "Catalog build directories removed on clean.",
		}),
		PassDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "catalog_splitter_pass_duration_seconds",
			Help:    "Wall time of a full split pass.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
	}
}

// Serve exposes /metrics on the given address in the background.
func Serve(addr string, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		log.Info("serving metrics", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error("metrics server stopped", "error", err)
		}
	}()
}
