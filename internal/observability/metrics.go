package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// search aggregator and the geocoding chain.
type Metrics struct {
	SearchRequests prometheus.Counter
	ItemsReturned  prometheus.Histogram
	SearchDuration prometheus.Histogram

	// Provider fan-out metrics.
	ProviderSearches *prometheus.CounterVec   // labels: provider, outcome={ok,error,skipped}
	ProviderDuration *prometheus.HistogramVec // labels: provider

	// Geocoding metrics.
	GeocodeLookups   *prometheus.CounterVec // labels: strategy, outcome={hit,miss,error,rejected}
	GeocodeCache     *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeFallbacks prometheus.Counter
	RateLimitWait    prometheus.Histogram

	// Audit sink metrics.
	AuditPublished prometheus.Counter
	AuditErrors    prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.SearchRequests,
		m.ItemsReturned,
		m.SearchDuration,
		m.ProviderSearches,
		m.ProviderDuration,
		m.GeocodeLookups,
		m.GeocodeCache,
		m.GeocodeFallbacks,
		m.RateLimitWait,
		m.AuditPublished,
		m.AuditErrors,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests
// can construct components repeatedly without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		SearchRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wazai",
			Name:      "search_requests_total",
			Help:      "Total search queries handled by the coordinator.",
		}),
		ItemsReturned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wazai",
			Name:      "search_items_returned",
			Help:      "Number of map items returned per search after filtering.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		}),
		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wazai",
			Name:      "search_duration_seconds",
			Help:      "Duration of a complete fan-out/merge search.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),
		ProviderSearches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wazai",
			Name:      "provider_searches_total",
			Help:      "Provider invocations by provider name and outcome.",
		}, []string{"provider", "outcome"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wazai",
			Name:      "provider_search_duration_seconds",
			Help:      "Duration of a single provider's search call.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
		GeocodeLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wazai",
			Name:      "geocode_lookups_total",
			Help:      "Geocoding resolutions by strategy and outcome.",
		}, []string{"strategy", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wazai",
			Name:      "geocode_cache_total",
			Help:      "Geocode cache lookups by result.",
		}, []string{"result"}),
		GeocodeFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wazai",
			Name:      "geocode_fallbacks_total",
			Help:      "Resolutions that exhausted every strategy and returned the caller's default.",
		}),
		RateLimitWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wazai",
			Name:      "geocode_rate_limit_wait_seconds",
			Help:      "Time spent blocked on the minimum-interval gate.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.25, 0.5, 1, 2},
		}),
		AuditPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wazai",
			Name:      "audit_events_published_total",
			Help:      "Search audit events published to Kafka.",
		}),
		AuditErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wazai",
			Name:      "audit_publish_errors_total",
			Help:      "Failed attempts to publish a search audit event.",
		}),
	}
}
