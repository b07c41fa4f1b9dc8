package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "crop_advisor"

// Metrics holds the Prometheus counters, histograms, and gauges for the advisor.
type Metrics struct {
	Searches        *prometheus.CounterVec // labels: outcome={success,not_found,error,invalid}
	SearchDuration  prometheus.Histogram
	Recommendations *prometheus.CounterVec // labels: crop
	NoSoilData      prometheus.Counter

	// Upstream API metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: api={geocoding,forecast}, outcome={success,error,empty}
	UpstreamDuration *prometheus.HistogramVec // labels: api
	GeocodeCache     *prometheus.CounterVec   // labels: result={hit,miss}

	ReportsPublished *prometheus.CounterVec // labels: outcome={success,error}
	SoilCitiesLoaded prometheus.Gauge
}

// NewMetrics creates and registers all advisor metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Searches,
		m.SearchDuration,
		m.Recommendations,
		m.NoSoilData,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.GeocodeCache,
		m.ReportsPublished,
		m.SoilCitiesLoaded,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "City searches by outcome.",
		}, []string{"outcome"}),
		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Duration of a complete geocode, fetch and score cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		Recommendations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_total",
			Help:      "Times each crop appeared in a recommendation.",
		}, []string{"crop"}),
		NoSoilData: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "no_soil_data_total",
			Help:      "Searches answered without soil pH data.",
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Open-Meteo API requests by API and outcome.",
		}, []string{"api", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_duration_seconds",
			Help:      "Open-Meteo API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"api"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		ReportsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_published_total",
			Help:      "Search reports written to Kafka by outcome.",
		}, []string{"outcome"}),
		SoilCitiesLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "soil_cities_loaded",
			Help:      "Number of cities in the soil pH reference table.",
		}),
	}
}
