// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tourli_query_duration_seconds",
			Help:    "Question answering duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"outcome"},
	)

	QueryTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourli_query_total",
			Help: "Total number of questions answered",
		},
		[]string{"outcome", "intent"},
	)

	ConfidenceScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tourli_confidence_score",
			Help:    "Retrieval confidence scores",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)

	CityDetections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourli_city_detections_total",
			Help: "Detected cities by match kind and gazetteer",
		},
		[]string{"kind", "source"},
	)

	WeatherRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourli_weather_requests_total",
			Help: "Weather lookups by result",
		},
		[]string{"result"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourli_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourli_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)

	CorpusReloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourli_corpus_reloads_total",
			Help: "Corpus reload attempts by status",
		},
		[]string{"status"},
	)

	CorpusEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tourli_corpus_entries",
			Help: "Question/answer entries in the active index",
		},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tourli_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "status"},
	)
)

var initOnce sync.Once

// Init registers all collectors with the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(QueryDuration)
		prometheus.MustRegister(QueryTotal)
		prometheus.MustRegister(ConfidenceScore)
		prometheus.MustRegister(CityDetections)
		prometheus.MustRegister(WeatherRequests)
		prometheus.MustRegister(CacheHits)
		prometheus.MustRegister(CacheMisses)
		prometheus.MustRegister(CorpusReloads)
		prometheus.MustRegister(CorpusEntries)
		prometheus.MustRegister(HTTPRequestDuration)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveQuery records one answered question.
func ObserveQuery(outcome, intent string, confidence float64, elapsed time.Duration) {
	QueryTotal.WithLabelValues(outcome, intent).Inc()
	QueryDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
	ConfidenceScore.Observe(confidence)
}

// ObserveHTTP records one served HTTP request.
func ObserveHTTP(method string, status int, elapsed time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
