// Package metrics exposes Prometheus collectors for the recipe service
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they need.
// The Record methods are no-ops on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	recipesLoaded       prometheus.Gauge
	imageTiers          *prometheus.CounterVec
	searchesTotal       *prometheus.CounterVec
	searchResults       prometheus.Histogram
	signupsTotal        *prometheus.CounterVec
	loginsTotal         *prometheus.CounterVec
}

// New registers every collector on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		recipesLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "recipes_loaded",
			Help: "Number of recipes held in memory",
		}),
		imageTiers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipe_image_resolutions_total",
				Help: "Recipes by the tier that resolved their image reference",
			},
			[]string{"tier"},
		),
		searchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recipe_searches_total",
				Help: "Total number of recipe searches",
			},
			[]string{"kind"},
		),
		searchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "recipe_search_results",
			Help:    "Number of results returned per search",
			Buckets: []float64{0, 1, 5, 10, 20, 40, 60},
		}),
		signupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_signups_total",
				Help: "Signup attempts by outcome",
			},
			[]string{"outcome"},
		),
		loginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_logins_total",
				Help: "Login attempts by outcome",
			},
			[]string{"outcome"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.recipesLoaded,
		m.imageTiers,
		m.searchesTotal,
		m.searchResults,
		m.signupsTotal,
		m.loginsTotal,
	)
	return m
}

// Registry is exposed for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

// Middleware records request counts and latency by route template
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RecordRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

func (m *Metrics) RecordRequest(method, path string, status int, latency time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(latency.Seconds())
}

// RecordDataset publishes the size of a freshly loaded dataset and how each
// recipe's image was resolved
func (m *Metrics) RecordDataset(recipes int, tierCounts map[string]int) {
	if m == nil {
		return
	}
	m.recipesLoaded.Set(float64(recipes))
	for tier, n := range tierCounts {
		m.imageTiers.WithLabelValues(tier).Add(float64(n))
	}
}

// RecordSearch counts a search. kind is "all" for an empty query and
// "ingredients" otherwise.
func (m *Metrics) RecordSearch(kind string, results int) {
	if m == nil {
		return
	}
	m.searchesTotal.WithLabelValues(kind).Inc()
	m.searchResults.Observe(float64(results))
}

func (m *Metrics) RecordSignup(outcome string) {
	if m == nil {
		return
	}
	m.signupsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordLogin(outcome string) {
	if m == nil {
		return
	}
	m.loginsTotal.WithLabelValues(outcome).Inc()
}
