// Package metrics exposes Prometheus instruments for the report pipeline
// and the HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "companion"

// Collector owns a private registry. The Observe methods and Time are
// no-ops on a nil Collector.
type Collector struct {
	registry *prometheus.Registry

	itemsFetched        prometheus.Counter
	itemsRejected       prometheus.Counter
	opportunities       prometheus.Counter
	qualityFiltered     prometheus.Counter
	contextsNeeded      prometheus.Counter
	entriesLearned      *prometheus.CounterVec
	stageDuration       *prometheus.HistogramVec
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New creates a collector with every instrument registered.
func New(version string) *Collector {
	c := &Collector{registry: prometheus.NewRegistry()}

	c.itemsFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "items_fetched_total",
		Help: "Activity items received from the feed source.",
	})
	c.itemsRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "items_rejected_total",
		Help: "Activity items skipped as malformed.",
	})
	c.opportunities = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "opportunities_total",
		Help: "Engagement opportunities placed in reports.",
	})
	c.qualityFiltered = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "quality_filtered_total",
		Help: "Opportunities dropped by the quality filter.",
	})
	c.contextsNeeded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "contexts_needed_total",
		Help: "Report opportunities whose text needs explanation.",
	})
	c.entriesLearned = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "knowledge_entries_learned_total",
		Help: "Knowledge entries created or updated by learning passes.",
	}, []string{"outcome"})
	c.stageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: "stage_duration_seconds",
		Help:    "Duration of pipeline stages.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
	c.httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "http_requests_total",
		Help: "Total number of HTTP requests.",
	}, []string{"method", "status"})
	c.httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
	info := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace, Name: "build_info",
		Help: "Build information.",
	}, []string{"version"})

	c.registry.MustRegister(
		c.itemsFetched, c.itemsRejected, c.opportunities, c.qualityFiltered,
		c.contextsNeeded, c.entriesLearned, c.stageDuration,
		c.httpRequestsTotal, c.httpRequestDuration, info,
	)
	info.WithLabelValues(version).Set(1)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveFetch records a fetched batch.
func (c *Collector) ObserveFetch(items int) {
	if c == nil {
		return
	}
	c.itemsFetched.Add(float64(items))
}

// ObserveRanking records the outcome of a ranking pass.
func (c *Collector) ObserveRanking(kept, rejected int) {
	if c == nil {
		return
	}
	c.opportunities.Add(float64(kept))
	c.itemsRejected.Add(float64(rejected))
}

// ObserveFiltered records opportunities removed by the quality gate.
func (c *Collector) ObserveFiltered(n int) {
	if c == nil {
		return
	}
	c.qualityFiltered.Add(float64(n))
}

// ObserveContextsNeeded records opportunities flagged for explanation.
func (c *Collector) ObserveContextsNeeded(n int) {
	if c == nil {
		return
	}
	c.contextsNeeded.Add(float64(n))
}

// ObserveLearn records a learning pass.
func (c *Collector) ObserveLearn(created, updated int) {
	if c == nil {
		return
	}
	c.entriesLearned.WithLabelValues("created").Add(float64(created))
	c.entriesLearned.WithLabelValues("updated").Add(float64(updated))
}

// Time returns a function that records the elapsed time of stage when called.
func (c *Collector) Time(stage string) func() {
	if c == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		c.stageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware counts requests and their latency.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		c.httpRequestsTotal.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		c.httpRequestDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}
