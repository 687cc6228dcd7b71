// Package metrics exposes Prometheus counters for HTTP traffic and for the
// outcome of blog and auth operations.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shiftsite/internal/models"
)

// Recorder is what the service layer reports operation outcomes to.
type Recorder interface {
	RecordOperation(service, operation string, err error)
}

type HTTPRecorder interface {
	RecordRequest(method, route string, status int, duration time.Duration)
}

type Collector struct {
	operations   *prometheus.CounterVec
	requests     *prometheus.CounterVec
	requestTimes *prometheus.HistogramVec
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shiftsite_operations_total",
			Help: "Service operations by outcome.",
		}, []string{"service", "operation", "outcome"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shiftsite_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"method", "route", "status"}),
		requestTimes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shiftsite_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(c.operations, c.requests, c.requestTimes)

	return c
}

// RecordOperation counts one call. The outcome label is "ok" or the error
// kind, "internal" for errors that carry none.
func (c *Collector) RecordOperation(service, operation string, err error) {
	c.operations.WithLabelValues(service, operation, outcome(err)).Inc()
}

func (c *Collector) RecordRequest(method, route string, status int, duration time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.requestTimes.WithLabelValues(method, route).Observe(duration.Seconds())
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if kind := models.KindOf(err); kind != "" {
		return string(kind)
	}
	return "internal"
}

// Handler serves the registry in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

type nopRecorder struct{}

func (nopRecorder) RecordOperation(string, string, error)            {}
func (nopRecorder) RecordRequest(string, string, int, time.Duration) {}

// Nop discards everything. Used when metrics are not wired.
var Nop = nopRecorder{}
