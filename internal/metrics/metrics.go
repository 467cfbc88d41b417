// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "balancewheel_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "balancewheel_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	toggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "balancewheel_goal_toggles_total",
		Help: "Daily goal completion changes by resulting state.",
	}, []string{"completed"})

	hierarchyViolations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "balancewheel_hierarchy_violations_total",
		Help: "Daily goals whose ancestor chain failed validation.",
	}, []string{"kind"})

	aggregationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "balancewheel_aggregation_duration_seconds",
		Help:    "Time to load and aggregate a period's progress.",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"period"})
)

func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func Toggled(completed bool) {
	toggles.WithLabelValues(strconv.FormatBool(completed)).Inc()
}

// HierarchyViolation counts a broken chain; kind is "missing" or "inconsistent".
func HierarchyViolation(kind string) {
	hierarchyViolations.WithLabelValues(kind).Inc()
}

func ObserveAggregation(period string, elapsed time.Duration) {
	aggregationDuration.WithLabelValues(period).Observe(elapsed.Seconds())
}
