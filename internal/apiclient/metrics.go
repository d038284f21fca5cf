package apiclient

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instrumentation for the API client.
// All methods are nil-safe so an uninstrumented client pays nothing.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RefreshesTotal  *prometheus.CounterVec
}

// NewMetrics creates and registers all client metrics with the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RequestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "montanha",
				Name:      "api_requests_total",
				Help:      "Total number of API requests issued",
			},
			[]string{"method", "status"}, // status is the class: 2xx/4xx/5xx/error
		),
		RequestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "montanha",
				Name:      "api_request_duration_seconds",
				Help:      "API request duration in seconds, retries included",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		RefreshesTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "montanha",
				Name:      "token_refreshes_total",
				Help:      "Total access token refresh attempts",
			},
			[]string{"outcome"}, // outcome=ok/failed/skipped
		),
	}
}

func (m *Metrics) observeRequest(method string, status int, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	class := "error"
	if err == nil && status > 0 {
		class = strconv.Itoa(status/100) + "xx"
	}
	m.RequestsTotal.WithLabelValues(method, class).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) observeRefresh(outcome string) {
	if m == nil {
		return
	}
	m.RefreshesTotal.WithLabelValues(outcome).Inc()
}

// metricsTransport is the outermost transport stage. It records one
// observation per logical request, so a refresh-and-retry counts once with
// the final status and the full elapsed time.
type metricsTransport struct {
	next    http.RoundTripper
	metrics *Metrics
}

// RoundTrip implements http.RoundTripper.
func (t *metricsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	t.metrics.observeRequest(req.Method, status, err, time.Since(start))
	return resp, err
}
