package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors exposed by the API.
type Metrics struct {
	registry *prometheus.Registry

	runsStarted      prometheus.Counter
	runsCompleted    prometheus.Counter
	answersSubmitted *prometheus.CounterVec
	advancesBlocked  *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
}

// NewMetrics creates and registers the API collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		runsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "espalier",
			Name:      "runs_started_total",
			Help:      "Number of quiz runs started.",
		}),
		runsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "espalier",
			Name:      "runs_completed_total",
			Help:      "Number of quiz runs that reached an end node.",
		}),
		answersSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "espalier",
			Name:      "answers_submitted_total",
			Help:      "Number of answers submitted, by validation outcome.",
		}, []string{"valid"}),
		advancesBlocked: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "espalier",
			Name:      "advances_blocked_total",
			Help:      "Number of advances blocked, by reason.",
		}, []string{"reason"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "espalier",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "code"}),
	}
}

// Registry exposes the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observeAnswer(valid bool) {
	m.answersSubmitted.WithLabelValues(strconv.FormatBool(valid)).Inc()
}

func (m *Metrics) observeBlocked(reason string) {
	m.advancesBlocked.WithLabelValues(reason).Inc()
}

// statusRecorder captures the response code for the duration histogram.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument wraps a handler to record its latency under the given route label.
func (m *Metrics) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next(rec, r)
		m.requestDuration.
			WithLabelValues(route, strconv.Itoa(rec.code)).
			Observe(time.Since(start).Seconds())
	}
}
