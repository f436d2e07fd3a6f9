// Package metrics wires Prometheus instrumentation for the HTTP layer
// and the simulation pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Business metrics
	signalsGenerated  *prometheus.CounterVec
	backtestsTotal    *prometheus.CounterVec
	backtestDuration  prometheus.Histogram
	sandboxRuns       *prometheus.CounterVec
	sandboxDuration   prometheus.Histogram
	comparisonsTotal  prometheus.Counter
	jobsActive        *prometheus.GaugeVec
	candlesLoaded     prometheus.Counter
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	// Business metrics
	r.signalsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helix_signals_generated_total",
			Help: "Total number of actionable signals generated",
		},
		[]string{"strategy", "action"},
	)
	r.backtestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helix_backtests_total",
			Help: "Total number of backtests",
		},
		[]string{"strategy", "status"},
	)
	r.backtestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "helix_backtest_duration_seconds",
			Help:    "Backtest duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
	)
	r.sandboxRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helix_sandbox_executions_total",
			Help: "Total number of custom strategy executions",
		},
		[]string{"status"},
	)
	r.sandboxDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "helix_sandbox_duration_seconds",
			Help:    "Custom strategy execution duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
	)
	r.comparisonsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "helix_comparisons_total",
			Help: "Total number of strategy comparison runs",
		},
	)
	r.jobsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "helix_jobs_active",
			Help: "Number of active jobs",
		},
		[]string{"type"},
	)
	r.candlesLoaded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "helix_candles_loaded_total",
			Help: "Total number of candles loaded from price data sources",
		},
	)

	reg.MustRegister(r.signalsGenerated)
	reg.MustRegister(r.backtestsTotal)
	reg.MustRegister(r.backtestDuration)
	reg.MustRegister(r.sandboxRuns)
	reg.MustRegister(r.sandboxDuration)
	reg.MustRegister(r.comparisonsTotal)
	reg.MustRegister(r.jobsActive)
	reg.MustRegister(r.candlesLoaded)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordSignal records a generated signal.
func (r *Registry) RecordSignal(strategy, action string) {
	r.signalsGenerated.WithLabelValues(strategy, action).Inc()
}

// RecordBacktest records a backtest completion.
func (r *Registry) RecordBacktest(strategy, status string, duration float64) {
	r.backtestsTotal.WithLabelValues(strategy, status).Inc()
	r.backtestDuration.Observe(duration)
}

// RecordSandboxRun records a custom strategy execution.
func (r *Registry) RecordSandboxRun(status string, duration float64) {
	r.sandboxRuns.WithLabelValues(status).Inc()
	r.sandboxDuration.Observe(duration)
}

// RecordComparison records a comparison run completion.
func (r *Registry) RecordComparison() {
	r.comparisonsTotal.Inc()
}

// SetJobsActive sets the number of active jobs of a type.
func (r *Registry) SetJobsActive(jobType string, count int) {
	r.jobsActive.WithLabelValues(jobType).Set(float64(count))
}

// AddCandlesLoaded counts candles read from a data source.
func (r *Registry) AddCandlesLoaded(n int) {
	r.candlesLoaded.Add(float64(n))
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
