package http

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog/log"
)

// MetricsRegistry holds the server's Prometheus instruments on a private
// registry so tests never collide on the global one.
type MetricsRegistry struct {
	registry *prometheus.Registry

	ComputeDuration  *prometheus.HistogramVec
	Computations     *prometheus.CounterVec
	CacheLoads       *prometheus.CounterVec
	ValidationIssues *prometheus.CounterVec
	RateLimited      prometheus.Counter
}

// NewMetricsRegistry creates and registers the instrument set.
func NewMetricsRegistry() *MetricsRegistry {
	m := &MetricsRegistry{
		registry: prometheus.NewRegistry(),

		ComputeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "courtline_compute_duration_seconds",
				Help:    "Duration of fair line computations in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
			[]string{"endpoint"},
		),

		Computations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtline_computations_total",
				Help: "Total fair line computations by endpoint and result",
			},
			[]string{"endpoint", "result"},
		),

		CacheLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtline_cache_loads_total",
				Help: "Snapshot cache loads by cache and result",
			},
			[]string{"cache", "result"},
		),

		ValidationIssues: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courtline_validation_issues_total",
				Help: "Tracker validation issues by severity",
			},
			[]string{"severity"},
		),

		RateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "courtline_rate_limited_total",
				Help: "Requests rejected by the rate limiter",
			},
		),
	}

	m.registry.MustRegister(
		m.ComputeDuration,
		m.Computations,
		m.CacheLoads,
		m.ValidationIssues,
		m.RateLimited,
	)
	return m
}

// ComputeTimer tracks one computation's latency.
type ComputeTimer struct {
	metrics  *MetricsRegistry
	endpoint string
	start    time.Time
}

// StartCompute begins timing a computation.
func (m *MetricsRegistry) StartCompute(endpoint string) *ComputeTimer {
	return &ComputeTimer{metrics: m, endpoint: endpoint, start: time.Now()}
}

// Stop records the computation's duration and result.
func (t *ComputeTimer) Stop(result string) {
	duration := time.Since(t.start)
	t.metrics.ComputeDuration.WithLabelValues(t.endpoint).Observe(duration.Seconds())
	t.metrics.Computations.WithLabelValues(t.endpoint, result).Inc()

	log.Debug().
		Str("endpoint", t.endpoint).
		Str("result", result).
		Dur("duration", duration).
		Msg("computation completed")
}

// RecordValidation folds an issue tally into the severity counters.
func (m *MetricsRegistry) RecordValidation(errors, warnings, infos int) {
	m.ValidationIssues.WithLabelValues("ERROR").Add(float64(errors))
	m.ValidationIssues.WithLabelValues("WARN").Add(float64(warnings))
	m.ValidationIssues.WithLabelValues("INFO").Add(float64(infos))
}

// MetricsHandler serves the registry in the Prometheus text format.
func (m *MetricsRegistry) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gathered snapshots the registry for the health payload: family name to
// total sample value.
func (m *MetricsRegistry) Gathered() map[string]float64 {
	families, err := m.registry.Gather()
	if err != nil {
		log.Warn().Err(err).Msg("metrics gather failed")
		return nil
	}

	out := make(map[string]float64, len(families))
	for _, fam := range families {
		out[fam.GetName()] = familyTotal(fam)
	}
	return out
}

func familyTotal(fam *dto.MetricFamily) float64 {
	var total float64
	for _, metric := range fam.GetMetric() {
		switch fam.GetType() {
		case dto.MetricType_COUNTER:
			total += metric.GetCounter().GetValue()
		case dto.MetricType_GAUGE:
			total += metric.GetGauge().GetValue()
		case dto.MetricType_HISTOGRAM:
			total += float64(metric.GetHistogram().GetSampleCount())
		}
	}
	return total
}
