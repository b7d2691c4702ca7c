// Package metrics provides Prometheus-based metrics for model calls and batches.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds every namesmith metric. It registers on the registry it is
// given, so tests can use a fresh prometheus.NewRegistry() each time.
type Recorder struct {
	callsTotal    *prometheus.CounterVec
	callDuration  *prometheus.HistogramVec
	throttleWait  *prometheus.HistogramVec
	batchesTotal  *prometheus.CounterVec
	logoFailures  prometheus.Counter
	batchDuration prometheus.Histogram
}

// NewRecorder creates and registers the metrics.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		callsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "namesmith_model_calls_total",
				Help: "Total number of generative model calls by kind, provider, model and status",
			},
			[]string{"kind", "provider", "model", "status"},
		),
		callDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "namesmith_model_call_duration_seconds",
				Help:    "Duration of generative model calls in seconds",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
			},
			[]string{"kind", "provider"},
		),
		throttleWait: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "namesmith_throttle_wait_seconds",
				Help:    "Time spent waiting on pacing limiters",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"limiter"},
		),
		batchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "namesmith_batches_total",
				Help: "Total number of batches by outcome",
			},
			[]string{"outcome"},
		),
		logoFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "namesmith_logo_failures_total",
			Help: "Ideas whose logo generation failed and were replaced by a placeholder",
		}),
		batchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "namesmith_batch_duration_seconds",
			Help:    "End-to-end batch duration in seconds",
			Buckets: []float64{5, 10, 20, 40, 80, 160, 320},
		}),
	}
}

// ObserveCall records one completed model call.
func (r *Recorder) ObserveCall(kind, provider, model string, success bool, d time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	r.callsTotal.WithLabelValues(kind, provider, model, status).Inc()
	r.callDuration.WithLabelValues(kind, provider).Observe(d.Seconds())
}

// ObserveThrottle records time spent blocked on a limiter.
func (r *Recorder) ObserveThrottle(limiter string, d time.Duration) {
	r.throttleWait.WithLabelValues(limiter).Observe(d.Seconds())
}

// ObserveBatch records a settled batch. outcome is "success" or "error".
func (r *Recorder) ObserveBatch(outcome string, d time.Duration) {
	r.batchesTotal.WithLabelValues(outcome).Inc()
	r.batchDuration.Observe(d.Seconds())
}

// IncLogoFailure counts one placeholder result.
func (r *Recorder) IncLogoFailure() {
	r.logoFailures.Inc()
}
