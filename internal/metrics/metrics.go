// Package metrics records AI content operations as Prometheus series.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "technomart_ai"

// Operation outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeFailed   = "failed"
	OutcomeDisabled = "disabled"
)

// Image attempt outcomes.
const (
	AttemptSuccess = "success"
	AttemptRetry   = "retry"
	AttemptFailed  = "failed"
)

// Recorder owns its own registry so several recorders can coexist in tests.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	operations    *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	imageAttempts *prometheus.CounterVec
}

func New() *Recorder {
	registry := prometheus.NewRegistry()

	r := &Recorder{
		registry: registry,

		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "AI content operations by operation and outcome.",
		}, []string{"operation", "outcome"}),

		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Wall time of AI content operations, retries included.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		}, []string{"operation"}),

		imageAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_attempts_total",
			Help:      "Individual image generation attempts by outcome.",
		}, []string{"outcome"}),
	}

	registry.MustRegister(
		r.operations,
		r.duration,
		r.imageAttempts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

func (r *Recorder) ObserveOperation(operation, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}

	r.operations.WithLabelValues(operation, outcome).Inc()
	r.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveImageAttempt(outcome string) {
	if r == nil {
		return
	}

	r.imageAttempts.WithLabelValues(outcome).Inc()
}

func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}

	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// OperationCount and ImageAttemptCount expose counter values for tests and
// health reporting.
func (r *Recorder) OperationCount(operation, outcome string) float64 {
	if r == nil {
		return 0
	}
	return counterValue(r.operations.WithLabelValues(operation, outcome))
}

func (r *Recorder) ImageAttemptCount(outcome string) float64 {
	if r == nil {
		return 0
	}
	return counterValue(r.imageAttempts.WithLabelValues(outcome))
}

func counterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}
