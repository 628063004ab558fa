// Package metrics exposes Prometheus instrumentation for the polynomial engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation names used as the "op" label.
const (
	OpMulPow      = "mulpow"
	OpInverse     = "inverse"
	OpDiv         = "div"
	OpInterpolate = "interpolate"
)

// Recorder collects engine metrics on its own registry, so several engines
// (and tests) can coexist without duplicate-registration panics. It tracks:
//   - Operations performed, per operation (counter)
//   - Rejected or failed operations, per operation (counter)
//   - Operation latency, per operation (histogram)
//   - Transform lengths used by multiplications (histogram)
//
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry     *prometheus.Registry
	operations   *prometheus.CounterVec
	failures     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	transformLen prometheus.Histogram
}

// NewRecorder creates a Recorder with a fresh registry that also carries the
// Go runtime and process collectors.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "polyfft_operations_total",
			Help: "Total number of polynomial engine operations",
		}, []string{"op"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "polyfft_operation_failures_total",
			Help: "Total number of polynomial engine operations that returned an error",
		}, []string{"op"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "polyfft_operation_duration_seconds",
			Help:    "Latency of polynomial engine operations",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"op"}),
		transformLen: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "polyfft_transform_length",
			Help:    "Padded FFT length used by polynomial multiplications",
			Buckets: prometheus.ExponentialBuckets(1, 4, 12),
		}),
	}
}

// ObserveOperation records one completed operation, its latency, and whether
// it failed.
func (r *Recorder) ObserveOperation(op string, d time.Duration, err error) {
	if r == nil {
		return
	}
	r.operations.WithLabelValues(op).Inc()
	r.duration.WithLabelValues(op).Observe(d.Seconds())
	if err != nil {
		r.failures.WithLabelValues(op).Inc()
	}
}

// ObserveTransform records the padded transform length of a multiplication.
func (r *Recorder) ObserveTransform(length int) {
	if r == nil {
		return
	}
	r.transformLen.Observe(float64(length))
}

// Registry returns the registry backing this recorder, for embedding into a
// caller's own exposition.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler returns an HTTP handler serving the recorder's metrics in the
// Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
