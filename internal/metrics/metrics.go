// Package metrics exposes generation runs as Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cardgen"

// Recorder counts row outcomes, render latencies and run results on its own
// registry. Safe for concurrent use.
type Recorder struct {
	registry *prometheus.Registry
	rows     *prometheus.CounterVec
	renders  prometheus.Histogram
	runs     *prometheus.CounterVec
}

// NewRecorder creates a Recorder with a fresh registry that also carries the
// Go runtime and process collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_total",
			Help:      "Sheet rows processed, by outcome.",
		}, []string{"outcome"}),
		renders: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_seconds",
			Help:      "Time spent rendering one card to PDF.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Generation runs, by result.",
		}, []string{"result"}),
	}

	r.registry.MustRegister(
		r.rows,
		r.renders,
		r.runs,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveRow counts one row with the given outcome.
func (r *Recorder) ObserveRow(outcome string) {
	r.rows.WithLabelValues(outcome).Inc()
}

// ObserveRender records one render duration.
func (r *Recorder) ObserveRender(d time.Duration) {
	r.renders.Observe(d.Seconds())
}

// ObserveRun counts one finished run.
func (r *Recorder) ObserveRun(result string) {
	r.runs.WithLabelValues(result).Inc()
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
