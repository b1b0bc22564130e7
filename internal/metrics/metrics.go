// SPDX-License-Identifier: EPL-2.0

// Package metrics provides Prometheus metrics for the timeline engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Mix kinds used as the "kind" label of the mix duration histogram
const (
	MixKindFull   = "full"
	MixKindWindow = "window"
)

// Engine contains Prometheus metrics for resample workers, mixing and playback.
// A nil *Engine is valid and records nothing.
type Engine struct {
	registry *prometheus.Registry

	activeWorkers    prometheus.Gauge
	resampledSamples prometheus.Counter
	workerFailures   *prometheus.CounterVec
	mixDuration      *prometheus.HistogramVec
	windowsDelivered *prometheus.CounterVec
}

// NewEngine creates and registers engine metrics
func NewEngine(registry *prometheus.Registry) (*Engine, error) {
	m := &Engine{registry: registry}
	m.initMetrics()

	if err := registry.Register(m); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Engine) initMetrics() {
	m.activeWorkers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "audgrid_resample_workers_active",
			Help: "Number of clip resample workers still producing samples",
		},
	)

	m.resampledSamples = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "audgrid_resampled_samples_total",
			Help: "Interleaved samples appended to clip buffers",
		},
	)

	m.workerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audgrid_resample_worker_failures_total",
			Help: "Resample workers that stopped on an error",
		},
		[]string{"stage"}, // stage: decode, resample
	)

	m.mixDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "audgrid_mix_duration_seconds",
			Help:    "Time spent producing a mix buffer",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16), // 100µs to ~3s
		},
		[]string{"kind", "implementation"},
	)

	m.windowsDelivered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audgrid_transport_windows_total",
			Help: "Playback windows handed to the sink",
		},
		[]string{"status"}, // status: success, error
	)
}

func (m *Engine) WorkerStarted() {
	if m == nil {
		return
	}
	m.activeWorkers.Inc()
}

func (m *Engine) WorkerStopped() {
	if m == nil {
		return
	}
	m.activeWorkers.Dec()
}

func (m *Engine) RecordResampled(samples int) {
	if m == nil || samples <= 0 {
		return
	}
	m.resampledSamples.Add(float64(samples))
}

func (m *Engine) RecordWorkerFailure(stage string) {
	if m == nil {
		return
	}
	m.workerFailures.WithLabelValues(stage).Inc()
}

func (m *Engine) RecordMix(kind, implementation string, seconds float64) {
	if m == nil {
		return
	}
	m.mixDuration.WithLabelValues(kind, implementation).Observe(seconds)
}

func (m *Engine) RecordWindow(err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.windowsDelivered.WithLabelValues(status).Inc()
}

// Describe implements the prometheus.Collector interface
func (m *Engine) Describe(ch chan<- *prometheus.Desc) {
	m.activeWorkers.Describe(ch)
	m.resampledSamples.Describe(ch)
	m.workerFailures.Describe(ch)
	m.mixDuration.Describe(ch)
	m.windowsDelivered.Describe(ch)
}

// Collect implements the prometheus.Collector interface
func (m *Engine) Collect(ch chan<- prometheus.Metric) {
	m.activeWorkers.Collect(ch)
	m.resampledSamples.Collect(ch)
	m.workerFailures.Collect(ch)
	m.mixDuration.Collect(ch)
	m.windowsDelivered.Collect(ch)
}
