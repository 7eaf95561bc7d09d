// Copyright 2026 The Cacophony Project. All rights reserved.
// Use of this source code is governed by the Apache License Version 2.0;
// see the LICENSE file for further details.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of one capture session. All
// methods are safe to call on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	Ticks         prometheus.Counter
	FramesWritten prometheus.Counter
	Errors        *prometheus.CounterVec
	Phase         prometheus.Gauge
	FPS           prometheus.Gauge
	WriteDuration prometheus.Histogram
}

// New creates the session collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		Ticks: f.NewCounter(prometheus.CounterOpts{
			Name: "rgbd_ticks_total",
			Help: "Color and depth frame pairs pulled from the devices",
		}),
		FramesWritten: f.NewCounter(prometheus.CounterOpts{
			Name: "rgbd_frames_written_total",
			Help: "Frame pairs persisted to disk",
		}),
		Errors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "rgbd_errors_total",
			Help: "Fatal session errors by kind",
		}, []string{"kind"}),
		Phase: f.NewGauge(prometheus.GaugeOpts{
			Name: "rgbd_session_phase",
			Help: "Session phase: 0 countdown, 1 recording, 2 finished",
		}),
		FPS: f.NewGauge(prometheus.GaugeOpts{
			Name: "rgbd_fps",
			Help: "Smoothed capture frame rate",
		}),
		WriteDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "rgbd_frame_write_seconds",
			Help:    "Time spent encoding and writing one frame pair",
			Buckets: prometheus.ExponentialBuckets(0.002, 2, 10),
		}),
	}
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveTick(fps float64) {
	if m == nil {
		return
	}
	m.Ticks.Inc()
	m.FPS.Set(fps)
}

func (m *Metrics) ObserveWrite(d time.Duration) {
	if m == nil {
		return
	}
	m.FramesWritten.Inc()
	m.WriteDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveError(kind string) {
	if m == nil {
		return
	}
	m.Errors.WithLabelValues(kind).Inc()
}

func (m *Metrics) SetPhase(phase int) {
	if m == nil {
		return
	}
	m.Phase.Set(float64(phase))
}

// WriteTextfile writes all session metrics in the text exposition
// format, for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
