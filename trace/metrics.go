// SPDX-License-Identifier: MIT

package trace

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a Sink that aggregates events into Prometheus collectors.
// It is safe for concurrent use.
type Metrics struct {
	StagesTotal *prometheus.CounterVec
	WalkSteps   prometheus.Histogram
	Corrections prometheus.Histogram
	Backoffs    prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		StagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "primal",
				Name:      "stage_events_total",
				Help:      "Stage events emitted by n-th prime computations, by stage.",
			},
			[]string{"stage"},
		),
		WalkSteps: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "primal",
				Name:      "walk_steps",
				Help:      "Successor steps taken after the last correction.",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
			},
		),
		Corrections: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "primal",
				Name:      "correction_delta",
				Help:      "Rank distance between the estimate and the target before correction.",
				Buckets:   prometheus.ExponentialBuckets(1, 8, 10),
			},
		),
		Backoffs: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "primal",
				Name:      "correction_backoffs_total",
				Help:      "Refined bounds that overshot the target and were pulled back.",
			},
		),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.StagesTotal, m.WalkSteps, m.Corrections, m.Backoffs} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("trace: registering metrics: %w", err)
		}
	}

	return m, nil
}

// Trace implements Sink.
func (m *Metrics) Trace(e Event) {
	m.StagesTotal.WithLabelValues(e.Stage.String()).Inc()
	switch e.Stage {
	case StageWalk:
		m.WalkSteps.Observe(float64(e.Count))
	case StageCorrect:
		m.Corrections.Observe(float64(e.Delta))
	case StageBackoff:
		m.Backoffs.Inc()
	}
}
