package observability

import (
	"context"
	"fmt"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by scheduler events.
type Metrics struct {
	Begins      *prometheus.CounterVec
	Ends        *prometheus.CounterVec
	Navigations *prometheus.CounterVec
	Terminates  *prometheus.CounterVec
	Reruns      *prometheus.CounterVec
	Depth       prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Begins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_module_begins_total",
				Help: "Total number of module passes begun",
			},
			[]string{"module"},
		),
		Ends: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_module_ends_total",
				Help: "Total number of module passes ended",
			},
			[]string{"module"},
		),
		Navigations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_navigations_total",
				Help: "Total number of navigations, by target module",
			},
			[]string{"module"},
		),
		Terminates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_terminations_total",
				Help: "Total number of modules terminated early",
			},
			[]string{"module"},
		),
		Reruns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_reruns_total",
				Help: "Total number of module reruns",
			},
			[]string{"module"},
		),
		Depth: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "arbor_module_depth",
				Help:    "Nesting depth of begun modules",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
	}

	for _, c := range []prometheus.Collector{m.Begins, m.Ends, m.Navigations, m.Terminates, m.Reruns, m.Depth} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register arbor metrics: %w", err)
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record events into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnModuleBegin: func(_ context.Context, e *domain.ModuleEvent) {
			m.Begins.WithLabelValues(label(e)).Inc()
			m.Depth.Observe(float64(e.Depth))
		},
		OnModuleEnd: func(_ context.Context, e *domain.ModuleEvent) {
			m.Ends.WithLabelValues(label(e)).Inc()
		},
		OnNavigate: func(_ context.Context, e *domain.ModuleEvent) {
			m.Navigations.WithLabelValues(label(e)).Inc()
		},
		OnTerminate: func(_ context.Context, e *domain.ModuleEvent) {
			m.Terminates.WithLabelValues(label(e)).Inc()
		},
		OnRerun: func(_ context.Context, e *domain.ModuleEvent) {
			m.Reruns.WithLabelValues(label(e)).Inc()
		},
	}
}

// label keeps unnamed modules in a single series.
func label(e *domain.ModuleEvent) string {
	if e.Module == "" {
		return "_anonymous"
	}
	return e.Module
}
