package planner

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records planning outcomes. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Runs by terminal status: success, partial, error
	Runs *prometheus.CounterVec

	// Isolated module failures by domain
	ModuleFailures *prometheus.CounterVec

	Duration prometheus.Histogram
}

// NewMetrics registers the planner metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "medplan_plan_runs_total",
			Help: "Total planning runs by terminal status",
		}, []string{"status"}),

		ModuleFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "medplan_module_failures_total",
			Help: "Strategy module failures isolated during planning, by domain",
		}, []string{"domain"}),

		Duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "medplan_plan_duration_seconds",
			Help:    "Duration of a full planning run",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
	}
}

// IncrementRun records a finished run.
func (m *Metrics) IncrementRun(status string) {
	if m != nil {
		m.Runs.WithLabelValues(status).Inc()
	}
}

// IncrementModuleFailure records an isolated module failure.
func (m *Metrics) IncrementModuleFailure(domain string) {
	if m != nil {
		m.ModuleFailures.WithLabelValues(domain).Inc()
	}
}

// ObserveDuration records the total run duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m != nil {
		m.Duration.Observe(d.Seconds())
	}
}
