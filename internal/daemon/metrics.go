package daemon

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics exposes the latest snapshot as Prometheus gauges. Each service
// owns its registry so several can coexist in one process.
type metrics struct {
	registry *prometheus.Registry

	successRate       prometheus.Gauge
	failureRate       prometheus.Gauge
	decisionIntegrity prometheus.Gauge
	openEscalations   prometheus.Gauge
	valueGoverned     prometheus.Gauge
	executions        prometheus.Gauge
	servicesRevenue   prometheus.Gauge
	polls             prometheus.Counter
	pollErrors        prometheus.Counter
}

func newMetrics(tenantID string) *metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	labels := prometheus.Labels{"tenant_id": tenantID}

	gauge := func(name, help string) prometheus.Gauge {
		return f.NewGauge(prometheus.GaugeOpts{
			Namespace:   "armonyco",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
	}

	return &metrics{
		registry:          reg,
		successRate:       gauge("success_rate_percent", "Share of finished executions that succeeded."),
		failureRate:       gauge("failure_rate_percent", "Share of finished executions that failed or errored."),
		decisionIntegrity: gauge("decision_integrity_percent", "Share of finished executions without a failed governance verdict."),
		openEscalations:   gauge("open_escalations", "Escalations awaiting a human."),
		valueGoverned:     gauge("value_governed_euros", "Charges and captured value under governance."),
		executions:        gauge("finished_executions", "Finished executions in the reporting window."),
		servicesRevenue:   gauge("services_revenue_euros", "Revenue from classified services."),
		polls: f.NewCounter(prometheus.CounterOpts{
			Namespace:   "armonyco",
			Name:        "polls_total",
			Help:        "Successful data polls.",
			ConstLabels: labels,
		}),
		pollErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace:   "armonyco",
			Name:        "poll_errors_total",
			Help:        "Data polls that failed to load.",
			ConstLabels: labels,
		}),
	}
}

func (m *metrics) observe(s Snapshot) {
	m.polls.Inc()
	m.successRate.Set(float64(s.SuccessRate))
	m.failureRate.Set(s.FailureRate)
	m.decisionIntegrity.Set(s.DecisionIntegrity)
	m.openEscalations.Set(float64(s.OpenEscalations))
	m.valueGoverned.Set(s.ValueGoverned)
	m.executions.Set(float64(s.Executions))
	m.servicesRevenue.Set(s.ServicesRevenue)
}
