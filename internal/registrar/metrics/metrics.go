package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registrar module: lifecycle
// counters, failure counts by error code, critical path durations, and the
// treasury balance.
type Metrics struct {
	Registrations    prometheus.Counter
	Renewals         prometheus.Counter
	Failures         *prometheus.CounterVec
	RegisterDuration prometheus.Histogram
	RenewDuration    prometheus.Histogram
	TreasuryBalance  prometheus.Gauge
}

// New creates and registers all registrar metrics. Call once per process;
// promauto panics on duplicate registration.
func New() *Metrics {
	return &Metrics{
		Registrations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leasehold_registrations_total",
			Help: "Total number of successful lease registrations",
		}),
		Renewals: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leasehold_renewals_total",
			Help: "Total number of successful lease renewals",
		}),
		Failures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "leasehold_operation_failures_total",
			Help: "Failed mutating operations by error code",
		}, []string{"operation", "code"}),
		RegisterDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "leasehold_register_duration_seconds",
			Help:    "Duration of Register operations including the external bind",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		RenewDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "leasehold_renew_duration_seconds",
			Help:    "Duration of Renew operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		TreasuryBalance: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "leasehold_treasury_balance",
			Help: "Accumulated, unwithdrawn fee balance",
		}),
	}
}

// ObserveRegister records the duration of a Register operation.
func (m *Metrics) ObserveRegister(start time.Time) {
	m.RegisterDuration.Observe(time.Since(start).Seconds())
}

// ObserveRenew records the duration of a Renew operation.
func (m *Metrics) ObserveRenew(start time.Time) {
	m.RenewDuration.Observe(time.Since(start).Seconds())
}
