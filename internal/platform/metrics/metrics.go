// Package metrics holds the Prometheus instruments for ledger operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeWarning = "warning"
)

// Ledger exposes counters and histograms for orchestrated operations and
// balance mutations. A nil *Ledger is valid and records nothing.
type Ledger struct {
	operations         *prometheus.CounterVec
	operationDuration  *prometheus.HistogramVec
	bestEffortFailures *prometheus.CounterVec
	mutations          *prometheus.CounterVec
	unbalancedReports  *prometheus.CounterVec
}

// NewLedger creates the instruments and registers them with reg.
func NewLedger(reg prometheus.Registerer) *Ledger {
	m := &Ledger{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "erp_ledger",
			Name:      "operations_total",
			Help:      "Ledger commands by operation and outcome.",
		}, []string{"operation", "outcome"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "erp_ledger",
			Name:      "operation_duration_seconds",
			Help:      "Latency of ledger commands.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		bestEffortFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "erp_ledger",
			Name:      "best_effort_failures_total",
			Help:      "Downstream steps that failed after the core write committed.",
		}, []string{"operation", "step"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "erp_ledger",
			Name:      "liquid_mutations_total",
			Help:      "Cash/bank balance mutations by account type, direction and outcome.",
		}, []string{"account_type", "direction", "outcome"}),
		unbalancedReports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "erp_ledger",
			Name:      "unbalanced_reports_total",
			Help:      "Generated statements whose totals did not reconcile.",
		}, []string{"report"}),
	}
	if reg != nil {
		reg.MustRegister(m.operations, m.operationDuration, m.bestEffortFailures, m.mutations, m.unbalancedReports)
	}
	return m
}

// ObserveOperation records the outcome and latency of a command.
func (m *Ledger) ObserveOperation(operation, outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func (m *Ledger) BestEffortFailed(operation, step string) {
	if m == nil {
		return
	}
	m.bestEffortFailures.WithLabelValues(operation, step).Inc()
}

func (m *Ledger) Mutation(accountType, direction, outcome string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(accountType, direction, outcome).Inc()
}

func (m *Ledger) UnbalancedReport(report string) {
	if m == nil {
		return
	}
	m.unbalancedReports.WithLabelValues(report).Inc()
}
