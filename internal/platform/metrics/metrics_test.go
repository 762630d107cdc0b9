package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestLedgerCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLedger(reg)

	m.ObserveOperation("process_refund", OutcomeSuccess, time.Now())
	m.ObserveOperation("process_refund", OutcomeSuccess, time.Now())
	m.BestEffortFailed("cancel_sales_order", "restore_inventory")
	m.Mutation("BANK", "OUTFLOW", OutcomeFailure)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("process_refund", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bestEffortFailures.WithLabelValues("cancel_sales_order", "restore_inventory")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("BANK", "OUTFLOW", OutcomeFailure)))
}

func TestNilLedgerIsNoop(t *testing.T) {
	var m *Ledger
	assert.NotPanics(t, func() {
		m.ObserveOperation("x", OutcomeSuccess, time.Now())
		m.BestEffortFailed("x", "y")
		m.Mutation("CASH", "INFLOW", OutcomeSuccess)
		m.UnbalancedReport("balance_sheet")
	})
}
