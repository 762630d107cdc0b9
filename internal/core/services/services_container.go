package services

import (
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/platform/config"
	"github.com/SscSPs/erp_ledger/internal/platform/metrics"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, m *metrics.Ledger) *portssvc.ServiceContainer {
	opts := []Option{
		WithMetrics(m),
		WithOperationTimeout(cfg.OperationTimeout),
	}

	return &portssvc.ServiceContainer{
		Account:       NewAccountService(repos.Accounts(), opts...),
		Balance:       NewBalanceProjector(repos.Accounts(), repos.Reporting(), opts...),
		Journal:       NewJournalService(repos, opts...),
		LiquidAccount: NewLiquidBalanceService(repos, opts...),
		VendorPayment: NewPaymentOrchestrator(repos, cfg.AccountsPayableCode, opts...),
		Refund:        NewRefundOrchestrator(repos, cfg.SalesReturnsCode, opts...),
		SalesOrder:    NewSalesOrderService(repos, opts...),
		Reporting:     NewReportingService(repos.Accounts(), repos.Reporting(), opts...),
		Ledger:        NewLedgerSummaryService(repos, opts...),
	}
}
