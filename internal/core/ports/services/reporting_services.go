package services

import (
	"context"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/dto"
)

// ReportingService defines operations for generating financial reports
type ReportingService interface {
	// TrialBalance generates a trial balance report as of a specific date
	TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error)

	// ProfitAndLoss generates a profit and loss report for a specific period
	ProfitAndLoss(ctx context.Context, from, to time.Time) (*domain.PAndLReport, error)

	// BalanceSheet generates a balance sheet report as of a specific date
	BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error)

	// CashFlow generates a cash flow statement for an inclusive date range
	CashFlow(ctx context.Context, start, end time.Time) (*domain.CashFlowStatement, error)
}

// Ledger summary entity types.
const (
	LedgerJournalEntries     = "journal-entries"
	LedgerLiquidTransactions = "liquid-transactions"
)

// LedgerSummarySvc pages through ledger rows of one entity type.
type LedgerSummarySvc interface {
	GetLedgerSummary(ctx context.Context, entityType string, params dto.LedgerSummaryParams) (*dto.LedgerSummaryResponse, error)
}
