package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

// ReportingRepository exposes aggregate reads over POSTED journal lines only.
type ReportingRepository interface {
	// SumPostedActivity totals debit and credit per account for posted lines
	// dated inside the range. An empty accountIDs slice means all accounts.
	SumPostedActivity(ctx context.Context, period domain.DateRange, accountIDs []string) ([]domain.AccountActivity, error)

	// ListPostedEntriesTouching returns posted entries dated in [from, to]
	// that have at least one line on any of the given accounts.
	ListPostedEntriesTouching(ctx context.Context, accountIDs []string, from, to time.Time) ([]domain.JournalEntry, error)
}
