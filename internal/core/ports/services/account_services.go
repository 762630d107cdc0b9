package services

import (
	"context"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountReaderSvc defines read operations for the chart of accounts
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves a page of accounts ordered by code.
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for the chart of accounts
type AccountWriterSvc interface {
	// CreateAccount persists a new account.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// UpdateAccount updates an account's editable details.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}

// BalanceProjectorSvc derives account balances from posted journal lines.
type BalanceProjectorSvc interface {
	// BalanceAsOf returns the account balance on its normal side, counting
	// posted lines dated on or before asOf.
	BalanceAsOf(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error)

	// SectionTotals groups every account of one type by subtype as of a date.
	SectionTotals(ctx context.Context, accountType domain.AccountType, asOf time.Time) (*domain.SectionTotals, error)

	// PeriodActivity is the signed movement of an account between two dates, inclusive.
	PeriodActivity(ctx context.Context, accountID string, from, to time.Time) (decimal.Decimal, error)
}
