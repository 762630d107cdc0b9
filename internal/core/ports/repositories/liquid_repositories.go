package repositories

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LiquidAccountReader defines read operations for cash/bank/UPI accounts
type LiquidAccountReader interface {
	FindLiquidAccountByID(ctx context.Context, liquidAccountID string) (*domain.LiquidAccount, error)

	// FindLiquidAccountForUpdate locks the account row until the transaction ends.
	FindLiquidAccountForUpdate(ctx context.Context, liquidAccountID string) (*domain.LiquidAccount, error)

	// FindDefaultCashAccount returns the active default cash drawer.
	FindDefaultCashAccount(ctx context.Context) (*domain.LiquidAccount, error)

	ListLiquidAccounts(ctx context.Context, accountType *domain.LiquidAccountType) ([]domain.LiquidAccount, error)

	// ListLiquidTransactions returns an account's transactions newest first.
	ListLiquidTransactions(ctx context.Context, liquidAccountID string, limit int, nextToken *string) ([]domain.LiquidTransaction, *string, error)

	// SumLiquidTransactions totals every transaction amount for the account.
	SumLiquidTransactions(ctx context.Context, liquidAccountID string) (decimal.Decimal, int, error)
}

// LiquidAccountWriter defines write operations for cash/bank/UPI accounts
type LiquidAccountWriter interface {
	SaveLiquidAccount(ctx context.Context, account domain.LiquidAccount) error

	// UpdateLiquidBalance sets the balance when the stored version still equals
	// expectedVersion and bumps it. A stale version yields apperrors.ErrConflict.
	UpdateLiquidBalance(ctx context.Context, liquidAccountID string, newBalance decimal.Decimal, expectedVersion int64, userID string) error

	// SaveLiquidTransaction appends a transaction row.
	SaveLiquidTransaction(ctx context.Context, txn domain.LiquidTransaction) error
}

type LiquidAccountRepositoryFacade interface {
	LiquidAccountReader
	LiquidAccountWriter
}
