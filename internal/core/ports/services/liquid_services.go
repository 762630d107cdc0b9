package services

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// LiquidAccountSvcFacade manages cash drawers, bank accounts and UPI wallets.
type LiquidAccountSvcFacade interface {
	CreateLiquidAccount(ctx context.Context, req dto.CreateLiquidAccountRequest, userID string) (*domain.LiquidAccount, error)
	GetLiquidAccount(ctx context.Context, liquidAccountID string) (*domain.LiquidAccount, error)
	ListLiquidAccounts(ctx context.Context, accountType *domain.LiquidAccountType) ([]domain.LiquidAccount, error)
	ListTransactions(ctx context.Context, liquidAccountID string, params dto.ListLiquidTransactionsParams) (*dto.ListLiquidTransactionsResponse, error)

	// ApplyMutation changes the balance by signedAmount and appends the
	// matching transaction row in one transaction.
	ApplyMutation(ctx context.Context, liquidAccountID string, signedAmount decimal.Decimal, record domain.MutationRecord) (*domain.MutationResult, error)

	// Reconcile compares the stored balance with the sum of its transactions.
	Reconcile(ctx context.Context, liquidAccountID string) (*domain.LiquidReconciliation, error)
}
