package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/platform/metrics"
	"github.com/SscSPs/erp_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// liquidBalanceService owns cash, bank and UPI balances. Every balance
// change goes through applyMutation so the stored balance always equals the
// sum of the account's transactions.
type liquidBalanceService struct {
	BaseService
	repos portsrepo.RepositoryProvider
}

func NewLiquidBalanceService(repos portsrepo.RepositoryProvider, options ...Option) portssvc.LiquidAccountSvcFacade {
	svc := &liquidBalanceService{
		BaseService: newBaseService(),
		repos:       repos,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.LiquidAccountSvcFacade = (*liquidBalanceService)(nil)

// applyMutation locks the account, checks the overdraft rule, writes the new
// balance under the row version and appends the transaction, all inside tx.
func (s *BaseService) applyMutation(ctx context.Context, tx portsrepo.Store, liquidAccountID string, signedAmount decimal.Decimal, record domain.MutationRecord) (*domain.MutationResult, error) {
	direction := domain.DirectionOf(signedAmount)
	account, err := tx.LiquidAccounts().FindLiquidAccountForUpdate(ctx, liquidAccountID)
	if err != nil {
		s.Metrics.Mutation("unknown", string(direction), metrics.OutcomeFailure)
		return nil, err
	}
	next, err := account.ProjectBalance(signedAmount)
	if err != nil {
		s.Metrics.Mutation(string(account.Type), string(direction), metrics.OutcomeFailure)
		return nil, err
	}
	if err := tx.LiquidAccounts().UpdateLiquidBalance(ctx, liquidAccountID, next, account.Version, record.UserID); err != nil {
		s.Metrics.Mutation(string(account.Type), string(direction), metrics.OutcomeFailure)
		return nil, err
	}

	txn := domain.LiquidTransaction{
		TransactionID:   s.NewID(),
		LiquidAccountID: liquidAccountID,
		Amount:          signedAmount,
		Direction:       direction,
		Description:     record.Description,
		SourceType:      record.SourceType,
		SourceID:        record.SourceID,
		JournalEntryID:  record.JournalEntryID,
		BalanceAfter:    next,
		ReversalOf:      record.ReversalOf,
		CreatedAt:       s.now(),
		CreatedBy:       record.UserID,
	}
	if err := tx.LiquidAccounts().SaveLiquidTransaction(ctx, txn); err != nil {
		s.Metrics.Mutation(string(account.Type), string(direction), metrics.OutcomeFailure)
		return nil, err
	}
	s.Metrics.Mutation(string(account.Type), string(direction), metrics.OutcomeSuccess)
	return &domain.MutationResult{Transaction: txn, NewBalance: next}, nil
}

func (s *liquidBalanceService) ApplyMutation(ctx context.Context, liquidAccountID string, signedAmount decimal.Decimal, record domain.MutationRecord) (*domain.MutationResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	started := s.now()

	var result *domain.MutationResult
	err := s.repos.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		var err error
		result, err = s.applyMutation(ctx, tx, liquidAccountID, signedAmount, record)
		return err
	})
	if err = s.finish(ctx, "apply_mutation", started, err); err != nil {
		s.logFailure(ctx, err, "Balance mutation failed",
			slog.String("liquid_account_id", liquidAccountID),
			slog.String("amount", signedAmount.String()))
		return nil, err
	}
	return result, nil
}

func (s *liquidBalanceService) CreateLiquidAccount(ctx context.Context, req dto.CreateLiquidAccountRequest, userID string) (*domain.LiquidAccount, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	started := s.now()

	if !req.Type.IsValid() {
		return nil, apperrors.NewValidation("invalid liquid account type '"+string(req.Type)+"'", "")
	}
	if req.AllowOverdraft && req.Type != domain.LiquidBank {
		return nil, apperrors.NewValidation("only bank accounts may allow overdraft", "")
	}
	if req.OpeningBalance.IsNegative() {
		return nil, apperrors.NewValidation("opening balance cannot be negative", "")
	}
	if req.OpeningBalance.IsPositive() && req.OpeningBalanceAccountID == "" {
		return nil, apperrors.NewValidation("openingBalanceAccountID is required with an opening balance", "")
	}

	now := s.now()
	account := domain.LiquidAccount{
		LiquidAccountID: s.NewID(),
		Name:            req.Name,
		Type:            req.Type,
		LedgerAccountID: req.LedgerAccountID,
		CurrentBalance:  decimal.Zero,
		AllowOverdraft:  req.AllowOverdraft,
		IsDefault:       req.IsDefault,
		IsActive:        true,
		AuditFields:     domain.NewAuditFields(userID, now),
	}

	err := s.repos.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		ledger, err := tx.Accounts().FindAccountByID(ctx, req.LedgerAccountID)
		if err != nil {
			return err
		}
		if ledger.AccountType != domain.Asset {
			return apperrors.NewValidation("ledger account must be an asset account", req.LedgerAccountID)
		}
		if err := tx.LiquidAccounts().SaveLiquidAccount(ctx, account); err != nil {
			return err
		}
		if !req.OpeningBalance.IsPositive() {
			return nil
		}

		date := domain.DateOnly(now)
		if req.OpeningDate != nil {
			date = domain.DateOnly(*req.OpeningDate)
		}
		entry, err := postSystemEntry(ctx, tx, domain.EntryParams{
			TransactionDate: date,
			Description:     "Opening balance for " + account.Name,
			SourceType:      string(domain.SourceOpeningBalance),
			SourceID:        account.LiquidAccountID,
			Lines: []domain.JournalEntryLine{
				domain.DebitLine(account.LedgerAccountID, req.OpeningBalance, "Opening balance"),
				domain.CreditLine(req.OpeningBalanceAccountID, req.OpeningBalance, "Opening balance"),
			},
		}, s.NewID, userID, now)
		if err != nil {
			return err
		}
		result, err := s.applyMutation(ctx, tx, account.LiquidAccountID, req.OpeningBalance, domain.MutationRecord{
			Description:    "Opening balance",
			SourceType:     domain.SourceOpeningBalance,
			SourceID:       account.LiquidAccountID,
			JournalEntryID: entry.EntryID,
			UserID:         userID,
		})
		if err != nil {
			return err
		}
		account.CurrentBalance = result.NewBalance
		account.Version++
		return nil
	})
	if err = s.finish(ctx, "create_liquid_account", started, err); err != nil {
		s.logFailure(ctx, err, "Failed to create liquid account", slog.String("name", req.Name))
		return nil, err
	}

	s.LogInfo(ctx, "Liquid account created",
		slog.String("liquid_account_id", account.LiquidAccountID),
		slog.String("type", string(account.Type)),
		slog.String("opening_balance", account.CurrentBalance.StringFixed(2)))
	return &account, nil
}

func (s *liquidBalanceService) GetLiquidAccount(ctx context.Context, liquidAccountID string) (*domain.LiquidAccount, error) {
	account, err := s.repos.LiquidAccounts().FindLiquidAccountByID(ctx, liquidAccountID)
	if err != nil {
		s.logFailure(ctx, err, "Failed to find liquid account", slog.String("liquid_account_id", liquidAccountID))
		return nil, err
	}
	return account, nil
}

func (s *liquidBalanceService) ListLiquidAccounts(ctx context.Context, accountType *domain.LiquidAccountType) ([]domain.LiquidAccount, error) {
	accounts, err := s.repos.LiquidAccounts().ListLiquidAccounts(ctx, accountType)
	if err != nil {
		s.LogError(ctx, err, "Failed to list liquid accounts")
		return nil, err
	}
	if accounts == nil {
		return []domain.LiquidAccount{}, nil
	}
	return accounts, nil
}

func (s *liquidBalanceService) ListTransactions(ctx context.Context, liquidAccountID string, params dto.ListLiquidTransactionsParams) (*dto.ListLiquidTransactionsResponse, error) {
	if _, err := s.repos.LiquidAccounts().FindLiquidAccountByID(ctx, liquidAccountID); err != nil {
		return nil, err
	}
	var token *string
	if params.NextToken != "" {
		token = &params.NextToken
	}
	txns, next, err := s.repos.LiquidAccounts().ListLiquidTransactions(ctx, liquidAccountID, pagination.NormalizeLimit(params.Limit), token)
	if err != nil {
		s.logFailure(ctx, err, "Failed to list liquid transactions", slog.String("liquid_account_id", liquidAccountID))
		return nil, err
	}
	return &dto.ListLiquidTransactionsResponse{
		Transactions: dto.ToLiquidTransactionResponses(txns),
		NextToken:    next,
	}, nil
}

func (s *liquidBalanceService) Reconcile(ctx context.Context, liquidAccountID string) (*domain.LiquidReconciliation, error) {
	var out *domain.LiquidReconciliation
	// Read both sides in one transaction so a concurrent mutation cannot split them.
	err := s.repos.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		account, err := tx.LiquidAccounts().FindLiquidAccountForUpdate(ctx, liquidAccountID)
		if err != nil {
			return err
		}
		total, count, err := tx.LiquidAccounts().SumLiquidTransactions(ctx, liquidAccountID)
		if err != nil {
			return err
		}
		out = &domain.LiquidReconciliation{
			LiquidAccountID:  liquidAccountID,
			StoredBalance:    account.CurrentBalance,
			TransactionTotal: total,
			TransactionCount: count,
			IsReconciled:     account.CurrentBalance.Equal(total),
		}
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to reconcile liquid account", slog.String("liquid_account_id", liquidAccountID))
		return nil, err
	}
	if !out.IsReconciled {
		s.LogWarn(ctx, "Liquid account does not reconcile",
			slog.String("liquid_account_id", liquidAccountID),
			slog.String("stored", out.StoredBalance.String()),
			slog.String("transactions", out.TransactionTotal.String()))
	}
	return out, nil
}

// resolveLiquidAccount picks the account a payment or refund moves money
// through. Cash falls back to the default drawer; every other method needs
// an explicit account of the matching type.
func resolveLiquidAccount(ctx context.Context, tx portsrepo.Store, method domain.PaymentMethod, liquidAccountID *string, recordID string) (*domain.LiquidAccount, error) {
	if !method.IsValid() {
		return nil, apperrors.NewValidation("invalid payment method '"+string(method)+"'", recordID)
	}
	var (
		account *domain.LiquidAccount
		err     error
	)
	switch {
	case liquidAccountID != nil && *liquidAccountID != "":
		account, err = tx.LiquidAccounts().FindLiquidAccountByID(ctx, *liquidAccountID)
	case method == domain.MethodCash:
		account, err = tx.LiquidAccounts().FindDefaultCashAccount(ctx)
	default:
		return nil, apperrors.NewValidation("bank account required", recordID)
	}
	if err != nil {
		return nil, err
	}
	if account.Type != method.LiquidType() {
		return nil, apperrors.NewValidation("payment method "+string(method)+" cannot use a "+string(account.Type)+" account", account.LiquidAccountID)
	}
	return account, nil
}

func dateOr(t time.Time, fallback time.Time) time.Time {
	if t.IsZero() {
		return domain.DateOnly(fallback)
	}
	return domain.DateOnly(t)
}
