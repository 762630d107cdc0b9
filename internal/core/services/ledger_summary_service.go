package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const ledgerDateLayout = "2006-01-02"

type ledgerSummaryService struct {
	BaseService
	repos portsrepo.Store
}

// NewLedgerSummaryService creates the paginated ledger read model.
func NewLedgerSummaryService(repos portsrepo.Store, options ...Option) portssvc.LedgerSummarySvc {
	svc := &ledgerSummaryService{
		BaseService: newBaseService(),
		repos:       repos,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.LedgerSummarySvc = (*ledgerSummaryService)(nil)

// GetLedgerSummary returns one page of rows for the requested ledger. Page
// totals cover the returned rows only.
func (s *ledgerSummaryService) GetLedgerSummary(ctx context.Context, entityType string, params dto.LedgerSummaryParams) (*dto.LedgerSummaryResponse, error) {
	var token *string
	if params.NextToken != "" {
		token = &params.NextToken
	}
	limit := pagination.NormalizeLimit(params.Limit)

	var (
		resp *dto.LedgerSummaryResponse
		err  error
	)
	switch entityType {
	case portssvc.LedgerJournalEntries:
		resp, err = s.journalRows(ctx, params, limit, token)
	case portssvc.LedgerLiquidTransactions:
		resp, err = s.liquidRows(ctx, params, limit, token)
	default:
		return nil, apperrors.NewValidation("unsupported ledger entity type: "+entityType, "")
	}
	if err != nil {
		s.logFailure(ctx, err, "Failed to build ledger summary", slog.String("entity_type", entityType))
		return nil, err
	}
	resp.EntityType = entityType
	for _, row := range resp.Rows {
		resp.TotalDebit = resp.TotalDebit.Add(row.Debit)
		resp.TotalCredit = resp.TotalCredit.Add(row.Credit)
	}
	return resp, nil
}

func (s *ledgerSummaryService) journalRows(ctx context.Context, params dto.LedgerSummaryParams, limit int, token *string) (*dto.LedgerSummaryResponse, error) {
	posted := domain.EntryPosted
	filter := portsrepo.EntryFilter{Status: &posted, From: params.From, To: params.To}
	if params.AccountID != "" {
		if _, err := s.repos.Accounts().FindAccountByID(ctx, params.AccountID); err != nil {
			return nil, err
		}
		filter.AccountID = &params.AccountID
	}
	entries, next, err := s.repos.Journals().ListEntries(ctx, filter, limit, token)
	if err != nil {
		return nil, err
	}

	resp := &dto.LedgerSummaryResponse{
		Rows:        make([]dto.LedgerRowResponse, 0, len(entries)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
		NextToken:   next,
	}
	for _, e := range entries {
		debit, credit := decimal.Zero, decimal.Zero
		for _, line := range e.Lines {
			if filter.AccountID != nil && line.AccountID != *filter.AccountID {
				continue
			}
			debit = debit.Add(line.DebitAmount)
			credit = credit.Add(line.CreditAmount)
		}
		resp.Rows = append(resp.Rows, dto.LedgerRowResponse{
			ID:          e.EntryNumber,
			Date:        e.TransactionDate.Format(ledgerDateLayout),
			Reference:   e.Reference,
			Description: e.Description,
			Debit:       debit,
			Credit:      credit,
			SourceType:  e.SourceType,
			SourceID:    e.SourceID,
		})
	}
	return resp, nil
}

// liquidRows lists cash/bank movements newest first. Inflows read as debits
// to the liquid account, outflows as credits.
func (s *ledgerSummaryService) liquidRows(ctx context.Context, params dto.LedgerSummaryParams, limit int, token *string) (*dto.LedgerSummaryResponse, error) {
	if params.LiquidAccountID == "" {
		return nil, apperrors.NewValidation("liquidAccountID is required for liquid-transactions", "")
	}
	if _, err := s.repos.LiquidAccounts().FindLiquidAccountByID(ctx, params.LiquidAccountID); err != nil {
		return nil, err
	}
	txns, next, err := s.repos.LiquidAccounts().ListLiquidTransactions(ctx, params.LiquidAccountID, limit, token)
	if err != nil {
		return nil, err
	}

	resp := &dto.LedgerSummaryResponse{
		Rows:        make([]dto.LedgerRowResponse, 0, len(txns)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
		NextToken:   next,
	}
	for _, t := range txns {
		day := domain.DateOnly(t.CreatedAt)
		if params.From != nil && day.Before(domain.DateOnly(*params.From)) {
			continue
		}
		if params.To != nil && day.After(domain.DateOnly(*params.To)) {
			continue
		}
		balance := t.BalanceAfter
		row := dto.LedgerRowResponse{
			ID:          t.TransactionID,
			Date:        day.Format(ledgerDateLayout),
			Description: t.Description,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
			Balance:     &balance,
			SourceType:  string(t.SourceType),
			SourceID:    t.SourceID,
		}
		if t.Direction == domain.Inflow {
			row.Debit = t.Amount.Abs()
		} else {
			row.Credit = t.Amount.Abs()
		}
		resp.Rows = append(resp.Rows, row)
	}
	return resp, nil
}
