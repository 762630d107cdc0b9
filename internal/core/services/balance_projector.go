package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// balanceProjector derives balances from posted journal lines. It never
// reads DRAFT entries and never writes.
type balanceProjector struct {
	BaseService
	accounts  portsrepo.AccountReader
	reporting portsrepo.ReportingRepository
}

func NewBalanceProjector(accounts portsrepo.AccountReader, reporting portsrepo.ReportingRepository, options ...Option) portssvc.BalanceProjectorSvc {
	svc := &balanceProjector{
		BaseService: newBaseService(),
		accounts:    accounts,
		reporting:   reporting,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.BalanceProjectorSvc = (*balanceProjector)(nil)

func (s *balanceProjector) BalanceAsOf(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error) {
	return s.signedActivity(ctx, accountID, domain.DateRange{To: asOf})
}

func (s *balanceProjector) PeriodActivity(ctx context.Context, accountID string, from, to time.Time) (decimal.Decimal, error) {
	return s.signedActivity(ctx, accountID, domain.DateRange{From: &from, To: to})
}

func (s *balanceProjector) signedActivity(ctx context.Context, accountID string, period domain.DateRange) (decimal.Decimal, error) {
	account, err := s.accounts.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	activity, err := s.reporting.SumPostedActivity(ctx, period, []string{accountID})
	if err != nil {
		s.LogError(ctx, err, "Failed to sum posted activity", slog.String("account_id", accountID))
		return decimal.Zero, err
	}
	debit, credit := decimal.Zero, decimal.Zero
	for _, a := range activity {
		debit = debit.Add(a.Debit)
		credit = credit.Add(a.Credit)
	}
	return accounting.SignedBalance(account.AccountType, debit, credit)
}

func (s *balanceProjector) SectionTotals(ctx context.Context, accountType domain.AccountType, asOf time.Time) (*domain.SectionTotals, error) {
	totals, err := buildSections(ctx, s.accounts, s.reporting, domain.DateRange{To: asOf}, accountType)
	if err != nil {
		s.LogError(ctx, err, "Failed to build section totals", slog.String("account_type", string(accountType)))
		return nil, err
	}
	section := totals[accountType]
	return &section, nil
}

// listAllAccounts pages through the whole chart of accounts.
func listAllAccounts(ctx context.Context, accounts portsrepo.AccountReader, accountType *domain.AccountType) ([]domain.Account, error) {
	const page = 500
	var out []domain.Account
	for offset := 0; ; offset += page {
		batch, err := accounts.ListAccounts(ctx, accountType, page, offset)
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
		if len(batch) < page {
			return out, nil
		}
	}
}

// buildSections groups posted activity in period by account type and
// subtype. Accounts without activity are omitted. Every requested type is
// present in the result, possibly empty.
func buildSections(ctx context.Context, accounts portsrepo.AccountReader, reporting portsrepo.ReportingRepository, period domain.DateRange, types ...domain.AccountType) (map[domain.AccountType]domain.SectionTotals, error) {
	activity, err := reporting.SumPostedActivity(ctx, period, nil)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(activity))
	for i, a := range activity {
		ids[i] = a.AccountID
	}
	chart, err := accounts.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	wanted := make(map[domain.AccountType]bool, len(types))
	bySubtype := make(map[domain.AccountType]map[domain.AccountSubtype]*domain.SubtypeTotal)
	for _, t := range types {
		wanted[t] = true
		bySubtype[t] = make(map[domain.AccountSubtype]*domain.SubtypeTotal)
	}

	for _, a := range activity {
		account, ok := chart[a.AccountID]
		if !ok || !wanted[account.AccountType] {
			continue
		}
		net, err := accounting.SignedBalance(account.AccountType, a.Debit, a.Credit)
		if err != nil {
			return nil, err
		}
		subtype := account.Subtype
		if subtype == "" {
			subtype = domain.DefaultSubtype(account.AccountType)
		}
		group, ok := bySubtype[account.AccountType][subtype]
		if !ok {
			group = &domain.SubtypeTotal{Subtype: subtype, Total: decimal.Zero}
			bySubtype[account.AccountType][subtype] = group
		}
		group.Accounts = append(group.Accounts, domain.AccountAmount{
			AccountID: account.AccountID,
			Code:      account.Code,
			Name:      account.Name,
			Subtype:   subtype,
			NetAmount: net,
		})
		group.Total = group.Total.Add(net)
	}

	out := make(map[domain.AccountType]domain.SectionTotals, len(types))
	for _, t := range types {
		section := domain.SectionTotals{AccountType: t, Subtypes: []domain.SubtypeTotal{}, Total: decimal.Zero}
		for _, group := range bySubtype[t] {
			sort.Slice(group.Accounts, func(i, j int) bool { return group.Accounts[i].Code < group.Accounts[j].Code })
			section.Subtypes = append(section.Subtypes, *group)
			section.Total = section.Total.Add(group.Total)
		}
		sort.Slice(section.Subtypes, func(i, j int) bool {
			return section.Subtypes[i].Subtype.SortOrder() < section.Subtypes[j].Subtype.SortOrder()
		})
		out[t] = section
	}
	return out, nil
}
