package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// reportingService implements the ReportingService interface. Reports are
// computed from posted journal lines on demand and never cached.
type reportingService struct {
	BaseService
	accountRepo   portsrepo.AccountReader
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(accounts portsrepo.AccountReader, repo portsrepo.ReportingRepository, options ...Option) portssvc.ReportingService {
	svc := &reportingService{
		BaseService:   newBaseService(),
		accountRepo:   accounts,
		reportingRepo: repo,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.ReportingService = (*reportingService)(nil)

func validatePeriod(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return apperrors.NewValidation("both start and end dates are required", "")
	}
	if domain.DateOnly(from).After(domain.DateOnly(to)) {
		return apperrors.NewValidation("start date must not be after end date", "")
	}
	return nil
}

// TrialBalance generates a trial balance report as of a specific date
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error) {
	asOf = domain.DateOnly(asOf)
	activity, err := s.reportingRepo.SumPostedActivity(ctx, domain.DateRange{To: asOf}, nil)
	if err != nil {
		s.LogError(ctx, err, "Failed to get trial balance data", slog.Time("as_of", asOf))
		return nil, err
	}
	ids := make([]string, len(activity))
	for i, a := range activity {
		ids[i] = a.AccountID
	}
	chart, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	report := &domain.TrialBalanceReport{
		AsOf:        asOf,
		Rows:        make([]domain.TrialBalanceRow, 0, len(activity)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, a := range activity {
		account := chart[a.AccountID]
		debit, credit := accounting.TrialBalanceSides(a.Debit, a.Credit)
		report.Rows = append(report.Rows, domain.TrialBalanceRow{
			AccountID:   a.AccountID,
			Code:        account.Code,
			AccountName: account.Name,
			AccountType: account.AccountType,
			Debit:       debit,
			Credit:      credit,
		})
		report.TotalDebit = report.TotalDebit.Add(debit)
		report.TotalCredit = report.TotalCredit.Add(credit)
	}
	sort.Slice(report.Rows, func(i, j int) bool { return report.Rows[i].Code < report.Rows[j].Code })
	report.IsBalanced = domain.WithinTolerance(report.TotalDebit.Sub(report.TotalCredit))
	if !report.IsBalanced {
		s.Metrics.UnbalancedReport("trial_balance")
		s.LogWarn(ctx, "Trial balance does not balance",
			slog.String("debit", report.TotalDebit.String()),
			slog.String("credit", report.TotalCredit.String()))
	}
	return report, nil
}

// ProfitAndLoss generates a profit and loss report for a specific period
func (s *reportingService) ProfitAndLoss(ctx context.Context, from, to time.Time) (*domain.PAndLReport, error) {
	if err := validatePeriod(from, to); err != nil {
		return nil, err
	}
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	sections, err := buildSections(ctx, s.accountRepo, s.reportingRepo, domain.DateRange{From: &from, To: to}, domain.Revenue, domain.Expense)
	if err != nil {
		s.LogError(ctx, err, "Failed to build profit and loss sections")
		return nil, err
	}
	revenue, expenses := sections[domain.Revenue], sections[domain.Expense]

	cogs := decimal.Zero
	for _, st := range expenses.Subtypes {
		if st.Subtype == domain.CostOfGoodsSold {
			cogs = cogs.Add(st.Total)
		}
	}
	return &domain.PAndLReport{
		From:            from,
		To:              to,
		Revenue:         revenue,
		Expenses:        expenses,
		CostOfGoodsSold: cogs,
		GrossProfit:     revenue.Total.Sub(cogs),
		NetProfit:       revenue.Total.Sub(expenses.Total),
	}, nil
}

// BalanceSheet generates a balance sheet report as of a specific date.
// Revenue less expenses to date is carried in equity as current earnings.
func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheetReport, error) {
	asOf = domain.DateOnly(asOf)
	sections, err := buildSections(ctx, s.accountRepo, s.reportingRepo, domain.DateRange{To: asOf},
		domain.Asset, domain.Liability, domain.Equity, domain.Revenue, domain.Expense)
	if err != nil {
		s.LogError(ctx, err, "Failed to build balance sheet sections", slog.Time("as_of", asOf))
		return nil, err
	}

	report := &domain.BalanceSheetReport{
		AsOf:            asOf,
		Assets:          sections[domain.Asset],
		Liabilities:     sections[domain.Liability],
		Equity:          sections[domain.Equity],
		CurrentEarnings: sections[domain.Revenue].Total.Sub(sections[domain.Expense].Total),
	}
	report.TotalAssets = report.Assets.Total
	report.TotalLiabilities = report.Liabilities.Total
	report.TotalEquity = report.Equity.Total.Add(report.CurrentEarnings)
	report.TotalLiabilitiesAndEquity = report.TotalLiabilities.Add(report.TotalEquity)
	report.Difference = report.TotalAssets.Sub(report.TotalLiabilitiesAndEquity)
	report.IsBalanced = domain.WithinTolerance(report.Difference)

	if !report.IsBalanced {
		s.Metrics.UnbalancedReport("balance_sheet")
		s.LogWarn(ctx, "Balance sheet does not balance",
			slog.Time("as_of", asOf),
			slog.String("difference", report.Difference.String()))
	}
	return report, nil
}

// CashFlow reconciles cash-equivalent balances between two dates through
// the non-cash legs of every posted entry that touched a cash account.
func (s *reportingService) CashFlow(ctx context.Context, start, end time.Time) (*domain.CashFlowStatement, error) {
	if err := validatePeriod(start, end); err != nil {
		return nil, err
	}
	start, end = domain.DateOnly(start), domain.DateOnly(end)

	assetType := domain.Asset
	assets, err := listAllAccounts(ctx, s.accountRepo, &assetType)
	if err != nil {
		s.LogError(ctx, err, "Failed to list asset accounts")
		return nil, err
	}
	var cashIDs []string
	for _, a := range assets {
		if a.IsCashEquivalent() {
			cashIDs = append(cashIDs, a.AccountID)
		}
	}

	statement := &domain.CashFlowStatement{
		StartDate:      start,
		EndDate:        end,
		OpeningBalance: decimal.Zero,
		Operating:      domain.CashFlowSection{Activity: domain.ActivityOperating, Lines: []domain.CashFlowLine{}, Net: decimal.Zero},
		Investing:      domain.CashFlowSection{Activity: domain.ActivityInvesting, Lines: []domain.CashFlowLine{}, Net: decimal.Zero},
		Financing:      domain.CashFlowSection{Activity: domain.ActivityFinancing, Lines: []domain.CashFlowLine{}, Net: decimal.Zero},
		NetChange:      decimal.Zero,
		ClosingBalance: decimal.Zero,
		Difference:     decimal.Zero,
		IsReconciled:   true,
	}
	if len(cashIDs) == 0 {
		return statement, nil
	}

	statement.OpeningBalance, err = s.cashBalance(ctx, cashIDs, start.AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}
	statement.ClosingBalance, err = s.cashBalance(ctx, cashIDs, end)
	if err != nil {
		return nil, err
	}

	entries, err := s.reportingRepo.ListPostedEntriesTouching(ctx, cashIDs, start, end)
	if err != nil {
		s.LogError(ctx, err, "Failed to list cash entries")
		return nil, err
	}
	isCash := make(map[string]bool, len(cashIDs))
	for _, id := range cashIDs {
		isCash[id] = true
	}
	effects := make(map[string]decimal.Decimal)
	for _, e := range entries {
		for _, line := range e.Lines {
			if isCash[line.AccountID] {
				continue
			}
			prev, ok := effects[line.AccountID]
			if !ok {
				prev = decimal.Zero
			}
			effects[line.AccountID] = prev.Add(accounting.CashEffect(line))
		}
	}

	ids := make([]string, 0, len(effects))
	for id := range effects {
		ids = append(ids, id)
	}
	chart, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		account := chart[id]
		line := domain.CashFlowLine{AccountID: id, Code: account.Code, Name: account.Name, Amount: effects[id]}
		section := &statement.Operating
		switch account.Subtype.Activity() {
		case domain.ActivityInvesting:
			section = &statement.Investing
		case domain.ActivityFinancing:
			section = &statement.Financing
		}
		section.Lines = append(section.Lines, line)
		section.Net = section.Net.Add(line.Amount)
	}
	for _, section := range []*domain.CashFlowSection{&statement.Operating, &statement.Investing, &statement.Financing} {
		sort.Slice(section.Lines, func(i, j int) bool { return section.Lines[i].Code < section.Lines[j].Code })
	}

	statement.NetChange = statement.Operating.Net.Add(statement.Investing.Net).Add(statement.Financing.Net)
	statement.Difference = statement.ClosingBalance.Sub(statement.OpeningBalance.Add(statement.NetChange))
	statement.IsReconciled = domain.WithinTolerance(statement.Difference)
	if !statement.IsReconciled {
		s.Metrics.UnbalancedReport("cash_flow")
		s.LogWarn(ctx, "Cash flow statement does not reconcile",
			slog.String("difference", statement.Difference.String()))
	}
	return statement, nil
}

func (s *reportingService) cashBalance(ctx context.Context, cashIDs []string, asOf time.Time) (decimal.Decimal, error) {
	activity, err := s.reportingRepo.SumPostedActivity(ctx, domain.DateRange{To: asOf}, cashIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum cash activity", slog.Time("as_of", asOf))
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, a := range activity {
		total = total.Add(a.Debit.Sub(a.Credit))
	}
	return total, nil
}
