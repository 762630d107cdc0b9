package dto

import (
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// AsOfParams selects a point-in-time report.
type AsOfParams struct {
	AsOf time.Time `form:"asOf" time_format:"2006-01-02" time_utc:"1"`
}

// PeriodParams selects a report over an inclusive date range.
type PeriodParams struct {
	StartDate time.Time `form:"startDate" binding:"required" time_format:"2006-01-02" time_utc:"1"`
	EndDate   time.Time `form:"endDate" binding:"required" time_format:"2006-01-02" time_utc:"1"`
}

// TrialBalanceRowResponse represents a row in the trial balance report response
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse represents the trial balance report response
type TrialBalanceResponse struct {
	AsOf   string                    `json:"asOf"`
	Rows   []TrialBalanceRowResponse `json:"rows"`
	Totals struct {
		Debit  decimal.Decimal `json:"debit"`
		Credit decimal.Decimal `json:"credit"`
	} `json:"totals"`
	IsBalanced bool `json:"isBalanced"`
}

// AccountAmountResponse represents an account with its amount in a financial report
type AccountAmountResponse struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

type SubtypeTotalResponse struct {
	Subtype  string                  `json:"subtype"`
	Total    decimal.Decimal         `json:"total"`
	Accounts []AccountAmountResponse `json:"accounts"`
}

type SectionResponse struct {
	AccountType string                 `json:"accountType"`
	Subtypes    []SubtypeTotalResponse `json:"subtypes"`
	Total       decimal.Decimal        `json:"total"`
}

// ProfitAndLossResponse represents the profit and loss report response
type ProfitAndLossResponse struct {
	FromDate string          `json:"fromDate"`
	ToDate   string          `json:"toDate"`
	Revenue  SectionResponse `json:"revenue"`
	Expenses SectionResponse `json:"expenses"`
	Summary  struct {
		TotalRevenue    decimal.Decimal `json:"totalRevenue"`
		CostOfGoodsSold decimal.Decimal `json:"costOfGoodsSold"`
		GrossProfit     decimal.Decimal `json:"grossProfit"`
		TotalExpenses   decimal.Decimal `json:"totalExpenses"`
		NetProfit       decimal.Decimal `json:"netProfit"`
	} `json:"summary"`
}

// BalanceSheetResponse represents the balance sheet report response
type BalanceSheetResponse struct {
	AsOf        string          `json:"asOf"`
	Assets      SectionResponse `json:"assets"`
	Liabilities SectionResponse `json:"liabilities"`
	Equity      SectionResponse `json:"equity"`
	Summary     struct {
		TotalAssets               decimal.Decimal `json:"totalAssets"`
		TotalLiabilities          decimal.Decimal `json:"totalLiabilities"`
		CurrentEarnings           decimal.Decimal `json:"currentEarnings"`
		TotalEquity               decimal.Decimal `json:"totalEquity"`
		TotalLiabilitiesAndEquity decimal.Decimal `json:"totalLiabilitiesAndEquity"`
		Difference                decimal.Decimal `json:"difference"`
	} `json:"summary"`
	IsBalanced bool `json:"isBalanced"`
}

type CashFlowLineResponse struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

type CashFlowSectionResponse struct {
	Lines []CashFlowLineResponse `json:"lines"`
	Net   decimal.Decimal        `json:"net"`
}

// CashFlowResponse represents the cash flow statement response
type CashFlowResponse struct {
	StartDate      string                  `json:"startDate"`
	EndDate        string                  `json:"endDate"`
	OpeningBalance decimal.Decimal         `json:"openingBalance"`
	Operating      CashFlowSectionResponse `json:"operating"`
	Investing      CashFlowSectionResponse `json:"investing"`
	Financing      CashFlowSectionResponse `json:"financing"`
	NetChange      decimal.Decimal         `json:"netChange"`
	ClosingBalance decimal.Decimal         `json:"closingBalance"`
	Difference     decimal.Decimal         `json:"difference"`
	IsReconciled   bool                    `json:"isReconciled"`
}

// ToTrialBalanceResponse converts a domain trial balance to a DTO response
func ToTrialBalanceResponse(report *domain.TrialBalanceReport) TrialBalanceResponse {
	response := TrialBalanceResponse{
		AsOf:       report.AsOf.Format(dateLayout),
		Rows:       make([]TrialBalanceRowResponse, len(report.Rows)),
		IsBalanced: report.IsBalanced,
	}
	for i, row := range report.Rows {
		response.Rows[i] = TrialBalanceRowResponse{
			AccountID:   row.AccountID,
			Code:        row.Code,
			AccountName: row.AccountName,
			AccountType: string(row.AccountType),
			Debit:       row.Debit,
			Credit:      row.Credit,
		}
	}
	response.Totals.Debit = report.TotalDebit
	response.Totals.Credit = report.TotalCredit
	return response
}

func ToSectionResponse(s domain.SectionTotals) SectionResponse {
	out := SectionResponse{
		AccountType: string(s.AccountType),
		Subtypes:    make([]SubtypeTotalResponse, len(s.Subtypes)),
		Total:       s.Total,
	}
	for i, st := range s.Subtypes {
		accounts := make([]AccountAmountResponse, len(st.Accounts))
		for j, a := range st.Accounts {
			accounts[j] = AccountAmountResponse{AccountID: a.AccountID, Code: a.Code, Name: a.Name, Amount: a.NetAmount}
		}
		out.Subtypes[i] = SubtypeTotalResponse{Subtype: string(st.Subtype), Total: st.Total, Accounts: accounts}
	}
	return out
}

// ToProfitAndLossResponse converts a domain P&L report to a DTO response
func ToProfitAndLossResponse(report *domain.PAndLReport) ProfitAndLossResponse {
	response := ProfitAndLossResponse{
		FromDate: report.From.Format(dateLayout),
		ToDate:   report.To.Format(dateLayout),
		Revenue:  ToSectionResponse(report.Revenue),
		Expenses: ToSectionResponse(report.Expenses),
	}
	response.Summary.TotalRevenue = report.Revenue.Total
	response.Summary.CostOfGoodsSold = report.CostOfGoodsSold
	response.Summary.GrossProfit = report.GrossProfit
	response.Summary.TotalExpenses = report.Expenses.Total
	response.Summary.NetProfit = report.NetProfit
	return response
}

// ToBalanceSheetResponse converts a domain balance sheet to a DTO response
func ToBalanceSheetResponse(report *domain.BalanceSheetReport) BalanceSheetResponse {
	response := BalanceSheetResponse{
		AsOf:        report.AsOf.Format(dateLayout),
		Assets:      ToSectionResponse(report.Assets),
		Liabilities: ToSectionResponse(report.Liabilities),
		Equity:      ToSectionResponse(report.Equity),
		IsBalanced:  report.IsBalanced,
	}
	response.Summary.TotalAssets = report.TotalAssets
	response.Summary.TotalLiabilities = report.TotalLiabilities
	response.Summary.CurrentEarnings = report.CurrentEarnings
	response.Summary.TotalEquity = report.TotalEquity
	response.Summary.TotalLiabilitiesAndEquity = report.TotalLiabilitiesAndEquity
	response.Summary.Difference = report.Difference
	return response
}

func toCashFlowSection(s domain.CashFlowSection) CashFlowSectionResponse {
	lines := make([]CashFlowLineResponse, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = CashFlowLineResponse{AccountID: l.AccountID, Code: l.Code, Name: l.Name, Amount: l.Amount}
	}
	return CashFlowSectionResponse{Lines: lines, Net: s.Net}
}

// ToCashFlowResponse converts a domain cash flow statement to a DTO response
func ToCashFlowResponse(s *domain.CashFlowStatement) CashFlowResponse {
	return CashFlowResponse{
		StartDate:      s.StartDate.Format(dateLayout),
		EndDate:        s.EndDate.Format(dateLayout),
		OpeningBalance: s.OpeningBalance,
		Operating:      toCashFlowSection(s.Operating),
		Investing:      toCashFlowSection(s.Investing),
		Financing:      toCashFlowSection(s.Financing),
		NetChange:      s.NetChange,
		ClosingBalance: s.ClosingBalance,
		Difference:     s.Difference,
		IsReconciled:   s.IsReconciled,
	}
}
