package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceTolerance is the largest difference at which a statement is still reported as balanced.
var BalanceTolerance = decimal.New(1, -2)

// WithinTolerance reports whether |d| <= BalanceTolerance.
func WithinTolerance(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(BalanceTolerance)
}

// DateOnly truncates t to midnight UTC. Journal dates are compared at day granularity.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateRange bounds posted activity. A nil From means "since the beginning".
type DateRange struct {
	From *time.Time
	To   time.Time
}

// Contains reports whether the day of t lies inside the range.
func (r DateRange) Contains(t time.Time) bool {
	day := DateOnly(t)
	if r.From != nil && day.Before(DateOnly(*r.From)) {
		return false
	}
	return !day.After(DateOnly(r.To))
}

// AccountActivity is the raw debit and credit total of posted lines for one account.
type AccountActivity struct {
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// AccountAmount is an account with its balance signed by normal side.
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Subtype   AccountSubtype  `json:"subtype"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// SubtypeTotal groups accounts of one subtype.
type SubtypeTotal struct {
	Subtype  AccountSubtype  `json:"subtype"`
	Total    decimal.Decimal `json:"total"`
	Accounts []AccountAmount `json:"accounts"`
}

// SectionTotals is one account type broken down by subtype.
type SectionTotals struct {
	AccountType AccountType     `json:"accountType"`
	Subtypes    []SubtypeTotal  `json:"subtypes"`
	Total       decimal.Decimal `json:"total"`
}

// TrialBalanceRow represents a single row in a trial balance report.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

type TrialBalanceReport struct {
	AsOf        time.Time         `json:"asOf"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
	IsBalanced  bool              `json:"isBalanced"`
}

// BalanceSheetReport represents a balance sheet as of a date. Equity
// includes current earnings so the accounting equation can hold before
// period close.
type BalanceSheetReport struct {
	AsOf                      time.Time       `json:"asOf"`
	Assets                    SectionTotals   `json:"assets"`
	Liabilities               SectionTotals   `json:"liabilities"`
	Equity                    SectionTotals   `json:"equity"`
	CurrentEarnings           decimal.Decimal `json:"currentEarnings"`
	TotalAssets               decimal.Decimal `json:"totalAssets"`
	TotalLiabilities          decimal.Decimal `json:"totalLiabilities"`
	TotalEquity               decimal.Decimal `json:"totalEquity"`
	TotalLiabilitiesAndEquity decimal.Decimal `json:"totalLiabilitiesAndEquity"`
	Difference                decimal.Decimal `json:"difference"`
	IsBalanced                bool            `json:"isBalanced"`
}

// PAndLReport represents a profit and loss report for a period.
type PAndLReport struct {
	From            time.Time       `json:"from"`
	To              time.Time       `json:"to"`
	Revenue         SectionTotals   `json:"revenue"`
	Expenses        SectionTotals   `json:"expenses"`
	CostOfGoodsSold decimal.Decimal `json:"costOfGoodsSold"`
	GrossProfit     decimal.Decimal `json:"grossProfit"`
	NetProfit       decimal.Decimal `json:"netProfit"`
}

// CashFlowLine is the cash effect attributed to one counterpart account.
type CashFlowLine struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

type CashFlowSection struct {
	Activity CashFlowActivity `json:"activity"`
	Lines    []CashFlowLine   `json:"lines"`
	Net      decimal.Decimal  `json:"net"`
}

// CashFlowStatement reconciles opening and closing cash through classified activity.
type CashFlowStatement struct {
	StartDate      time.Time       `json:"startDate"`
	EndDate        time.Time       `json:"endDate"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Operating      CashFlowSection `json:"operating"`
	Investing      CashFlowSection `json:"investing"`
	Financing      CashFlowSection `json:"financing"`
	NetChange      decimal.Decimal `json:"netChange"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	Difference     decimal.Decimal `json:"difference"`
	IsReconciled   bool            `json:"isReconciled"`
}
