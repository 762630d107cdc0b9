package domain

import (
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// LiquidAccountType distinguishes cash drawers, bank accounts and UPI wallets.
type LiquidAccountType string

const (
	LiquidCash LiquidAccountType = "CASH"
	LiquidBank LiquidAccountType = "BANK"
	LiquidUPI  LiquidAccountType = "UPI"
)

func (t LiquidAccountType) IsValid() bool {
	return t == LiquidCash || t == LiquidBank || t == LiquidUPI
}

// LiquidAccount is a cash/bank/UPI balance mirrored by a ledger account.
// CurrentBalance always equals the sum of the account's transactions.
type LiquidAccount struct {
	LiquidAccountID string            `json:"liquidAccountID"`
	Name            string            `json:"name"`
	Type            LiquidAccountType `json:"type"`
	LedgerAccountID string            `json:"ledgerAccountID"`
	CurrentBalance  decimal.Decimal   `json:"currentBalance"`
	AllowOverdraft  bool              `json:"allowOverdraft"`
	IsDefault       bool              `json:"isDefault"`
	IsActive        bool              `json:"isActive"`
	Version         int64             `json:"version"`
	AuditFields
}

// MayOverdraw reports whether the balance may go below zero. Only bank
// accounts can be configured to allow it.
func (a LiquidAccount) MayOverdraw() bool {
	return a.Type == LiquidBank && a.AllowOverdraft
}

// ProjectBalance returns the balance after applying signedAmount, enforcing
// the overdraft rule for outgoing mutations.
func (a LiquidAccount) ProjectBalance(signedAmount decimal.Decimal) (decimal.Decimal, error) {
	if !a.IsActive {
		return decimal.Zero, apperrors.NewNotFound("account not found", a.LiquidAccountID)
	}
	if signedAmount.IsZero() {
		return decimal.Zero, apperrors.NewValidation("mutation amount cannot be zero", a.LiquidAccountID)
	}
	next := a.CurrentBalance.Add(signedAmount)
	if signedAmount.IsNegative() && next.IsNegative() && !a.MayOverdraw() {
		return decimal.Zero, apperrors.NewInsufficientBalance(
			"insufficient balance: available "+a.CurrentBalance.StringFixed(2)+", requested "+signedAmount.Abs().StringFixed(2),
			a.LiquidAccountID)
	}
	return next, nil
}

// Direction of a liquid transaction.
type Direction string

const (
	Inflow  Direction = "INFLOW"
	Outflow Direction = "OUTFLOW"
)

// DirectionOf derives the direction from a signed amount.
func DirectionOf(signedAmount decimal.Decimal) Direction {
	if signedAmount.IsNegative() {
		return Outflow
	}
	return Inflow
}

// SourceType names the business record behind a ledger movement.
type SourceType string

const (
	SourceManual         SourceType = "MANUAL"
	SourceVendorPayment  SourceType = "VENDOR_PAYMENT"
	SourceInvoiceRefund  SourceType = "INVOICE_REFUND"
	SourceOpeningBalance SourceType = "OPENING_BALANCE"
)

// LiquidTransaction is an append-only movement on a LiquidAccount.
type LiquidTransaction struct {
	TransactionID   string          `json:"transactionID"`
	LiquidAccountID string          `json:"liquidAccountID"`
	Amount          decimal.Decimal `json:"amount"`
	Direction       Direction       `json:"direction"`
	Description     string          `json:"description"`
	SourceType      SourceType      `json:"sourceType"`
	SourceID        string          `json:"sourceID"`
	JournalEntryID  string          `json:"journalEntryID"`
	BalanceAfter    decimal.Decimal `json:"balanceAfter"`
	ReversalOf      *string         `json:"reversalOf,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	CreatedBy       string          `json:"createdBy"`
}

// MutationRecord describes why a liquid balance changes.
type MutationRecord struct {
	Description    string
	SourceType     SourceType
	SourceID       string
	JournalEntryID string
	ReversalOf     *string
	UserID         string
}

// MutationResult is returned by a successful balance mutation.
type MutationResult struct {
	Transaction LiquidTransaction
	NewBalance  decimal.Decimal
}

// LiquidReconciliation compares a stored balance with its transaction history.
type LiquidReconciliation struct {
	LiquidAccountID  string          `json:"liquidAccountID"`
	StoredBalance    decimal.Decimal `json:"storedBalance"`
	TransactionTotal decimal.Decimal `json:"transactionTotal"`
	TransactionCount int             `json:"transactionCount"`
	IsReconciled     bool            `json:"isReconciled"`
}
