package domain

import (
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how money leaves or enters the business.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "CASH"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodUPI          PaymentMethod = "UPI"
	MethodCheque       PaymentMethod = "CHEQUE"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCash, MethodBankTransfer, MethodUPI, MethodCheque:
		return true
	}
	return false
}

// LiquidType is the kind of liquid account the method draws on.
func (m PaymentMethod) LiquidType() LiquidAccountType {
	switch m {
	case MethodCash:
		return LiquidCash
	case MethodUPI:
		return LiquidUPI
	default:
		return LiquidBank
	}
}

// PaymentStatus is shared by vendor payments and invoice refunds.
type PaymentStatus string

const (
	StatusPending   PaymentStatus = "PENDING"
	StatusApproved  PaymentStatus = "APPROVED"
	StatusProcessed PaymentStatus = "PROCESSED"
	StatusReversed  PaymentStatus = "REVERSED"
	StatusCancelled PaymentStatus = "CANCELLED"
	StatusRejected  PaymentStatus = "REJECTED"
)

// HoldsClaim reports whether a payment or refund in this status still counts
// against the bill or invoice it draws on.
func (s PaymentStatus) HoldsClaim() bool {
	return s == StatusPending || s == StatusApproved || s == StatusProcessed
}

// Settlement links a processed payment or refund to the ledger writes it produced.
type Settlement struct {
	JournalEntryID         *string    `json:"journalEntryID,omitempty"`
	TransactionID          *string    `json:"transactionID,omitempty"`
	ProcessedAt            *time.Time `json:"processedAt,omitempty"`
	ReversalJournalEntryID *string    `json:"reversalJournalEntryID,omitempty"`
	ReversalTransactionID  *string    `json:"reversalTransactionID,omitempty"`
	ReversedAt             *time.Time `json:"reversedAt,omitempty"`
}

func (s *Settlement) markProcessed(journalID, txnID string, now time.Time) {
	s.JournalEntryID = &journalID
	s.TransactionID = &txnID
	s.ProcessedAt = &now
}

func (s *Settlement) markReversed(journalID, txnID string, now time.Time) {
	s.ReversalJournalEntryID = &journalID
	s.ReversalTransactionID = &txnID
	s.ReversedAt = &now
}

// VendorPayment is money paid to a vendor, optionally against a bill.
type VendorPayment struct {
	PaymentID       string          `json:"paymentID"`
	VendorID        string          `json:"vendorID"`
	BillID          *string         `json:"billID,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Method          PaymentMethod   `json:"method"`
	LiquidAccountID *string         `json:"liquidAccountID,omitempty"`
	Status          PaymentStatus   `json:"status"`
	PaymentDate     time.Time       `json:"paymentDate"`
	Reference       string          `json:"reference"`
	Notes           string          `json:"notes"`
	Settlement
	AuditFields
}

// Approve moves a PENDING payment to APPROVED.
func (p *VendorPayment) Approve(userID string, now time.Time) error {
	if p.Status != StatusPending {
		return apperrors.NewStateConflict("only pending payments can be approved, status is "+string(p.Status), p.PaymentID)
	}
	p.Status = StatusApproved
	p.Touch(userID, now)
	return nil
}

// EnsureProcessable is the idempotency guard: a payment is processed at most once.
func (p *VendorPayment) EnsureProcessable() error {
	if p.Status != StatusPending && p.Status != StatusApproved {
		return apperrors.NewStateConflict("payment cannot be processed, status is "+string(p.Status), p.PaymentID)
	}
	return nil
}

// MarkProcessed records the ledger writes and flips the status.
func (p *VendorPayment) MarkProcessed(journalID, txnID, userID string, now time.Time) error {
	if err := p.EnsureProcessable(); err != nil {
		return err
	}
	p.Status = StatusProcessed
	p.markProcessed(journalID, txnID, now)
	p.Touch(userID, now)
	return nil
}

func (p *VendorPayment) EnsureReversible() error {
	if p.Status != StatusProcessed {
		return apperrors.NewStateConflict("only processed payments can be reversed, status is "+string(p.Status), p.PaymentID)
	}
	return nil
}

func (p *VendorPayment) MarkReversed(journalID, txnID, userID string, now time.Time) error {
	if err := p.EnsureReversible(); err != nil {
		return err
	}
	p.Status = StatusReversed
	p.markReversed(journalID, txnID, now)
	p.Touch(userID, now)
	return nil
}

// BillStatus tracks how much of a vendor bill has been paid.
type BillStatus string

const (
	BillUnpaid        BillStatus = "UNPAID"
	BillPartiallyPaid BillStatus = "PARTIALLY_PAID"
	BillPaid          BillStatus = "PAID"
)

// VendorBill is the payable a vendor payment settles.
type VendorBill struct {
	BillID      string          `json:"billID"`
	VendorID    string          `json:"vendorID"`
	BillNumber  string          `json:"billNumber"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	PaidAmount  decimal.Decimal `json:"paidAmount"`
	Status      BillStatus      `json:"status"`
	AuditFields
}

// Outstanding is what the bill still allows once every payment holding a
// claim on it is counted. The payment named by excludeID is left out.
func (b VendorBill) Outstanding(payments []VendorPayment, excludeID string) decimal.Decimal {
	claimed := decimal.Zero
	for _, p := range payments {
		if p.PaymentID != excludeID && p.Status.HoldsClaim() {
			claimed = claimed.Add(p.Amount)
		}
	}
	return b.TotalAmount.Sub(claimed)
}

// RecordPaid sets the paid amount to the sum of the processed payments and
// recomputes the status.
func (b *VendorBill) RecordPaid(payments []VendorPayment, userID string, now time.Time) {
	paid := decimal.Zero
	for _, p := range payments {
		if p.Status == StatusProcessed {
			paid = paid.Add(p.Amount)
		}
	}
	b.PaidAmount = paid
	switch {
	case paid.IsZero():
		b.Status = BillUnpaid
	case paid.LessThan(b.TotalAmount):
		b.Status = BillPartiallyPaid
	default:
		b.Status = BillPaid
	}
	b.Touch(userID, now)
}
