package domain

import (
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// InvoiceStatus of a customer invoice.
type InvoiceStatus string

const (
	InvoiceIssued    InvoiceStatus = "ISSUED"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

// Invoice is a customer invoice raised against a sales order.
type Invoice struct {
	InvoiceID     string          `json:"invoiceID"`
	OrderID       string          `json:"orderID"`
	InvoiceNumber string          `json:"invoiceNumber"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	TotalRefunded decimal.Decimal `json:"totalRefunded"`
	Status        InvoiceStatus   `json:"status"`
	AuditFields
}

// RefundableAmount is what has been collected less every refund that still
// holds a claim on the invoice (pending, approved or processed).
func (i Invoice) RefundableAmount(refunds []InvoiceRefund) decimal.Decimal {
	r := i.AmountPaid
	for _, refund := range refunds {
		if refund.Status.HoldsClaim() {
			r = r.Sub(refund.Amount)
		}
	}
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// Cancel marks the invoice cancelled. Cancelling twice is a no-op.
func (i *Invoice) Cancel(userID string, now time.Time) bool {
	if i.Status == InvoiceCancelled {
		return false
	}
	i.Status = InvoiceCancelled
	i.Touch(userID, now)
	return true
}

// RecordRefunded sets the refunded total to the sum of the processed refunds.
func (i *Invoice) RecordRefunded(refunds []InvoiceRefund, userID string, now time.Time) {
	refunded := decimal.Zero
	for _, refund := range refunds {
		if refund.Status == StatusProcessed {
			refunded = refunded.Add(refund.Amount)
		}
	}
	i.TotalRefunded = refunded
	i.Touch(userID, now)
}

// InvoiceRefund is money returned to a customer against an invoice.
type InvoiceRefund struct {
	RefundID        string          `json:"refundID"`
	InvoiceID       string          `json:"invoiceID"`
	ReturnID        *string         `json:"returnID,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Method          PaymentMethod   `json:"method"`
	LiquidAccountID *string         `json:"liquidAccountID,omitempty"`
	Reason          string          `json:"reason"`
	Status          PaymentStatus   `json:"status"`
	Settlement
	AuditFields
}

func (r *InvoiceRefund) Approve(userID string, now time.Time) error {
	if r.Status != StatusPending {
		return apperrors.NewStateConflict("only pending refunds can be approved, status is "+string(r.Status), r.RefundID)
	}
	r.Status = StatusApproved
	r.Touch(userID, now)
	return nil
}

func (r *InvoiceRefund) Reject(userID string, now time.Time) error {
	if r.Status != StatusPending && r.Status != StatusApproved {
		return apperrors.NewStateConflict("refund cannot be rejected, status is "+string(r.Status), r.RefundID)
	}
	r.Status = StatusRejected
	r.Touch(userID, now)
	return nil
}

// EnsureProcessable is the idempotency guard: only APPROVED refunds pay out.
func (r *InvoiceRefund) EnsureProcessable() error {
	if r.Status != StatusApproved {
		return apperrors.NewStateConflict("refund must be approved before processing, status is "+string(r.Status), r.RefundID)
	}
	return nil
}

func (r *InvoiceRefund) MarkProcessed(journalID, txnID, userID string, now time.Time) error {
	if err := r.EnsureProcessable(); err != nil {
		return err
	}
	r.Status = StatusProcessed
	r.markProcessed(journalID, txnID, now)
	r.Touch(userID, now)
	return nil
}

func (r *InvoiceRefund) EnsureReversible() error {
	if r.Status != StatusProcessed {
		return apperrors.NewStateConflict("only processed refunds can be reversed, status is "+string(r.Status), r.RefundID)
	}
	return nil
}

func (r *InvoiceRefund) MarkReversed(journalID, txnID, userID string, now time.Time) error {
	if err := r.EnsureReversible(); err != nil {
		return err
	}
	r.Status = StatusReversed
	r.markReversed(journalID, txnID, now)
	r.Touch(userID, now)
	return nil
}
