package dto

import (
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateVendorBillRequest records a payable from a vendor.
type CreateVendorBillRequest struct {
	VendorID    string          `json:"vendorID" binding:"required"`
	BillNumber  string          `json:"billNumber" binding:"required,max=50"`
	TotalAmount decimal.Decimal `json:"totalAmount" binding:"dgt0"`
}

// CreateVendorPaymentRequest records a PENDING payment to a vendor.
type CreateVendorPaymentRequest struct {
	VendorID        string               `json:"vendorID" binding:"required"`
	BillID          *string              `json:"billID,omitempty"`
	Amount          decimal.Decimal      `json:"amount" binding:"dgt0"`
	Method          domain.PaymentMethod `json:"method" binding:"required,oneof=CASH BANK_TRANSFER UPI CHEQUE"`
	LiquidAccountID *string              `json:"liquidAccountID,omitempty"`
	PaymentDate     *time.Time           `json:"paymentDate,omitempty"`
	Reference       string               `json:"reference,omitempty" binding:"max=100"`
	Notes           string               `json:"notes,omitempty" binding:"max=500"`
}

type VendorBillResponse struct {
	BillID      string          `json:"billID"`
	VendorID    string          `json:"vendorID"`
	BillNumber  string          `json:"billNumber"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	PaidAmount  decimal.Decimal `json:"paidAmount"`
	Status      string          `json:"status"`
}

type VendorPaymentResponse struct {
	PaymentID              string          `json:"paymentID"`
	VendorID               string          `json:"vendorID"`
	BillID                 *string         `json:"billID,omitempty"`
	Amount                 decimal.Decimal `json:"amount"`
	Method                 string          `json:"method"`
	LiquidAccountID        *string         `json:"liquidAccountID,omitempty"`
	Status                 string          `json:"status"`
	PaymentDate            string          `json:"paymentDate"`
	Reference              string          `json:"reference,omitempty"`
	JournalEntryID         *string         `json:"journalEntryID,omitempty"`
	TransactionID          *string         `json:"transactionID,omitempty"`
	ReversalJournalEntryID *string         `json:"reversalJournalEntryID,omitempty"`
	ReversalTransactionID  *string         `json:"reversalTransactionID,omitempty"`
}

// WarningResponse describes a best-effort step that failed.
type WarningResponse struct {
	Kind     string `json:"kind"`
	Step     string `json:"step"`
	RecordID string `json:"recordID,omitempty"`
	Message  string `json:"message"`
}

type PaymentResultResponse struct {
	Payment  VendorPaymentResponse `json:"payment"`
	Warnings []WarningResponse     `json:"warnings,omitempty"`
}

func ToVendorBillResponse(b *domain.VendorBill) VendorBillResponse {
	return VendorBillResponse{
		BillID:      b.BillID,
		VendorID:    b.VendorID,
		BillNumber:  b.BillNumber,
		TotalAmount: b.TotalAmount,
		PaidAmount:  b.PaidAmount,
		Status:      string(b.Status),
	}
}

func ToVendorPaymentResponse(p *domain.VendorPayment) VendorPaymentResponse {
	return VendorPaymentResponse{
		PaymentID:              p.PaymentID,
		VendorID:               p.VendorID,
		BillID:                 p.BillID,
		Amount:                 p.Amount,
		Method:                 string(p.Method),
		LiquidAccountID:        p.LiquidAccountID,
		Status:                 string(p.Status),
		PaymentDate:            p.PaymentDate.Format("2006-01-02"),
		Reference:              p.Reference,
		JournalEntryID:         p.JournalEntryID,
		TransactionID:          p.TransactionID,
		ReversalJournalEntryID: p.ReversalJournalEntryID,
		ReversalTransactionID:  p.ReversalTransactionID,
	}
}

func ToWarningResponses(warnings []domain.OperationWarning) []WarningResponse {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]WarningResponse, len(warnings))
	for i, w := range warnings {
		out[i] = WarningResponse{Kind: "DEPENDENCY_FAILURE", Step: w.Step, RecordID: w.RecordID, Message: w.Message}
	}
	return out
}

func ToPaymentResultResponse(r *domain.PaymentResult) PaymentResultResponse {
	return PaymentResultResponse{
		Payment:  ToVendorPaymentResponse(&r.Payment),
		Warnings: ToWarningResponses(r.Warnings),
	}
}
