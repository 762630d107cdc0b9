package dto

import (
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest records a customer invoice against a sales order.
type CreateInvoiceRequest struct {
	OrderID       string          `json:"orderID" binding:"required"`
	InvoiceNumber string          `json:"invoiceNumber" binding:"required,max=50"`
	TotalAmount   decimal.Decimal `json:"totalAmount" binding:"dgt0"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
}

// CreateRefundRequest records a PENDING refund against an invoice.
type CreateRefundRequest struct {
	InvoiceID       string               `json:"invoiceID" binding:"required"`
	Amount          decimal.Decimal      `json:"amount" binding:"dgt0"`
	Method          domain.PaymentMethod `json:"method" binding:"required,oneof=CASH BANK_TRANSFER UPI CHEQUE"`
	LiquidAccountID *string              `json:"liquidAccountID,omitempty"`
	Reason          string               `json:"reason" binding:"required,max=500"`
}

// ProcessRefundRequest may name the account to pay out from when the refund was created without one.
type ProcessRefundRequest struct {
	Method          *domain.PaymentMethod `json:"method,omitempty" binding:"omitempty,oneof=CASH BANK_TRANSFER UPI CHEQUE"`
	LiquidAccountID *string               `json:"liquidAccountID,omitempty"`
}

type InvoiceResponse struct {
	InvoiceID     string          `json:"invoiceID"`
	OrderID       string          `json:"orderID"`
	InvoiceNumber string          `json:"invoiceNumber"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	TotalRefunded decimal.Decimal `json:"totalRefunded"`
	Status        string          `json:"status"`
}

type RefundResponse struct {
	RefundID               string          `json:"refundID"`
	InvoiceID              string          `json:"invoiceID"`
	ReturnID               *string         `json:"returnID,omitempty"`
	Amount                 decimal.Decimal `json:"amount"`
	Method                 string          `json:"method"`
	LiquidAccountID        *string         `json:"liquidAccountID,omitempty"`
	Reason                 string          `json:"reason"`
	Status                 string          `json:"status"`
	JournalEntryID         *string         `json:"journalEntryID,omitempty"`
	TransactionID          *string         `json:"transactionID,omitempty"`
	ReversalJournalEntryID *string         `json:"reversalJournalEntryID,omitempty"`
	ReversalTransactionID  *string         `json:"reversalTransactionID,omitempty"`
}

type RefundResultResponse struct {
	Refund   RefundResponse    `json:"refund"`
	Warnings []WarningResponse `json:"warnings,omitempty"`
}

func ToInvoiceResponse(i *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:     i.InvoiceID,
		OrderID:       i.OrderID,
		InvoiceNumber: i.InvoiceNumber,
		TotalAmount:   i.TotalAmount,
		AmountPaid:    i.AmountPaid,
		TotalRefunded: i.TotalRefunded,
		Status:        string(i.Status),
	}
}

func ToRefundResponse(r *domain.InvoiceRefund) RefundResponse {
	return RefundResponse{
		RefundID:               r.RefundID,
		InvoiceID:              r.InvoiceID,
		ReturnID:               r.ReturnID,
		Amount:                 r.Amount,
		Method:                 string(r.Method),
		LiquidAccountID:        r.LiquidAccountID,
		Reason:                 r.Reason,
		Status:                 string(r.Status),
		JournalEntryID:         r.JournalEntryID,
		TransactionID:          r.TransactionID,
		ReversalJournalEntryID: r.ReversalJournalEntryID,
		ReversalTransactionID:  r.ReversalTransactionID,
	}
}

func ToRefundResultResponse(r *domain.RefundResult) RefundResultResponse {
	return RefundResultResponse{
		Refund:   ToRefundResponse(&r.Refund),
		Warnings: ToWarningResponses(r.Warnings),
	}
}
