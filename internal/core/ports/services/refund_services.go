package services

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/dto"
)

// RefundSvcFacade manages customer invoices and the refunds raised against them.
type RefundSvcFacade interface {
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, userID string) (*domain.Invoice, error)
	GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	CreateRefund(ctx context.Context, req dto.CreateRefundRequest, userID string) (*domain.InvoiceRefund, error)
	GetRefund(ctx context.Context, refundID string) (*domain.InvoiceRefund, error)
	ApproveRefund(ctx context.Context, refundID string, userID string) (*domain.InvoiceRefund, error)
	RejectRefund(ctx context.Context, refundID string, userID string) (*domain.InvoiceRefund, error)

	// ProcessRefund pays an APPROVED refund out of a liquid account. The
	// request may fill in the method and account when the refund has none.
	ProcessRefund(ctx context.Context, refundID string, req dto.ProcessRefundRequest, userID string) (*domain.RefundResult, error)

	// ReverseRefund takes a processed refund back into the liquid account.
	ReverseRefund(ctx context.Context, refundID string, userID string) (*domain.RefundResult, error)
}
