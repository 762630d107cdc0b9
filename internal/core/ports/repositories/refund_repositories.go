package repositories

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

// RefundRepositoryFacade persists invoice refunds.
type RefundRepositoryFacade interface {
	SaveRefund(ctx context.Context, refund domain.InvoiceRefund) error
	FindRefundByID(ctx context.Context, refundID string) (*domain.InvoiceRefund, error)
	FindRefundForUpdate(ctx context.Context, refundID string) (*domain.InvoiceRefund, error)
	UpdateRefund(ctx context.Context, refund domain.InvoiceRefund) error
	ListRefundsByInvoice(ctx context.Context, invoiceID string) ([]domain.InvoiceRefund, error)
}

// InvoiceRepositoryFacade persists customer invoices.
type InvoiceRepositoryFacade interface {
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	FindInvoiceForUpdate(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	ListInvoicesByOrderForUpdate(ctx context.Context, orderID string) ([]domain.Invoice, error)
	UpdateInvoice(ctx context.Context, invoice domain.Invoice) error
}
