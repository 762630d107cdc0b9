package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

func (r *repo) SaveRefund(_ context.Context, refund domain.InvoiceRefund) error {
	return r.write(func(st *state) error {
		if _, exists := st.refunds[refund.RefundID]; exists {
			return apperrors.New(apperrors.KindDuplicate, "refund already exists", refund.RefundID)
		}
		st.refunds[refund.RefundID] = refund
		return nil
	})
}

func (r *repo) FindRefundByID(_ context.Context, refundID string) (*domain.InvoiceRefund, error) {
	var out *domain.InvoiceRefund
	err := r.read(func(st *state) error {
		ref, ok := st.refunds[refundID]
		if !ok {
			return apperrors.NewNotFound("refund not found", refundID)
		}
		out = &ref
		return nil
	})
	return out, err
}

func (r *repo) FindRefundForUpdate(ctx context.Context, refundID string) (*domain.InvoiceRefund, error) {
	return r.FindRefundByID(ctx, refundID)
}

func (r *repo) UpdateRefund(_ context.Context, refund domain.InvoiceRefund) error {
	return r.write(func(st *state) error {
		if _, ok := st.refunds[refund.RefundID]; !ok {
			return apperrors.NewNotFound("refund not found", refund.RefundID)
		}
		st.refunds[refund.RefundID] = refund
		return nil
	})
}

func (r *repo) ListRefundsByInvoice(_ context.Context, invoiceID string) ([]domain.InvoiceRefund, error) {
	var out []domain.InvoiceRefund
	err := r.read(func(st *state) error {
		for _, ref := range st.refunds {
			if ref.InvoiceID == invoiceID {
				out = append(out, ref)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, err
}

func (r *repo) SaveInvoice(_ context.Context, invoice domain.Invoice) error {
	return r.write(func(st *state) error {
		if _, exists := st.invoices[invoice.InvoiceID]; exists {
			return apperrors.New(apperrors.KindDuplicate, "invoice already exists", invoice.InvoiceID)
		}
		st.invoices[invoice.InvoiceID] = invoice
		return nil
	})
}

func (r *repo) FindInvoiceByID(_ context.Context, invoiceID string) (*domain.Invoice, error) {
	var out *domain.Invoice
	err := r.read(func(st *state) error {
		inv, ok := st.invoices[invoiceID]
		if !ok {
			return apperrors.NewNotFound("invoice not found", invoiceID)
		}
		out = &inv
		return nil
	})
	return out, err
}

func (r *repo) FindInvoiceForUpdate(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	return r.FindInvoiceByID(ctx, invoiceID)
}

func (r *repo) ListInvoicesByOrderForUpdate(_ context.Context, orderID string) ([]domain.Invoice, error) {
	var out []domain.Invoice
	err := r.read(func(st *state) error {
		for _, inv := range st.invoices {
			if inv.OrderID == orderID {
				out = append(out, inv)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].InvoiceNumber < out[j].InvoiceNumber })
	return out, err
}

func (r *repo) UpdateInvoice(_ context.Context, invoice domain.Invoice) error {
	return r.write(func(st *state) error {
		if _, ok := st.invoices[invoice.InvoiceID]; !ok {
			return apperrors.NewNotFound("invoice not found", invoice.InvoiceID)
		}
		st.invoices[invoice.InvoiceID] = invoice
		return nil
	})
}
