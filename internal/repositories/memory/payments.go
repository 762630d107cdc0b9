package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

func (r *repo) SaveVendorPayment(_ context.Context, payment domain.VendorPayment) error {
	return r.write(func(st *state) error {
		if _, exists := st.payments[payment.PaymentID]; exists {
			return apperrors.New(apperrors.KindDuplicate, "vendor payment already exists", payment.PaymentID)
		}
		st.payments[payment.PaymentID] = payment
		return nil
	})
}

func (r *repo) FindVendorPaymentByID(_ context.Context, paymentID string) (*domain.VendorPayment, error) {
	var out *domain.VendorPayment
	err := r.read(func(st *state) error {
		p, ok := st.payments[paymentID]
		if !ok {
			return apperrors.NewNotFound("vendor payment not found", paymentID)
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *repo) FindVendorPaymentForUpdate(ctx context.Context, paymentID string) (*domain.VendorPayment, error) {
	return r.FindVendorPaymentByID(ctx, paymentID)
}

func (r *repo) UpdateVendorPayment(_ context.Context, payment domain.VendorPayment) error {
	return r.write(func(st *state) error {
		if _, ok := st.payments[payment.PaymentID]; !ok {
			return apperrors.NewNotFound("vendor payment not found", payment.PaymentID)
		}
		st.payments[payment.PaymentID] = payment
		return nil
	})
}

func (r *repo) ListVendorPaymentsByBill(_ context.Context, billID string) ([]domain.VendorPayment, error) {
	var out []domain.VendorPayment
	err := r.read(func(st *state) error {
		for _, p := range st.payments {
			if p.BillID != nil && *p.BillID == billID {
				out = append(out, p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, err
}

func (r *repo) SaveVendorBill(_ context.Context, bill domain.VendorBill) error {
	return r.write(func(st *state) error {
		if _, exists := st.bills[bill.BillID]; exists {
			return apperrors.New(apperrors.KindDuplicate, "vendor bill already exists", bill.BillID)
		}
		st.bills[bill.BillID] = bill
		return nil
	})
}

func (r *repo) FindVendorBillByID(_ context.Context, billID string) (*domain.VendorBill, error) {
	var out *domain.VendorBill
	err := r.read(func(st *state) error {
		b, ok := st.bills[billID]
		if !ok {
			return apperrors.NewNotFound("vendor bill not found", billID)
		}
		out = &b
		return nil
	})
	return out, err
}

func (r *repo) FindVendorBillForUpdate(ctx context.Context, billID string) (*domain.VendorBill, error) {
	return r.FindVendorBillByID(ctx, billID)
}

func (r *repo) UpdateVendorBill(_ context.Context, bill domain.VendorBill) error {
	return r.write(func(st *state) error {
		if _, ok := st.bills[bill.BillID]; !ok {
			return apperrors.NewNotFound("vendor bill not found", bill.BillID)
		}
		st.bills[bill.BillID] = bill
		return nil
	})
}
