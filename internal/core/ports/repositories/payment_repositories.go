package repositories

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

// VendorPaymentRepositoryFacade persists vendor payments. It is the single
// authoritative store for payment history.
type VendorPaymentRepositoryFacade interface {
	SaveVendorPayment(ctx context.Context, payment domain.VendorPayment) error
	FindVendorPaymentByID(ctx context.Context, paymentID string) (*domain.VendorPayment, error)
	FindVendorPaymentForUpdate(ctx context.Context, paymentID string) (*domain.VendorPayment, error)
	UpdateVendorPayment(ctx context.Context, payment domain.VendorPayment) error
	// ListVendorPaymentsByBill returns every payment drawn on the bill, oldest first.
	ListVendorPaymentsByBill(ctx context.Context, billID string) ([]domain.VendorPayment, error)
}

// VendorBillRepositoryFacade persists vendor bills.
type VendorBillRepositoryFacade interface {
	SaveVendorBill(ctx context.Context, bill domain.VendorBill) error
	FindVendorBillByID(ctx context.Context, billID string) (*domain.VendorBill, error)
	FindVendorBillForUpdate(ctx context.Context, billID string) (*domain.VendorBill, error)
	UpdateVendorBill(ctx context.Context, bill domain.VendorBill) error
}
