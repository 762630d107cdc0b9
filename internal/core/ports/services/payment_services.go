package services

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/dto"
)

// VendorPaymentSvcFacade records vendor bills and settles payments against them.
type VendorPaymentSvcFacade interface {
	CreateVendorBill(ctx context.Context, req dto.CreateVendorBillRequest, userID string) (*domain.VendorBill, error)
	GetVendorBill(ctx context.Context, billID string) (*domain.VendorBill, error)

	CreateVendorPayment(ctx context.Context, req dto.CreateVendorPaymentRequest, userID string) (*domain.VendorPayment, error)
	GetVendorPayment(ctx context.Context, paymentID string) (*domain.VendorPayment, error)
	ApproveVendorPayment(ctx context.Context, paymentID string, userID string) (*domain.VendorPayment, error)

	// ProcessVendorPayment pays the vendor out of a liquid account and posts
	// the matching journal entry. The bill update is best-effort.
	ProcessVendorPayment(ctx context.Context, paymentID string, userID string) (*domain.PaymentResult, error)

	// ReverseVendorPayment returns the money to the liquid account and posts the mirror entry.
	ReverseVendorPayment(ctx context.Context, paymentID string, userID string) (*domain.PaymentResult, error)
}
