package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiquidAccount_ProjectBalance(t *testing.T) {
	tests := []struct {
		name    string
		account domain.LiquidAccount
		amount  string
		want    string
		wantErr error
	}{
		{
			name:    "inflow",
			account: domain.LiquidAccount{Type: domain.LiquidCash, CurrentBalance: d("10"), IsActive: true},
			amount:  "5",
			want:    "15",
		},
		{
			name:    "outflow to exactly zero",
			account: domain.LiquidAccount{Type: domain.LiquidCash, CurrentBalance: d("10"), IsActive: true},
			amount:  "-10",
			want:    "0",
		},
		{
			name:    "cash cannot overdraw",
			account: domain.LiquidAccount{Type: domain.LiquidCash, CurrentBalance: d("10"), IsActive: true, AllowOverdraft: true},
			amount:  "-10.01",
			wantErr: apperrors.ErrInsufficientBalance,
		},
		{
			name:    "upi cannot overdraw",
			account: domain.LiquidAccount{Type: domain.LiquidUPI, CurrentBalance: d("0"), IsActive: true},
			amount:  "-1",
			wantErr: apperrors.ErrInsufficientBalance,
		},
		{
			name:    "bank without overdraft",
			account: domain.LiquidAccount{Type: domain.LiquidBank, CurrentBalance: d("100"), IsActive: true},
			amount:  "-200",
			wantErr: apperrors.ErrInsufficientBalance,
		},
		{
			name:    "bank with overdraft",
			account: domain.LiquidAccount{Type: domain.LiquidBank, CurrentBalance: d("100"), IsActive: true, AllowOverdraft: true},
			amount:  "-200",
			want:    "-100",
		},
		{
			name:    "inactive account",
			account: domain.LiquidAccount{Type: domain.LiquidBank, CurrentBalance: d("100")},
			amount:  "1",
			wantErr: apperrors.ErrNotFound,
		},
		{
			name:    "zero amount",
			account: domain.LiquidAccount{Type: domain.LiquidBank, CurrentBalance: d("100"), IsActive: true},
			amount:  "0",
			wantErr: apperrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.account.ProjectBalance(d(tt.amount))
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(d(tt.want)), "got %s", got)
		})
	}
}

func TestVendorPaymentTransitions(t *testing.T) {
	now := time.Now()
	p := &domain.VendorPayment{PaymentID: "p1", Status: domain.StatusPending}

	require.NoError(t, p.Approve("u1", now))
	require.NoError(t, p.MarkProcessed("je-1", "tx-1", "u1", now))
	assert.Equal(t, domain.StatusProcessed, p.Status)
	assert.Equal(t, "je-1", *p.JournalEntryID)

	err := p.MarkProcessed("je-2", "tx-2", "u1", now)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
	assert.Equal(t, "je-1", *p.JournalEntryID)

	require.NoError(t, p.MarkReversed("je-3", "tx-3", "u1", now))
	assert.Equal(t, domain.StatusReversed, p.Status)
	assert.True(t, errors.Is(p.MarkReversed("je-4", "tx-4", "u1", now), apperrors.ErrConflict))
}

func TestInvoiceRefund_RequiresApproval(t *testing.T) {
	now := time.Now()
	r := &domain.InvoiceRefund{RefundID: "r1", Status: domain.StatusPending}

	assert.True(t, errors.Is(r.MarkProcessed("je", "tx", "u1", now), apperrors.ErrConflict))
	require.NoError(t, r.Approve("u1", now))
	require.NoError(t, r.MarkProcessed("je", "tx", "u1", now))
	assert.True(t, errors.Is(r.Reject("u1", now), apperrors.ErrConflict))
}

func TestVendorBill_OutstandingAndRecordPaid(t *testing.T) {
	now := time.Now()
	bill := &domain.VendorBill{BillID: "b1", TotalAmount: d("5000"), PaidAmount: d("0"), Status: domain.BillUnpaid}
	payments := []domain.VendorPayment{
		{PaymentID: "p1", Amount: d("3000"), Status: domain.StatusProcessed},
		{PaymentID: "p2", Amount: d("1500"), Status: domain.StatusPending},
		{PaymentID: "p3", Amount: d("900"), Status: domain.StatusRejected},
		{PaymentID: "p4", Amount: d("700"), Status: domain.StatusReversed},
	}

	assert.True(t, bill.Outstanding(payments, "").Equal(d("500")))
	assert.True(t, bill.Outstanding(payments, "p2").Equal(d("2000")))

	bill.RecordPaid(payments, "u1", now)
	assert.Equal(t, domain.BillPartiallyPaid, bill.Status)
	assert.True(t, bill.PaidAmount.Equal(d("3000")))

	payments[1].Status = domain.StatusProcessed
	payments[1].Amount = d("2000")
	bill.RecordPaid(payments, "u1", now)
	assert.Equal(t, domain.BillPaid, bill.Status)

	payments[0].Status = domain.StatusReversed
	payments[1].Status = domain.StatusReversed
	bill.RecordPaid(payments, "u1", now)
	assert.Equal(t, domain.BillUnpaid, bill.Status)
	assert.True(t, bill.PaidAmount.IsZero())
}

func TestSalesOrder_Cancel(t *testing.T) {
	now := time.Now()
	o := &domain.SalesOrder{OrderID: "o1", Status: domain.OrderConfirmed}
	require.NoError(t, o.Cancel("customer request", "u1", now))
	assert.Equal(t, domain.OrderCancelled, o.Status)
	assert.True(t, errors.Is(o.Cancel("again", "u1", now), apperrors.ErrConflict))

	delivered := &domain.SalesOrder{OrderID: "o2", Status: domain.OrderDelivered}
	assert.True(t, errors.Is(delivered.Cancel("late", "u1", now), apperrors.ErrConflict))
}

func TestInvoice_RefundableAmount(t *testing.T) {
	inv := domain.Invoice{AmountPaid: d("1200")}
	refunds := []domain.InvoiceRefund{
		{RefundID: "r1", Amount: d("200"), Status: domain.StatusProcessed},
		{RefundID: "r2", Amount: d("300"), Status: domain.StatusApproved},
		{RefundID: "r3", Amount: d("400"), Status: domain.StatusReversed},
	}
	// TotalRefunded is display only; the refund rows decide what is left.
	assert.True(t, inv.RefundableAmount(refunds).Equal(d("700")))

	refunds = append(refunds, domain.InvoiceRefund{RefundID: "r4", Amount: d("900"), Status: domain.StatusPending})
	assert.True(t, inv.RefundableAmount(refunds).IsZero())

	inv.RecordRefunded(refunds, "u1", time.Now())
	assert.True(t, inv.TotalRefunded.Equal(d("200")))
}
