package pgsql

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

const settlementColumns = `journal_entry_id, transaction_id, processed_at,
	reversal_journal_entry_id, reversal_transaction_id, reversed_at`

const vendorPaymentColumns = `payment_id, vendor_id, bill_id, amount, method, liquid_account_id, status,
	payment_date, reference, notes, ` + settlementColumns + `,
	created_at, created_by, last_updated_at, last_updated_by`

const vendorBillColumns = `bill_id, vendor_id, bill_number, total_amount, paid_amount, status,
	created_at, created_by, last_updated_at, last_updated_by`

func settlementDest(s *domain.Settlement) []any {
	return []any{&s.JournalEntryID, &s.TransactionID, &s.ProcessedAt,
		&s.ReversalJournalEntryID, &s.ReversalTransactionID, &s.ReversedAt}
}

func settlementArgs(s domain.Settlement) []any {
	return []any{s.JournalEntryID, s.TransactionID, s.ProcessedAt,
		s.ReversalJournalEntryID, s.ReversalTransactionID, s.ReversedAt}
}

func scanVendorPayment(row pgx.Row) (domain.VendorPayment, error) {
	var p domain.VendorPayment
	dest := []any{&p.PaymentID, &p.VendorID, &p.BillID, &p.Amount, &p.Method, &p.LiquidAccountID, &p.Status,
		&p.PaymentDate, &p.Reference, &p.Notes}
	dest = append(dest, settlementDest(&p.Settlement)...)
	dest = append(dest, &p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy)
	err := row.Scan(dest...)
	return p, err
}

func scanVendorBill(row pgx.Row) (domain.VendorBill, error) {
	var b domain.VendorBill
	err := row.Scan(&b.BillID, &b.VendorID, &b.BillNumber, &b.TotalAmount, &b.PaidAmount, &b.Status,
		&b.CreatedAt, &b.CreatedBy, &b.LastUpdatedAt, &b.LastUpdatedBy)
	return b, err
}

func (q *queries) SaveVendorPayment(ctx context.Context, payment domain.VendorPayment) error {
	query := `
		INSERT INTO vendor_payments (` + vendorPaymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	args := []any{payment.PaymentID, payment.VendorID, payment.BillID, payment.Amount, payment.Method,
		payment.LiquidAccountID, payment.Status, payment.PaymentDate, payment.Reference, payment.Notes}
	args = append(args, settlementArgs(payment.Settlement)...)
	args = append(args, payment.CreatedAt, payment.CreatedBy, payment.LastUpdatedAt, payment.LastUpdatedBy)
	_, err := q.db.Exec(ctx, query, args...)
	return mapError(err, "vendor payment", payment.PaymentID)
}

func (q *queries) findVendorPayment(ctx context.Context, paymentID string, lock bool) (*domain.VendorPayment, error) {
	query := `SELECT ` + vendorPaymentColumns + ` FROM vendor_payments WHERE payment_id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	p, err := scanVendorPayment(q.db.QueryRow(ctx, query, paymentID))
	if err != nil {
		return nil, mapError(err, "vendor payment", paymentID)
	}
	return &p, nil
}

func (q *queries) FindVendorPaymentByID(ctx context.Context, paymentID string) (*domain.VendorPayment, error) {
	return q.findVendorPayment(ctx, paymentID, false)
}

func (q *queries) FindVendorPaymentForUpdate(ctx context.Context, paymentID string) (*domain.VendorPayment, error) {
	return q.findVendorPayment(ctx, paymentID, true)
}

func (q *queries) UpdateVendorPayment(ctx context.Context, payment domain.VendorPayment) error {
	query := `
		UPDATE vendor_payments
		SET bill_id = $2, liquid_account_id = $3, status = $4,
			journal_entry_id = $5, transaction_id = $6, processed_at = $7,
			reversal_journal_entry_id = $8, reversal_transaction_id = $9, reversed_at = $10,
			last_updated_at = $11, last_updated_by = $12
		WHERE payment_id = $1;
	`
	args := []any{payment.PaymentID, payment.BillID, payment.LiquidAccountID, payment.Status}
	args = append(args, settlementArgs(payment.Settlement)...)
	args = append(args, payment.LastUpdatedAt, payment.LastUpdatedBy)
	tag, err := q.db.Exec(ctx, query, args...)
	return expectOne(tag, err, "vendor payment", payment.PaymentID)
}

func (q *queries) ListVendorPaymentsByBill(ctx context.Context, billID string) ([]domain.VendorPayment, error) {
	query := `SELECT ` + vendorPaymentColumns + ` FROM vendor_payments WHERE bill_id = $1 ORDER BY created_at, payment_id;`
	rows, err := q.db.Query(ctx, query, billID)
	if err != nil {
		return nil, mapError(err, "vendor payments", billID)
	}
	defer rows.Close()
	out := []domain.VendorPayment{}
	for rows.Next() {
		p, err := scanVendorPayment(rows)
		if err != nil {
			return nil, mapError(err, "vendor payment", "")
		}
		out = append(out, p)
	}
	return out, mapError(rows.Err(), "vendor payments", billID)
}

func (q *queries) SaveVendorBill(ctx context.Context, bill domain.VendorBill) error {
	query := `
		INSERT INTO vendor_bills (` + vendorBillColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := q.db.Exec(ctx, query, bill.BillID, bill.VendorID, bill.BillNumber, bill.TotalAmount, bill.PaidAmount,
		bill.Status, bill.CreatedAt, bill.CreatedBy, bill.LastUpdatedAt, bill.LastUpdatedBy)
	return mapError(err, "vendor bill "+bill.BillNumber, bill.BillID)
}

func (q *queries) findVendorBill(ctx context.Context, billID string, lock bool) (*domain.VendorBill, error) {
	query := `SELECT ` + vendorBillColumns + ` FROM vendor_bills WHERE bill_id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	b, err := scanVendorBill(q.db.QueryRow(ctx, query, billID))
	if err != nil {
		return nil, mapError(err, "vendor bill", billID)
	}
	return &b, nil
}

func (q *queries) FindVendorBillByID(ctx context.Context, billID string) (*domain.VendorBill, error) {
	return q.findVendorBill(ctx, billID, false)
}

func (q *queries) FindVendorBillForUpdate(ctx context.Context, billID string) (*domain.VendorBill, error) {
	return q.findVendorBill(ctx, billID, true)
}

func (q *queries) UpdateVendorBill(ctx context.Context, bill domain.VendorBill) error {
	query := `
		UPDATE vendor_bills
		SET paid_amount = $2, status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE bill_id = $1;
	`
	tag, err := q.db.Exec(ctx, query, bill.BillID, bill.PaidAmount, bill.Status, bill.LastUpdatedAt, bill.LastUpdatedBy)
	return expectOne(tag, err, "vendor bill", bill.BillID)
}
