package pgsql

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

const refundColumns = `refund_id, invoice_id, return_id, amount, method, liquid_account_id, reason, status,
	` + settlementColumns + `,
	created_at, created_by, last_updated_at, last_updated_by`

const invoiceColumns = `invoice_id, order_id, invoice_number, total_amount, amount_paid, total_refunded, status,
	created_at, created_by, last_updated_at, last_updated_by`

func scanRefund(row pgx.Row) (domain.InvoiceRefund, error) {
	var r domain.InvoiceRefund
	dest := []any{&r.RefundID, &r.InvoiceID, &r.ReturnID, &r.Amount, &r.Method, &r.LiquidAccountID, &r.Reason, &r.Status}
	dest = append(dest, settlementDest(&r.Settlement)...)
	dest = append(dest, &r.CreatedAt, &r.CreatedBy, &r.LastUpdatedAt, &r.LastUpdatedBy)
	err := row.Scan(dest...)
	return r, err
}

func scanInvoice(row pgx.Row) (domain.Invoice, error) {
	var i domain.Invoice
	err := row.Scan(&i.InvoiceID, &i.OrderID, &i.InvoiceNumber, &i.TotalAmount, &i.AmountPaid, &i.TotalRefunded, &i.Status,
		&i.CreatedAt, &i.CreatedBy, &i.LastUpdatedAt, &i.LastUpdatedBy)
	return i, err
}

func (q *queries) SaveRefund(ctx context.Context, refund domain.InvoiceRefund) error {
	query := `
		INSERT INTO invoice_refunds (` + refundColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	args := []any{refund.RefundID, refund.InvoiceID, refund.ReturnID, refund.Amount, refund.Method,
		refund.LiquidAccountID, refund.Reason, refund.Status}
	args = append(args, settlementArgs(refund.Settlement)...)
	args = append(args, refund.CreatedAt, refund.CreatedBy, refund.LastUpdatedAt, refund.LastUpdatedBy)
	_, err := q.db.Exec(ctx, query, args...)
	return mapError(err, "refund", refund.RefundID)
}

func (q *queries) findRefund(ctx context.Context, refundID string, lock bool) (*domain.InvoiceRefund, error) {
	query := `SELECT ` + refundColumns + ` FROM invoice_refunds WHERE refund_id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	r, err := scanRefund(q.db.QueryRow(ctx, query, refundID))
	if err != nil {
		return nil, mapError(err, "refund", refundID)
	}
	return &r, nil
}

func (q *queries) FindRefundByID(ctx context.Context, refundID string) (*domain.InvoiceRefund, error) {
	return q.findRefund(ctx, refundID, false)
}

func (q *queries) FindRefundForUpdate(ctx context.Context, refundID string) (*domain.InvoiceRefund, error) {
	return q.findRefund(ctx, refundID, true)
}

func (q *queries) UpdateRefund(ctx context.Context, refund domain.InvoiceRefund) error {
	query := `
		UPDATE invoice_refunds
		SET method = $2, liquid_account_id = $3, status = $4,
			journal_entry_id = $5, transaction_id = $6, processed_at = $7,
			reversal_journal_entry_id = $8, reversal_transaction_id = $9, reversed_at = $10,
			last_updated_at = $11, last_updated_by = $12
		WHERE refund_id = $1;
	`
	args := []any{refund.RefundID, refund.Method, refund.LiquidAccountID, refund.Status}
	args = append(args, settlementArgs(refund.Settlement)...)
	args = append(args, refund.LastUpdatedAt, refund.LastUpdatedBy)
	tag, err := q.db.Exec(ctx, query, args...)
	return expectOne(tag, err, "refund", refund.RefundID)
}

func (q *queries) ListRefundsByInvoice(ctx context.Context, invoiceID string) ([]domain.InvoiceRefund, error) {
	query := `SELECT ` + refundColumns + ` FROM invoice_refunds WHERE invoice_id = $1 ORDER BY created_at, refund_id;`
	rows, err := q.db.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, mapError(err, "refunds", invoiceID)
	}
	defer rows.Close()
	out := []domain.InvoiceRefund{}
	for rows.Next() {
		r, err := scanRefund(rows)
		if err != nil {
			return nil, mapError(err, "refund", "")
		}
		out = append(out, r)
	}
	return out, mapError(rows.Err(), "refunds", invoiceID)
}

func (q *queries) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := q.db.Exec(ctx, query, invoice.InvoiceID, invoice.OrderID, invoice.InvoiceNumber, invoice.TotalAmount,
		invoice.AmountPaid, invoice.TotalRefunded, invoice.Status,
		invoice.CreatedAt, invoice.CreatedBy, invoice.LastUpdatedAt, invoice.LastUpdatedBy)
	return mapError(err, "invoice "+invoice.InvoiceNumber, invoice.InvoiceID)
}

func (q *queries) findInvoice(ctx context.Context, invoiceID string, lock bool) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	i, err := scanInvoice(q.db.QueryRow(ctx, query, invoiceID))
	if err != nil {
		return nil, mapError(err, "invoice", invoiceID)
	}
	return &i, nil
}

func (q *queries) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	return q.findInvoice(ctx, invoiceID, false)
}

func (q *queries) FindInvoiceForUpdate(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	return q.findInvoice(ctx, invoiceID, true)
}

// ListInvoicesByOrderForUpdate locks every invoice of the order.
func (q *queries) ListInvoicesByOrderForUpdate(ctx context.Context, orderID string) ([]domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE order_id = $1 ORDER BY invoice_number FOR UPDATE;`
	rows, err := q.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, mapError(err, "invoices", orderID)
	}
	defer rows.Close()
	out := []domain.Invoice{}
	for rows.Next() {
		i, err := scanInvoice(rows)
		if err != nil {
			return nil, mapError(err, "invoice", "")
		}
		out = append(out, i)
	}
	return out, mapError(rows.Err(), "invoices", orderID)
}

func (q *queries) UpdateInvoice(ctx context.Context, invoice domain.Invoice) error {
	query := `
		UPDATE invoices
		SET amount_paid = $2, total_refunded = $3, status = $4, last_updated_at = $5, last_updated_by = $6
		WHERE invoice_id = $1;
	`
	tag, err := q.db.Exec(ctx, query, invoice.InvoiceID, invoice.AmountPaid, invoice.TotalRefunded, invoice.Status,
		invoice.LastUpdatedAt, invoice.LastUpdatedBy)
	return expectOne(tag, err, "invoice", invoice.InvoiceID)
}
