package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so every repository
// method runs unchanged inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// queries implements every repository port against one DBTX.
type queries struct {
	db DBTX
}

func (q *queries) Accounts() portsrepo.AccountRepositoryFacade             { return q }
func (q *queries) Journals() portsrepo.JournalRepositoryFacade             { return q }
func (q *queries) Reporting() portsrepo.ReportingRepository                { return q }
func (q *queries) LiquidAccounts() portsrepo.LiquidAccountRepositoryFacade { return q }
func (q *queries) VendorPayments() portsrepo.VendorPaymentRepositoryFacade { return q }
func (q *queries) VendorBills() portsrepo.VendorBillRepositoryFacade       { return q }
func (q *queries) Refunds() portsrepo.RefundRepositoryFacade               { return q }
func (q *queries) Invoices() portsrepo.InvoiceRepositoryFacade             { return q }
func (q *queries) SalesOrders() portsrepo.SalesOrderRepositoryFacade       { return q }
func (q *queries) Returns() portsrepo.ReturnRepositoryFacade               { return q }
func (q *queries) Inventory() portsrepo.InventoryRepositoryFacade          { return q }

var _ portsrepo.Store = (*queries)(nil)

// mapError converts driver errors into application errors. what names the
// record for not-found and duplicate messages.
func mapError(err error, what, recordID string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(what+" not found", recordID)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return apperrors.Wrap(apperrors.KindDuplicate, what+" already exists", recordID, err)
		case "23503": // foreign_key_violation
			return apperrors.Wrap(apperrors.KindValidation, what+" references a record that does not exist", recordID, err)
		case "23514": // check_violation
			return apperrors.Wrap(apperrors.KindValidation, what+" violates constraint "+pgErr.ConstraintName, recordID, err)
		case "57014": // query_canceled, raised by statement_timeout
			return apperrors.Wrap(apperrors.KindTimeout, "database statement timed out", recordID, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%s %s: %w", what, recordID, err)
}

// expectOne turns a zero-row update into a not-found error.
func expectOne(tag pgconn.CommandTag, err error, what, recordID string) error {
	if err != nil {
		return mapError(err, what, recordID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFound(what+" not found", recordID)
	}
	return nil
}

// execBatch sends a batch of writes and closes it, surfacing the first failure.
func (q *queries) execBatch(ctx context.Context, batch *pgx.Batch, what string) error {
	br := q.db.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return mapError(err, what, "")
		}
	}
	return mapError(br.Close(), what, "")
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}
