package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const liquidAccountColumns = `liquid_account_id, name, type, ledger_account_id, current_balance,
	allow_overdraft, is_default, is_active, version,
	created_at, created_by, last_updated_at, last_updated_by`

const liquidTxnColumns = `transaction_id, liquid_account_id, amount, direction, description, source_type, source_id,
	journal_entry_id, balance_after, reversal_of, created_at, created_by`

func scanLiquidAccount(row pgx.Row) (domain.LiquidAccount, error) {
	var a domain.LiquidAccount
	err := row.Scan(
		&a.LiquidAccountID, &a.Name, &a.Type, &a.LedgerAccountID, &a.CurrentBalance,
		&a.AllowOverdraft, &a.IsDefault, &a.IsActive, &a.Version,
		&a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy,
	)
	return a, err
}

func scanLiquidTxn(row pgx.Row) (domain.LiquidTransaction, error) {
	var t domain.LiquidTransaction
	var journalID *string
	err := row.Scan(
		&t.TransactionID, &t.LiquidAccountID, &t.Amount, &t.Direction, &t.Description, &t.SourceType, &t.SourceID,
		&journalID, &t.BalanceAfter, &t.ReversalOf, &t.CreatedAt, &t.CreatedBy,
	)
	if journalID != nil {
		t.JournalEntryID = *journalID
	}
	return t, err
}

func txnCursor(t domain.LiquidTransaction) pagination.Cursor {
	return pagination.Cursor{SortDate: t.CreatedAt, CreatedAt: t.CreatedAt, ID: t.TransactionID}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (q *queries) findLiquidAccount(ctx context.Context, liquidAccountID string, lock bool) (*domain.LiquidAccount, error) {
	query := `SELECT ` + liquidAccountColumns + ` FROM liquid_accounts WHERE liquid_account_id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	a, err := scanLiquidAccount(q.db.QueryRow(ctx, query, liquidAccountID))
	if err != nil {
		return nil, mapError(err, "account", liquidAccountID)
	}
	return &a, nil
}

func (q *queries) FindLiquidAccountByID(ctx context.Context, liquidAccountID string) (*domain.LiquidAccount, error) {
	return q.findLiquidAccount(ctx, liquidAccountID, false)
}

// FindLiquidAccountForUpdate locks the row until the surrounding transaction
// ends, which serializes mutations per account.
func (q *queries) FindLiquidAccountForUpdate(ctx context.Context, liquidAccountID string) (*domain.LiquidAccount, error) {
	return q.findLiquidAccount(ctx, liquidAccountID, true)
}

func (q *queries) FindDefaultCashAccount(ctx context.Context) (*domain.LiquidAccount, error) {
	query := `
		SELECT ` + liquidAccountColumns + `
		FROM liquid_accounts
		WHERE type = 'CASH' AND is_default AND is_active
		LIMIT 1;
	`
	a, err := scanLiquidAccount(q.db.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("no default cash account configured", "")
		}
		return nil, mapError(err, "default cash account", "")
	}
	return &a, nil
}

func (q *queries) ListLiquidAccounts(ctx context.Context, accountType *domain.LiquidAccountType) ([]domain.LiquidAccount, error) {
	query := `
		SELECT ` + liquidAccountColumns + `
		FROM liquid_accounts
		WHERE ($1::text IS NULL OR type = $1)
		ORDER BY name;
	`
	var typeArg *string
	if accountType != nil {
		t := string(*accountType)
		typeArg = &t
	}
	rows, err := q.db.Query(ctx, query, typeArg)
	if err != nil {
		return nil, mapError(err, "liquid accounts", "")
	}
	defer rows.Close()
	out := []domain.LiquidAccount{}
	for rows.Next() {
		a, err := scanLiquidAccount(rows)
		if err != nil {
			return nil, mapError(err, "liquid account", "")
		}
		out = append(out, a)
	}
	return out, mapError(rows.Err(), "liquid accounts", "")
}

func (q *queries) ListLiquidTransactions(ctx context.Context, liquidAccountID string, limit int, nextToken *string) ([]domain.LiquidTransaction, *string, error) {
	query := `SELECT ` + liquidTxnColumns + ` FROM liquid_transactions WHERE liquid_account_id = $1`
	args := []any{liquidAccountID}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidation("invalid nextToken", "")
		}
		query += ` AND (created_at, transaction_id) < ($2, $3)`
		args = append(args, cursor.CreatedAt, cursor.ID)
	}
	query += ` ORDER BY created_at DESC, transaction_id DESC LIMIT ` + placeholder(len(args)+1)
	args = append(args, limit+1)

	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapError(err, "liquid transactions", liquidAccountID)
	}
	defer rows.Close()
	txns := []domain.LiquidTransaction{}
	for rows.Next() {
		t, err := scanLiquidTxn(rows)
		if err != nil {
			return nil, nil, mapError(err, "liquid transaction", "")
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, mapError(err, "liquid transactions", liquidAccountID)
	}
	page, next := pagination.Trim(txns, limit, txnCursor)
	return page, next, nil
}

func (q *queries) SumLiquidTransactions(ctx context.Context, liquidAccountID string) (decimal.Decimal, int, error) {
	query := `SELECT COALESCE(SUM(amount), 0), COUNT(*) FROM liquid_transactions WHERE liquid_account_id = $1;`
	var total decimal.Decimal
	var count int
	if err := q.db.QueryRow(ctx, query, liquidAccountID).Scan(&total, &count); err != nil {
		return decimal.Zero, 0, mapError(err, "liquid transactions", liquidAccountID)
	}
	return total, count, nil
}

// SaveLiquidAccount inserts the account. A new default clears the previous
// default of the same type.
func (q *queries) SaveLiquidAccount(ctx context.Context, account domain.LiquidAccount) error {
	if account.IsDefault {
		_, err := q.db.Exec(ctx, `UPDATE liquid_accounts SET is_default = FALSE WHERE type = $1 AND is_default;`, account.Type)
		if err != nil {
			return mapError(err, "liquid account", account.LiquidAccountID)
		}
	}
	query := `
		INSERT INTO liquid_accounts (` + liquidAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := q.db.Exec(ctx, query,
		account.LiquidAccountID, account.Name, account.Type, account.LedgerAccountID, account.CurrentBalance,
		account.AllowOverdraft, account.IsDefault, account.IsActive, account.Version,
		account.CreatedAt, account.CreatedBy, account.LastUpdatedAt, account.LastUpdatedBy,
	)
	return mapError(err, "liquid account", account.LiquidAccountID)
}

// UpdateLiquidBalance writes the balance only if the row is still at
// expectedVersion. A stale version is a state conflict.
func (q *queries) UpdateLiquidBalance(ctx context.Context, liquidAccountID string, newBalance decimal.Decimal, expectedVersion int64, userID string) error {
	query := `
		UPDATE liquid_accounts
		SET current_balance = $2, version = version + 1, last_updated_at = $4, last_updated_by = $5
		WHERE liquid_account_id = $1 AND version = $3;
	`
	tag, err := q.db.Exec(ctx, query, liquidAccountID, newBalance, expectedVersion, time.Now().UTC(), userID)
	if err != nil {
		return mapError(err, "account", liquidAccountID)
	}
	if tag.RowsAffected() == 0 {
		if _, err := q.FindLiquidAccountByID(ctx, liquidAccountID); err != nil {
			return err
		}
		return apperrors.NewStateConflict("account was modified concurrently", liquidAccountID)
	}
	return nil
}

func (q *queries) SaveLiquidTransaction(ctx context.Context, txn domain.LiquidTransaction) error {
	query := `
		INSERT INTO liquid_transactions (` + liquidTxnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := q.db.Exec(ctx, query,
		txn.TransactionID, txn.LiquidAccountID, txn.Amount, txn.Direction, txn.Description, txn.SourceType, txn.SourceID,
		nullable(txn.JournalEntryID), txn.BalanceAfter, txn.ReversalOf, txn.CreatedAt, txn.CreatedBy,
	)
	return mapError(err, "liquid transaction", txn.TransactionID)
}
