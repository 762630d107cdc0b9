package pgsql

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

const accountColumns = `account_id, code, name, account_type, subtype, description, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.AccountID, &a.Code, &a.Name, &a.AccountType, &a.Subtype, &a.Description, &a.IsActive,
		&a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy,
	)
	return a, err
}

func (q *queries) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := q.db.Exec(ctx, query,
		account.AccountID, account.Code, account.Name, account.AccountType, account.Subtype,
		account.Description, account.IsActive,
		account.CreatedAt, account.CreatedBy, account.LastUpdatedAt, account.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "account with code "+account.Code, account.AccountID)
	}
	return nil
}

func (q *queries) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	a, err := scanAccount(q.db.QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, mapError(err, "account", accountID)
	}
	return &a, nil
}

func (q *queries) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE code = $1;`
	a, err := scanAccount(q.db.QueryRow(ctx, query, code))
	if err != nil {
		return nil, mapError(err, "account with code "+code, "")
	}
	return &a, nil
}

// FindAccountsByIDs retrieves multiple accounts. Missing IDs are absent from the map.
func (q *queries) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return out, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`
	rows, err := q.db.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, mapError(err, "accounts", "")
	}
	defer rows.Close()
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, mapError(err, "account", "")
		}
		out[a.AccountID] = a
	}
	return out, mapError(rows.Err(), "accounts", "")
}

func (q *queries) ListAccounts(ctx context.Context, accountType *domain.AccountType, limit int, offset int) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE ($1::text IS NULL OR account_type = $1)
		ORDER BY code
		LIMIT $2 OFFSET $3;
	`
	var typeArg *string
	if accountType != nil {
		t := string(*accountType)
		typeArg = &t
	}
	rows, err := q.db.Query(ctx, query, typeArg, limit, offset)
	if err != nil {
		return nil, mapError(err, "accounts", "")
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, mapError(err, "account", "")
		}
		accounts = append(accounts, a)
	}
	return accounts, mapError(rows.Err(), "accounts", "")
}

func (q *queries) IsAccountReferenced(ctx context.Context, accountID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM journal_lines l
			JOIN journal_entries e ON e.entry_id = l.entry_id
			WHERE l.account_id = $1 AND e.status = 'POSTED'
		);
	`
	var referenced bool
	if err := q.db.QueryRow(ctx, query, accountID).Scan(&referenced); err != nil {
		return false, mapError(err, "account", accountID)
	}
	return referenced, nil
}

// UpdateAccount updates the editable fields. Code and type never change.
func (q *queries) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $2, subtype = $3, description = $4, is_active = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE account_id = $1;
	`
	tag, err := q.db.Exec(ctx, query,
		account.AccountID, account.Name, account.Subtype, account.Description, account.IsActive,
		account.LastUpdatedAt, account.LastUpdatedBy,
	)
	if err := expectOne(tag, err, "account", account.AccountID); err != nil {
		return err
	}
	return nil
}

