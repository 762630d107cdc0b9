package pgsql

import (
	"context"
	"strconv"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/erp_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

const entryColumns = `entry_id, entry_number, transaction_date, description, reference, status, total_amount,
	reversal_of_entry_id, reversed_by_entry_id, source_type, source_id, posted_at,
	created_at, created_by, last_updated_at, last_updated_by`

func scanEntry(row pgx.Row) (domain.JournalEntry, error) {
	var e domain.JournalEntry
	err := row.Scan(
		&e.EntryID, &e.EntryNumber, &e.TransactionDate, &e.Description, &e.Reference, &e.Status, &e.TotalAmount,
		&e.ReversalOfEntryID, &e.ReversedByEntryID, &e.SourceType, &e.SourceID, &e.PostedAt,
		&e.CreatedAt, &e.CreatedBy, &e.LastUpdatedAt, &e.LastUpdatedBy,
	)
	return e, err
}

func entryCursor(e domain.JournalEntry) pagination.Cursor {
	return pagination.Cursor{SortDate: e.TransactionDate, CreatedAt: e.CreatedAt, ID: e.EntryID}
}

// attachLines loads the lines of every entry in one query.
func (q *queries) attachLines(ctx context.Context, entries []domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	ids := make([]string, len(entries))
	index := make(map[string]int, len(entries))
	for i, e := range entries {
		ids[i] = e.EntryID
		index[e.EntryID] = i
		entries[i].Lines = []domain.JournalEntryLine{}
	}
	query := `
		SELECT line_id, entry_id, line_number, account_id, debit_amount, credit_amount, memo
		FROM journal_lines
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, line_number;
	`
	rows, err := q.db.Query(ctx, query, ids)
	if err != nil {
		return mapError(err, "journal lines", "")
	}
	defer rows.Close()
	for rows.Next() {
		var l domain.JournalEntryLine
		if err := rows.Scan(&l.LineID, &l.EntryID, &l.LineNumber, &l.AccountID, &l.DebitAmount, &l.CreditAmount, &l.Memo); err != nil {
			return mapError(err, "journal line", "")
		}
		i := index[l.EntryID]
		entries[i].Lines = append(entries[i].Lines, l)
	}
	return mapError(rows.Err(), "journal lines", "")
}

func (q *queries) findEntry(ctx context.Context, entryID string, lock bool) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	e, err := scanEntry(q.db.QueryRow(ctx, query, entryID))
	if err != nil {
		return nil, mapError(err, "journal entry", entryID)
	}
	entries := []domain.JournalEntry{e}
	if err := q.attachLines(ctx, entries); err != nil {
		return nil, err
	}
	return &entries[0], nil
}

func (q *queries) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return q.findEntry(ctx, entryID, false)
}

func (q *queries) FindEntryByIDForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return q.findEntry(ctx, entryID, true)
}

// ListEntries pages newest first on (transaction_date, created_at, entry_id).
func (q *queries) ListEntries(ctx context.Context, filter portsrepo.EntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries e WHERE TRUE`
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Status != nil {
		query += ` AND e.status = ` + arg(string(*filter.Status))
	}
	if filter.From != nil {
		query += ` AND e.transaction_date >= ` + arg(domain.DateOnly(*filter.From))
	}
	if filter.To != nil {
		query += ` AND e.transaction_date <= ` + arg(domain.DateOnly(*filter.To))
	}
	if filter.AccountID != nil {
		query += ` AND EXISTS (SELECT 1 FROM journal_lines l WHERE l.entry_id = e.entry_id AND l.account_id = ` + arg(*filter.AccountID) + `)`
	}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidation("invalid nextToken", "")
		}
		query += ` AND (e.transaction_date, e.created_at, e.entry_id) < (` +
			arg(cursor.SortDate) + `, ` + arg(cursor.CreatedAt) + `, ` + arg(cursor.ID) + `)`
	}
	query += ` ORDER BY e.transaction_date DESC, e.created_at DESC, e.entry_id DESC LIMIT ` + arg(limit+1)

	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapError(err, "journal entries", "")
	}
	entries := []domain.JournalEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			return nil, nil, mapError(err, "journal entry", "")
		}
		entries = append(entries, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, mapError(err, "journal entries", "")
	}

	page, next := pagination.Trim(entries, limit, entryCursor)
	if err := q.attachLines(ctx, page); err != nil {
		return nil, nil, err
	}
	return page, next, nil
}

func (q *queries) NextEntryNumber(ctx context.Context) (string, error) {
	var seq int64
	if err := q.db.QueryRow(ctx, `SELECT nextval('journal_entry_number_seq');`).Scan(&seq); err != nil {
		return "", mapError(err, "journal entry number", "")
	}
	return domain.FormatEntryNumber(seq), nil
}

func (q *queries) insertLines(ctx context.Context, entry domain.JournalEntry) error {
	batch := &pgx.Batch{}
	for _, l := range entry.Lines {
		batch.Queue(`
			INSERT INTO journal_lines (line_id, entry_id, line_number, account_id, debit_amount, credit_amount, memo)
			VALUES ($1, $2, $3, $4, $5, $6, $7);`,
			l.LineID, entry.EntryID, l.LineNumber, l.AccountID, l.DebitAmount, l.CreditAmount, l.Memo,
		)
	}
	return q.execBatch(ctx, batch, "journal line")
}

// SaveEntry inserts an entry and its lines. Callers run it inside a transaction.
func (q *queries) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := q.db.Exec(ctx, query,
		entry.EntryID, entry.EntryNumber, entry.TransactionDate, entry.Description, entry.Reference,
		entry.Status, entry.TotalAmount, entry.ReversalOfEntryID, entry.ReversedByEntryID,
		entry.SourceType, entry.SourceID, entry.PostedAt,
		entry.CreatedAt, entry.CreatedBy, entry.LastUpdatedAt, entry.LastUpdatedBy,
	)
	if err != nil {
		return mapError(err, "journal entry", entry.EntryID)
	}
	return q.insertLines(ctx, entry)
}

// UpdateEntry rewrites the header and replaces all lines.
func (q *queries) UpdateEntry(ctx context.Context, entry domain.JournalEntry) error {
	query := `
		UPDATE journal_entries
		SET transaction_date = $2, description = $3, reference = $4, status = $5, total_amount = $6,
			reversal_of_entry_id = $7, reversed_by_entry_id = $8, posted_at = $9,
			last_updated_at = $10, last_updated_by = $11
		WHERE entry_id = $1;
	`
	tag, err := q.db.Exec(ctx, query,
		entry.EntryID, entry.TransactionDate, entry.Description, entry.Reference, entry.Status, entry.TotalAmount,
		entry.ReversalOfEntryID, entry.ReversedByEntryID, entry.PostedAt,
		entry.LastUpdatedAt, entry.LastUpdatedBy,
	)
	if err := expectOne(tag, err, "journal entry", entry.EntryID); err != nil {
		return err
	}
	if _, err := q.db.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, entry.EntryID); err != nil {
		return mapError(err, "journal lines", entry.EntryID)
	}
	return q.insertLines(ctx, entry)
}

func (q *queries) DeleteEntry(ctx context.Context, entryID string) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1;`, entryID)
	return expectOne(tag, err, "journal entry", entryID)
}
