package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

// SumPostedActivity aggregates posted lines per account. Drafts never reach the totals.
func (q *queries) SumPostedActivity(ctx context.Context, period domain.DateRange, accountIDs []string) ([]domain.AccountActivity, error) {
	var from *time.Time
	if period.From != nil {
		d := domain.DateOnly(*period.From)
		from = &d
	}
	var ids []string
	if len(accountIDs) > 0 {
		ids = accountIDs
	}
	query := `
		SELECT l.account_id,
			COALESCE(SUM(l.debit_amount), 0) AS total_debit,
			COALESCE(SUM(l.credit_amount), 0) AS total_credit
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.status = 'POSTED'
			AND e.transaction_date <= $1
			AND ($2::date IS NULL OR e.transaction_date >= $2)
			AND ($3::text[] IS NULL OR l.account_id = ANY($3))
		GROUP BY l.account_id
		ORDER BY l.account_id;
	`
	rows, err := q.db.Query(ctx, query, domain.DateOnly(period.To), from, ids)
	if err != nil {
		return nil, mapError(err, "posted activity", "")
	}
	defer rows.Close()

	out := []domain.AccountActivity{}
	for rows.Next() {
		var a domain.AccountActivity
		if err := rows.Scan(&a.AccountID, &a.Debit, &a.Credit); err != nil {
			return nil, mapError(err, "posted activity", "")
		}
		out = append(out, a)
	}
	return out, mapError(rows.Err(), "posted activity", "")
}

func (q *queries) ListPostedEntriesTouching(ctx context.Context, accountIDs []string, from, to time.Time) ([]domain.JournalEntry, error) {
	if len(accountIDs) == 0 {
		return []domain.JournalEntry{}, nil
	}
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries e
		WHERE e.status = 'POSTED'
			AND e.transaction_date BETWEEN $1 AND $2
			AND EXISTS (
				SELECT 1 FROM journal_lines l
				WHERE l.entry_id = e.entry_id AND l.account_id = ANY($3)
			)
		ORDER BY e.transaction_date, e.entry_number;
	`
	rows, err := q.db.Query(ctx, query, domain.DateOnly(from), domain.DateOnly(to), accountIDs)
	if err != nil {
		return nil, mapError(err, "journal entries", "")
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, mapError(err, "journal entry", "")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "journal entries", "")
	}
	if err := q.attachLines(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}
