package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

func (r *repo) SumPostedActivity(_ context.Context, period domain.DateRange, accountIDs []string) ([]domain.AccountActivity, error) {
	want := make(map[string]bool, len(accountIDs))
	for _, id := range accountIDs {
		want[id] = true
	}
	totals := make(map[string]*domain.AccountActivity)
	err := r.read(func(st *state) error {
		for _, e := range st.entries {
			if e.Status != domain.EntryPosted || !period.Contains(e.TransactionDate) {
				continue
			}
			for _, l := range e.Lines {
				if len(want) > 0 && !want[l.AccountID] {
					continue
				}
				t, ok := totals[l.AccountID]
				if !ok {
					t = &domain.AccountActivity{AccountID: l.AccountID, Debit: decimal.Zero, Credit: decimal.Zero}
					totals[l.AccountID] = t
				}
				t.Debit = t.Debit.Add(l.DebitAmount)
				t.Credit = t.Credit.Add(l.CreditAmount)
			}
		}
		return nil
	})
	out := make([]domain.AccountActivity, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out, err
}

func (r *repo) ListPostedEntriesTouching(_ context.Context, accountIDs []string, from, to time.Time) ([]domain.JournalEntry, error) {
	period := domain.DateRange{From: &from, To: to}
	var out []domain.JournalEntry
	err := r.read(func(st *state) error {
		for _, e := range st.entries {
			if e.Status != domain.EntryPosted || !period.Contains(e.TransactionDate) {
				continue
			}
			for _, id := range accountIDs {
				if touches(e, id) {
					out = append(out, e.Clone())
					break
				}
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TransactionDate.Equal(out[j].TransactionDate) {
			return out[i].TransactionDate.Before(out[j].TransactionDate)
		}
		return out[i].EntryNumber < out[j].EntryNumber
	})
	return out, err
}
