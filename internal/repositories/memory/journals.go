package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/erp_ledger/internal/utils/pagination"
)

func entryCursor(e domain.JournalEntry) pagination.Cursor {
	return pagination.Cursor{SortDate: e.TransactionDate, CreatedAt: e.CreatedAt, ID: e.EntryID}
}

func (r *repo) FindEntryByID(_ context.Context, entryID string) (*domain.JournalEntry, error) {
	var out *domain.JournalEntry
	err := r.read(func(st *state) error {
		e, ok := st.entries[entryID]
		if !ok {
			return apperrors.NewNotFound("journal entry not found", entryID)
		}
		c := e.Clone()
		out = &c
		return nil
	})
	return out, err
}

// FindEntryByIDForUpdate needs no extra locking: transactions are already serialised.
func (r *repo) FindEntryByIDForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.FindEntryByID(ctx, entryID)
}

func (r *repo) ListEntries(_ context.Context, filter portsrepo.EntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	var after *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidation(err.Error(), "")
		}
		after = &c
	}

	var rows []domain.JournalEntry
	err := r.read(func(st *state) error {
		for _, e := range st.entries {
			if filter.Status != nil && e.Status != *filter.Status {
				continue
			}
			day := domain.DateOnly(e.TransactionDate)
			if filter.From != nil && day.Before(domain.DateOnly(*filter.From)) {
				continue
			}
			if filter.To != nil && day.After(domain.DateOnly(*filter.To)) {
				continue
			}
			if filter.AccountID != nil && !touches(e, *filter.AccountID) {
				continue
			}
			if after != nil && !after.After(entryCursor(e)) {
				continue
			}
			rows = append(rows, e.Clone())
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	sort.Slice(rows, func(i, j int) bool { return pagination.Less(entryCursor(rows[i]), entryCursor(rows[j])) })
	page, next := pagination.Trim(rows, limit, entryCursor)
	return page, next, nil
}

func touches(e domain.JournalEntry, accountID string) bool {
	for _, l := range e.Lines {
		if l.AccountID == accountID {
			return true
		}
	}
	return false
}

func (r *repo) NextEntryNumber(_ context.Context) (string, error) {
	var number string
	err := r.write(func(st *state) error {
		st.entrySeq++
		number = domain.FormatEntryNumber(st.entrySeq)
		return nil
	})
	return number, err
}

func (r *repo) SaveEntry(_ context.Context, entry domain.JournalEntry) error {
	return r.write(func(st *state) error {
		if _, exists := st.entries[entry.EntryID]; exists {
			return apperrors.New(apperrors.KindDuplicate, "journal entry already exists", entry.EntryID)
		}
		st.entries[entry.EntryID] = entry.Clone()
		return nil
	})
}

func (r *repo) UpdateEntry(_ context.Context, entry domain.JournalEntry) error {
	return r.write(func(st *state) error {
		if _, ok := st.entries[entry.EntryID]; !ok {
			return apperrors.NewNotFound("journal entry not found", entry.EntryID)
		}
		st.entries[entry.EntryID] = entry.Clone()
		return nil
	})
}

func (r *repo) DeleteEntry(_ context.Context, entryID string) error {
	return r.write(func(st *state) error {
		if _, ok := st.entries[entryID]; !ok {
			return apperrors.NewNotFound("journal entry not found", entryID)
		}
		delete(st.entries, entryID)
		return nil
	})
}
