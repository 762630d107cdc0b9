package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

func (r *repo) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	var out *domain.Account
	err := r.read(func(st *state) error {
		a, ok := st.accounts[accountID]
		if !ok {
			return apperrors.NewNotFound("account not found", accountID)
		}
		out = &a
		return nil
	})
	return out, err
}

func (r *repo) FindAccountByCode(_ context.Context, code string) (*domain.Account, error) {
	var out *domain.Account
	err := r.read(func(st *state) error {
		for _, a := range st.accounts {
			if a.Code == code {
				out = &a
				return nil
			}
		}
		return apperrors.NewNotFound("account with code "+code+" not found", "")
	})
	return out, err
}

func (r *repo) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	err := r.read(func(st *state) error {
		for _, id := range accountIDs {
			if a, ok := st.accounts[id]; ok {
				out[id] = a
			}
		}
		return nil
	})
	return out, err
}

func (r *repo) ListAccounts(_ context.Context, accountType *domain.AccountType, limit int, offset int) ([]domain.Account, error) {
	var out []domain.Account
	err := r.read(func(st *state) error {
		for _, a := range st.accounts {
			if accountType != nil && a.AccountType != *accountType {
				continue
			}
			out = append(out, a)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	if offset >= len(out) {
		return []domain.Account{}, err
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, err
}

func (r *repo) IsAccountReferenced(_ context.Context, accountID string) (bool, error) {
	found := false
	err := r.read(func(st *state) error {
		for _, e := range st.entries {
			if e.Status != domain.EntryPosted {
				continue
			}
			for _, l := range e.Lines {
				if l.AccountID == accountID {
					found = true
					return nil
				}
			}
		}
		return nil
	})
	return found, err
}

func (r *repo) SaveAccount(_ context.Context, account domain.Account) error {
	return r.write(func(st *state) error {
		if _, exists := st.accounts[account.AccountID]; exists {
			return apperrors.New(apperrors.KindDuplicate, "account already exists", account.AccountID)
		}
		for _, a := range st.accounts {
			if a.Code == account.Code {
				return apperrors.New(apperrors.KindDuplicate, "account code "+account.Code+" already in use", a.AccountID)
			}
		}
		st.accounts[account.AccountID] = account
		return nil
	})
}

func (r *repo) UpdateAccount(_ context.Context, account domain.Account) error {
	return r.write(func(st *state) error {
		if _, ok := st.accounts[account.AccountID]; !ok {
			return apperrors.NewNotFound("account not found", account.AccountID)
		}
		st.accounts[account.AccountID] = account
		return nil
	})
}
