package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

func txnCursor(t domain.LiquidTransaction) pagination.Cursor {
	return pagination.Cursor{SortDate: t.CreatedAt, CreatedAt: t.CreatedAt, ID: t.TransactionID}
}

func (r *repo) FindLiquidAccountByID(_ context.Context, liquidAccountID string) (*domain.LiquidAccount, error) {
	var out *domain.LiquidAccount
	err := r.read(func(st *state) error {
		a, ok := st.liquid[liquidAccountID]
		if !ok {
			return apperrors.NewNotFound("account not found", liquidAccountID)
		}
		out = &a
		return nil
	})
	return out, err
}

func (r *repo) FindLiquidAccountForUpdate(ctx context.Context, liquidAccountID string) (*domain.LiquidAccount, error) {
	return r.FindLiquidAccountByID(ctx, liquidAccountID)
}

func (r *repo) FindDefaultCashAccount(_ context.Context) (*domain.LiquidAccount, error) {
	var out *domain.LiquidAccount
	err := r.read(func(st *state) error {
		for _, a := range st.liquid {
			if a.Type == domain.LiquidCash && a.IsDefault && a.IsActive {
				out = &a
				return nil
			}
		}
		return apperrors.NewNotFound("no default cash account configured", "")
	})
	return out, err
}

func (r *repo) ListLiquidAccounts(_ context.Context, accountType *domain.LiquidAccountType) ([]domain.LiquidAccount, error) {
	var out []domain.LiquidAccount
	err := r.read(func(st *state) error {
		for _, a := range st.liquid {
			if accountType == nil || a.Type == *accountType {
				out = append(out, a)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *repo) ListLiquidTransactions(_ context.Context, liquidAccountID string, limit int, nextToken *string) ([]domain.LiquidTransaction, *string, error) {
	var after *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidation(err.Error(), "")
		}
		after = &c
	}
	var rows []domain.LiquidTransaction
	err := r.read(func(st *state) error {
		for _, t := range st.liquidTxns {
			if t.LiquidAccountID != liquidAccountID {
				continue
			}
			if after != nil && !after.After(txnCursor(t)) {
				continue
			}
			rows = append(rows, t)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool { return pagination.Less(txnCursor(rows[i]), txnCursor(rows[j])) })
	page, next := pagination.Trim(rows, limit, txnCursor)
	return page, next, nil
}

func (r *repo) SumLiquidTransactions(_ context.Context, liquidAccountID string) (decimal.Decimal, int, error) {
	total, count := decimal.Zero, 0
	err := r.read(func(st *state) error {
		for _, t := range st.liquidTxns {
			if t.LiquidAccountID == liquidAccountID {
				total = total.Add(t.Amount)
				count++
			}
		}
		return nil
	})
	return total, count, err
}

func (r *repo) SaveLiquidAccount(_ context.Context, account domain.LiquidAccount) error {
	return r.write(func(st *state) error {
		if _, exists := st.liquid[account.LiquidAccountID]; exists {
			return apperrors.New(apperrors.KindDuplicate, "liquid account already exists", account.LiquidAccountID)
		}
		if account.IsDefault {
			for id, a := range st.liquid {
				if a.Type == account.Type && a.IsDefault {
					a.IsDefault = false
					st.liquid[id] = a
				}
			}
		}
		st.liquid[account.LiquidAccountID] = account
		return nil
	})
}

func (r *repo) UpdateLiquidBalance(_ context.Context, liquidAccountID string, newBalance decimal.Decimal, expectedVersion int64, userID string) error {
	return r.write(func(st *state) error {
		a, ok := st.liquid[liquidAccountID]
		if !ok {
			return apperrors.NewNotFound("account not found", liquidAccountID)
		}
		if a.Version != expectedVersion {
			return apperrors.NewStateConflict("account was modified concurrently", liquidAccountID)
		}
		a.CurrentBalance = newBalance
		a.Version++
		a.Touch(userID, time.Now().UTC())
		st.liquid[liquidAccountID] = a
		return nil
	})
}

func (r *repo) SaveLiquidTransaction(_ context.Context, txn domain.LiquidTransaction) error {
	return r.write(func(st *state) error {
		if _, ok := st.liquid[txn.LiquidAccountID]; !ok {
			return apperrors.NewNotFound("account not found", txn.LiquidAccountID)
		}
		st.liquidTxns = append(st.liquidTxns, txn)
		return nil
	})
}
