package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBank(t *testing.T, s *Store) {
	t.Helper()
	require.NoError(t, s.SaveLiquidAccount(context.Background(), domain.LiquidAccount{
		LiquidAccountID: "bank-1",
		Name:            "Main bank",
		Type:            domain.LiquidBank,
		CurrentBalance:  decimal.NewFromInt(100),
		IsActive:        true,
	}))
}

func TestWithinTransaction_CommitsOnSuccess(t *testing.T) {
	s := New()
	seedBank(t, s)
	ctx := context.Background()

	err := s.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		return tx.LiquidAccounts().UpdateLiquidBalance(ctx, "bank-1", decimal.NewFromInt(40), 0, "u1")
	})
	require.NoError(t, err)

	acc, err := s.FindLiquidAccountByID(ctx, "bank-1")
	require.NoError(t, err)
	assert.True(t, acc.CurrentBalance.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, int64(1), acc.Version)
}

func TestWithinTransaction_RollsBackOnError(t *testing.T) {
	s := New()
	seedBank(t, s)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		require.NoError(t, tx.LiquidAccounts().UpdateLiquidBalance(ctx, "bank-1", decimal.NewFromInt(0), 0, "u1"))
		require.NoError(t, tx.LiquidAccounts().SaveLiquidTransaction(ctx, domain.LiquidTransaction{
			TransactionID:   "t1",
			LiquidAccountID: "bank-1",
			Amount:          decimal.NewFromInt(-100),
		}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	acc, err := s.FindLiquidAccountByID(ctx, "bank-1")
	require.NoError(t, err)
	assert.True(t, acc.CurrentBalance.Equal(decimal.NewFromInt(100)))
	total, count, err := s.SumLiquidTransactions(ctx, "bank-1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.True(t, total.IsZero())
}

func TestWithinTransaction_UncommittedWritesAreInvisible(t *testing.T) {
	s := New()
	seedBank(t, s)
	ctx := context.Background()

	err := s.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		require.NoError(t, tx.LiquidAccounts().UpdateLiquidBalance(ctx, "bank-1", decimal.NewFromInt(1), 0, "u1"))
		outside, err := s.FindLiquidAccountByID(ctx, "bank-1")
		require.NoError(t, err)
		assert.True(t, outside.CurrentBalance.Equal(decimal.NewFromInt(100)))
		return nil
	})
	require.NoError(t, err)
}

func TestWithinTransaction_ExpiredContextRollsBack(t *testing.T) {
	s := New()
	seedBank(t, s)
	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)

	err := s.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		require.NoError(t, tx.LiquidAccounts().UpdateLiquidBalance(ctx, "bank-1", decimal.NewFromInt(7), 0, "u1"))
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	acc, err := s.FindLiquidAccountByID(context.Background(), "bank-1")
	require.NoError(t, err)
	assert.True(t, acc.CurrentBalance.Equal(decimal.NewFromInt(100)))
}

func TestUpdateLiquidBalance_StaleVersion(t *testing.T) {
	s := New()
	seedBank(t, s)
	ctx := context.Background()

	require.NoError(t, s.UpdateLiquidBalance(ctx, "bank-1", decimal.NewFromInt(90), 0, "u1"))
	err := s.UpdateLiquidBalance(ctx, "bank-1", decimal.NewFromInt(80), 0, "u1")
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
}

func TestSaveAccount_DuplicateCode(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.SaveAccount(ctx, domain.Account{AccountID: "a1", Code: "1000", AccountType: domain.Asset}))
	err := s.SaveAccount(ctx, domain.Account{AccountID: "a2", Code: "1000", AccountType: domain.Asset})
	assert.True(t, errors.Is(err, apperrors.ErrDuplicate))
}

func TestListEntries_KeysetPagination(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.SaveEntry(ctx, domain.JournalEntry{
			EntryID:         string(rune('a' + i)),
			EntryNumber:     domain.FormatEntryNumber(int64(i + 1)),
			TransactionDate: base.AddDate(0, 0, i),
			Status:          domain.EntryPosted,
			AuditFields:     domain.NewAuditFields("u1", base),
		}))
	}

	page1, next, err := s.ListEntries(ctx, portsrepo.EntryFilter{}, 2, nil)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, []string{"e", "d"}, []string{page1[0].EntryID, page1[1].EntryID})

	page2, next, err := s.ListEntries(ctx, portsrepo.EntryFilter{}, 2, next)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, []string{"c", "b"}, []string{page2[0].EntryID, page2[1].EntryID})

	page3, next, err := s.ListEntries(ctx, portsrepo.EntryFilter{}, 2, next)
	require.NoError(t, err)
	assert.Nil(t, next)
	require.Len(t, page3, 1)
	assert.Equal(t, "a", page3[0].EntryID)
}
