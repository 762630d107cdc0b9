package domain_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestValidateLines(t *testing.T) {
	tests := []struct {
		name    string
		lines   []domain.JournalEntryLine
		wantErr bool
	}{
		{
			name: "valid two-leg entry",
			lines: []domain.JournalEntryLine{
				domain.DebitLine("cash", d("100"), ""),
				domain.CreditLine("revenue", d("100"), ""),
			},
		},
		{
			name:    "single line",
			lines:   []domain.JournalEntryLine{domain.DebitLine("cash", d("100"), "")},
			wantErr: true,
		},
		{
			name: "both sides set",
			lines: []domain.JournalEntryLine{
				{AccountID: "cash", DebitAmount: d("10"), CreditAmount: d("10")},
				domain.CreditLine("revenue", d("10"), ""),
			},
			wantErr: true,
		},
		{
			name: "neither side set",
			lines: []domain.JournalEntryLine{
				{AccountID: "cash", DebitAmount: decimal.Zero, CreditAmount: decimal.Zero},
				domain.CreditLine("revenue", d("10"), ""),
			},
			wantErr: true,
		},
		{
			name: "negative amount",
			lines: []domain.JournalEntryLine{
				domain.DebitLine("cash", d("-10"), ""),
				domain.CreditLine("revenue", d("10"), ""),
			},
			wantErr: true,
		},
		{
			name: "unbalanced draft is structurally valid",
			lines: []domain.JournalEntryLine{
				domain.DebitLine("cash", d("100"), ""),
				domain.CreditLine("revenue", d("90"), ""),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateLines(tt.lines)
			if tt.wantErr {
				assert.True(t, errors.Is(err, apperrors.ErrValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJournalEntry_PostRequiresExactBalance(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	entry, err := domain.NewDraftEntry(domain.EntryParams{
		EntryID:     "e1",
		EntryNumber: domain.FormatEntryNumber(1),
		Lines: []domain.JournalEntryLine{
			domain.DebitLine("cash", d("100.00"), ""),
			domain.CreditLine("revenue", d("99.99"), ""),
		},
	}, seqIDs(), "u1", now)
	require.NoError(t, err)
	assert.Equal(t, "JE-000001", entry.EntryNumber)
	assert.Equal(t, domain.EntryDraft, entry.Status)

	err = entry.Post("u1", now)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.Contains(t, err.Error(), "unbalanced entry")
	assert.Equal(t, domain.EntryDraft, entry.Status)

	require.NoError(t, entry.ApplyDraftChanges(domain.DraftChanges{Lines: []domain.JournalEntryLine{
		domain.DebitLine("cash", d("100.00"), ""),
		domain.CreditLine("revenue", d("100.00"), ""),
	}}, seqIDs(), "u1", now))
	require.NoError(t, entry.Post("u1", now))
	assert.Equal(t, domain.EntryPosted, entry.Status)
	assert.True(t, entry.TotalAmount.Equal(d("100")))
	require.NotNil(t, entry.PostedAt)

	err = entry.Post("u1", now)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))

	err = entry.EnsureModifiable()
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
	assert.Contains(t, err.Error(), "cannot modify posted entry")
}

func TestJournalEntry_NewReversal(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	ids := seqIDs()
	original, err := domain.NewPostedEntry(domain.EntryParams{
		EntryID:     "e1",
		EntryNumber: "JE-000001",
		Lines: []domain.JournalEntryLine{
			domain.DebitLine("cash", d("250"), ""),
			domain.CreditLine("revenue", d("250"), ""),
		},
	}, ids, "u1", now)
	require.NoError(t, err)

	reversal, err := original.NewReversal("e2", "JE-000002", now, ids, "u1", now)
	require.NoError(t, err)
	assert.Equal(t, domain.EntryPosted, reversal.Status)
	require.NotNil(t, reversal.ReversalOfEntryID)
	assert.Equal(t, "e1", *reversal.ReversalOfEntryID)
	assert.True(t, reversal.Lines[0].CreditAmount.Equal(d("250")))
	assert.True(t, reversal.Lines[1].DebitAmount.Equal(d("250")))

	_, err = reversal.NewReversal("e3", "JE-000003", now, ids, "u1", now)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))

	original.MarkReversedBy(reversal.EntryID, "u1", now)
	_, err = original.NewReversal("e4", "JE-000004", now, ids, "u1", now)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
}

func TestJournalEntry_DraftCannotBeReversed(t *testing.T) {
	draft, err := domain.NewDraftEntry(domain.EntryParams{
		EntryID: "e1",
		Lines: []domain.JournalEntryLine{
			domain.DebitLine("cash", d("1"), ""),
			domain.CreditLine("revenue", d("1"), ""),
		},
	}, seqIDs(), "u1", time.Now())
	require.NoError(t, err)

	_, err = draft.NewReversal("e2", "JE-000002", time.Now(), seqIDs(), "u1", time.Now())
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
}
