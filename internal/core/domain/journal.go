package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// EntryStatus indicates the lifecycle state of a journal entry.
type EntryStatus string

const (
	EntryDraft  EntryStatus = "DRAFT"
	EntryPosted EntryStatus = "POSTED"
)

// FormatEntryNumber renders the human-facing entry number for a sequence value.
func FormatEntryNumber(seq int64) string {
	return fmt.Sprintf("JE-%06d", seq)
}

// JournalEntryLine is one leg of a journal entry. Exactly one of
// DebitAmount or CreditAmount is non-zero.
type JournalEntryLine struct {
	LineID       string          `json:"lineID"`
	EntryID      string          `json:"entryID"`
	LineNumber   int             `json:"lineNumber"`
	AccountID    string          `json:"accountID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Memo         string          `json:"memo"`
}

// IsDebit reports whether the line is a debit leg.
func (l JournalEntryLine) IsDebit() bool {
	return l.DebitAmount.IsPositive()
}

// Amount is the non-zero side of the line.
func (l JournalEntryLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.DebitAmount
	}
	return l.CreditAmount
}

// DebitLine and CreditLine are shorthands for building system entries.
func DebitLine(accountID string, amount decimal.Decimal, memo string) JournalEntryLine {
	return JournalEntryLine{AccountID: accountID, DebitAmount: amount, CreditAmount: decimal.Zero, Memo: memo}
}

func CreditLine(accountID string, amount decimal.Decimal, memo string) JournalEntryLine {
	return JournalEntryLine{AccountID: accountID, DebitAmount: decimal.Zero, CreditAmount: amount, Memo: memo}
}

// JournalEntry is a dated double-entry record. DRAFT entries are editable;
// POSTED entries are immutable and only change by reversal.
type JournalEntry struct {
	EntryID           string             `json:"entryID"`
	EntryNumber       string             `json:"entryNumber"`
	TransactionDate   time.Time          `json:"transactionDate"`
	Description       string             `json:"description"`
	Reference         string             `json:"reference"`
	Status            EntryStatus        `json:"status"`
	TotalAmount       decimal.Decimal    `json:"totalAmount"`
	Lines             []JournalEntryLine `json:"lines"`
	ReversalOfEntryID *string            `json:"reversalOfEntryID,omitempty"`
	ReversedByEntryID *string            `json:"reversedByEntryID,omitempty"`
	SourceType        string             `json:"sourceType,omitempty"`
	SourceID          string             `json:"sourceID,omitempty"`
	PostedAt          *time.Time         `json:"postedAt,omitempty"`
	AuditFields
}

// EntryParams describes a new journal entry.
type EntryParams struct {
	EntryID         string
	EntryNumber     string
	TransactionDate time.Time
	Description     string
	Reference       string
	SourceType      string
	SourceID        string
	Lines           []JournalEntryLine
}

// ValidateLines checks the structural rules every entry must satisfy, draft or posted.
func ValidateLines(lines []JournalEntryLine) error {
	if len(lines) < 2 {
		return apperrors.NewValidation("journal entry must have at least two lines", "")
	}
	for i, line := range lines {
		if line.AccountID == "" {
			return apperrors.NewValidation(fmt.Sprintf("line %d: account is required", i+1), "")
		}
		if line.DebitAmount.IsNegative() || line.CreditAmount.IsNegative() {
			return apperrors.NewValidation(fmt.Sprintf("line %d: amounts cannot be negative", i+1), line.AccountID)
		}
		debit, credit := line.DebitAmount.IsPositive(), line.CreditAmount.IsPositive()
		if debit == credit {
			return apperrors.NewValidation(fmt.Sprintf("line %d: exactly one of debit or credit must be set", i+1), line.AccountID)
		}
	}
	return nil
}

// LineTotals sums the debit and credit sides.
func LineTotals(lines []JournalEntryLine) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, line := range lines {
		debit = debit.Add(line.DebitAmount)
		credit = credit.Add(line.CreditAmount)
	}
	return debit, credit
}

// CheckBalanced fails unless total debits exactly equal total credits.
func CheckBalanced(lines []JournalEntryLine) error {
	debit, credit := LineTotals(lines)
	if !debit.Equal(credit) {
		return apperrors.NewValidation(fmt.Sprintf("unbalanced entry: debits %s, credits %s", debit.StringFixed(2), credit.StringFixed(2)), "")
	}
	return nil
}

// NewDraftEntry builds a DRAFT entry. Balance is not enforced until posting.
func NewDraftEntry(p EntryParams, newID func() string, userID string, now time.Time) (*JournalEntry, error) {
	if err := ValidateLines(p.Lines); err != nil {
		return nil, err
	}
	entry := &JournalEntry{
		EntryID:         p.EntryID,
		EntryNumber:     p.EntryNumber,
		TransactionDate: p.TransactionDate,
		Description:     p.Description,
		Reference:       p.Reference,
		Status:          EntryDraft,
		SourceType:      p.SourceType,
		SourceID:        p.SourceID,
		AuditFields:     NewAuditFields(userID, now),
	}
	entry.setLines(p.Lines, newID)
	return entry, nil
}

// NewPostedEntry builds an entry and posts it immediately. Used for system
// entries generated by business events.
func NewPostedEntry(p EntryParams, newID func() string, userID string, now time.Time) (*JournalEntry, error) {
	entry, err := NewDraftEntry(p, newID, userID, now)
	if err != nil {
		return nil, err
	}
	if err := entry.Post(userID, now); err != nil {
		return nil, err
	}
	return entry, nil
}

func (e *JournalEntry) setLines(lines []JournalEntryLine, newID func() string) {
	e.Lines = make([]JournalEntryLine, len(lines))
	for i, line := range lines {
		if line.LineID == "" {
			line.LineID = newID()
		}
		line.EntryID = e.EntryID
		line.LineNumber = i + 1
		e.Lines[i] = line
	}
	e.TotalAmount, _ = LineTotals(e.Lines)
}

// EnsureModifiable rejects edits and deletes of posted entries.
func (e *JournalEntry) EnsureModifiable() error {
	if e.Status != EntryDraft {
		return apperrors.NewStateConflict("cannot modify posted entry", e.EntryID)
	}
	return nil
}

// DraftChanges holds optional replacements for a draft entry.
type DraftChanges struct {
	TransactionDate *time.Time
	Description     *string
	Reference       *string
	Lines           []JournalEntryLine
}

// ApplyDraftChanges edits a DRAFT entry in place.
func (e *JournalEntry) ApplyDraftChanges(c DraftChanges, newID func() string, userID string, now time.Time) error {
	if err := e.EnsureModifiable(); err != nil {
		return err
	}
	if c.Lines != nil {
		if err := ValidateLines(c.Lines); err != nil {
			return err
		}
		e.setLines(c.Lines, newID)
	}
	if c.TransactionDate != nil {
		e.TransactionDate = *c.TransactionDate
	}
	if c.Description != nil {
		e.Description = *c.Description
	}
	if c.Reference != nil {
		e.Reference = *c.Reference
	}
	e.Touch(userID, now)
	return nil
}

// Post moves a DRAFT entry to POSTED after re-checking balance.
func (e *JournalEntry) Post(userID string, now time.Time) error {
	if e.Status != EntryDraft {
		return apperrors.NewStateConflict("entry is already posted", e.EntryID)
	}
	if err := ValidateLines(e.Lines); err != nil {
		return err
	}
	if err := CheckBalanced(e.Lines); err != nil {
		return err
	}
	postedAt := now
	e.Status = EntryPosted
	e.PostedAt = &postedAt
	e.TotalAmount, _ = LineTotals(e.Lines)
	e.Touch(userID, now)
	return nil
}

// NewReversal builds the POSTED mirror entry that cancels e. e itself is
// only linked afterwards via MarkReversedBy.
func (e *JournalEntry) NewReversal(entryID, entryNumber string, date time.Time, newID func() string, userID string, now time.Time) (*JournalEntry, error) {
	if e.Status != EntryPosted {
		return nil, apperrors.NewStateConflict("only posted entries can be reversed", e.EntryID)
	}
	if e.ReversalOfEntryID != nil {
		return nil, apperrors.NewStateConflict("a reversal entry cannot be reversed", e.EntryID)
	}
	if e.ReversedByEntryID != nil {
		return nil, apperrors.NewStateConflict("entry has already been reversed", e.EntryID)
	}

	lines := make([]JournalEntryLine, len(e.Lines))
	for i, line := range e.Lines {
		lines[i] = JournalEntryLine{
			AccountID:    line.AccountID,
			DebitAmount:  line.CreditAmount,
			CreditAmount: line.DebitAmount,
			Memo:         line.Memo,
		}
	}
	reversal, err := NewPostedEntry(EntryParams{
		EntryID:         entryID,
		EntryNumber:     entryNumber,
		TransactionDate: date,
		Description:     "Reversal of " + e.EntryNumber,
		Reference:       e.Reference,
		SourceType:      e.SourceType,
		SourceID:        e.SourceID,
		Lines:           lines,
	}, newID, userID, now)
	if err != nil {
		return nil, err
	}
	originalID := e.EntryID
	reversal.ReversalOfEntryID = &originalID
	return reversal, nil
}

// MarkReversedBy links a posted entry to its reversal.
func (e *JournalEntry) MarkReversedBy(reversalID, userID string, now time.Time) {
	e.ReversedByEntryID = &reversalID
	e.Touch(userID, now)
}

// Clone returns a deep copy that shares no slices or pointers with e.
func (e JournalEntry) Clone() JournalEntry {
	out := e
	out.Lines = append([]JournalEntryLine(nil), e.Lines...)
	if e.ReversalOfEntryID != nil {
		v := *e.ReversalOfEntryID
		out.ReversalOfEntryID = &v
	}
	if e.ReversedByEntryID != nil {
		v := *e.ReversedByEntryID
		out.ReversedByEntryID = &v
	}
	if e.PostedAt != nil {
		v := *e.PostedAt
		out.PostedAt = &v
	}
	return out
}
