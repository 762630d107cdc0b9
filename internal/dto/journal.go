package dto

import (
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one leg of a journal entry request.
type JournalLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Memo         string          `json:"memo,omitempty" binding:"max=255"`
}

// CreateJournalEntryRequest creates a DRAFT entry.
type CreateJournalEntryRequest struct {
	TransactionDate time.Time            `json:"transactionDate" binding:"required"`
	Description     string               `json:"description" binding:"required,max=500"`
	Reference       string               `json:"reference,omitempty" binding:"max=100"`
	Lines           []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// UpdateJournalEntryRequest edits a DRAFT entry. Lines, when present, replace all lines.
type UpdateJournalEntryRequest struct {
	TransactionDate *time.Time           `json:"transactionDate,omitempty"`
	Description     *string              `json:"description,omitempty" binding:"omitempty,max=500"`
	Reference       *string              `json:"reference,omitempty" binding:"omitempty,max=100"`
	Lines           []JournalLineRequest `json:"lines,omitempty" binding:"omitempty,min=2,dive"`
}

// ListJournalEntriesParams defines query parameters for listing entries.
type ListJournalEntriesParams struct {
	Limit     int        `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken string     `form:"nextToken"`
	Status    string     `form:"status" binding:"omitempty,oneof=DRAFT POSTED"`
	AccountID string     `form:"accountID"`
	From      *time.Time `form:"from" time_format:"2006-01-02" time_utc:"1"`
	To        *time.Time `form:"to" time_format:"2006-01-02" time_utc:"1"`
}

// ReverseJournalEntryRequest optionally dates the reversing entry. Today is used when absent.
type ReverseJournalEntryRequest struct {
	TransactionDate *time.Time `json:"transactionDate,omitempty"`
}

type JournalLineResponse struct {
	LineID       string          `json:"lineID"`
	LineNumber   int             `json:"lineNumber"`
	AccountID    string          `json:"accountID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Memo         string          `json:"memo,omitempty"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	EntryID           string                `json:"entryID"`
	EntryNumber       string                `json:"entryNumber"`
	TransactionDate   string                `json:"transactionDate"`
	Description       string                `json:"description"`
	Reference         string                `json:"reference,omitempty"`
	Status            string                `json:"status"`
	TotalAmount       decimal.Decimal       `json:"totalAmount"`
	ReversalOfEntryID *string               `json:"reversalOfEntryID,omitempty"`
	ReversedByEntryID *string               `json:"reversedByEntryID,omitempty"`
	SourceType        string                `json:"sourceType,omitempty"`
	SourceID          string                `json:"sourceID,omitempty"`
	PostedAt          *time.Time            `json:"postedAt,omitempty"`
	CreatedAt         time.Time             `json:"createdAt"`
	CreatedBy         string                `json:"createdBy"`
	Lines             []JournalLineResponse `json:"lines"`
}

type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToDomainLines converts request lines to domain lines.
func ToDomainLines(lines []JournalLineRequest) []domain.JournalEntryLine {
	if lines == nil {
		return nil
	}
	out := make([]domain.JournalEntryLine, len(lines))
	for i, l := range lines {
		out[i] = domain.JournalEntryLine{
			AccountID:    l.AccountID,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
			Memo:         l.Memo,
		}
	}
	return out
}

func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{
			LineID:       l.LineID,
			LineNumber:   l.LineNumber,
			AccountID:    l.AccountID,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
			Memo:         l.Memo,
		}
	}
	return JournalEntryResponse{
		EntryID:           e.EntryID,
		EntryNumber:       e.EntryNumber,
		TransactionDate:   e.TransactionDate.Format("2006-01-02"),
		Description:       e.Description,
		Reference:         e.Reference,
		Status:            string(e.Status),
		TotalAmount:       e.TotalAmount,
		ReversalOfEntryID: e.ReversalOfEntryID,
		ReversedByEntryID: e.ReversedByEntryID,
		SourceType:        e.SourceType,
		SourceID:          e.SourceID,
		PostedAt:          e.PostedAt,
		CreatedAt:         e.CreatedAt,
		CreatedBy:         e.CreatedBy,
		Lines:             lines,
	}
}

func ToJournalEntryResponses(entries []domain.JournalEntry) []JournalEntryResponse {
	out := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		out[i] = ToJournalEntryResponse(&entries[i])
	}
	return out
}
