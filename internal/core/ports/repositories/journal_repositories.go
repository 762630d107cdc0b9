package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

// EntryFilter narrows a journal entry listing.
type EntryFilter struct {
	Status    *domain.EntryStatus
	AccountID *string
	From      *time.Time
	To        *time.Time
}

// JournalReader defines read operations for journal entries
type JournalReader interface {
	// FindEntryByID returns the entry with its lines.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindEntryByIDForUpdate is FindEntryByID under a row lock held until the transaction ends.
	FindEntryByIDForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries returns entries newest first using keyset pagination. It
	// fetches limit+1 rows and returns a next token when more exist.
	ListEntries(ctx context.Context, filter EntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal entries
type JournalWriter interface {
	// NextEntryNumber reserves the next JE-###### sequence value.
	NextEntryNumber(ctx context.Context) (string, error)

	// SaveEntry inserts an entry and its lines.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error

	// UpdateEntry rewrites the header and replaces the lines of an existing entry.
	UpdateEntry(ctx context.Context, entry domain.JournalEntry) error

	// DeleteEntry removes a draft entry and its lines.
	DeleteEntry(ctx context.Context, entryID string) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
