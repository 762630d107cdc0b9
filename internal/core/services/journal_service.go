package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/utils/pagination"
)

// journalService runs the DRAFT -> POSTED lifecycle of journal entries.
type journalService struct {
	BaseService
	repos portsrepo.RepositoryProvider
}

// NewJournalService creates a new JournalService.
func NewJournalService(repos portsrepo.RepositoryProvider, options ...Option) portssvc.JournalSvcFacade {
	svc := &journalService{
		BaseService: newBaseService(),
		repos:       repos,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// checkLineAccounts verifies every line references an existing, active account.
func checkLineAccounts(ctx context.Context, accounts portsrepo.AccountReader, lines []domain.JournalEntryLine) error {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.AccountID)
	}
	found, err := accounts.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		account, ok := found[id]
		if !ok {
			return apperrors.NewNotFound("account not found", id)
		}
		if !account.IsActive {
			return apperrors.NewValidation("account "+account.Code+" is inactive", id)
		}
	}
	return nil
}

// postSystemEntry writes a POSTED entry on behalf of a business event inside tx.
func postSystemEntry(ctx context.Context, tx portsrepo.Store, p domain.EntryParams, newID func() string, userID string, now time.Time) (*domain.JournalEntry, error) {
	if err := checkLineAccounts(ctx, tx.Accounts(), p.Lines); err != nil {
		return nil, err
	}
	number, err := tx.Journals().NextEntryNumber(ctx)
	if err != nil {
		return nil, err
	}
	p.EntryID = newID()
	p.EntryNumber = number
	entry, err := domain.NewPostedEntry(p, newID, userID, now)
	if err != nil {
		return nil, err
	}
	if err := tx.Journals().SaveEntry(ctx, *entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// defaultReversalDate is today, or the original's date when that is later.
func defaultReversalDate(original *domain.JournalEntry, now time.Time) time.Time {
	today := domain.DateOnly(now)
	if origDate := domain.DateOnly(original.TransactionDate); origDate.After(today) {
		return origDate
	}
	return today
}

// reverseEntryInTx posts the mirror of original and links the two entries.
func reverseEntryInTx(ctx context.Context, tx portsrepo.Store, original *domain.JournalEntry, date time.Time, newID func() string, userID string, now time.Time) (*domain.JournalEntry, error) {
	if date.Before(domain.DateOnly(original.TransactionDate)) {
		return nil, apperrors.NewValidation("reversal date cannot precede the original entry", original.EntryID)
	}
	number, err := tx.Journals().NextEntryNumber(ctx)
	if err != nil {
		return nil, err
	}
	reversal, err := original.NewReversal(newID(), number, date, newID, userID, now)
	if err != nil {
		return nil, err
	}
	if err := tx.Journals().SaveEntry(ctx, *reversal); err != nil {
		return nil, err
	}
	original.MarkReversedBy(reversal.EntryID, userID, now)
	if err := tx.Journals().UpdateEntry(ctx, *original); err != nil {
		return nil, err
	}
	return reversal, nil
}

// isSettlementSource reports whether entries of this source move a liquid
// balance too. Those are reversed through their business record so the
// balance store and the ledger stay in step.
func isSettlementSource(sourceType string) bool {
	switch domain.SourceType(sourceType) {
	case domain.SourceVendorPayment, domain.SourceInvoiceRefund, domain.SourceOpeningBalance:
		return true
	}
	return false
}

func (s *journalService) CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	started := s.now()

	if req.TransactionDate.IsZero() {
		return nil, apperrors.NewValidation("transaction date is required", "")
	}
	lines := dto.ToDomainLines(req.Lines)
	if err := domain.ValidateLines(lines); err != nil {
		return nil, err
	}

	var entry *domain.JournalEntry
	err := s.repos.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		if err := checkLineAccounts(ctx, tx.Accounts(), lines); err != nil {
			return err
		}
		number, err := tx.Journals().NextEntryNumber(ctx)
		if err != nil {
			return err
		}
		entry, err = domain.NewDraftEntry(domain.EntryParams{
			EntryID:         s.NewID(),
			EntryNumber:     number,
			TransactionDate: domain.DateOnly(req.TransactionDate),
			Description:     req.Description,
			Reference:       req.Reference,
			SourceType:      string(domain.SourceManual),
			Lines:           lines,
		}, s.NewID, userID, s.now())
		if err != nil {
			return err
		}
		return tx.Journals().SaveEntry(ctx, *entry)
	})
	if err = s.finish(ctx, "create_journal_entry", started, err); err != nil {
		s.logFailure(ctx, err, "Failed to create journal entry")
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry created", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber))
	return entry, nil
}

func (s *journalService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.repos.Journals().FindEntryByID(ctx, entryID)
	if err != nil {
		s.logFailure(ctx, err, "Failed to find journal entry", slog.String("entry_id", entryID))
		return nil, err
	}
	return entry, nil
}

func (s *journalService) ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	filter := portsrepo.EntryFilter{From: params.From, To: params.To}
	if params.Status != "" {
		status := domain.EntryStatus(params.Status)
		filter.Status = &status
	}
	if params.AccountID != "" {
		filter.AccountID = &params.AccountID
	}
	var token *string
	if params.NextToken != "" {
		token = &params.NextToken
	}

	entries, next, err := s.repos.Journals().ListEntries(ctx, filter, pagination.NormalizeLimit(params.Limit), token)
	if err != nil {
		s.logFailure(ctx, err, "Failed to list journal entries")
		return nil, err
	}
	return &dto.ListJournalEntriesResponse{
		Entries:   dto.ToJournalEntryResponses(entries),
		NextToken: next,
	}, nil
}

func (s *journalService) UpdateDraftEntry(ctx context.Context, entryID string, req dto.UpdateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	started := s.now()

	changes := domain.DraftChanges{
		Description: req.Description,
		Reference:   req.Reference,
		Lines:       dto.ToDomainLines(req.Lines),
	}
	if req.TransactionDate != nil {
		day := domain.DateOnly(*req.TransactionDate)
		changes.TransactionDate = &day
	}

	var entry *domain.JournalEntry
	err := s.repos.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		var err error
		entry, err = tx.Journals().FindEntryByIDForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if err := entry.ApplyDraftChanges(changes, s.NewID, userID, s.now()); err != nil {
			return err
		}
		if changes.Lines != nil {
			if err := checkLineAccounts(ctx, tx.Accounts(), entry.Lines); err != nil {
				return err
			}
		}
		return tx.Journals().UpdateEntry(ctx, *entry)
	})
	if err = s.finish(ctx, "update_journal_entry", started, err); err != nil {
		s.logFailure(ctx, err, "Failed to update journal entry", slog.String("entry_id", entryID))
		return nil, err
	}
	s.LogInfo(ctx, "Journal entry updated", slog.String("entry_id", entryID))
	return entry, nil
}

func (s *journalService) DeleteEntry(ctx context.Context, entryID string, userID string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	started := s.now()

	err := s.repos.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		entry, err := tx.Journals().FindEntryByIDForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if err := entry.EnsureModifiable(); err != nil {
			return err
		}
		return tx.Journals().DeleteEntry(ctx, entryID)
	})
	if err = s.finish(ctx, "delete_journal_entry", started, err); err != nil {
		s.logFailure(ctx, err, "Failed to delete journal entry", slog.String("entry_id", entryID))
		return err
	}
	s.LogInfo(ctx, "Journal entry deleted", slog.String("entry_id", entryID), slog.String("user_id", userID))
	return nil
}

func (s *journalService) PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	started := s.now()

	var entry *domain.JournalEntry
	err := s.repos.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		var err error
		entry, err = tx.Journals().FindEntryByIDForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if err := entry.Post(userID, s.now()); err != nil {
			return err
		}
		if err := checkLineAccounts(ctx, tx.Accounts(), entry.Lines); err != nil {
			return err
		}
		return tx.Journals().UpdateEntry(ctx, *entry)
	})
	if err = s.finish(ctx, "post_journal_entry", started, err); err != nil {
		s.logFailure(ctx, err, "Failed to post journal entry", slog.String("entry_id", entryID))
		return nil, err
	}
	s.LogInfo(ctx, "Journal entry posted", slog.String("entry_id", entryID), slog.String("total", entry.TotalAmount.StringFixed(2)))
	return entry, nil
}

func (s *journalService) ReverseEntry(ctx context.Context, entryID string, date *time.Time, userID string) (*domain.JournalEntry, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	started := s.now()

	var reversal *domain.JournalEntry
	err := s.repos.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		original, err := tx.Journals().FindEntryByIDForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if isSettlementSource(original.SourceType) {
			return apperrors.NewStateConflict("entry was generated by "+original.SourceType+"; reverse the source record instead", entryID)
		}
		reversalDate := defaultReversalDate(original, s.now())
		if date != nil {
			reversalDate = domain.DateOnly(*date)
		}
		reversal, err = reverseEntryInTx(ctx, tx, original, reversalDate, s.NewID, userID, s.now())
		return err
	})
	if err = s.finish(ctx, "reverse_journal_entry", started, err); err != nil {
		s.logFailure(ctx, err, "Failed to reverse journal entry", slog.String("entry_id", entryID))
		return nil, err
	}
	s.LogInfo(ctx, "Journal entry reversed", slog.String("entry_id", entryID), slog.String("reversal_id", reversal.EntryID))
	return reversal, nil
}
