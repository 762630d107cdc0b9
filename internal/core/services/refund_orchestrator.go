package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

const (
	opProcessRefund   = "process_refund"
	opReverseRefund   = "reverse_refund"
	stepUpdateInvoice = "update_invoice"
)

// refundOrchestrator pays customer refunds out of liquid accounts. Refunds
// are outflows: Dr Sales Returns, Cr the liquid account's ledger account.
type refundOrchestrator struct {
	BaseService
	repos            portsrepo.RepositoryProvider
	salesReturnsCode string
}

func NewRefundOrchestrator(repos portsrepo.RepositoryProvider, salesReturnsCode string, options ...Option) portssvc.RefundSvcFacade {
	svc := &refundOrchestrator{
		BaseService:      newBaseService(),
		repos:            repos,
		salesReturnsCode: salesReturnsCode,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.RefundSvcFacade = (*refundOrchestrator)(nil)

func (s *refundOrchestrator) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, userID string) (*domain.Invoice, error) {
	if !req.TotalAmount.IsPositive() {
		return nil, apperrors.NewValidation("invoice total must be positive", "")
	}
	if req.AmountPaid.IsNegative() || req.AmountPaid.GreaterThan(req.TotalAmount) {
		return nil, apperrors.NewValidation("amount paid must be between zero and the invoice total", "")
	}
	if _, err := s.repos.SalesOrders().FindSalesOrderByID(ctx, req.OrderID); err != nil {
		return nil, err
	}
	status := domain.InvoiceIssued
	if req.AmountPaid.Equal(req.TotalAmount) {
		status = domain.InvoicePaid
	}
	invoice := domain.Invoice{
		InvoiceID:     s.NewID(),
		OrderID:       req.OrderID,
		InvoiceNumber: req.InvoiceNumber,
		TotalAmount:   req.TotalAmount,
		AmountPaid:    req.AmountPaid,
		TotalRefunded: decimal.Zero,
		Status:        status,
		AuditFields:   domain.NewAuditFields(userID, s.now()),
	}
	if err := s.repos.Invoices().SaveInvoice(ctx, invoice); err != nil {
		s.logFailure(ctx, err, "Failed to save invoice", slog.String("invoice_number", req.InvoiceNumber))
		return nil, err
	}
	s.LogInfo(ctx, "Invoice created", slog.String("invoice_id", invoice.InvoiceID), slog.String("order_id", invoice.OrderID))
	return &invoice, nil
}

func (s *refundOrchestrator) GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	return s.repos.Invoices().FindInvoiceByID(ctx, invoiceID)
}

func (s *refundOrchestrator) CreateRefund(ctx context.Context, req dto.CreateRefundRequest, userID string) (*domain.InvoiceRefund, error) {
	if !req.Amount.IsPositive() {
		return nil, apperrors.NewValidation("refund amount must be positive", "")
	}
	if !req.Method.IsValid() {
		return nil, apperrors.NewValidation("invalid payment method '"+string(req.Method)+"'", "")
	}

	var refund domain.InvoiceRefund
	err := s.repos.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		invoice, err := tx.Invoices().FindInvoiceForUpdate(ctx, req.InvoiceID)
		if err != nil {
			return err
		}
		existing, err := tx.Refunds().ListRefundsByInvoice(ctx, invoice.InvoiceID)
		if err != nil {
			return err
		}
		available := invoice.RefundableAmount(existing)
		if req.Amount.GreaterThan(available) {
			return apperrors.NewValidation("refund exceeds refundable amount "+available.StringFixed(2), invoice.InvoiceID)
		}
		refund = domain.InvoiceRefund{
			RefundID:        s.NewID(),
			InvoiceID:       invoice.InvoiceID,
			Amount:          req.Amount,
			Method:          req.Method,
			LiquidAccountID: req.LiquidAccountID,
			Reason:          req.Reason,
			Status:          domain.StatusPending,
			AuditFields:     domain.NewAuditFields(userID, s.now()),
		}
		return tx.Refunds().SaveRefund(ctx, refund)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to create refund", slog.String("invoice_id", req.InvoiceID))
		return nil, err
	}
	s.LogInfo(ctx, "Refund created", slog.String("refund_id", refund.RefundID), slog.String("amount", refund.Amount.StringFixed(2)))
	return &refund, nil
}

func (s *refundOrchestrator) GetRefund(ctx context.Context, refundID string) (*domain.InvoiceRefund, error) {
	return s.repos.Refunds().FindRefundByID(ctx, refundID)
}

func (s *refundOrchestrator) transition(ctx context.Context, refundID string, apply func(r *domain.InvoiceRefund) error) (*domain.InvoiceRefund, error) {
	var refund *domain.InvoiceRefund
	err := s.repos.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		var err error
		refund, err = tx.Refunds().FindRefundForUpdate(ctx, refundID)
		if err != nil {
			return err
		}
		if err := apply(refund); err != nil {
			return err
		}
		return tx.Refunds().UpdateRefund(ctx, *refund)
	})
	return refund, err
}

func (s *refundOrchestrator) ApproveRefund(ctx context.Context, refundID string, userID string) (*domain.InvoiceRefund, error) {
	refund, err := s.transition(ctx, refundID, func(r *domain.InvoiceRefund) error { return r.Approve(userID, s.now()) })
	if err != nil {
		s.logFailure(ctx, err, "Failed to approve refund", slog.String("refund_id", refundID))
		return nil, err
	}
	s.LogInfo(ctx, "Refund approved", slog.String("refund_id", refundID))
	return refund, nil
}

func (s *refundOrchestrator) RejectRefund(ctx context.Context, refundID string, userID string) (*domain.InvoiceRefund, error) {
	refund, err := s.transition(ctx, refundID, func(r *domain.InvoiceRefund) error { return r.Reject(userID, s.now()) })
	if err != nil {
		s.logFailure(ctx, err, "Failed to reject refund", slog.String("refund_id", refundID))
		return nil, err
	}
	s.LogInfo(ctx, "Refund rejected", slog.String("refund_id", refundID))
	return refund, nil
}

func (s *refundOrchestrator) ProcessRefund(ctx context.Context, refundID string, req dto.ProcessRefundRequest, userID string) (*domain.RefundResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	started := s.now()

	var result domain.RefundResult
	err := s.repos.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		refund, err := tx.Refunds().FindRefundForUpdate(ctx, refundID)
		if err != nil {
			return err
		}
		if err := refund.EnsureProcessable(); err != nil {
			return err
		}
		if req.Method != nil {
			refund.Method = *req.Method
		}
		if req.LiquidAccountID != nil {
			refund.LiquidAccountID = req.LiquidAccountID
		}
		liquid, err := resolveLiquidAccount(ctx, tx, refund.Method, refund.LiquidAccountID, refundID)
		if err != nil {
			return err
		}
		returns, err := systemAccount(ctx, tx, s.salesReturnsCode, "sales returns")
		if err != nil {
			return err
		}

		now := s.now()
		entry, err := postSystemEntry(ctx, tx, domain.EntryParams{
			TransactionDate: domain.DateOnly(now),
			Description:     "Refund for invoice " + refund.InvoiceID,
			Reference:       refund.RefundID,
			SourceType:      string(domain.SourceInvoiceRefund),
			SourceID:        refund.RefundID,
			Lines: []domain.JournalEntryLine{
				domain.DebitLine(returns.AccountID, refund.Amount, refund.Reason),
				domain.CreditLine(liquid.LedgerAccountID, refund.Amount, refund.Reason),
			},
		}, s.NewID, userID, now)
		if err != nil {
			return err
		}
		mutation, err := s.applyMutation(ctx, tx, liquid.LiquidAccountID, refund.Amount.Neg(), domain.MutationRecord{
			Description:    "Refund for invoice " + refund.InvoiceID,
			SourceType:     domain.SourceInvoiceRefund,
			SourceID:       refund.RefundID,
			JournalEntryID: entry.EntryID,
			UserID:         userID,
		})
		if err != nil {
			return err
		}

		liquidID := liquid.LiquidAccountID
		refund.LiquidAccountID = &liquidID
		if err := refund.MarkProcessed(entry.EntryID, mutation.Transaction.TransactionID, userID, now); err != nil {
			return err
		}
		if err := tx.Refunds().UpdateRefund(ctx, *refund); err != nil {
			return err
		}
		result = domain.RefundResult{Refund: *refund, Entry: entry, Transaction: &mutation.Transaction}
		return nil
	})
	if err != nil {
		err = s.fail(ctx, opProcessRefund, started, err)
		s.logFailure(ctx, err, "Refund processing failed", slog.String("refund_id", refundID))
		return nil, err
	}
	s.LogInfo(ctx, "Refund processed",
		slog.String("refund_id", refundID),
		slog.String("journal_entry_id", result.Entry.EntryID),
		slog.String("balance_after", result.Transaction.BalanceAfter.StringFixed(2)))

	if w := s.syncInvoiceRefunded(ctx, opProcessRefund, result.Refund.InvoiceID, userID); w != nil {
		result.Warnings = append(result.Warnings, *w)
	}
	s.succeed(opProcessRefund, started, result.Warnings)
	return &result, nil
}

func (s *refundOrchestrator) ReverseRefund(ctx context.Context, refundID string, userID string) (*domain.RefundResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	started := s.now()

	var result domain.RefundResult
	err := s.repos.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		refund, err := tx.Refunds().FindRefundForUpdate(ctx, refundID)
		if err != nil {
			return err
		}
		if err := refund.EnsureReversible(); err != nil {
			return err
		}
		if refund.JournalEntryID == nil || refund.LiquidAccountID == nil {
			return apperrors.NewStateConflict("processed refund has no settlement links", refundID)
		}
		original, err := tx.Journals().FindEntryByIDForUpdate(ctx, *refund.JournalEntryID)
		if err != nil {
			return err
		}

		now := s.now()
		reversal, err := reverseEntryInTx(ctx, tx, original, defaultReversalDate(original, now), s.NewID, userID, now)
		if err != nil {
			return err
		}
		mutation, err := s.applyMutation(ctx, tx, *refund.LiquidAccountID, refund.Amount, domain.MutationRecord{
			Description:    "Reversal of refund for invoice " + refund.InvoiceID,
			SourceType:     domain.SourceInvoiceRefund,
			SourceID:       refund.RefundID,
			JournalEntryID: reversal.EntryID,
			ReversalOf:     refund.TransactionID,
			UserID:         userID,
		})
		if err != nil {
			return err
		}
		if err := refund.MarkReversed(reversal.EntryID, mutation.Transaction.TransactionID, userID, now); err != nil {
			return err
		}
		if err := tx.Refunds().UpdateRefund(ctx, *refund); err != nil {
			return err
		}
		result = domain.RefundResult{Refund: *refund, Entry: reversal, Transaction: &mutation.Transaction}
		return nil
	})
	if err != nil {
		err = s.fail(ctx, opReverseRefund, started, err)
		s.logFailure(ctx, err, "Refund reversal failed", slog.String("refund_id", refundID))
		return nil, err
	}
	s.LogInfo(ctx, "Refund reversed", slog.String("refund_id", refundID), slog.String("reversal_entry_id", result.Entry.EntryID))

	if w := s.syncInvoiceRefunded(ctx, opReverseRefund, result.Refund.InvoiceID, userID); w != nil {
		result.Warnings = append(result.Warnings, *w)
	}
	s.succeed(opReverseRefund, started, result.Warnings)
	return &result, nil
}

// syncInvoiceRefunded recomputes the invoice's refunded total from its
// processed refunds. The refund rows stay authoritative for the refund cap.
func (s *refundOrchestrator) syncInvoiceRefunded(ctx context.Context, operation, invoiceID, userID string) *domain.OperationWarning {
	return s.bestEffort(ctx, s.repos, operation, stepUpdateInvoice, invoiceID, func(ctx context.Context, tx portsrepo.Store) error {
		invoice, err := tx.Invoices().FindInvoiceForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		refunds, err := tx.Refunds().ListRefundsByInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		invoice.RecordRefunded(refunds, userID, s.now())
		return tx.Invoices().UpdateInvoice(ctx, *invoice)
	})
}
