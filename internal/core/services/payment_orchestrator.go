package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

const (
	opProcessVendorPayment = "process_vendor_payment"
	opReverseVendorPayment = "reverse_vendor_payment"
	stepUpdateBill         = "update_vendor_bill"
)

// paymentOrchestrator settles vendor payments. The payment row lock, the
// journal entry, the balance mutation and the status flip commit together;
// the bill update runs afterwards and only produces warnings.
type paymentOrchestrator struct {
	BaseService
	repos        portsrepo.RepositoryProvider
	payablesCode string
}

func NewPaymentOrchestrator(repos portsrepo.RepositoryProvider, accountsPayableCode string, options ...Option) portssvc.VendorPaymentSvcFacade {
	svc := &paymentOrchestrator{
		BaseService:  newBaseService(),
		repos:        repos,
		payablesCode: accountsPayableCode,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.VendorPaymentSvcFacade = (*paymentOrchestrator)(nil)

// systemAccount finds an account the orchestrator posts to by its configured code.
func systemAccount(ctx context.Context, tx portsrepo.Store, code, label string) (*domain.Account, error) {
	account, err := tx.Accounts().FindAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFound(label+" account "+code+" is not configured", code)
		}
		return nil, err
	}
	if !account.IsActive {
		return nil, apperrors.NewValidation(label+" account "+code+" is inactive", account.AccountID)
	}
	return account, nil
}

// ensureBillCapacity rejects a payment that, together with every other
// payment holding a claim on the bill, would exceed the bill total.
func ensureBillCapacity(ctx context.Context, tx portsrepo.Store, bill *domain.VendorBill, payment domain.VendorPayment) error {
	payments, err := tx.VendorPayments().ListVendorPaymentsByBill(ctx, bill.BillID)
	if err != nil {
		return err
	}
	outstanding := bill.Outstanding(payments, payment.PaymentID)
	if payment.Amount.GreaterThan(outstanding) {
		return apperrors.NewValidation("payment exceeds amount outstanding on bill "+outstanding.StringFixed(2), bill.BillID)
	}
	return nil
}

// syncBillPaid recomputes the bill's paid amount from its processed payments.
func (s *paymentOrchestrator) syncBillPaid(ctx context.Context, operation, billID, userID string) *domain.OperationWarning {
	return s.bestEffort(ctx, s.repos, operation, stepUpdateBill, billID, func(ctx context.Context, tx portsrepo.Store) error {
		bill, err := tx.VendorBills().FindVendorBillForUpdate(ctx, billID)
		if err != nil {
			return err
		}
		payments, err := tx.VendorPayments().ListVendorPaymentsByBill(ctx, billID)
		if err != nil {
			return err
		}
		bill.RecordPaid(payments, userID, s.now())
		return tx.VendorBills().UpdateVendorBill(ctx, *bill)
	})
}

func (s *paymentOrchestrator) CreateVendorBill(ctx context.Context, req dto.CreateVendorBillRequest, userID string) (*domain.VendorBill, error) {
	if !req.TotalAmount.IsPositive() {
		return nil, apperrors.NewValidation("bill total must be positive", "")
	}
	bill := domain.VendorBill{
		BillID:      s.NewID(),
		VendorID:    req.VendorID,
		BillNumber:  req.BillNumber,
		TotalAmount: req.TotalAmount,
		PaidAmount:  decimal.Zero,
		Status:      domain.BillUnpaid,
		AuditFields: domain.NewAuditFields(userID, s.now()),
	}
	if err := s.repos.VendorBills().SaveVendorBill(ctx, bill); err != nil {
		s.logFailure(ctx, err, "Failed to save vendor bill", slog.String("bill_number", req.BillNumber))
		return nil, err
	}
	s.LogInfo(ctx, "Vendor bill created", slog.String("bill_id", bill.BillID))
	return &bill, nil
}

func (s *paymentOrchestrator) GetVendorBill(ctx context.Context, billID string) (*domain.VendorBill, error) {
	return s.repos.VendorBills().FindVendorBillByID(ctx, billID)
}

func (s *paymentOrchestrator) CreateVendorPayment(ctx context.Context, req dto.CreateVendorPaymentRequest, userID string) (*domain.VendorPayment, error) {
	if !req.Amount.IsPositive() {
		return nil, apperrors.NewValidation("payment amount must be positive", "")
	}
	if !req.Method.IsValid() {
		return nil, apperrors.NewValidation("invalid payment method '"+string(req.Method)+"'", "")
	}
	if req.LiquidAccountID != nil {
		account, err := s.repos.LiquidAccounts().FindLiquidAccountByID(ctx, *req.LiquidAccountID)
		if err != nil {
			return nil, err
		}
		if account.Type != req.Method.LiquidType() {
			return nil, apperrors.NewValidation("payment method "+string(req.Method)+" cannot use a "+string(account.Type)+" account", account.LiquidAccountID)
		}
	}

	now := s.now()
	payment := domain.VendorPayment{
		PaymentID:       s.NewID(),
		VendorID:        req.VendorID,
		BillID:          req.BillID,
		Amount:          req.Amount,
		Method:          req.Method,
		LiquidAccountID: req.LiquidAccountID,
		Status:          domain.StatusPending,
		PaymentDate:     domain.DateOnly(now),
		Reference:       req.Reference,
		Notes:           req.Notes,
		AuditFields:     domain.NewAuditFields(userID, now),
	}
	if req.PaymentDate != nil {
		payment.PaymentDate = domain.DateOnly(*req.PaymentDate)
	}
	err := s.repos.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		if payment.BillID != nil {
			bill, err := tx.VendorBills().FindVendorBillForUpdate(ctx, *payment.BillID)
			if err != nil {
				return err
			}
			if bill.VendorID != payment.VendorID {
				return apperrors.NewValidation("bill belongs to a different vendor", bill.BillID)
			}
			if err := ensureBillCapacity(ctx, tx, bill, payment); err != nil {
				return err
			}
		}
		return tx.VendorPayments().SaveVendorPayment(ctx, payment)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to save vendor payment", slog.String("vendor_id", req.VendorID))
		return nil, err
	}
	s.LogInfo(ctx, "Vendor payment created", slog.String("payment_id", payment.PaymentID), slog.String("amount", payment.Amount.StringFixed(2)))
	return &payment, nil
}

func (s *paymentOrchestrator) GetVendorPayment(ctx context.Context, paymentID string) (*domain.VendorPayment, error) {
	return s.repos.VendorPayments().FindVendorPaymentByID(ctx, paymentID)
}

func (s *paymentOrchestrator) ApproveVendorPayment(ctx context.Context, paymentID string, userID string) (*domain.VendorPayment, error) {
	var payment *domain.VendorPayment
	err := s.repos.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		var err error
		payment, err = tx.VendorPayments().FindVendorPaymentForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if err := payment.Approve(userID, s.now()); err != nil {
			return err
		}
		return tx.VendorPayments().UpdateVendorPayment(ctx, *payment)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to approve vendor payment", slog.String("payment_id", paymentID))
		return nil, err
	}
	s.LogInfo(ctx, "Vendor payment approved", slog.String("payment_id", paymentID))
	return payment, nil
}

// ProcessVendorPayment pays the vendor: Dr Accounts Payable, Cr the liquid
// account's ledger account, and an outflow on the liquid balance.
func (s *paymentOrchestrator) ProcessVendorPayment(ctx context.Context, paymentID string, userID string) (*domain.PaymentResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	started := s.now()
	logger := s.GetLogger(ctx).With(slog.String("payment_id", paymentID))

	var result domain.PaymentResult
	err := s.repos.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		payment, err := tx.VendorPayments().FindVendorPaymentForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if err := payment.EnsureProcessable(); err != nil {
			return err
		}
		if payment.BillID != nil {
			// A bill that has gone missing only affects the bill update below.
			bill, err := tx.VendorBills().FindVendorBillForUpdate(ctx, *payment.BillID)
			switch {
			case err == nil:
				if err := ensureBillCapacity(ctx, tx, bill, *payment); err != nil {
					return err
				}
			case !errors.Is(err, apperrors.ErrNotFound):
				return err
			}
		}
		liquid, err := resolveLiquidAccount(ctx, tx, payment.Method, payment.LiquidAccountID, paymentID)
		if err != nil {
			return err
		}
		payables, err := systemAccount(ctx, tx, s.payablesCode, "accounts payable")
		if err != nil {
			return err
		}

		now := s.now()
		entry, err := postSystemEntry(ctx, tx, domain.EntryParams{
			TransactionDate: dateOr(payment.PaymentDate, now),
			Description:     "Payment to vendor " + payment.VendorID,
			Reference:       payment.Reference,
			SourceType:      string(domain.SourceVendorPayment),
			SourceID:        payment.PaymentID,
			Lines: []domain.JournalEntryLine{
				domain.DebitLine(payables.AccountID, payment.Amount, "Vendor payment"),
				domain.CreditLine(liquid.LedgerAccountID, payment.Amount, "Vendor payment"),
			},
		}, s.NewID, userID, now)
		if err != nil {
			return err
		}
		mutation, err := s.applyMutation(ctx, tx, liquid.LiquidAccountID, payment.Amount.Neg(), domain.MutationRecord{
			Description:    "Payment to vendor " + payment.VendorID,
			SourceType:     domain.SourceVendorPayment,
			SourceID:       payment.PaymentID,
			JournalEntryID: entry.EntryID,
			UserID:         userID,
		})
		if err != nil {
			return err
		}

		liquidID := liquid.LiquidAccountID
		payment.LiquidAccountID = &liquidID
		if err := payment.MarkProcessed(entry.EntryID, mutation.Transaction.TransactionID, userID, now); err != nil {
			return err
		}
		if err := tx.VendorPayments().UpdateVendorPayment(ctx, *payment); err != nil {
			return err
		}
		result = domain.PaymentResult{Payment: *payment, Entry: entry, Transaction: &mutation.Transaction}
		return nil
	})
	if err != nil {
		err = s.fail(ctx, opProcessVendorPayment, started, err)
		s.logFailure(ctx, err, "Vendor payment processing failed", slog.String("payment_id", paymentID))
		return nil, err
	}
	logger.Info("Vendor payment processed",
		slog.String("journal_entry_id", result.Entry.EntryID),
		slog.String("transaction_id", result.Transaction.TransactionID),
		slog.String("balance_after", result.Transaction.BalanceAfter.StringFixed(2)))

	if result.Payment.BillID != nil {
		if w := s.syncBillPaid(ctx, opProcessVendorPayment, *result.Payment.BillID, userID); w != nil {
			result.Warnings = append(result.Warnings, *w)
		}
	}
	s.succeed(opProcessVendorPayment, started, result.Warnings)
	return &result, nil
}

// ReverseVendorPayment posts the mirror entry and returns the money to the
// same liquid account. Both original and reversal transactions are kept.
func (s *paymentOrchestrator) ReverseVendorPayment(ctx context.Context, paymentID string, userID string) (*domain.PaymentResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	started := s.now()

	var result domain.PaymentResult
	err := s.repos.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		payment, err := tx.VendorPayments().FindVendorPaymentForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if err := payment.EnsureReversible(); err != nil {
			return err
		}
		if payment.JournalEntryID == nil || payment.LiquidAccountID == nil {
			return apperrors.NewStateConflict("processed payment has no settlement links", paymentID)
		}
		original, err := tx.Journals().FindEntryByIDForUpdate(ctx, *payment.JournalEntryID)
		if err != nil {
			return err
		}

		now := s.now()
		reversal, err := reverseEntryInTx(ctx, tx, original, defaultReversalDate(original, now), s.NewID, userID, now)
		if err != nil {
			return err
		}
		mutation, err := s.applyMutation(ctx, tx, *payment.LiquidAccountID, payment.Amount, domain.MutationRecord{
			Description:    "Reversal of payment to vendor " + payment.VendorID,
			SourceType:     domain.SourceVendorPayment,
			SourceID:       payment.PaymentID,
			JournalEntryID: reversal.EntryID,
			ReversalOf:     payment.TransactionID,
			UserID:         userID,
		})
		if err != nil {
			return err
		}
		if err := payment.MarkReversed(reversal.EntryID, mutation.Transaction.TransactionID, userID, now); err != nil {
			return err
		}
		if err := tx.VendorPayments().UpdateVendorPayment(ctx, *payment); err != nil {
			return err
		}
		result = domain.PaymentResult{Payment: *payment, Entry: reversal, Transaction: &mutation.Transaction}
		return nil
	})
	if err != nil {
		err = s.fail(ctx, opReverseVendorPayment, started, err)
		s.logFailure(ctx, err, "Vendor payment reversal failed", slog.String("payment_id", paymentID))
		return nil, err
	}
	s.LogInfo(ctx, "Vendor payment reversed",
		slog.String("payment_id", paymentID),
		slog.String("reversal_entry_id", result.Entry.EntryID))

	if result.Payment.BillID != nil {
		if w := s.syncBillPaid(ctx, opReverseVendorPayment, *result.Payment.BillID, userID); w != nil {
			result.Warnings = append(result.Warnings, *w)
		}
	}
	s.succeed(opReverseVendorPayment, started, result.Warnings)
	return &result, nil
}
