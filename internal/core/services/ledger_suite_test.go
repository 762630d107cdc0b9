package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/platform/config"
	"github.com/SscSPs/erp_ledger/internal/platform/metrics"
	"github.com/SscSPs/erp_ledger/internal/repositories/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const testUser = "user-1"

var testDay = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// LedgerSuite runs the services against the in-memory store with a seeded
// chart of accounts, a cash till holding 10,000 and a bank account holding 20,000.
type LedgerSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.Store
	svc   *portssvc.ServiceContainer
	opts  []Option

	accounts map[string]*domain.Account
	cash     *domain.LiquidAccount
	bank     *domain.LiquidAccount
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

func (s *LedgerSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.New()

	var seq atomic.Int64
	cfg := &config.Config{
		OperationTimeout:    5 * time.Second,
		AccountsPayableCode: "2100",
		SalesReturnsCode:    "4900",
	}
	m := metrics.NewLedger(prometheus.NewRegistry())
	container := NewServiceContainer(cfg, s.store, m)
	// Rebuild with a fixed clock and predictable ids.
	opts := []Option{
		WithMetrics(m),
		WithClock(func() time.Time { return testDay }),
		WithIDGenerator(func() string { return fmt.Sprintf("id-%04d", seq.Add(1)) }),
	}
	s.opts = opts
	container.Account = NewAccountService(s.store.Accounts(), opts...)
	container.Journal = NewJournalService(s.store, opts...)
	container.LiquidAccount = NewLiquidBalanceService(s.store, opts...)
	container.VendorPayment = NewPaymentOrchestrator(s.store, cfg.AccountsPayableCode, opts...)
	container.Refund = NewRefundOrchestrator(s.store, cfg.SalesReturnsCode, opts...)
	container.SalesOrder = NewSalesOrderService(s.store, opts...)
	s.svc = container

	s.accounts = map[string]*domain.Account{}
	chart := []struct {
		code    string
		name    string
		typ     domain.AccountType
		subtype domain.AccountSubtype
	}{
		{"1000", "Cash on hand", domain.Asset, domain.CashAndEquivalents},
		{"1010", "Bank", domain.Asset, domain.CashAndEquivalents},
		{"1500", "Equipment", domain.Asset, domain.FixedAsset},
		{"2100", "Accounts payable", domain.Liability, domain.CurrentLiability},
		{"2500", "Bank loan", domain.Liability, domain.LongTermLiability},
		{"3000", "Owner capital", domain.Equity, domain.OwnerEquity},
		{"4000", "Sales", domain.Revenue, domain.OperatingRevenue},
		{"4900", "Sales returns", domain.Revenue, domain.OperatingRevenue},
		{"5000", "Cost of goods sold", domain.Expense, domain.CostOfGoodsSold},
		{"6000", "Rent", domain.Expense, domain.OperatingExpense},
	}
	for _, c := range chart {
		acc, err := s.svc.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{
			Code: c.code, Name: c.name, AccountType: c.typ, Subtype: c.subtype,
		}, testUser)
		s.Require().NoError(err)
		s.accounts[c.code] = acc
	}

	var err error
	s.cash, err = s.svc.LiquidAccount.CreateLiquidAccount(s.ctx, dto.CreateLiquidAccountRequest{
		Name:                    "Till",
		Type:                    domain.LiquidCash,
		LedgerAccountID:         s.accounts["1000"].AccountID,
		IsDefault:               true,
		OpeningBalance:          dec(10000),
		OpeningBalanceAccountID: s.accounts["3000"].AccountID,
	}, testUser)
	s.Require().NoError(err)
	s.bank, err = s.svc.LiquidAccount.CreateLiquidAccount(s.ctx, dto.CreateLiquidAccountRequest{
		Name:                    "Main bank",
		Type:                    domain.LiquidBank,
		LedgerAccountID:         s.accounts["1010"].AccountID,
		OpeningBalance:          dec(20000),
		OpeningBalanceAccountID: s.accounts["3000"].AccountID,
	}, testUser)
	s.Require().NoError(err)
}

func (s *LedgerSuite) id(code string) string { return s.accounts[code].AccountID }

func (s *LedgerSuite) requireKind(err error, kind apperrors.Kind) {
	s.T().Helper()
	s.Require().Error(err)
	s.Equal(kind, apperrors.KindOf(err), err.Error())
}

func (s *LedgerSuite) liquidBalance(id string) decimal.Decimal {
	acc, err := s.svc.LiquidAccount.GetLiquidAccount(s.ctx, id)
	s.Require().NoError(err)
	return acc.CurrentBalance
}

func (s *LedgerSuite) assertReconciled(id string) {
	rec, err := s.svc.LiquidAccount.Reconcile(s.ctx, id)
	s.Require().NoError(err)
	s.True(rec.IsReconciled, "stored %s vs transactions %s", rec.StoredBalance, rec.TransactionTotal)
}

func (s *LedgerSuite) postEntry(debitCode, creditCode string, amount int64) *domain.JournalEntry {
	entry, err := s.svc.Journal.CreateEntry(s.ctx, dto.CreateJournalEntryRequest{
		TransactionDate: testDay,
		Description:     "Manual entry",
		Lines: []dto.JournalLineRequest{
			{AccountID: s.id(debitCode), DebitAmount: dec(amount)},
			{AccountID: s.id(creditCode), CreditAmount: dec(amount)},
		},
	}, testUser)
	s.Require().NoError(err)
	posted, err := s.svc.Journal.PostEntry(s.ctx, entry.EntryID, testUser)
	s.Require().NoError(err)
	return posted
}

func (s *LedgerSuite) TestOpeningBalances() {
	s.True(s.liquidBalance(s.cash.LiquidAccountID).Equal(dec(10000)))
	s.True(s.liquidBalance(s.bank.LiquidAccountID).Equal(dec(20000)))
	s.assertReconciled(s.cash.LiquidAccountID)
	s.assertReconciled(s.bank.LiquidAccountID)

	bal, err := s.svc.Balance.BalanceAsOf(s.ctx, s.id("3000"), testDay)
	s.Require().NoError(err)
	s.True(bal.Equal(dec(30000)), bal.String())
}

func (s *LedgerSuite) TestLiquidAccountValidation() {
	_, err := s.svc.LiquidAccount.CreateLiquidAccount(s.ctx, dto.CreateLiquidAccountRequest{
		Name: "Petty", Type: domain.LiquidCash, LedgerAccountID: s.id("1000"), AllowOverdraft: true,
	}, testUser)
	s.requireKind(err, apperrors.KindValidation)

	_, err = s.svc.LiquidAccount.CreateLiquidAccount(s.ctx, dto.CreateLiquidAccountRequest{
		Name: "Wrong ledger", Type: domain.LiquidBank, LedgerAccountID: s.id("4000"),
	}, testUser)
	s.requireKind(err, apperrors.KindValidation)
}

func (s *LedgerSuite) TestApplyMutation_InsufficientBalance() {
	_, err := s.svc.LiquidAccount.ApplyMutation(s.ctx, s.cash.LiquidAccountID, dec(-10001), domain.MutationRecord{
		Description: "too much", SourceType: domain.SourceManual, UserID: testUser,
	})
	s.requireKind(err, apperrors.KindInsufficientBalance)
	s.True(s.liquidBalance(s.cash.LiquidAccountID).Equal(dec(10000)))
	s.assertReconciled(s.cash.LiquidAccountID)
}

func (s *LedgerSuite) TestApplyMutation_OverdraftAllowed() {
	od, err := s.svc.LiquidAccount.CreateLiquidAccount(s.ctx, dto.CreateLiquidAccountRequest{
		Name: "Overdraft", Type: domain.LiquidBank, LedgerAccountID: s.id("1010"), AllowOverdraft: true,
	}, testUser)
	s.Require().NoError(err)

	res, err := s.svc.LiquidAccount.ApplyMutation(s.ctx, od.LiquidAccountID, dec(-250), domain.MutationRecord{
		Description: "fees", SourceType: domain.SourceManual, UserID: testUser,
	})
	s.Require().NoError(err)
	s.True(res.NewBalance.Equal(dec(-250)))
	s.Equal(domain.Outflow, res.Transaction.Direction)
	s.assertReconciled(od.LiquidAccountID)
}

func (s *LedgerSuite) TestApplyMutation_ConcurrentWithdrawalsSerialize() {
	const workers = 25
	var wg sync.WaitGroup
	var ok, short atomic.Int32
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.svc.LiquidAccount.ApplyMutation(s.ctx, s.cash.LiquidAccountID, dec(-500), domain.MutationRecord{
				Description: "petty cash", SourceType: domain.SourceManual, UserID: testUser,
			})
			switch {
			case err == nil:
				ok.Add(1)
			case apperrors.KindOf(err) == apperrors.KindInsufficientBalance:
				short.Add(1)
			default:
				s.Fail("unexpected error", err.Error())
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(20), ok.Load())
	s.Equal(int32(5), short.Load())
	s.True(s.liquidBalance(s.cash.LiquidAccountID).IsZero())
	s.assertReconciled(s.cash.LiquidAccountID)
}

func (s *LedgerSuite) TestApplyMutation_ZeroAmount() {
	_, err := s.svc.LiquidAccount.ApplyMutation(s.ctx, s.bank.LiquidAccountID, decimal.Zero, domain.MutationRecord{UserID: testUser})
	s.requireKind(err, apperrors.KindValidation)
}

func (s *LedgerSuite) TestJournalLifecycle() {
	entry, err := s.svc.Journal.CreateEntry(s.ctx, dto.CreateJournalEntryRequest{
		TransactionDate: testDay,
		Description:     "Cash sale",
		Lines: []dto.JournalLineRequest{
			{AccountID: s.id("1000"), DebitAmount: dec(1000)},
			{AccountID: s.id("4000"), CreditAmount: dec(900)},
		},
	}, testUser)
	s.Require().NoError(err)
	s.Equal(domain.EntryDraft, entry.Status)

	_, err = s.svc.Journal.PostEntry(s.ctx, entry.EntryID, testUser)
	s.requireKind(err, apperrors.KindValidation)

	fixed, err := s.svc.Journal.UpdateDraftEntry(s.ctx, entry.EntryID, dto.UpdateJournalEntryRequest{
		Lines: []dto.JournalLineRequest{
			{AccountID: s.id("1000"), DebitAmount: dec(1000)},
			{AccountID: s.id("4000"), CreditAmount: dec(1000)},
		},
	}, testUser)
	s.Require().NoError(err)
	s.True(fixed.TotalAmount.Equal(dec(1000)))

	posted, err := s.svc.Journal.PostEntry(s.ctx, entry.EntryID, testUser)
	s.Require().NoError(err)
	s.Equal(domain.EntryPosted, posted.Status)
	s.NotNil(posted.PostedAt)

	_, err = s.svc.Journal.PostEntry(s.ctx, entry.EntryID, testUser)
	s.requireKind(err, apperrors.KindStateConflict)
	s.requireKind(s.svc.Journal.DeleteEntry(s.ctx, entry.EntryID, testUser), apperrors.KindStateConflict)

	cash, err := s.svc.Balance.BalanceAsOf(s.ctx, s.id("1000"), testDay)
	s.Require().NoError(err)
	s.True(cash.Equal(dec(11000)), cash.String())
	revenue, err := s.svc.Balance.BalanceAsOf(s.ctx, s.id("4000"), testDay)
	s.Require().NoError(err)
	s.True(revenue.Equal(dec(1000)), revenue.String())

	reversal, err := s.svc.Journal.ReverseEntry(s.ctx, entry.EntryID, nil, testUser)
	s.Require().NoError(err)
	s.Equal(domain.EntryPosted, reversal.Status)
	s.Require().NotNil(reversal.ReversalOfEntryID)
	s.Equal(entry.EntryID, *reversal.ReversalOfEntryID)

	_, err = s.svc.Journal.ReverseEntry(s.ctx, entry.EntryID, nil, testUser)
	s.requireKind(err, apperrors.KindStateConflict)

	revenue, err = s.svc.Balance.BalanceAsOf(s.ctx, s.id("4000"), testDay)
	s.Require().NoError(err)
	s.True(revenue.IsZero())
}

func (s *LedgerSuite) TestJournal_DraftsDoNotAffectBalances() {
	entry, err := s.svc.Journal.CreateEntry(s.ctx, dto.CreateJournalEntryRequest{
		TransactionDate: testDay,
		Description:     "Pending rent",
		Lines: []dto.JournalLineRequest{
			{AccountID: s.id("6000"), DebitAmount: dec(300)},
			{AccountID: s.id("1010"), CreditAmount: dec(300)},
		},
	}, testUser)
	s.Require().NoError(err)

	rent, err := s.svc.Balance.BalanceAsOf(s.ctx, s.id("6000"), testDay)
	s.Require().NoError(err)
	s.True(rent.IsZero())

	s.Require().NoError(s.svc.Journal.DeleteEntry(s.ctx, entry.EntryID, testUser))
	_, err = s.svc.Journal.GetEntry(s.ctx, entry.EntryID)
	s.requireKind(err, apperrors.KindNotFound)
}

func (s *LedgerSuite) TestJournal_RejectsUnknownAndInactiveAccounts() {
	_, err := s.svc.Journal.CreateEntry(s.ctx, dto.CreateJournalEntryRequest{
		TransactionDate: testDay,
		Description:     "ghost",
		Lines: []dto.JournalLineRequest{
			{AccountID: "missing", DebitAmount: dec(1)},
			{AccountID: s.id("4000"), CreditAmount: dec(1)},
		},
	}, testUser)
	s.requireKind(err, apperrors.KindNotFound)

	inactive := false
	_, err = s.svc.Account.UpdateAccount(s.ctx, s.id("2500"), dto.UpdateAccountRequest{IsActive: &inactive}, testUser)
	s.Require().NoError(err)
	_, err = s.svc.Journal.CreateEntry(s.ctx, dto.CreateJournalEntryRequest{
		TransactionDate: testDay,
		Description:     "loan",
		Lines: []dto.JournalLineRequest{
			{AccountID: s.id("1010"), DebitAmount: dec(1)},
			{AccountID: s.id("2500"), CreditAmount: dec(1)},
		},
	}, testUser)
	s.requireKind(err, apperrors.KindValidation)
}

func (s *LedgerSuite) TestJournal_SettlementEntriesCannotBeReversedDirectly() {
	res, err := s.svc.Journal.ListEntries(s.ctx, dto.ListJournalEntriesParams{})
	s.Require().NoError(err)
	s.Require().NotEmpty(res.Entries)
	_, err = s.svc.Journal.ReverseEntry(s.ctx, res.Entries[0].EntryID, nil, testUser)
	s.requireKind(err, apperrors.KindStateConflict)
}

func (s *LedgerSuite) newPayment(amount int64, billID *string, method domain.PaymentMethod, liquidID *string) *domain.VendorPayment {
	p, err := s.svc.VendorPayment.CreateVendorPayment(s.ctx, dto.CreateVendorPaymentRequest{
		VendorID:        "vendor-1",
		BillID:          billID,
		Amount:          dec(amount),
		Method:          method,
		LiquidAccountID: liquidID,
		Reference:       "PO-1",
	}, testUser)
	s.Require().NoError(err)
	return p
}

func (s *LedgerSuite) TestVendorPayment_SettlesBill() {
	bill, err := s.svc.VendorPayment.CreateVendorBill(s.ctx, dto.CreateVendorBillRequest{
		VendorID: "vendor-1", BillNumber: "B-100", TotalAmount: dec(5000),
	}, testUser)
	s.Require().NoError(err)

	payment := s.newPayment(5000, &bill.BillID, domain.MethodBankTransfer, &s.bank.LiquidAccountID)
	_, err = s.svc.VendorPayment.ApproveVendorPayment(s.ctx, payment.PaymentID, testUser)
	s.Require().NoError(err)

	result, err := s.svc.VendorPayment.ProcessVendorPayment(s.ctx, payment.PaymentID, testUser)
	s.Require().NoError(err)
	s.Empty(result.Warnings)
	s.Equal(domain.StatusProcessed, result.Payment.Status)
	s.Equal(string(domain.SourceVendorPayment), result.Entry.SourceType)
	s.True(result.Transaction.BalanceAfter.Equal(dec(15000)))

	s.True(s.liquidBalance(s.bank.LiquidAccountID).Equal(dec(15000)))
	s.assertReconciled(s.bank.LiquidAccountID)

	updated, err := s.svc.VendorPayment.GetVendorBill(s.ctx, bill.BillID)
	s.Require().NoError(err)
	s.Equal(domain.BillPaid, updated.Status)
	s.True(updated.PaidAmount.Equal(dec(5000)))

	payables, err := s.svc.Balance.BalanceAsOf(s.ctx, s.id("2100"), testDay)
	s.Require().NoError(err)
	s.True(payables.Equal(dec(-5000)), payables.String())
}

func (s *LedgerSuite) TestVendorPayment_DoubleProcessIsRejected() {
	payment := s.newPayment(700, nil, domain.MethodCash, nil)

	_, err := s.svc.VendorPayment.ProcessVendorPayment(s.ctx, payment.PaymentID, testUser)
	s.Require().NoError(err)
	_, err = s.svc.VendorPayment.ProcessVendorPayment(s.ctx, payment.PaymentID, testUser)
	s.requireKind(err, apperrors.KindStateConflict)

	total, count, err := s.store.SumLiquidTransactions(s.ctx, s.cash.LiquidAccountID)
	s.Require().NoError(err)
	s.Equal(2, count, "opening balance plus one payment")
	s.True(total.Equal(dec(9300)))
	s.True(s.liquidBalance(s.cash.LiquidAccountID).Equal(dec(9300)))
}

func (s *LedgerSuite) TestVendorPayment_InsufficientCashLeavesNoTrace() {
	payment := s.newPayment(12000, nil, domain.MethodCash, nil)

	_, err := s.svc.VendorPayment.ProcessVendorPayment(s.ctx, payment.PaymentID, testUser)
	s.requireKind(err, apperrors.KindInsufficientBalance)

	stored, err := s.svc.VendorPayment.GetVendorPayment(s.ctx, payment.PaymentID)
	s.Require().NoError(err)
	s.Equal(domain.StatusPending, stored.Status)
	s.Nil(stored.JournalEntryID)

	payables, err := s.svc.Balance.BalanceAsOf(s.ctx, s.id("2100"), testDay)
	s.Require().NoError(err)
	s.True(payables.IsZero())
	s.assertReconciled(s.cash.LiquidAccountID)
}

func (s *LedgerSuite) TestVendorPayment_MethodMustMatchAccountType() {
	_, err := s.svc.VendorPayment.CreateVendorPayment(s.ctx, dto.CreateVendorPaymentRequest{
		VendorID: "vendor-1", Amount: dec(10), Method: domain.MethodCash, LiquidAccountID: &s.bank.LiquidAccountID,
	}, testUser)
	s.requireKind(err, apperrors.KindValidation)

	payment := s.newPayment(10, nil, domain.MethodBankTransfer, nil)
	_, err = s.svc.VendorPayment.ProcessVendorPayment(s.ctx, payment.PaymentID, testUser)
	s.requireKind(err, apperrors.KindValidation)
}

func (s *LedgerSuite) TestVendorPayment_ReversalRestoresBalanceAndBill() {
	bill, err := s.svc.VendorPayment.CreateVendorBill(s.ctx, dto.CreateVendorBillRequest{
		VendorID: "vendor-1", BillNumber: "B-200", TotalAmount: dec(4000),
	}, testUser)
	s.Require().NoError(err)
	payment := s.newPayment(1500, &bill.BillID, domain.MethodBankTransfer, &s.bank.LiquidAccountID)

	processed, err := s.svc.VendorPayment.ProcessVendorPayment(s.ctx, payment.PaymentID, testUser)
	s.Require().NoError(err)
	partial, err := s.svc.VendorPayment.GetVendorBill(s.ctx, bill.BillID)
	s.Require().NoError(err)
	s.Equal(domain.BillPartiallyPaid, partial.Status)

	reversed, err := s.svc.VendorPayment.ReverseVendorPayment(s.ctx, payment.PaymentID, testUser)
	s.Require().NoError(err)
	s.Equal(domain.StatusReversed, reversed.Payment.Status)
	s.Require().NotNil(reversed.Transaction.ReversalOf)
	s.Equal(processed.Transaction.TransactionID, *reversed.Transaction.ReversalOf)

	s.True(s.liquidBalance(s.bank.LiquidAccountID).Equal(dec(20000)))
	s.assertReconciled(s.bank.LiquidAccountID)

	unpaid, err := s.svc.VendorPayment.GetVendorBill(s.ctx, bill.BillID)
	s.Require().NoError(err)
	s.Equal(domain.BillUnpaid, unpaid.Status)

	_, err = s.svc.VendorPayment.ReverseVendorPayment(s.ctx, payment.PaymentID, testUser)
	s.requireKind(err, apperrors.KindStateConflict)
}

func (s *LedgerSuite) TestVendorPayment_MissingBillBecomesWarning() {
	payment := s.newPayment(100, nil, domain.MethodCash, nil)
	// Point the payment at a bill that does not exist after creation.
	ghost := "ghost-bill"
	stored, err := s.store.FindVendorPaymentByID(s.ctx, payment.PaymentID)
	s.Require().NoError(err)
	stored.BillID = &ghost
	s.Require().NoError(s.store.UpdateVendorPayment(s.ctx, *stored))

	result, err := s.svc.VendorPayment.ProcessVendorPayment(s.ctx, payment.PaymentID, testUser)
	s.Require().NoError(err)
	s.Equal(domain.StatusProcessed, result.Payment.Status)
	s.Require().Len(result.Warnings, 1)
	s.Equal(stepUpdateBill, result.Warnings[0].Step)
	s.Equal(ghost, result.Warnings[0].RecordID)
	s.True(s.liquidBalance(s.cash.LiquidAccountID).Equal(dec(9900)))
}

func (s *LedgerSuite) newPaidInvoice(total int64) (*domain.SalesOrder, *domain.Invoice) {
	order, err := s.svc.SalesOrder.CreateSalesOrder(s.ctx, dto.CreateSalesOrderRequest{
		OrderNumber: "SO-1",
		CustomerID:  "customer-1",
		Items: []dto.SalesOrderItemRequest{
			{ProductID: "widget", Quantity: 2, UnitPrice: dec(total / 4)},
			{ProductID: "gadget", Quantity: 1, UnitPrice: dec(total / 2)},
		},
	}, testUser)
	s.Require().NoError(err)
	invoice, err := s.svc.Refund.CreateInvoice(s.ctx, dto.CreateInvoiceRequest{
		OrderID: order.OrderID, InvoiceNumber: "INV-1", TotalAmount: dec(total), AmountPaid: dec(total),
	}, testUser)
	s.Require().NoError(err)
	s.Equal(domain.InvoicePaid, invoice.Status)
	return order, invoice
}

func (s *LedgerSuite) TestRefund_ProcessAndReverse() {
	_, invoice := s.newPaidInvoice(2000)

	refund, err := s.svc.Refund.CreateRefund(s.ctx, dto.CreateRefundRequest{
		InvoiceID: invoice.InvoiceID, Amount: dec(2000), Method: domain.MethodBankTransfer,
		LiquidAccountID: &s.bank.LiquidAccountID, Reason: "damaged",
	}, testUser)
	s.Require().NoError(err)

	_, err = s.svc.Refund.ProcessRefund(s.ctx, refund.RefundID, dto.ProcessRefundRequest{}, testUser)
	s.requireKind(err, apperrors.KindStateConflict)

	_, err = s.svc.Refund.ApproveRefund(s.ctx, refund.RefundID, testUser)
	s.Require().NoError(err)
	processed, err := s.svc.Refund.ProcessRefund(s.ctx, refund.RefundID, dto.ProcessRefundRequest{}, testUser)
	s.Require().NoError(err)
	s.Empty(processed.Warnings)
	s.Equal(domain.Outflow, processed.Transaction.Direction)
	s.True(s.liquidBalance(s.bank.LiquidAccountID).Equal(dec(18000)))

	inv, err := s.svc.Refund.GetInvoice(s.ctx, invoice.InvoiceID)
	s.Require().NoError(err)
	s.True(inv.TotalRefunded.Equal(dec(2000)))

	reversed, err := s.svc.Refund.ReverseRefund(s.ctx, refund.RefundID, testUser)
	s.Require().NoError(err)
	s.Equal(domain.StatusReversed, reversed.Refund.Status)
	s.True(s.liquidBalance(s.bank.LiquidAccountID).Equal(dec(20000)))

	total, count, err := s.store.SumLiquidTransactions(s.ctx, s.bank.LiquidAccountID)
	s.Require().NoError(err)
	s.Equal(3, count, "opening, refund and its reversal are all kept")
	s.True(total.Equal(dec(20000)))

	inv, err = s.svc.Refund.GetInvoice(s.ctx, invoice.InvoiceID)
	s.Require().NoError(err)
	s.True(inv.TotalRefunded.IsZero())

	returns, err := s.svc.Balance.BalanceAsOf(s.ctx, s.id("4900"), testDay)
	s.Require().NoError(err)
	s.True(returns.IsZero())
}

func (s *LedgerSuite) TestRefund_ConcurrentProcessMutatesOnce() {
	_, invoice := s.newPaidInvoice(2000)
	refund, err := s.svc.Refund.CreateRefund(s.ctx, dto.CreateRefundRequest{
		InvoiceID: invoice.InvoiceID, Amount: dec(700), Method: domain.MethodBankTransfer,
		LiquidAccountID: &s.bank.LiquidAccountID, Reason: "late delivery",
	}, testUser)
	s.Require().NoError(err)
	_, err = s.svc.Refund.ApproveRefund(s.ctx, refund.RefundID, testUser)
	s.Require().NoError(err)

	const workers = 8
	var wg sync.WaitGroup
	var ok, conflicts atomic.Int32
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.svc.Refund.ProcessRefund(s.ctx, refund.RefundID, dto.ProcessRefundRequest{}, testUser)
			switch {
			case err == nil:
				ok.Add(1)
			case apperrors.KindOf(err) == apperrors.KindStateConflict:
				conflicts.Add(1)
			default:
				s.Fail("unexpected error", err.Error())
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), ok.Load())
	s.Equal(int32(workers-1), conflicts.Load())
	s.True(s.liquidBalance(s.bank.LiquidAccountID).Equal(dec(19300)))
	s.assertReconciled(s.bank.LiquidAccountID)
}

func (s *LedgerSuite) TestRefund_CannotExceedRefundable() {
	_, invoice := s.newPaidInvoice(2000)
	_, err := s.svc.Refund.CreateRefund(s.ctx, dto.CreateRefundRequest{
		InvoiceID: invoice.InvoiceID, Amount: dec(1500), Method: domain.MethodCash, Reason: "partial",
	}, testUser)
	s.Require().NoError(err)

	_, err = s.svc.Refund.CreateRefund(s.ctx, dto.CreateRefundRequest{
		InvoiceID: invoice.InvoiceID, Amount: dec(600), Method: domain.MethodCash, Reason: "too much",
	}, testUser)
	s.requireKind(err, apperrors.KindValidation)
}

func (s *LedgerSuite) TestRefund_RejectedCannotBeProcessed() {
	_, invoice := s.newPaidInvoice(400)
	refund, err := s.svc.Refund.CreateRefund(s.ctx, dto.CreateRefundRequest{
		InvoiceID: invoice.InvoiceID, Amount: dec(100), Method: domain.MethodCash, Reason: "changed mind",
	}, testUser)
	s.Require().NoError(err)
	rejected, err := s.svc.Refund.RejectRefund(s.ctx, refund.RefundID, testUser)
	s.Require().NoError(err)
	s.Equal(domain.StatusRejected, rejected.Status)

	_, err = s.svc.Refund.ProcessRefund(s.ctx, refund.RefundID, dto.ProcessRefundRequest{}, testUser)
	s.requireKind(err, apperrors.KindStateConflict)
	s.True(s.liquidBalance(s.cash.LiquidAccountID).Equal(dec(10000)))
}

func (s *LedgerSuite) TestCancelSalesOrder_PartialRestock() {
	order, invoice := s.newPaidInvoice(2000)
	_, err := s.svc.SalesOrder.SetInventory(s.ctx, "widget", 5)
	s.Require().NoError(err)
	// "gadget" has no inventory record, so its restock fails.

	result, err := s.svc.SalesOrder.CancelSalesOrder(s.ctx, order.OrderID, "customer request", testUser)
	s.Require().NoError(err)
	s.Equal(domain.OrderCancelled, result.Order.Status)
	s.Equal([]string{invoice.InvoiceID}, result.CancelledInvoiceIDs)
	s.Require().Len(result.Refunds, 1)
	s.True(result.Refunds[0].Amount.Equal(dec(2000)))
	s.Equal(domain.StatusPending, result.Refunds[0].Status)

	s.Len(result.RestockedItemIDs, 1)
	s.Require().Len(result.Warnings, 1)
	s.Equal(stepRestoreInventory, result.Warnings[0].Step)
	s.Contains(result.Warnings[0].Message, "gadget")

	level, err := s.store.FindInventory(s.ctx, "widget")
	s.Require().NoError(err)
	s.Equal(int64(7), level.QuantityOnHand)

	inv, err := s.svc.Refund.GetInvoice(s.ctx, invoice.InvoiceID)
	s.Require().NoError(err)
	s.Equal(domain.InvoiceCancelled, inv.Status)

	_, err = s.svc.SalesOrder.CancelSalesOrder(s.ctx, order.OrderID, "again", testUser)
	s.requireKind(err, apperrors.KindStateConflict)
}

func (s *LedgerSuite) TestCancelSalesOrder_RequiresReason() {
	order, _ := s.newPaidInvoice(800)
	_, err := s.svc.SalesOrder.CancelSalesOrder(s.ctx, order.OrderID, "", testUser)
	s.requireKind(err, apperrors.KindValidation)

	_, err = s.svc.SalesOrder.CancelSalesOrder(s.ctx, "missing", "x", testUser)
	s.True(errors.Is(err, apperrors.ErrNotFound))
}

func (s *LedgerSuite) runBusinessDay() {
	s.postEntry("1000", "4000", 1000)
	s.postEntry("5000", "1010", 400)
	s.postEntry("1500", "1010", 3000)
	s.postEntry("1010", "2500", 2500)

	payment := s.newPayment(5000, nil, domain.MethodBankTransfer, &s.bank.LiquidAccountID)
	_, err := s.svc.VendorPayment.ProcessVendorPayment(s.ctx, payment.PaymentID, testUser)
	s.Require().NoError(err)
}

func (s *LedgerSuite) TestTrialBalance() {
	s.runBusinessDay()
	tb, err := s.svc.Reporting.TrialBalance(s.ctx, testDay)
	s.Require().NoError(err)
	s.True(tb.IsBalanced)
	s.True(tb.TotalDebit.Equal(tb.TotalCredit))
	for i := 1; i < len(tb.Rows); i++ {
		s.Less(tb.Rows[i-1].Code, tb.Rows[i].Code)
	}
}

func (s *LedgerSuite) TestProfitAndLoss() {
	s.runBusinessDay()
	pl, err := s.svc.Reporting.ProfitAndLoss(s.ctx, testDay, testDay)
	s.Require().NoError(err)
	s.True(pl.Revenue.Total.Equal(dec(1000)))
	s.True(pl.CostOfGoodsSold.Equal(dec(400)))
	s.True(pl.GrossProfit.Equal(dec(600)))
	s.True(pl.NetProfit.Equal(dec(600)))

	_, err = s.svc.Reporting.ProfitAndLoss(s.ctx, testDay, testDay.AddDate(0, 0, -1))
	s.requireKind(err, apperrors.KindValidation)
}

func (s *LedgerSuite) TestBalanceSheet() {
	s.runBusinessDay()
	bs, err := s.svc.Reporting.BalanceSheet(s.ctx, testDay)
	s.Require().NoError(err)
	s.True(bs.IsBalanced, "difference %s", bs.Difference)
	s.True(bs.CurrentEarnings.Equal(dec(600)))
	// 10,000 + 1,000 cash; 20,000 - 400 - 3,000 + 2,500 - 5,000 bank; 3,000 equipment.
	s.True(bs.TotalAssets.Equal(dec(28100)), bs.TotalAssets.String())
	s.True(bs.TotalLiabilities.Equal(dec(-2500)), bs.TotalLiabilities.String())

	before, err := s.svc.Reporting.BalanceSheet(s.ctx, testDay.AddDate(0, 0, -1))
	s.Require().NoError(err)
	s.True(before.TotalAssets.IsZero())
	s.True(before.IsBalanced)
}

func (s *LedgerSuite) TestCashFlow() {
	s.runBusinessDay()
	cf, err := s.svc.Reporting.CashFlow(s.ctx, testDay, testDay)
	s.Require().NoError(err)
	s.True(cf.IsReconciled, "difference %s", cf.Difference)
	s.True(cf.OpeningBalance.IsZero())
	s.True(cf.ClosingBalance.Equal(dec(25100)), cf.ClosingBalance.String())

	// Revenue +1,000, COGS -400, payables -5,000.
	s.True(cf.Operating.Net.Equal(dec(-4400)), cf.Operating.Net.String())
	s.True(cf.Investing.Net.Equal(dec(-3000)), cf.Investing.Net.String())
	// Owner capital +30,000, loan +2,500.
	s.True(cf.Financing.Net.Equal(dec(32500)), cf.Financing.Net.String())
	s.True(cf.ClosingBalance.Equal(cf.OpeningBalance.Add(cf.NetChange)))

	next, err := s.svc.Reporting.CashFlow(s.ctx, testDay.AddDate(0, 0, 1), testDay.AddDate(0, 0, 5))
	s.Require().NoError(err)
	s.True(next.OpeningBalance.Equal(dec(25100)))
	s.True(next.NetChange.IsZero())
	s.True(next.IsReconciled)
}

func (s *LedgerSuite) TestLedgerSummary() {
	s.runBusinessDay()

	page, err := s.svc.Ledger.GetLedgerSummary(s.ctx, portssvc.LedgerLiquidTransactions, dto.LedgerSummaryParams{
		LiquidAccountID: s.bank.LiquidAccountID, Limit: 10,
	})
	s.Require().NoError(err)
	s.Len(page.Rows, 2)
	s.True(page.TotalDebit.Equal(dec(20000)))
	s.True(page.TotalCredit.Equal(dec(5000)))

	journal, err := s.svc.Ledger.GetLedgerSummary(s.ctx, portssvc.LedgerJournalEntries, dto.LedgerSummaryParams{
		AccountID: s.id("1010"), Limit: 2,
	})
	s.Require().NoError(err)
	s.Len(journal.Rows, 2)
	s.NotNil(journal.NextToken)

	_, err = s.svc.Ledger.GetLedgerSummary(s.ctx, portssvc.LedgerLiquidTransactions, dto.LedgerSummaryParams{})
	s.requireKind(err, apperrors.KindValidation)
	_, err = s.svc.Ledger.GetLedgerSummary(s.ctx, "invoices", dto.LedgerSummaryParams{})
	s.requireKind(err, apperrors.KindValidation)
}
