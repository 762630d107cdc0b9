// Package memory is an in-process implementation of the repository ports.
// Transactions are serialised and run against a private copy of the state
// that replaces the committed state only on success.
package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/erp_ledger/internal/core/ports/repositories"
)

type state struct {
	accounts   map[string]domain.Account
	entries    map[string]domain.JournalEntry
	entrySeq   int64
	liquid     map[string]domain.LiquidAccount
	liquidTxns []domain.LiquidTransaction
	payments   map[string]domain.VendorPayment
	bills      map[string]domain.VendorBill
	refunds    map[string]domain.InvoiceRefund
	invoices   map[string]domain.Invoice
	orders     map[string]domain.SalesOrder
	returns    map[string]domain.Return
	inventory  map[string]domain.InventoryLevel
}

func newState() *state {
	return &state{
		accounts:  make(map[string]domain.Account),
		entries:   make(map[string]domain.JournalEntry),
		liquid:    make(map[string]domain.LiquidAccount),
		payments:  make(map[string]domain.VendorPayment),
		bills:     make(map[string]domain.VendorBill),
		refunds:   make(map[string]domain.InvoiceRefund),
		invoices:  make(map[string]domain.Invoice),
		orders:    make(map[string]domain.SalesOrder),
		returns:   make(map[string]domain.Return),
		inventory: make(map[string]domain.InventoryLevel),
	}
}

func copyMap[K comparable, V any](in map[K]V, cp func(V) V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		if cp != nil {
			v = cp(v)
		}
		out[k] = v
	}
	return out
}

func (s *state) clone() *state {
	return &state{
		accounts:   copyMap(s.accounts, nil),
		entries:    copyMap(s.entries, func(e domain.JournalEntry) domain.JournalEntry { return e.Clone() }),
		entrySeq:   s.entrySeq,
		liquid:     copyMap(s.liquid, nil),
		liquidTxns: append([]domain.LiquidTransaction(nil), s.liquidTxns...),
		payments:   copyMap(s.payments, nil),
		bills:      copyMap(s.bills, nil),
		refunds:    copyMap(s.refunds, nil),
		invoices:   copyMap(s.invoices, nil),
		orders: copyMap(s.orders, func(o domain.SalesOrder) domain.SalesOrder {
			o.Items = append([]domain.SalesOrderItem(nil), o.Items...)
			return o
		}),
		returns: copyMap(s.returns, func(r domain.Return) domain.Return {
			r.Items = append([]domain.ReturnItem(nil), r.Items...)
			return r
		}),
		inventory: copyMap(s.inventory, nil),
	}
}

// repo implements every repository port over one state. The committed
// store and each transaction get their own repo.
type repo struct {
	mu     *sync.RWMutex
	serial *sync.Mutex
	load   func() *state
}

var _ portsrepo.Store = (*repo)(nil)

func (r *repo) read(fn func(st *state) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return fn(r.load())
}

func (r *repo) write(fn func(st *state) error) error {
	if r.serial != nil {
		r.serial.Lock()
		defer r.serial.Unlock()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.load())
}

func (r *repo) Accounts() portsrepo.AccountRepositoryFacade             { return r }
func (r *repo) Journals() portsrepo.JournalRepositoryFacade             { return r }
func (r *repo) Reporting() portsrepo.ReportingRepository                { return r }
func (r *repo) LiquidAccounts() portsrepo.LiquidAccountRepositoryFacade { return r }
func (r *repo) VendorPayments() portsrepo.VendorPaymentRepositoryFacade { return r }
func (r *repo) VendorBills() portsrepo.VendorBillRepositoryFacade       { return r }
func (r *repo) Refunds() portsrepo.RefundRepositoryFacade               { return r }
func (r *repo) Invoices() portsrepo.InvoiceRepositoryFacade             { return r }
func (r *repo) SalesOrders() portsrepo.SalesOrderRepositoryFacade       { return r }
func (r *repo) Returns() portsrepo.ReturnRepositoryFacade               { return r }
func (r *repo) Inventory() portsrepo.InventoryRepositoryFacade          { return r }

// Store is the committed state plus a transaction manager.
type Store struct {
	*repo
	txMu sync.Mutex
	mu   sync.RWMutex
	st   *state
}

var _ portsrepo.RepositoryProvider = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	s := &Store{st: newState()}
	s.repo = &repo{
		mu:     &s.mu,
		serial: &s.txMu,
		load:   func() *state { return s.st },
	}
	return s
}

// WithinTransaction runs fn against a private copy of the state. The copy
// becomes the committed state only if fn succeeds before ctx expires.
func (s *Store) WithinTransaction(ctx context.Context, fn portsrepo.TxFunc) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	working := s.st.clone()
	s.mu.RUnlock()

	tx := &repo{
		mu:   new(sync.RWMutex),
		load: func() *state { return working },
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.st = working
	s.mu.Unlock()
	return nil
}
