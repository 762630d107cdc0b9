package repositories

// Store groups every repository bound to one connection or transaction.
type Store interface {
	Accounts() AccountRepositoryFacade
	Journals() JournalRepositoryFacade
	Reporting() ReportingRepository
	LiquidAccounts() LiquidAccountRepositoryFacade
	VendorPayments() VendorPaymentRepositoryFacade
	VendorBills() VendorBillRepositoryFacade
	Refunds() RefundRepositoryFacade
	Invoices() InvoiceRepositoryFacade
	SalesOrders() SalesOrderRepositoryFacade
	Returns() ReturnRepositoryFacade
	Inventory() InventoryRepositoryFacade
}

// RepositoryProvider is a Store that can also open transactions.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider interface {
	Store
	TransactionManager
}
