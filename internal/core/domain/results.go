package domain

// OperationWarning reports a best-effort step that failed after the core
// money movement committed. The committed state is not rolled back.
type OperationWarning struct {
	Step     string `json:"step"`
	RecordID string `json:"recordID"`
	Message  string `json:"message"`
}

// PaymentResult is returned by vendor payment commands.
type PaymentResult struct {
	Payment     VendorPayment      `json:"payment"`
	Entry       *JournalEntry      `json:"entry,omitempty"`
	Transaction *LiquidTransaction `json:"transaction,omitempty"`
	Warnings    []OperationWarning `json:"warnings,omitempty"`
}

// RefundResult is returned by invoice refund commands.
type RefundResult struct {
	Refund      InvoiceRefund      `json:"refund"`
	Entry       *JournalEntry      `json:"entry,omitempty"`
	Transaction *LiquidTransaction `json:"transaction,omitempty"`
	Warnings    []OperationWarning `json:"warnings,omitempty"`
}

// CancellationResult is returned by sales order cancellation.
type CancellationResult struct {
	Order               SalesOrder         `json:"order"`
	Return              Return             `json:"return"`
	CancelledInvoiceIDs []string           `json:"cancelledInvoiceIDs"`
	Refunds             []InvoiceRefund    `json:"refunds"`
	RestockedItemIDs    []string           `json:"restockedItemIDs"`
	Warnings            []OperationWarning `json:"warnings,omitempty"`
}
