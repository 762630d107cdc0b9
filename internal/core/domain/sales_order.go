package domain

import (
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// SalesOrderStatus of a customer order.
type SalesOrderStatus string

const (
	OrderPending   SalesOrderStatus = "PENDING"
	OrderConfirmed SalesOrderStatus = "CONFIRMED"
	OrderShipped   SalesOrderStatus = "SHIPPED"
	OrderDelivered SalesOrderStatus = "DELIVERED"
	OrderCancelled SalesOrderStatus = "CANCELLED"
)

type SalesOrderItem struct {
	ItemID    string          `json:"itemID"`
	OrderID   string          `json:"orderID"`
	ProductID string          `json:"productID"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type SalesOrder struct {
	OrderID      string           `json:"orderID"`
	OrderNumber  string           `json:"orderNumber"`
	CustomerID   string           `json:"customerID"`
	Status       SalesOrderStatus `json:"status"`
	TotalAmount  decimal.Decimal  `json:"totalAmount"`
	Items        []SalesOrderItem `json:"items"`
	CancelReason string           `json:"cancelReason,omitempty"`
	CancelledAt  *time.Time       `json:"cancelledAt,omitempty"`
	AuditFields
}

// Cancel is only allowed before delivery and only once.
func (o *SalesOrder) Cancel(reason, userID string, now time.Time) error {
	switch o.Status {
	case OrderCancelled:
		return apperrors.NewStateConflict("order is already cancelled", o.OrderID)
	case OrderDelivered:
		return apperrors.NewStateConflict("delivered orders cannot be cancelled", o.OrderID)
	}
	o.Status = OrderCancelled
	o.CancelReason = reason
	o.CancelledAt = &now
	o.Touch(userID, now)
	return nil
}

// Return records goods coming back from a cancelled order.
type Return struct {
	ReturnID string       `json:"returnID"`
	OrderID  string       `json:"orderID"`
	Reason   string       `json:"reason"`
	Items    []ReturnItem `json:"items"`
	AuditFields
}

// ReturnItem tracks whether the returned quantity made it back into stock.
type ReturnItem struct {
	ReturnItemID string `json:"returnItemID"`
	ReturnID     string `json:"returnID"`
	OrderItemID  string `json:"orderItemID"`
	ProductID    string `json:"productID"`
	Quantity     int64  `json:"quantity"`
	Restocked    bool   `json:"restocked"`
}

// InventoryLevel is the on-hand quantity for a product.
type InventoryLevel struct {
	ProductID      string    `json:"productID"`
	QuantityOnHand int64     `json:"quantityOnHand"`
	LastUpdatedAt  time.Time `json:"lastUpdatedAt"`
}
