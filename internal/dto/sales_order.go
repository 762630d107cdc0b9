package dto

import (
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

type SalesOrderItemRequest struct {
	ProductID string          `json:"productID" binding:"required"`
	Quantity  int64           `json:"quantity" binding:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unitPrice" binding:"dgt0"`
}

// CreateSalesOrderRequest records a confirmed customer order.
type CreateSalesOrderRequest struct {
	OrderNumber string                  `json:"orderNumber" binding:"required,max=50"`
	CustomerID  string                  `json:"customerID" binding:"required"`
	Items       []SalesOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type CancelSalesOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// SetInventoryRequest overwrites the on-hand quantity of a product.
type SetInventoryRequest struct {
	Quantity int64 `json:"quantity" binding:"min=0"`
}

type InventoryResponse struct {
	ProductID      string    `json:"productID"`
	QuantityOnHand int64     `json:"quantityOnHand"`
	LastUpdatedAt  time.Time `json:"lastUpdatedAt"`
}

type SalesOrderResponse struct {
	OrderID     string          `json:"orderID"`
	OrderNumber string          `json:"orderNumber"`
	CustomerID  string          `json:"customerID"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ItemCount   int             `json:"itemCount"`
}

type CancellationResponse struct {
	Order               SalesOrderResponse `json:"order"`
	ReturnID            string             `json:"returnID"`
	CancelledInvoiceIDs []string           `json:"cancelledInvoiceIDs"`
	Refunds             []RefundResponse   `json:"refunds"`
	RestockedItemIDs    []string           `json:"restockedItemIDs"`
	Warnings            []WarningResponse  `json:"warnings,omitempty"`
}

func ToSalesOrderResponse(o *domain.SalesOrder) SalesOrderResponse {
	return SalesOrderResponse{
		OrderID:     o.OrderID,
		OrderNumber: o.OrderNumber,
		CustomerID:  o.CustomerID,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		ItemCount:   len(o.Items),
	}
}

func ToCancellationResponse(r *domain.CancellationResult) CancellationResponse {
	refunds := make([]RefundResponse, len(r.Refunds))
	for i := range r.Refunds {
		refunds[i] = ToRefundResponse(&r.Refunds[i])
	}
	return CancellationResponse{
		Order:               ToSalesOrderResponse(&r.Order),
		ReturnID:            r.Return.ReturnID,
		CancelledInvoiceIDs: r.CancelledInvoiceIDs,
		Refunds:             refunds,
		RestockedItemIDs:    r.RestockedItemIDs,
		Warnings:            ToWarningResponses(r.Warnings),
	}
}

func ToInventoryResponse(l *domain.InventoryLevel) InventoryResponse {
	return InventoryResponse{
		ProductID:      l.ProductID,
		QuantityOnHand: l.QuantityOnHand,
		LastUpdatedAt:  l.LastUpdatedAt,
	}
}
