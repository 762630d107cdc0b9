package services

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/SscSPs/erp_ledger/internal/dto"
)

// SalesOrderSvcFacade covers the parts of order handling that touch money or stock.
type SalesOrderSvcFacade interface {
	CreateSalesOrder(ctx context.Context, req dto.CreateSalesOrderRequest, userID string) (*domain.SalesOrder, error)
	GetSalesOrder(ctx context.Context, orderID string) (*domain.SalesOrder, error)

	// SetInventory overwrites the on-hand quantity of a product.
	SetInventory(ctx context.Context, productID string, quantity int64) (*domain.InventoryLevel, error)

	// CancelSalesOrder cancels the order and its invoices, raises pending
	// refunds and restocks the items. Restocking is best-effort.
	CancelSalesOrder(ctx context.Context, orderID string, reason string, userID string) (*domain.CancellationResult, error)
}
