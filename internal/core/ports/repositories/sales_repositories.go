package repositories

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

// SalesOrderRepositoryFacade persists sales orders with their items.
type SalesOrderRepositoryFacade interface {
	SaveSalesOrder(ctx context.Context, order domain.SalesOrder) error
	FindSalesOrderByID(ctx context.Context, orderID string) (*domain.SalesOrder, error)
	FindSalesOrderForUpdate(ctx context.Context, orderID string) (*domain.SalesOrder, error)
	UpdateSalesOrderStatus(ctx context.Context, order domain.SalesOrder) error
}

// ReturnRepositoryFacade persists returns created by cancellations.
type ReturnRepositoryFacade interface {
	SaveReturn(ctx context.Context, ret domain.Return) error
	FindReturnByID(ctx context.Context, returnID string) (*domain.Return, error)
	MarkReturnItemRestocked(ctx context.Context, returnItemID string) error
}

// InventoryRepositoryFacade adjusts on-hand stock.
type InventoryRepositoryFacade interface {
	FindInventory(ctx context.Context, productID string) (*domain.InventoryLevel, error)
	SaveInventory(ctx context.Context, level domain.InventoryLevel) error
	// AdjustInventory adds delta to the product's on-hand quantity. Unknown products yield apperrors.ErrNotFound.
	AdjustInventory(ctx context.Context, productID string, delta int64) error
}
