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
	opCancelSalesOrder   = "cancel_sales_order"
	stepRestoreInventory = "restore_inventory"
)

// cancellationRefundMethod is the method recorded on refunds raised by a
// cancellation. Whoever approves the refund can still choose another
// method and account when processing it.
const cancellationRefundMethod = domain.MethodBankTransfer

type salesOrderService struct {
	BaseService
	repos portsrepo.RepositoryProvider
}

func NewSalesOrderService(repos portsrepo.RepositoryProvider, options ...Option) portssvc.SalesOrderSvcFacade {
	svc := &salesOrderService{
		BaseService: newBaseService(),
		repos:       repos,
	}
	svc.apply(options)
	return svc
}

var _ portssvc.SalesOrderSvcFacade = (*salesOrderService)(nil)

func (s *salesOrderService) CreateSalesOrder(ctx context.Context, req dto.CreateSalesOrderRequest, userID string) (*domain.SalesOrder, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.NewValidation("order must have at least one item", "")
	}
	order := domain.SalesOrder{
		OrderID:     s.NewID(),
		OrderNumber: req.OrderNumber,
		CustomerID:  req.CustomerID,
		Status:      domain.OrderConfirmed,
		TotalAmount: decimal.Zero,
		AuditFields: domain.NewAuditFields(userID, s.now()),
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 || !item.UnitPrice.IsPositive() {
			return nil, apperrors.NewValidation("item quantity and unit price must be positive", item.ProductID)
		}
		order.Items = append(order.Items, domain.SalesOrderItem{
			ItemID:    s.NewID(),
			OrderID:   order.OrderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
		order.TotalAmount = order.TotalAmount.Add(item.UnitPrice.Mul(decimal.NewFromInt(item.Quantity)))
	}
	if err := s.repos.SalesOrders().SaveSalesOrder(ctx, order); err != nil {
		s.logFailure(ctx, err, "Failed to save sales order", slog.String("order_number", req.OrderNumber))
		return nil, err
	}
	s.LogInfo(ctx, "Sales order created", slog.String("order_id", order.OrderID), slog.String("total", order.TotalAmount.StringFixed(2)))
	return &order, nil
}

func (s *salesOrderService) GetSalesOrder(ctx context.Context, orderID string) (*domain.SalesOrder, error) {
	return s.repos.SalesOrders().FindSalesOrderByID(ctx, orderID)
}

func (s *salesOrderService) SetInventory(ctx context.Context, productID string, quantity int64) (*domain.InventoryLevel, error) {
	if productID == "" {
		return nil, apperrors.NewValidation("product id is required", "")
	}
	if quantity < 0 {
		return nil, apperrors.NewValidation("quantity cannot be negative", productID)
	}
	level := domain.InventoryLevel{ProductID: productID, QuantityOnHand: quantity, LastUpdatedAt: s.now()}
	if err := s.repos.Inventory().SaveInventory(ctx, level); err != nil {
		s.LogError(ctx, err, "Failed to save inventory", slog.String("product_id", productID))
		return nil, err
	}
	return &level, nil
}

// CancelSalesOrder cancels the order, records the return, cancels every open
// invoice and raises a PENDING refund for whatever was collected on it, all
// in one transaction. Restocking runs per item afterwards; a failed item is
// reported as a warning and leaves the rest of the cancellation in place.
func (s *salesOrderService) CancelSalesOrder(ctx context.Context, orderID string, reason string, userID string) (*domain.CancellationResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	started := s.now()

	if reason == "" {
		return nil, apperrors.NewValidation("cancellation reason is required", orderID)
	}

	var result domain.CancellationResult
	err := s.repos.WithinTransaction(ctx, func(ctx context.Context, tx portsrepo.Store) error {
		order, err := tx.SalesOrders().FindSalesOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		now := s.now()
		if err := order.Cancel(reason, userID, now); err != nil {
			return err
		}
		if err := tx.SalesOrders().UpdateSalesOrderStatus(ctx, *order); err != nil {
			return err
		}

		ret := domain.Return{
			ReturnID:    s.NewID(),
			OrderID:     order.OrderID,
			Reason:      reason,
			AuditFields: domain.NewAuditFields(userID, now),
		}
		for _, item := range order.Items {
			ret.Items = append(ret.Items, domain.ReturnItem{
				ReturnItemID: s.NewID(),
				ReturnID:     ret.ReturnID,
				OrderItemID:  item.ItemID,
				ProductID:    item.ProductID,
				Quantity:     item.Quantity,
			})
		}
		if err := tx.Returns().SaveReturn(ctx, ret); err != nil {
			return err
		}

		invoices, err := tx.Invoices().ListInvoicesByOrderForUpdate(ctx, order.OrderID)
		if err != nil {
			return err
		}
		cancelledIDs := []string{}
		refunds := []domain.InvoiceRefund{}
		for i := range invoices {
			invoice := invoices[i]
			if !invoice.Cancel(userID, now) {
				continue
			}
			if err := tx.Invoices().UpdateInvoice(ctx, invoice); err != nil {
				return err
			}
			cancelledIDs = append(cancelledIDs, invoice.InvoiceID)

			existing, err := tx.Refunds().ListRefundsByInvoice(ctx, invoice.InvoiceID)
			if err != nil {
				return err
			}
			amount := invoice.RefundableAmount(existing)
			if !amount.IsPositive() {
				continue
			}
			returnID := ret.ReturnID
			refund := domain.InvoiceRefund{
				RefundID:    s.NewID(),
				InvoiceID:   invoice.InvoiceID,
				ReturnID:    &returnID,
				Amount:      amount,
				Method:      cancellationRefundMethod,
				Reason:      "Order cancelled: " + reason,
				Status:      domain.StatusPending,
				AuditFields: domain.NewAuditFields(userID, now),
			}
			if err := tx.Refunds().SaveRefund(ctx, refund); err != nil {
				return err
			}
			refunds = append(refunds, refund)
		}

		result = domain.CancellationResult{
			Order:               *order,
			Return:              ret,
			CancelledInvoiceIDs: cancelledIDs,
			Refunds:             refunds,
			RestockedItemIDs:    []string{},
		}
		return nil
	})
	if err != nil {
		err = s.fail(ctx, opCancelSalesOrder, started, err)
		s.logFailure(ctx, err, "Sales order cancellation failed", slog.String("order_id", orderID))
		return nil, err
	}
	s.LogInfo(ctx, "Sales order cancelled",
		slog.String("order_id", orderID),
		slog.String("return_id", result.Return.ReturnID),
		slog.Int("invoices_cancelled", len(result.CancelledInvoiceIDs)),
		slog.Int("refunds_raised", len(result.Refunds)))

	for i, item := range result.Return.Items {
		w := s.bestEffort(ctx, s.repos, opCancelSalesOrder, stepRestoreInventory, item.ReturnItemID, func(ctx context.Context, tx portsrepo.Store) error {
			if err := tx.Inventory().AdjustInventory(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
			return tx.Returns().MarkReturnItemRestocked(ctx, item.ReturnItemID)
		})
		if w != nil {
			w.Message = "product " + item.ProductID + ": " + w.Message
			result.Warnings = append(result.Warnings, *w)
			continue
		}
		result.Return.Items[i].Restocked = true
		result.RestockedItemIDs = append(result.RestockedItemIDs, item.ReturnItemID)
	}
	s.succeed(opCancelSalesOrder, started, result.Warnings)
	return &result, nil
}
