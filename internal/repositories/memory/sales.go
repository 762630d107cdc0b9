package memory

import (
	"context"
	"time"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

func (r *repo) SaveSalesOrder(_ context.Context, order domain.SalesOrder) error {
	return r.write(func(st *state) error {
		if _, exists := st.orders[order.OrderID]; exists {
			return apperrors.New(apperrors.KindDuplicate, "sales order already exists", order.OrderID)
		}
		order.Items = append([]domain.SalesOrderItem(nil), order.Items...)
		st.orders[order.OrderID] = order
		return nil
	})
}

func (r *repo) FindSalesOrderByID(_ context.Context, orderID string) (*domain.SalesOrder, error) {
	var out *domain.SalesOrder
	err := r.read(func(st *state) error {
		o, ok := st.orders[orderID]
		if !ok {
			return apperrors.NewNotFound("sales order not found", orderID)
		}
		o.Items = append([]domain.SalesOrderItem(nil), o.Items...)
		out = &o
		return nil
	})
	return out, err
}

func (r *repo) FindSalesOrderForUpdate(ctx context.Context, orderID string) (*domain.SalesOrder, error) {
	return r.FindSalesOrderByID(ctx, orderID)
}

func (r *repo) UpdateSalesOrderStatus(_ context.Context, order domain.SalesOrder) error {
	return r.write(func(st *state) error {
		existing, ok := st.orders[order.OrderID]
		if !ok {
			return apperrors.NewNotFound("sales order not found", order.OrderID)
		}
		existing.Status = order.Status
		existing.CancelReason = order.CancelReason
		existing.CancelledAt = order.CancelledAt
		existing.AuditFields = order.AuditFields
		st.orders[order.OrderID] = existing
		return nil
	})
}

func (r *repo) SaveReturn(_ context.Context, ret domain.Return) error {
	return r.write(func(st *state) error {
		if _, exists := st.returns[ret.ReturnID]; exists {
			return apperrors.New(apperrors.KindDuplicate, "return already exists", ret.ReturnID)
		}
		ret.Items = append([]domain.ReturnItem(nil), ret.Items...)
		st.returns[ret.ReturnID] = ret
		return nil
	})
}

func (r *repo) FindReturnByID(_ context.Context, returnID string) (*domain.Return, error) {
	var out *domain.Return
	err := r.read(func(st *state) error {
		ret, ok := st.returns[returnID]
		if !ok {
			return apperrors.NewNotFound("return not found", returnID)
		}
		ret.Items = append([]domain.ReturnItem(nil), ret.Items...)
		out = &ret
		return nil
	})
	return out, err
}

func (r *repo) MarkReturnItemRestocked(_ context.Context, returnItemID string) error {
	return r.write(func(st *state) error {
		for id, ret := range st.returns {
			for i, item := range ret.Items {
				if item.ReturnItemID == returnItemID {
					items := append([]domain.ReturnItem(nil), ret.Items...)
					items[i].Restocked = true
					ret.Items = items
					st.returns[id] = ret
					return nil
				}
			}
		}
		return apperrors.NewNotFound("return item not found", returnItemID)
	})
}

func (r *repo) FindInventory(_ context.Context, productID string) (*domain.InventoryLevel, error) {
	var out *domain.InventoryLevel
	err := r.read(func(st *state) error {
		lvl, ok := st.inventory[productID]
		if !ok {
			return apperrors.NewNotFound("inventory record not found", productID)
		}
		out = &lvl
		return nil
	})
	return out, err
}

func (r *repo) SaveInventory(_ context.Context, level domain.InventoryLevel) error {
	return r.write(func(st *state) error {
		st.inventory[level.ProductID] = level
		return nil
	})
}

func (r *repo) AdjustInventory(_ context.Context, productID string, delta int64) error {
	return r.write(func(st *state) error {
		lvl, ok := st.inventory[productID]
		if !ok {
			return apperrors.NewNotFound("inventory record not found", productID)
		}
		lvl.QuantityOnHand += delta
		lvl.LastUpdatedAt = time.Now().UTC()
		st.inventory[productID] = lvl
		return nil
	})
}
