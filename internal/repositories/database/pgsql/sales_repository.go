package pgsql

import (
	"context"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

const salesOrderColumns = `order_id, order_number, customer_id, status, total_amount, cancel_reason, cancelled_at,
	created_at, created_by, last_updated_at, last_updated_by`

const returnColumns = `return_id, order_id, reason, created_at, created_by, last_updated_at, last_updated_by`

func (q *queries) SaveSalesOrder(ctx context.Context, order domain.SalesOrder) error {
	query := `
		INSERT INTO sales_orders (` + salesOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := q.db.Exec(ctx, query, order.OrderID, order.OrderNumber, order.CustomerID, order.Status, order.TotalAmount,
		order.CancelReason, order.CancelledAt, order.CreatedAt, order.CreatedBy, order.LastUpdatedAt, order.LastUpdatedBy)
	if err != nil {
		return mapError(err, "sales order "+order.OrderNumber, order.OrderID)
	}
	if len(order.Items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, item := range order.Items {
		batch.Queue(`
			INSERT INTO sales_order_items (item_id, order_id, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5);`,
			item.ItemID, order.OrderID, item.ProductID, item.Quantity, item.UnitPrice)
	}
	return q.execBatch(ctx, batch, "sales order item")
}

func (q *queries) findSalesOrder(ctx context.Context, orderID string, lock bool) (*domain.SalesOrder, error) {
	query := `SELECT ` + salesOrderColumns + ` FROM sales_orders WHERE order_id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	var o domain.SalesOrder
	err := q.db.QueryRow(ctx, query, orderID).Scan(&o.OrderID, &o.OrderNumber, &o.CustomerID, &o.Status, &o.TotalAmount,
		&o.CancelReason, &o.CancelledAt, &o.CreatedAt, &o.CreatedBy, &o.LastUpdatedAt, &o.LastUpdatedBy)
	if err != nil {
		return nil, mapError(err, "sales order", orderID)
	}

	rows, err := q.db.Query(ctx, `
		SELECT item_id, order_id, product_id, quantity, unit_price
		FROM sales_order_items WHERE order_id = $1 ORDER BY item_id;`, orderID)
	if err != nil {
		return nil, mapError(err, "sales order items", orderID)
	}
	defer rows.Close()
	o.Items = []domain.SalesOrderItem{}
	for rows.Next() {
		var it domain.SalesOrderItem
		if err := rows.Scan(&it.ItemID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, mapError(err, "sales order item", "")
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "sales order items", orderID)
	}
	return &o, nil
}

func (q *queries) FindSalesOrderByID(ctx context.Context, orderID string) (*domain.SalesOrder, error) {
	return q.findSalesOrder(ctx, orderID, false)
}

func (q *queries) FindSalesOrderForUpdate(ctx context.Context, orderID string) (*domain.SalesOrder, error) {
	return q.findSalesOrder(ctx, orderID, true)
}

func (q *queries) UpdateSalesOrderStatus(ctx context.Context, order domain.SalesOrder) error {
	query := `
		UPDATE sales_orders
		SET status = $2, cancel_reason = $3, cancelled_at = $4, last_updated_at = $5, last_updated_by = $6
		WHERE order_id = $1;
	`
	tag, err := q.db.Exec(ctx, query, order.OrderID, order.Status, order.CancelReason, order.CancelledAt,
		order.LastUpdatedAt, order.LastUpdatedBy)
	return expectOne(tag, err, "sales order", order.OrderID)
}

func (q *queries) SaveReturn(ctx context.Context, ret domain.Return) error {
	query := `INSERT INTO returns (` + returnColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7);`
	_, err := q.db.Exec(ctx, query, ret.ReturnID, ret.OrderID, ret.Reason,
		ret.CreatedAt, ret.CreatedBy, ret.LastUpdatedAt, ret.LastUpdatedBy)
	if err != nil {
		return mapError(err, "return", ret.ReturnID)
	}
	if len(ret.Items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, item := range ret.Items {
		batch.Queue(`
			INSERT INTO return_items (return_item_id, return_id, order_item_id, product_id, quantity, restocked)
			VALUES ($1, $2, $3, $4, $5, $6);`,
			item.ReturnItemID, ret.ReturnID, item.OrderItemID, item.ProductID, item.Quantity, item.Restocked)
	}
	return q.execBatch(ctx, batch, "return item")
}

func (q *queries) FindReturnByID(ctx context.Context, returnID string) (*domain.Return, error) {
	query := `SELECT ` + returnColumns + ` FROM returns WHERE return_id = $1;`
	var r domain.Return
	err := q.db.QueryRow(ctx, query, returnID).Scan(&r.ReturnID, &r.OrderID, &r.Reason,
		&r.CreatedAt, &r.CreatedBy, &r.LastUpdatedAt, &r.LastUpdatedBy)
	if err != nil {
		return nil, mapError(err, "return", returnID)
	}

	rows, err := q.db.Query(ctx, `
		SELECT return_item_id, return_id, order_item_id, product_id, quantity, restocked
		FROM return_items WHERE return_id = $1 ORDER BY return_item_id;`, returnID)
	if err != nil {
		return nil, mapError(err, "return items", returnID)
	}
	defer rows.Close()
	r.Items = []domain.ReturnItem{}
	for rows.Next() {
		var it domain.ReturnItem
		if err := rows.Scan(&it.ReturnItemID, &it.ReturnID, &it.OrderItemID, &it.ProductID, &it.Quantity, &it.Restocked); err != nil {
			return nil, mapError(err, "return item", "")
		}
		r.Items = append(r.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "return items", returnID)
	}
	return &r, nil
}

func (q *queries) MarkReturnItemRestocked(ctx context.Context, returnItemID string) error {
	tag, err := q.db.Exec(ctx, `UPDATE return_items SET restocked = TRUE WHERE return_item_id = $1;`, returnItemID)
	return expectOne(tag, err, "return item", returnItemID)
}

func (q *queries) FindInventory(ctx context.Context, productID string) (*domain.InventoryLevel, error) {
	var lvl domain.InventoryLevel
	err := q.db.QueryRow(ctx, `
		SELECT product_id, quantity_on_hand, last_updated_at
		FROM inventory_levels WHERE product_id = $1;`, productID).
		Scan(&lvl.ProductID, &lvl.QuantityOnHand, &lvl.LastUpdatedAt)
	if err != nil {
		return nil, mapError(err, "inventory record", productID)
	}
	return &lvl, nil
}

func (q *queries) SaveInventory(ctx context.Context, level domain.InventoryLevel) error {
	query := `
		INSERT INTO inventory_levels (product_id, quantity_on_hand, last_updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id) DO UPDATE
		SET quantity_on_hand = EXCLUDED.quantity_on_hand, last_updated_at = EXCLUDED.last_updated_at;
	`
	_, err := q.db.Exec(ctx, query, level.ProductID, level.QuantityOnHand, level.LastUpdatedAt)
	return mapError(err, "inventory record", level.ProductID)
}

func (q *queries) AdjustInventory(ctx context.Context, productID string, delta int64) error {
	query := `
		UPDATE inventory_levels
		SET quantity_on_hand = quantity_on_hand + $2, last_updated_at = NOW()
		WHERE product_id = $1;
	`
	tag, err := q.db.Exec(ctx, query, productID, delta)
	return expectOne(tag, err, "inventory record", productID)
}
