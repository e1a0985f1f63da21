package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costos-api/internal/domain/cost"
	"github.com/jhoicas/Costos-api/internal/domain/entity"
	"github.com/jhoicas/Costos-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo pedidos y reembolsos (tabla orders, kind = order | refund) con sus líneas.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderSelect = `
	SELECT o.id, COALESCE(o.parent_id, ''), o.status, o.created_at,
	       COALESCE((SELECT meta_value FROM order_meta
	                 WHERE order_id = o.id AND meta_key = '` + entity.MetaOrderTotalCost + `'), '')
	FROM orders o`

const itemSelect = `
	SELECT i.id, i.order_id, COALESCE(i.product_id, ''), COALESCE(i.variation_id, ''), i.quantity,
	       i.line_total, COALESCE(i.refunded_item_id, ''),
	       COALESCE(m.unit_cost, ''), COALESCE(m.total_cost, '')
	FROM order_items i
	LEFT JOIN LATERAL (
		SELECT
			MAX(meta_value) FILTER (WHERE meta_key = '` + entity.MetaItemCost + `')      AS unit_cost,
			MAX(meta_value) FILTER (WHERE meta_key = '` + entity.MetaItemTotalCost + `') AS total_cost
		FROM order_item_meta WHERE item_id = i.id
	) m ON TRUE`

type orderRow struct {
	id, parentID, status string
	createdAt            time.Time
	totalCost            decimal.NullDecimal
}

func scanOrderRow(row scanner) (*orderRow, error) {
	var o orderRow
	var total string
	if err := row.Scan(&o.id, &o.parentID, &o.status, &o.createdAt, &total); err != nil {
		return nil, err
	}
	o.totalCost = cost.Parse(total)
	return &o, nil
}

func (r *OrderRepo) getRow(ctx context.Context, kind, id string) (*orderRow, error) {
	o, err := scanOrderRow(r.q.QueryRow(ctx, orderSelect+` WHERE o.id = $1 AND o.kind = $2`, id, kind))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get "+kind, err)
	}
	return o, nil
}

func (r *OrderRepo) lineItems(ctx context.Context, orderID string) ([]*entity.LineItem, error) {
	rows, err := r.q.Query(ctx, itemSelect+` WHERE i.order_id = $1 ORDER BY i.position`, orderID)
	if err != nil {
		return nil, wrap("list order items", err)
	}
	defer rows.Close()
	var items []*entity.LineItem
	for rows.Next() {
		var it entity.LineItem
		var unit, total string
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.VariationID, &it.Quantity,
			&it.LineTotal, &it.RefundedItemID, &unit, &total); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		it.UnitCost = cost.Parse(unit)
		it.LineTotalCost = cost.Parse(total)
		items = append(items, &it)
	}
	return items, rows.Err()
}

// GetOrder obtiene un pedido con sus líneas.
func (r *OrderRepo) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	row, err := r.getRow(ctx, "order", id)
	if err != nil || row == nil {
		return nil, err
	}
	items, err := r.lineItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return &entity.Order{ID: row.id, Status: row.status, CreatedAt: row.createdAt, Items: items, TotalCost: row.totalCost}, nil
}

// GetRefund obtiene un reembolso con sus líneas.
func (r *OrderRepo) GetRefund(ctx context.Context, id string) (*entity.Refund, error) {
	row, err := r.getRow(ctx, "refund", id)
	if err != nil || row == nil {
		return nil, err
	}
	return r.refund(ctx, row)
}

func (r *OrderRepo) refund(ctx context.Context, row *orderRow) (*entity.Refund, error) {
	items, err := r.lineItems(ctx, row.id)
	if err != nil {
		return nil, err
	}
	return &entity.Refund{ID: row.id, OrderID: row.parentID, CreatedAt: row.createdAt, Items: items, TotalCost: row.totalCost}, nil
}

// ListRefunds reembolsos de un pedido por fecha de creación.
func (r *OrderRepo) ListRefunds(ctx context.Context, orderID string) ([]*entity.Refund, error) {
	rows, err := r.q.Query(ctx, orderSelect+` WHERE o.kind = 'refund' AND o.parent_id = $1 ORDER BY o.created_at, o.id`, orderID)
	if err != nil {
		return nil, wrap("list refunds", err)
	}
	var list []*orderRow
	for rows.Next() {
		row, err := scanOrderRow(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan refund: %w", err)
		}
		list = append(list, row)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrap("list refunds", err)
	}
	// las líneas se cargan después de cerrar el cursor: una tx no admite dos consultas abiertas
	refunds := make([]*entity.Refund, 0, len(list))
	for _, row := range list {
		rf, err := r.refund(ctx, row)
		if err != nil {
			return nil, err
		}
		refunds = append(refunds, rf)
	}
	return refunds, nil
}

// ListOrderIDs página de pedidos por fecha de creación.
func (r *OrderRepo) ListOrderIDs(ctx context.Context, q repository.OrderQuery) ([]string, error) {
	rows, err := r.q.Query(ctx, `
		SELECT o.id FROM orders o
		WHERE o.kind = 'order'
		  AND (NOT $1 OR NOT EXISTS (
		      SELECT 1 FROM order_meta m
		      WHERE m.order_id = o.id AND m.meta_key = '`+entity.MetaOrderTotalCost+`' AND m.meta_value <> ''))
		ORDER BY o.created_at, o.id
		LIMIT $2 OFFSET $3`, q.MissingTotalCost, q.Limit, q.Offset)
	if err != nil {
		return nil, wrap("list order ids", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// GetItemCost metadatos de costo de una línea.
func (r *OrderRepo) GetItemCost(ctx context.Context, itemID string) (*entity.ItemCost, error) {
	var unit, total string
	err := r.q.QueryRow(ctx, `
		SELECT
			COALESCE(MAX(m.meta_value) FILTER (WHERE m.meta_key = '`+entity.MetaItemCost+`'), ''),
			COALESCE(MAX(m.meta_value) FILTER (WHERE m.meta_key = '`+entity.MetaItemTotalCost+`'), '')
		FROM order_items i
		LEFT JOIN order_item_meta m ON m.item_id = i.id
		WHERE i.id = $1
		GROUP BY i.id`, itemID).Scan(&unit, &total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get item cost", err)
	}
	return &entity.ItemCost{UnitCost: cost.Parse(unit), LineTotalCost: cost.Parse(total)}, nil
}

// UpdateItemMeta escribe metadatos de una línea.
func (r *OrderRepo) UpdateItemMeta(ctx context.Context, itemID string, meta map[string]string) error {
	return itemMeta.upsert(ctx, r.q, itemID, meta)
}

// UpdateOrderMeta escribe metadatos de un pedido o reembolso.
func (r *OrderRepo) UpdateOrderMeta(ctx context.Context, orderID string, meta map[string]string) error {
	return orderMeta.upsert(ctx, r.q, orderID, meta)
}

// SumRefundedItemCost suma los costos totales de las líneas de reembolso que apuntan a itemID.
func (r *OrderRepo) SumRefundedItemCost(ctx context.Context, itemID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(NULLIF(m.meta_value, '')::numeric), 0)
		FROM order_items i
		JOIN order_item_meta m ON m.item_id = i.id AND m.meta_key = '`+entity.MetaItemTotalCost+`'
		WHERE i.refunded_item_id = $1`, itemID).Scan(&sum)
	if err != nil {
		return decimal.Zero, wrap("sum refunded item cost", err)
	}
	return sum, nil
}
