package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costos-api/internal/domain/entity"
)

// OrderQuery página de IDs de pedidos ordenados por creación.
type OrderQuery struct {
	Offset           int
	Limit            int
	MissingTotalCost bool // solo pedidos sin _cogs_order_total_cost
}

// OrderRepository puerto de pedidos, líneas y reembolsos con sus metadatos de costo.
type OrderRepository interface {
	// GetOrder devuelve nil, nil si el pedido no existe.
	GetOrder(ctx context.Context, id string) (*entity.Order, error)
	// GetRefund devuelve nil, nil si el reembolso no existe.
	GetRefund(ctx context.Context, id string) (*entity.Refund, error)
	ListRefunds(ctx context.Context, orderID string) ([]*entity.Refund, error)
	ListOrderIDs(ctx context.Context, q OrderQuery) ([]string, error)
	// GetItemCost devuelve nil, nil si la línea no existe.
	GetItemCost(ctx context.Context, itemID string) (*entity.ItemCost, error)
	UpdateItemMeta(ctx context.Context, itemID string, meta map[string]string) error
	// UpdateOrderMeta aplica tanto a pedidos como a reembolsos.
	UpdateOrderMeta(ctx context.Context, orderID string, meta map[string]string) error
	// SumRefundedItemCost suma _cogs_item_total_cost de las líneas de reembolso que apuntan a itemID.
	SumRefundedItemCost(ctx context.Context, itemID string) (decimal.Decimal, error)
}

// ItemCostCache caché de los metadatos de costo por línea.
type ItemCostCache interface {
	Get(ctx context.Context, itemID string) (*entity.ItemCost, bool, error)
	Set(ctx context.Context, itemID string, value *entity.ItemCost) error
	Delete(ctx context.Context, itemIDs ...string) error
}
