package cogs

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costos-api/internal/domain"
	"github.com/jhoicas/Costos-api/internal/domain/entity"
	"github.com/jhoicas/Costos-api/internal/domain/repository"
)

// OrderCostSummary costos persistidos de un pedido y sus reembolsos.
type OrderCostSummary struct {
	OrderID      string
	TotalCost    decimal.NullDecimal
	RefundedCost decimal.Decimal // suma de los totales de reembolso (≤ 0)
	NetCost      decimal.Decimal // TotalCost + RefundedCost
	Items        []ItemCostSummary
}

// ItemCostSummary costos persistidos de una línea.
type ItemCostSummary struct {
	ItemID        string
	ProductID     string
	Quantity      int
	UnitCost      decimal.NullDecimal
	LineTotalCost decimal.NullDecimal
	RefundedCost  decimal.Decimal
}

// CostQueryUseCase consultas de solo lectura sobre los snapshots de costo.
type CostQueryUseCase struct {
	orders repository.OrderRepository
	items  itemCosts
}

// NewCostQueryUseCase construye el caso de uso.
func NewCostQueryUseCase(orders repository.OrderRepository, cache repository.ItemCostCache) *CostQueryUseCase {
	return &CostQueryUseCase{orders: orders, items: itemCosts{cache: cache}}
}

// OrderCostSummary devuelve el costo del pedido, lo reembolsado y el costo neto restante.
func (uc *CostQueryUseCase) OrderCostSummary(ctx context.Context, orderID string) (*OrderCostSummary, error) {
	order, err := uc.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("cogs: cargar pedido %s: %w", orderID, err)
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	refunds, err := uc.orders.ListRefunds(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("cogs: listar reembolsos de %s: %w", orderID, err)
	}

	out := &OrderCostSummary{OrderID: order.ID, TotalCost: order.TotalCost}
	for _, r := range refunds {
		if r.TotalCost.Valid {
			out.RefundedCost = out.RefundedCost.Add(r.TotalCost.Decimal)
		}
	}
	if order.TotalCost.Valid {
		out.NetCost = order.TotalCost.Decimal.Add(out.RefundedCost)
	} else {
		out.NetCost = out.RefundedCost
	}

	for _, item := range order.Items {
		s, err := uc.itemSummary(ctx, item)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, s)
	}
	return out, nil
}

// RefundedItemCost suma el costo total reembolsado de una línea (negativo o cero).
func (uc *CostQueryUseCase) RefundedItemCost(ctx context.Context, itemID string) (decimal.Decimal, error) {
	total, err := uc.orders.SumRefundedItemCost(ctx, itemID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("cogs: sumar costo reembolsado de %s: %w", itemID, err)
	}
	return total, nil
}

func (uc *CostQueryUseCase) itemSummary(ctx context.Context, item *entity.LineItem) (ItemCostSummary, error) {
	costs, err := uc.items.get(ctx, uc.orders, item.ID)
	if err != nil {
		return ItemCostSummary{}, err
	}
	refunded, err := uc.RefundedItemCost(ctx, item.ID)
	if err != nil {
		return ItemCostSummary{}, err
	}
	s := ItemCostSummary{
		ItemID:       item.ID,
		ProductID:    item.PurchasedProductID(),
		Quantity:     item.Quantity,
		RefundedCost: refunded,
	}
	if costs != nil {
		s.UnitCost = costs.UnitCost
		s.LineTotalCost = costs.LineTotalCost
	}
	return s, nil
}
