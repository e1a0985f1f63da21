package cogs

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costos-api/internal/domain"
	"github.com/jhoicas/Costos-api/internal/domain/cost"
	"github.com/jhoicas/Costos-api/internal/domain/entity"
	"github.com/jhoicas/Costos-api/internal/domain/repository"
)

// SnapshotUseCase congela el costo de cada línea y el total del pedido en el momento
// de la venta (checkout, creación por API) o de una edición del administrador.
type SnapshotUseCase struct {
	tx       TxRunner
	resolver *CostResolver
	items    itemCosts
	hooks    Hooks
	decimals int32
}

// NewSnapshotUseCase construye el caso de uso.
func NewSnapshotUseCase(tx TxRunner, resolver *CostResolver, cache repository.ItemCostCache, hooks Hooks, settings Settings) *SnapshotUseCase {
	return &SnapshotUseCase{
		tx:       tx,
		resolver: resolver,
		items:    itemCosts{cache: cache},
		hooks:    hooks,
		decimals: settings.PriceDecimals,
	}
}

// SnapshotOrderCosts resuelve el costo vigente de cada línea, persiste costo unitario y
// total de línea, y persiste la suma como costo total del pedido (tras OrderTotal).
// Dos llamadas sobre un pedido cuyo catálogo no cambió persisten valores idénticos.
func (uc *SnapshotUseCase) SnapshotOrderCosts(ctx context.Context, orderID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	var touched []string
	err := uc.tx.RunOrders(ctx, func(orders repository.OrderRepository) error {
		var err error
		total, touched, err = uc.snapshotInTx(ctx, orders, orderID)
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}
	return total, uc.items.invalidate(ctx, touched)
}

func (uc *SnapshotUseCase) snapshotInTx(ctx context.Context, orders repository.OrderRepository, orderID string) (decimal.Decimal, []string, error) {
	order, err := orders.GetOrder(ctx, orderID)
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("cogs: cargar pedido %s: %w", orderID, err)
	}
	if order == nil {
		return decimal.Zero, nil, domain.ErrNotFound
	}

	sum := decimal.Zero
	touched := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		unit, err := uc.resolveItemCost(ctx, item)
		if err != nil {
			return decimal.Zero, nil, err
		}
		unit = uc.hooks.itemCost(unit, item, order)

		lineTotal := decimal.Zero
		if unit.Valid {
			lineTotal = cost.LineTotal(unit.Decimal, item.Quantity)
		}
		unitRounded := roundNull(unit, uc.decimals)
		totalRounded := cost.Round(lineTotal, uc.decimals)
		if err := orders.UpdateItemMeta(ctx, item.ID, map[string]string{
			entity.MetaItemCost:      cost.FormatNull(unitRounded, uc.decimals),
			entity.MetaItemTotalCost: cost.Format(totalRounded, uc.decimals),
		}); err != nil {
			return decimal.Zero, nil, fmt.Errorf("cogs: guardar costo de línea %s: %w", item.ID, err)
		}
		item.UnitCost = unitRounded
		item.LineTotalCost = decimal.NewNullDecimal(totalRounded)
		touched = append(touched, item.ID)

		// se acumula sin redondear; se redondea solo el total final
		sum = sum.Add(lineTotal)
	}

	total := cost.Round(uc.hooks.orderTotal(sum, order), uc.decimals)
	if err := orders.UpdateOrderMeta(ctx, order.ID, map[string]string{
		entity.MetaOrderTotalCost: cost.Format(total, uc.decimals),
	}); err != nil {
		return decimal.Zero, nil, fmt.Errorf("cogs: guardar costo total del pedido %s: %w", order.ID, err)
	}
	order.TotalCost = decimal.NewNullDecimal(total)
	return total, touched, nil
}

// ApplyCostOverrides persiste tal cual los costos totales de línea editados por el
// administrador (sin multiplicar por cantidad ni tocar el costo unitario) y fija el
// total del pedido como la suma de los valores recibidos, tras OverrideTotal.
func (uc *SnapshotUseCase) ApplyCostOverrides(ctx context.Context, orderID string, overrides map[string]decimal.Decimal) (decimal.Decimal, error) {
	if orderID == "" || len(overrides) == 0 {
		return decimal.Zero, domain.ErrInvalidInput
	}
	itemIDs := make([]string, 0, len(overrides))
	for id := range overrides {
		if id == "" {
			return decimal.Zero, domain.ErrInvalidInput
		}
		itemIDs = append(itemIDs, id)
	}
	sort.Strings(itemIDs)

	var total decimal.Decimal
	err := uc.tx.RunOrders(ctx, func(orders repository.OrderRepository) error {
		order, err := orders.GetOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("cogs: cargar pedido %s: %w", orderID, err)
		}
		if order == nil {
			return domain.ErrNotFound
		}
		sum := decimal.Zero
		for _, id := range itemIDs {
			item := order.Item(id)
			if item == nil {
				return fmt.Errorf("%w: la línea %s no pertenece al pedido %s", domain.ErrInvalidInput, id, orderID)
			}
			value := overrides[id]
			rounded := cost.Round(value, uc.decimals)
			if err := orders.UpdateItemMeta(ctx, id, map[string]string{
				entity.MetaItemTotalCost: cost.Format(rounded, uc.decimals),
			}); err != nil {
				return fmt.Errorf("cogs: guardar costo de línea %s: %w", id, err)
			}
			item.LineTotalCost = decimal.NewNullDecimal(rounded)
			sum = sum.Add(value)
		}
		total = cost.Round(uc.hooks.overrideTotal(sum, order), uc.decimals)
		if err := orders.UpdateOrderMeta(ctx, orderID, map[string]string{
			entity.MetaOrderTotalCost: cost.Format(total, uc.decimals),
		}); err != nil {
			return fmt.Errorf("cogs: guardar costo total del pedido %s: %w", orderID, err)
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return total, uc.items.invalidate(ctx, itemIDs)
}

// InitLineItemCost fija costo unitario y total de una línea agregada por el
// administrador a un pedido existente. Las líneas nuevas entran con cantidad 1,
// por eso ambos valores coinciden; el total del pedido se recalcula en la siguiente edición.
func (uc *SnapshotUseCase) InitLineItemCost(ctx context.Context, orderID, itemID string) (decimal.NullDecimal, error) {
	var unit decimal.NullDecimal
	err := uc.tx.RunOrders(ctx, func(orders repository.OrderRepository) error {
		order, err := orders.GetOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("cogs: cargar pedido %s: %w", orderID, err)
		}
		if order == nil {
			return domain.ErrNotFound
		}
		item := order.Item(itemID)
		if item == nil {
			return domain.ErrNotFound
		}
		resolved, err := uc.resolveItemCost(ctx, item)
		if err != nil {
			return err
		}
		unit = roundNull(uc.hooks.itemCost(resolved, item, order), uc.decimals)
		value := cost.FormatNull(unit, uc.decimals)
		if !unit.Valid {
			value = cost.Format(decimal.Zero, uc.decimals)
		}
		return orders.UpdateItemMeta(ctx, itemID, map[string]string{
			entity.MetaItemCost:      cost.FormatNull(unit, uc.decimals),
			entity.MetaItemTotalCost: value,
		})
	})
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return unit, uc.items.invalidate(ctx, []string{itemID})
}

// resolveItemCost un producto que ya no existe en el catálogo cuenta como sin costo.
func (uc *SnapshotUseCase) resolveItemCost(ctx context.Context, item *entity.LineItem) (decimal.NullDecimal, error) {
	productID := item.PurchasedProductID()
	if productID == "" {
		return decimal.NullDecimal{}, nil
	}
	c, err := uc.resolver.Resolve(ctx, ByID(productID))
	if errors.Is(err, domain.ErrNotFound) {
		return decimal.NullDecimal{}, nil
	}
	return c, err
}
