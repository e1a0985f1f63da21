package cogs

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costos-api/internal/domain"
	"github.com/jhoicas/Costos-api/internal/domain/cost"
	"github.com/jhoicas/Costos-api/internal/domain/entity"
	"github.com/jhoicas/Costos-api/internal/domain/repository"
)

// RefundUseCase asigna a un reembolso el espejo negativo del costo de las líneas
// originales, de modo que sumar pedidos y reembolsos dé el costo neto.
type RefundUseCase struct {
	tx       TxRunner
	items    itemCosts
	hooks    Hooks
	decimals int32
}

// NewRefundUseCase construye el caso de uso.
func NewRefundUseCase(tx TxRunner, cache repository.ItemCostCache, hooks Hooks, settings Settings) *RefundUseCase {
	return &RefundUseCase{
		tx:       tx,
		items:    itemCosts{cache: cache},
		hooks:    hooks,
		decimals: settings.PriceDecimals,
	}
}

// AllocateRefundCosts persiste costo unitario y total negativos en cada línea reembolsada
// que califica, y el total del reembolso (≤ 0, tras RefundTotal).
func (uc *RefundUseCase) AllocateRefundCosts(ctx context.Context, refundID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	var touched []string
	err := uc.tx.RunOrders(ctx, func(orders repository.OrderRepository) error {
		var err error
		total, touched, err = uc.allocateInTx(ctx, orders, refundID)
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}
	return total, uc.items.invalidate(ctx, touched)
}

func (uc *RefundUseCase) allocateInTx(ctx context.Context, orders repository.OrderRepository, refundID string) (decimal.Decimal, []string, error) {
	refund, err := orders.GetRefund(ctx, refundID)
	if err != nil {
		return decimal.Zero, nil, fmt.Errorf("cogs: cargar reembolso %s: %w", refundID, err)
	}
	if refund == nil {
		return decimal.Zero, nil, domain.ErrNotFound
	}

	sum := decimal.Zero
	var touched []string
	for _, item := range refund.Items {
		if !refundLineQualifies(item) {
			continue
		}
		// dentro de la transacción se lee el repositorio: la caché puede tener el
		// costo previo a un snapshot aún sin confirmar
		original, err := orders.GetItemCost(ctx, item.RefundedItemID)
		if err != nil {
			return decimal.Zero, nil, fmt.Errorf("cogs: leer costo de línea %s: %w", item.RefundedItemID, err)
		}
		// sin costo registrado en la venta original no se supone ninguno
		if original == nil || !original.UnitCost.Valid {
			continue
		}
		unit, lineTotal := cost.RefundMirror(original.UnitCost.Decimal, item.Quantity)
		unitRounded := cost.Round(unit, uc.decimals)
		totalRounded := cost.Round(lineTotal, uc.decimals)
		if err := orders.UpdateItemMeta(ctx, item.ID, map[string]string{
			entity.MetaItemCost:      cost.Format(unitRounded, uc.decimals),
			entity.MetaItemTotalCost: cost.Format(totalRounded, uc.decimals),
		}); err != nil {
			return decimal.Zero, nil, fmt.Errorf("cogs: guardar costo de línea reembolsada %s: %w", item.ID, err)
		}
		item.UnitCost = decimal.NewNullDecimal(unitRounded)
		item.LineTotalCost = decimal.NewNullDecimal(totalRounded)
		touched = append(touched, item.ID)
		sum = sum.Add(lineTotal)
	}

	total := cost.Round(uc.hooks.refundTotal(sum, refund), uc.decimals)
	if err := orders.UpdateOrderMeta(ctx, refund.ID, map[string]string{
		entity.MetaOrderTotalCost: cost.Format(total, uc.decimals),
	}); err != nil {
		return decimal.Zero, nil, fmt.Errorf("cogs: guardar costo total del reembolso %s: %w", refund.ID, err)
	}
	refund.TotalCost = decimal.NewNullDecimal(total)
	return total, touched, nil
}

// refundLineQualifies solo líneas que devuelven dinero (total negativo), con cantidad
// distinta de cero y que referencian la línea original.
func refundLineQualifies(item *entity.LineItem) bool {
	return item.LineTotal.IsNegative() && item.Quantity != 0 && item.RefundedItemID != ""
}
