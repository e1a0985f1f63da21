package cogs

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costos-api/internal/domain/entity"
)

// ItemCostHook ajusta el costo unitario resuelto de una línea antes de persistirlo.
type ItemCostHook func(unitCost decimal.NullDecimal, item *entity.LineItem, order *entity.Order) decimal.NullDecimal

// OrderTotalHook ajusta el costo total de un pedido antes de persistirlo.
// El valor persistido es exactamente lo que devuelve.
type OrderTotalHook func(total decimal.Decimal, order *entity.Order) decimal.Decimal

// RefundTotalHook ajusta el costo total de un reembolso antes de persistirlo.
// Contrato para quien lo implementa: cualquier importe añadido debe ser negativo,
// igual que el total calculado. El motor no lo valida.
type RefundTotalHook func(total decimal.Decimal, refund *entity.Refund) decimal.Decimal

// Hooks puntos de extensión. Los nil equivalen a la identidad.
type Hooks struct {
	ItemCost      ItemCostHook    // snapshot de cada línea
	OrderTotal    OrderTotalHook  // total calculado por snapshot
	OverrideTotal OrderTotalHook  // total tras edición manual de costos
	RefundTotal   RefundTotalHook // total de un reembolso
}

func (h Hooks) itemCost(c decimal.NullDecimal, item *entity.LineItem, order *entity.Order) decimal.NullDecimal {
	if h.ItemCost == nil {
		return c
	}
	return h.ItemCost(c, item, order)
}

func (h Hooks) orderTotal(total decimal.Decimal, order *entity.Order) decimal.Decimal {
	if h.OrderTotal == nil {
		return total
	}
	return h.OrderTotal(total, order)
}

func (h Hooks) overrideTotal(total decimal.Decimal, order *entity.Order) decimal.Decimal {
	if h.OverrideTotal == nil {
		return total
	}
	return h.OverrideTotal(total, order)
}

func (h Hooks) refundTotal(total decimal.Decimal, refund *entity.Refund) decimal.Decimal {
	if h.RefundTotal == nil {
		return total
	}
	return h.RefundTotal(total, refund)
}
