package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order pedido con sus líneas y el snapshot de costo total.
type Order struct {
	ID        string
	Status    string
	CreatedAt time.Time
	Items     []*LineItem
	TotalCost decimal.NullDecimal // _cogs_order_total_cost; inválido si nunca se calculó
}

// Item busca una línea del pedido por ID.
func (o *Order) Item(itemID string) *LineItem {
	for _, it := range o.Items {
		if it.ID == itemID {
			return it
		}
	}
	return nil
}

// LineItem línea de pedido o de reembolso.
// En reembolsos Quantity y LineTotal son negativos y RefundedItemID apunta a la línea original.
type LineItem struct {
	ID             string
	OrderID        string
	ProductID      string
	VariationID    string
	Quantity       int
	LineTotal      decimal.Decimal
	RefundedItemID string

	UnitCost      decimal.NullDecimal // _cogs_item_cost
	LineTotalCost decimal.NullDecimal // _cogs_item_total_cost
}

// PurchasedProductID devuelve la variación si existe, si no el producto.
func (li *LineItem) PurchasedProductID() string {
	if li.VariationID != "" {
		return li.VariationID
	}
	return li.ProductID
}

// Refund reembolso asociado a un pedido; su TotalCost es negativo.
type Refund struct {
	ID        string
	OrderID   string
	CreatedAt time.Time
	Items     []*LineItem
	TotalCost decimal.NullDecimal
}

// ItemCost snapshot de costo de una línea, tal como está persistido.
type ItemCost struct {
	UnitCost      decimal.NullDecimal
	LineTotalCost decimal.NullDecimal
}
