package dto

import "github.com/shopspring/decimal"

// ProductCostResponse costo efectivo de un producto. Cost es null si no tiene costo.
type ProductCostResponse struct {
	ProductID string           `json:"product_id"`
	Source    string           `json:"source"` // simple | variant_own_cost | variant_using_default | variable_parent
	Cost      *decimal.Decimal `json:"cost"`
}

// VariantCostRangeResponse mínimo y máximo de costo entre las variaciones.
type VariantCostRangeResponse struct {
	ProductID string           `json:"product_id"`
	MinCost   *decimal.Decimal `json:"min_cost"`
	MaxCost   *decimal.Decimal `json:"max_cost"`
}

// OrderCostTotalResponse resultado de un snapshot o edición de costos.
type OrderCostTotalResponse struct {
	OrderID   string          `json:"order_id"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// ApplyCostOverridesRequest costos totales de línea editados por el administrador.
type ApplyCostOverridesRequest struct {
	Items map[string]decimal.Decimal `json:"items"` // item_id -> costo total de la línea
}

// LineItemCostResponse costo inicial de una línea agregada.
type LineItemCostResponse struct {
	OrderID  string           `json:"order_id"`
	ItemID   string           `json:"item_id"`
	UnitCost *decimal.Decimal `json:"unit_cost"`
}

// RefundCostResponse costo total asignado a un reembolso (≤ 0).
type RefundCostResponse struct {
	RefundID  string          `json:"refund_id"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// OrderCostSummaryResponse costos del pedido, lo reembolsado y el neto.
// Los importes sin valor significativo se reportan como null.
type OrderCostSummaryResponse struct {
	OrderID      string             `json:"order_id"`
	TotalCost    *decimal.Decimal   `json:"total_cost"`
	RefundedCost *decimal.Decimal   `json:"refunded_cost"`
	NetCost      *decimal.Decimal   `json:"net_cost"`
	Items        []ItemCostResponse `json:"items"`
}

// ItemCostResponse costos persistidos de una línea.
type ItemCostResponse struct {
	ItemID        string           `json:"item_id"`
	ProductID     string           `json:"product_id"`
	Quantity      int              `json:"quantity"`
	UnitCost      *decimal.Decimal `json:"unit_cost"`
	LineTotalCost *decimal.Decimal `json:"line_total_cost"`
	RefundedCost  *decimal.Decimal `json:"refunded_cost"`
}
