package dto

import "github.com/shopspring/decimal"

// ValuationResponse valor total del inventario.
type ValuationResponse struct {
	Search   string          `json:"search,omitempty"`
	AtCost   decimal.Decimal `json:"at_cost"`
	AtRetail decimal.Decimal `json:"at_retail"`
}

// ProductValuationResponse valor de un producto o variación.
type ProductValuationResponse struct {
	ProductID     string           `json:"product_id"`
	ParentID      string           `json:"parent_id,omitempty"`
	Title         string           `json:"title"`
	StockQuantity decimal.Decimal  `json:"stock_quantity"`
	UnitCost      *decimal.Decimal `json:"unit_cost"`
	Price         decimal.Decimal  `json:"price"`
	ValueAtCost   decimal.Decimal  `json:"value_at_cost"`
	ValueAtRetail decimal.Decimal  `json:"value_at_retail"`
}

// ProductValuationListResponse listado paginado por título.
type ProductValuationListResponse struct {
	Items []ProductValuationResponse `json:"items"`
	Page  PageResponse               `json:"page"`
}
