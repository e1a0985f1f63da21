package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de producto del catálogo.
const (
	ProductTypeSimple    = "simple"
	ProductTypeVariable  = "variable"
	ProductTypeVariation = "variation"
)

// ProductStatusPublish estado de un producto visible en la tienda.
const ProductStatusPublish = "publish"

// Product representa un producto del catálogo con sus atributos de costo.
// Los costos viven como metadatos planos (ver meta.go); aquí ya vienen parseados.
// Un costo no definido se representa con NullDecimal.Valid = false.
type Product struct {
	ID            string
	ParentID      string // solo variaciones
	Type          string // simple, variable, variation
	Title         string
	Status        string
	ManageStock   bool
	StockQuantity decimal.Decimal
	Price         decimal.Decimal // precio vigente (oferta si existe, si no regular)

	Cost            decimal.NullDecimal // simple o variación con costo propio
	DefaultCost     decimal.NullDecimal // padre variable: costo por defecto de variaciones
	MinVariantCost  decimal.NullDecimal // padre variable: agregado cacheado
	MaxVariantCost  decimal.NullDecimal // padre variable: agregado cacheado
	UsesDefaultCost bool                // variación: hereda DefaultCost del padre

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsVariable indica si el producto es un padre variable.
func (p *Product) IsVariable() bool { return p.Type == ProductTypeVariable }

// IsVariation indica si el producto es una variación de un padre variable.
func (p *Product) IsVariation() bool { return p.Type == ProductTypeVariation }
