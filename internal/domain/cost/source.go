// Package cost contiene las reglas puras del costo de mercancía: de dónde sale el
// costo efectivo de un producto, cómo se agregan rangos de variaciones y cómo se
// redondean y serializan los importes persistidos.
package cost

import (
	"github.com/jhoicas/Costos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Kind clasifica la procedencia del costo efectivo de un producto.
type Kind int

const (
	// KindSimple producto simple: su propio costo.
	KindSimple Kind = iota
	// KindVariantOwnCost variación con costo explícito.
	KindVariantOwnCost
	// KindVariantUsingDefault variación que hereda el costo por defecto del padre.
	KindVariantUsingDefault
	// KindVariableParent padre variable: por convención, el menor costo de sus variaciones.
	KindVariableParent
)

// String nombre legible del tipo.
func (k Kind) String() string {
	switch k {
	case KindSimple:
		return "simple"
	case KindVariantOwnCost:
		return "variant_own_cost"
	case KindVariantUsingDefault:
		return "variant_using_default"
	case KindVariableParent:
		return "variable_parent"
	default:
		return "unknown"
	}
}

// Source costo etiquetado por su procedencia. Value inválido = costo no definido.
type Source struct {
	Kind  Kind
	Value decimal.NullDecimal
}

// NeedsParent indica si Classify necesita el padre para resolver el costo de p.
func NeedsParent(p *entity.Product) bool {
	return p != nil && p.IsVariation() && p.UsesDefaultCost
}

// Classify construye la fuente de costo de p. parent solo se consulta cuando
// NeedsParent(p) es true; puede ser nil si el padre ya no existe.
func Classify(p *entity.Product, parent *entity.Product) Source {
	switch {
	case p.IsVariable():
		return Source{Kind: KindVariableParent, Value: p.MinVariantCost}
	case p.IsVariation() && p.UsesDefaultCost:
		var def decimal.NullDecimal
		if parent != nil {
			def = parent.DefaultCost
		}
		return Source{Kind: KindVariantUsingDefault, Value: def}
	case p.IsVariation():
		return Source{Kind: KindVariantOwnCost, Value: p.Cost}
	default:
		return Source{Kind: KindSimple, Value: p.Cost}
	}
}

// Effective devuelve el costo efectivo (inválido si no está definido).
func (s Source) Effective() decimal.NullDecimal { return s.Value }

// OrZero devuelve el costo efectivo o cero si no está definido.
func (s Source) OrZero() decimal.Decimal {
	if !s.Value.Valid {
		return decimal.Zero
	}
	return s.Value.Decimal
}

// Range calcula el mínimo y máximo de los costos definidos. Los no definidos se ignoran;
// si ninguno está definido ambos extremos quedan inválidos.
func Range(costs []decimal.NullDecimal) (min, max decimal.NullDecimal) {
	for _, c := range costs {
		if !c.Valid {
			continue
		}
		if !min.Valid || c.Decimal.LessThan(min.Decimal) {
			min = c
		}
		if !max.Valid || c.Decimal.GreaterThan(max.Decimal) {
			max = c
		}
	}
	return min, max
}
