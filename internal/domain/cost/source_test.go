package cost_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Costos-api/internal/domain/cost"
	"github.com/jhoicas/Costos-api/internal/domain/entity"
)

func dec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestClassify_ProductoSimple(t *testing.T) {
	p := &entity.Product{ID: "1", Type: entity.ProductTypeSimple, Cost: dec("12.50")}

	src := cost.Classify(p, nil)

	assert.Equal(t, cost.KindSimple, src.Kind)
	require.True(t, src.Effective().Valid)
	assert.True(t, src.OrZero().Equal(decimal.RequireFromString("12.50")))
}

func TestClassify_ProductoSimpleSinCosto(t *testing.T) {
	p := &entity.Product{ID: "1", Type: entity.ProductTypeSimple}

	src := cost.Classify(p, nil)

	assert.False(t, src.Effective().Valid, "sin costo debe quedar vacío")
	assert.True(t, src.OrZero().IsZero())
}

// Ejemplo de herencia: padre default 5.00, A explícito 7.00, B hereda.
func TestClassify_HerenciaDeVariaciones(t *testing.T) {
	parent := &entity.Product{ID: "10", Type: entity.ProductTypeVariable, DefaultCost: dec("5.00")}
	a := &entity.Product{ID: "11", ParentID: "10", Type: entity.ProductTypeVariation, Cost: dec("7.00")}
	b := &entity.Product{ID: "12", ParentID: "10", Type: entity.ProductTypeVariation, UsesDefaultCost: true, Cost: dec("99.00")}

	srcA := cost.Classify(a, parent)
	srcB := cost.Classify(b, parent)

	assert.Equal(t, cost.KindVariantOwnCost, srcA.Kind)
	assert.True(t, srcA.OrZero().Equal(decimal.RequireFromString("7.00")))
	assert.Equal(t, cost.KindVariantUsingDefault, srcB.Kind)
	assert.True(t, srcB.OrZero().Equal(decimal.RequireFromString("5.00")),
		"una variación que usa el default ignora su propio costo almacenado")

	min, max := cost.Range([]decimal.NullDecimal{srcA.Effective(), srcB.Effective()})
	assert.True(t, min.Decimal.Equal(decimal.RequireFromString("5.00")))
	assert.True(t, max.Decimal.Equal(decimal.RequireFromString("7.00")))
}

func TestClassify_VariacionHeredaSinPadre(t *testing.T) {
	v := &entity.Product{ID: "12", Type: entity.ProductTypeVariation, UsesDefaultCost: true}

	assert.True(t, cost.NeedsParent(v))
	assert.False(t, cost.Classify(v, nil).Effective().Valid)
}

func TestClassify_PadreVariableUsaMinimo(t *testing.T) {
	parent := &entity.Product{
		ID: "10", Type: entity.ProductTypeVariable,
		MinVariantCost: dec("5.00"), MaxVariantCost: dec("7.00"),
	}

	src := cost.Classify(parent, nil)

	assert.Equal(t, cost.KindVariableParent, src.Kind)
	assert.True(t, src.OrZero().Equal(decimal.RequireFromString("5.00")))
}

func TestRange_CotasAjustadas(t *testing.T) {
	costs := []decimal.NullDecimal{dec("3.10"), {}, dec("8.00"), dec("3.10"), dec("4.99")}

	min, max := cost.Range(costs)

	require.True(t, min.Valid)
	require.True(t, max.Valid)
	for _, c := range costs {
		if !c.Valid {
			continue
		}
		assert.True(t, min.Decimal.LessThanOrEqual(c.Decimal))
		assert.True(t, max.Decimal.GreaterThanOrEqual(c.Decimal))
	}
	assert.Equal(t, "3.10", min.Decimal.StringFixed(2))
	assert.Equal(t, "8.00", max.Decimal.StringFixed(2))
}

func TestRange_SinCostos(t *testing.T) {
	min, max := cost.Range([]decimal.NullDecimal{{}, {}})
	assert.False(t, min.Valid)
	assert.False(t, max.Valid)
}
