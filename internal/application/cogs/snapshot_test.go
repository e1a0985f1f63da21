package cogs_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Costos-api/internal/application/cogs"
	"github.com/jhoicas/Costos-api/internal/domain"
	"github.com/jhoicas/Costos-api/internal/domain/cost"
	"github.com/jhoicas/Costos-api/internal/domain/entity"
)

func TestSnapshotOrderCosts_ProductoSimple(t *testing.T) {
	f := newFixture(cogs.Hooks{})
	f.simple("p1", "12.50")
	f.order("o1", line("i1", "p1", 3))

	total, err := f.snapshot.SnapshotOrderCosts(context.Background(), "o1")
	require.NoError(t, err)

	assert.Equal(t, "37.50", cost.Format(total, 2))
	assert.Equal(t, "12.50", f.store.ItemMeta("i1", entity.MetaItemCost))
	assert.Equal(t, "37.50", f.store.ItemMeta("i1", entity.MetaItemTotalCost))
	assert.Equal(t, "37.50", f.store.OrderMeta("o1", entity.MetaOrderTotalCost))
}

func TestSnapshotOrderCosts_Idempotente(t *testing.T) {
	f := newFixture(cogs.Hooks{})
	seedVariable(f)
	f.simple("p1", "1.333")
	f.order("o1", line("i1", "p1", 3), line("i2", "v1", 2), line("i3", "v2", 1))
	ctx := context.Background()

	first, err := f.snapshot.SnapshotOrderCosts(ctx, "o1")
	require.NoError(t, err)
	snap := []string{
		f.store.ItemMeta("i1", entity.MetaItemCost), f.store.ItemMeta("i1", entity.MetaItemTotalCost),
		f.store.ItemMeta("i2", entity.MetaItemTotalCost), f.store.OrderMeta("o1", entity.MetaOrderTotalCost),
	}

	second, err := f.snapshot.SnapshotOrderCosts(ctx, "o1")
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.Equal(t, snap, []string{
		f.store.ItemMeta("i1", entity.MetaItemCost), f.store.ItemMeta("i1", entity.MetaItemTotalCost),
		f.store.ItemMeta("i2", entity.MetaItemTotalCost), f.store.OrderMeta("o1", entity.MetaOrderTotalCost),
	})
	// 1.333×3 + 5×2 + 7 = 20.999 -> el total se redondea una sola vez
	assert.Equal(t, "21.00", f.store.OrderMeta("o1", entity.MetaOrderTotalCost))
	assert.Equal(t, "4.00", f.store.ItemMeta("i1", entity.MetaItemTotalCost))
}

func TestSnapshotOrderCosts_SinCostoPersisteVacio(t *testing.T) {
	f := newFixture(cogs.Hooks{})
	f.simple("p1", "")
	f.order("o1", line("i1", "p1", 2), line("i2", "borrado", 1))

	total, err := f.snapshot.SnapshotOrderCosts(context.Background(), "o1")
	require.NoError(t, err)

	assert.True(t, total.IsZero())
	assert.Equal(t, "", f.store.ItemMeta("i1", entity.MetaItemCost))
	assert.Equal(t, "0.00", f.store.ItemMeta("i1", entity.MetaItemTotalCost))
	assert.Equal(t, "0.00", f.store.ItemMeta("i2", entity.MetaItemTotalCost))
	assert.Equal(t, "0.00", f.store.OrderMeta("o1", entity.MetaOrderTotalCost))
}

func TestSnapshotOrderCosts_CantidadCeroCuentaComoUno(t *testing.T) {
	f := newFixture(cogs.Hooks{})
	f.simple("p1", "4.25")
	f.order("o1", line("i1", "p1", 0))

	total, err := f.snapshot.SnapshotOrderCosts(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, "4.25", cost.Format(total, 2))
}

func TestSnapshotOrderCosts_HooksSeAplicanAntesDeRedondear(t *testing.T) {
	hooks := cogs.Hooks{
		ItemCost: func(c decimal.NullDecimal, _ *entity.LineItem, _ *entity.Order) decimal.NullDecimal {
			if !c.Valid {
				return c
			}
			return decimal.NewNullDecimal(c.Decimal.Add(d("0.50")))
		},
		OrderTotal: func(total decimal.Decimal, _ *entity.Order) decimal.Decimal {
			return total.Add(d("1.005"))
		},
	}
	f := newFixture(hooks)
	f.simple("p1", "12.00")
	f.order("o1", line("i1", "p1", 3))

	total, err := f.snapshot.SnapshotOrderCosts(context.Background(), "o1")
	require.NoError(t, err)

	assert.Equal(t, "12.50", f.store.ItemMeta("i1", entity.MetaItemCost))
	assert.Equal(t, "37.50", f.store.ItemMeta("i1", entity.MetaItemTotalCost))
	assert.Equal(t, "38.51", cost.Format(total, 2))
	assert.Equal(t, "38.51", f.store.OrderMeta("o1", entity.MetaOrderTotalCost))
}

func TestSnapshotOrderCosts_PedidoInexistente(t *testing.T) {
	f := newFixture(cogs.Hooks{})

	_, err := f.snapshot.SnapshotOrderCosts(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyCostOverrides_SumaValoresRecibidos(t *testing.T) {
	f := newFixture(cogs.Hooks{})
	f.simple("p1", "5.00")
	f.simple("p2", "3.00")
	f.order("o1", line("101", "p1", 2), line("102", "p2", 3))
	ctx := context.Background()
	_, err := f.snapshot.SnapshotOrderCosts(ctx, "o1")
	require.NoError(t, err)

	total, err := f.snapshot.ApplyCostOverrides(ctx, "o1", map[string]decimal.Decimal{
		"101": d("15.00"),
		"102": d("9.99"),
	})
	require.NoError(t, err)

	assert.Equal(t, "24.99", cost.Format(total, 2))
	assert.Equal(t, "24.99", f.store.OrderMeta("o1", entity.MetaOrderTotalCost))
	assert.Equal(t, "15.00", f.store.ItemMeta("101", entity.MetaItemTotalCost))
	assert.Equal(t, "9.99", f.store.ItemMeta("102", entity.MetaItemTotalCost))
	// el costo unitario no se toca
	assert.Equal(t, "5.00", f.store.ItemMeta("101", entity.MetaItemCost))
	assert.Equal(t, "3.00", f.store.ItemMeta("102", entity.MetaItemCost))
}

func TestApplyCostOverrides_InvalidaCacheDeLineas(t *testing.T) {
	f := newFixture(cogs.Hooks{})
	f.simple("p1", "5.00")
	f.order("o1", line("101", "p1", 2))
	ctx := context.Background()
	_, err := f.snapshot.SnapshotOrderCosts(ctx, "o1")
	require.NoError(t, err)

	// la consulta deja la línea en caché
	before, err := f.query.OrderCostSummary(ctx, "o1")
	require.NoError(t, err)
	require.Equal(t, "10.00", cost.FormatNull(before.Items[0].LineTotalCost, 2))
	require.Equal(t, 1, f.cache.Len())

	_, err = f.snapshot.ApplyCostOverrides(ctx, "o1", map[string]decimal.Decimal{"101": d("8.00")})
	require.NoError(t, err)

	after, err := f.query.OrderCostSummary(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, "8.00", cost.FormatNull(after.Items[0].LineTotalCost, 2))
	assert.Equal(t, "8.00", cost.FormatNull(after.TotalCost, 2))
}

func TestApplyCostOverrides_RechazaLineaAjena(t *testing.T) {
	f := newFixture(cogs.Hooks{})
	f.simple("p1", "5.00")
	f.order("o1", line("101", "p1", 1))
	f.order("o2", line("201", "p1", 1))
	ctx := context.Background()

	_, err := f.snapshot.ApplyCostOverrides(ctx, "o1", map[string]decimal.Decimal{"201": d("1.00")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.snapshot.ApplyCostOverrides(ctx, "o1", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Equal(t, "", f.store.ItemMeta("201", entity.MetaItemTotalCost))
	assert.Equal(t, "", f.store.OrderMeta("o1", entity.MetaOrderTotalCost))
}

func TestApplyCostOverrides_PersisteValoresNegativosTalCual(t *testing.T) {
	f := newFixture(cogs.Hooks{})
	f.simple("p1", "5.00")
	f.order("o1", line("101", "p1", 1), line("102", "p1", 1))

	total, err := f.snapshot.ApplyCostOverrides(context.Background(), "o1", map[string]decimal.Decimal{
		"101": d("-1.50"),
		"102": d("4.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2.50", cost.Format(total, 2))
	assert.Equal(t, "-1.50", f.store.ItemMeta("101", entity.MetaItemTotalCost))
	assert.Equal(t, "2.50", f.store.OrderMeta("o1", entity.MetaOrderTotalCost))
}

func TestApplyCostOverrides_HookDeEdicion(t *testing.T) {
	f := newFixture(cogs.Hooks{
		OverrideTotal: func(total decimal.Decimal, _ *entity.Order) decimal.Decimal { return total.Mul(d("2")) },
	})
	f.order("o1", line("101", "p1", 1))

	total, err := f.snapshot.ApplyCostOverrides(context.Background(), "o1", map[string]decimal.Decimal{"101": d("4.00")})
	require.NoError(t, err)
	assert.Equal(t, "8.00", cost.Format(total, 2))
}

func TestInitLineItemCost_LineaAgregadaPorAdministrador(t *testing.T) {
	f := newFixture(cogs.Hooks{})
	seedVariable(f)
	f.order("o1", line("i1", "parent", 1))
	f.store.AddOrder(&entity.Order{ID: "o2", Items: []*entity.LineItem{{ID: "i2", ProductID: "parent", VariationID: "v1", Quantity: 1}}})
	ctx := context.Background()

	unit, err := f.snapshot.InitLineItemCost(ctx, "o2", "i2")
	require.NoError(t, err)
	assert.Equal(t, "5.00", cost.FormatNull(unit, 2))
	assert.Equal(t, "5.00", f.store.ItemMeta("i2", entity.MetaItemCost))
	assert.Equal(t, "5.00", f.store.ItemMeta("i2", entity.MetaItemTotalCost))

	// sin rango cacheado el padre no tiene costo
	_, err = f.snapshot.InitLineItemCost(ctx, "o1", "i1")
	require.NoError(t, err)
	assert.Equal(t, "", f.store.ItemMeta("i1", entity.MetaItemCost))
	assert.Equal(t, "0.00", f.store.ItemMeta("i1", entity.MetaItemTotalCost))

	_, err = f.snapshot.InitLineItemCost(ctx, "o1", "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
