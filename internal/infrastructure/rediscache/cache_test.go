package rediscache

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Costos-api/internal/domain/entity"
)

func TestEncode_ConservaCostoVacioYPrecision(t *testing.T) {
	in := &entity.ItemCost{LineTotalCost: decimal.NewNullDecimal(decimal.RequireFromString("37.50"))}

	raw, err := encode(in)
	require.NoError(t, err)
	out, err := decode(raw)
	require.NoError(t, err)

	assert.False(t, out.UnitCost.Valid, "un costo no definido sigue sin definir")
	require.True(t, out.LineTotalCost.Valid)
	assert.Equal(t, "37.50", out.LineTotalCost.Decimal.StringFixed(2))
}

func TestKey_UsaPrefijo(t *testing.T) {
	assert.Equal(t, "cogs:item:i1", key("i1"))
}

func TestNoop_SiempreFalla(t *testing.T) {
	var c Noop
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "i1", &entity.ItemCost{}))

	v, ok, err := c.Get(ctx, "i1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)
	assert.NoError(t, c.Delete(ctx, "i1", "i2"))
}
