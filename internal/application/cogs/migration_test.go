package cogs_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Costos-api/internal/application/cogs"
	"github.com/jhoicas/Costos-api/internal/domain/entity"
)

func TestVariableCostMigration_MarcaVariacionesYRecalculaRango(t *testing.T) {
	f := newFixture(cogs.Hooks{})
	f.store.AddProduct(&entity.Product{ID: "camisa", Type: entity.ProductTypeVariable, DefaultCost: nd("5.00")})
	f.store.AddProduct(&entity.Product{ID: "camisa-s", ParentID: "camisa", Type: entity.ProductTypeVariation})
	f.store.AddProduct(&entity.Product{ID: "camisa-m", ParentID: "camisa", Type: entity.ProductTypeVariation, Cost: nd("7.00")})
	f.store.AddProduct(&entity.Product{ID: "gorra", Type: entity.ProductTypeVariable})
	f.store.AddProduct(&entity.Product{ID: "gorra-u", ParentID: "gorra", Type: entity.ProductTypeVariation})
	ctx := context.Background()

	job := cogs.NewVariableCostMigration(f.tx, f.store, f.store, cogs.Settings{PriceDecimals: 2, ChunkSize: 1}, zerolog.Nop())
	res, err := job.Run(ctx, cogs.RunOptions{})
	require.NoError(t, err)

	assert.True(t, res.Completed)
	assert.Equal(t, 2, res.Processed)

	assert.Equal(t, entity.MetaYes, f.store.ProductMeta("camisa-s", entity.MetaProductUsesDefault))
	assert.Equal(t, "5.00", f.store.ProductMeta("camisa-s", entity.MetaProductCost))
	assert.Equal(t, entity.MetaNo, f.store.ProductMeta("camisa-m", entity.MetaProductUsesDefault))
	assert.Equal(t, entity.MetaNo, f.store.ProductMeta("gorra-u", entity.MetaProductUsesDefault))

	assert.Equal(t, "5.00", f.store.ProductMeta("camisa", entity.MetaProductMinVariantCost))
	assert.Equal(t, "7.00", f.store.ProductMeta("camisa", entity.MetaProductMaxVariantCost))
	assert.Equal(t, "5.00", f.store.ProductMeta("camisa", entity.MetaProductCost))
	assert.Equal(t, "", f.store.ProductMeta("gorra", entity.MetaProductMinVariantCost))

	_, found := f.store.Option(entity.OptionVariableProductOffset)
	assert.False(t, found)
}

func TestVariableCostMigration_StepAvanzaCursor(t *testing.T) {
	f := newFixture(cogs.Hooks{})
	f.store.AddProduct(&entity.Product{ID: "a", Type: entity.ProductTypeVariable})
	f.store.AddProduct(&entity.Product{ID: "b", Type: entity.ProductTypeVariable})
	ctx := context.Background()

	job := cogs.NewVariableCostMigration(f.tx, f.store, f.store, cogs.Settings{PriceDecimals: 2, ChunkSize: 1}, zerolog.Nop())
	step, err := job.Step(ctx)
	require.NoError(t, err)
	assert.True(t, step.More)
	offset, found := f.store.Option(entity.OptionVariableProductOffset)
	require.True(t, found)
	assert.Equal(t, 1, offset)

	step, err = job.Step(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, step.Offset)
	assert.True(t, step.More)

	step, err = job.Step(ctx)
	require.NoError(t, err)
	assert.False(t, step.More)
	_, found = f.store.Option(entity.OptionVariableProductOffset)
	assert.False(t, found)
}
