package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Costos-api/internal/domain/entity"
	"github.com/jhoicas/Costos-api/internal/domain/repository"
	"github.com/jhoicas/Costos-api/internal/infrastructure/memory"
)

func published(id, title string, typ string) *entity.Product {
	return &entity.Product{ID: id, Title: title, Type: typ, Status: entity.ProductStatusPublish, ManageStock: true}
}

func TestListValuationProducts_FiltraYOrdenaPorTitulo(t *testing.T) {
	s := memory.NewStore()
	s.AddProduct(published("p2", "Zapato", entity.ProductTypeSimple))
	s.AddProduct(published("p1", "Árbol de Navidad", entity.ProductTypeSimple))
	s.AddProduct(published("parent", "Camisa", entity.ProductTypeVariable))
	v := published("v1", "Camisa - Roja", entity.ProductTypeVariation)
	v.ParentID = "parent"
	s.AddProduct(v)
	draft := published("d1", "Borrador", entity.ProductTypeSimple)
	draft.Status = "draft"
	s.AddProduct(draft)
	noStock := published("n1", "Sin stock", entity.ProductTypeSimple)
	noStock.ManageStock = false
	s.AddProduct(noStock)

	list, total, err := s.ListValuationProducts(context.Background(), repository.ValuationQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, list, 3)
	assert.Equal(t, "v1", list[0].ID)
	assert.Equal(t, "p2", list[1].ID)
	assert.Equal(t, "p1", list[2].ID)
}

func TestListValuationProducts_BusquedaSinDistinguirMayusculasYPaginada(t *testing.T) {
	s := memory.NewStore()
	s.AddProduct(published("a", "Camisa Azul", entity.ProductTypeSimple))
	s.AddProduct(published("b", "CAMISA blanca", entity.ProductTypeSimple))
	s.AddProduct(published("c", "Pantalón", entity.ProductTypeSimple))

	list, total, err := s.ListValuationProducts(context.Background(), repository.ValuationQuery{Search: "camisa", Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].ID)
}

func TestListOrderIDs_SoloSinCostoTotal(t *testing.T) {
	s := memory.NewStore()
	s.AddOrder(&entity.Order{ID: "o1"})
	s.AddOrder(&entity.Order{ID: "o2", TotalCost: decimal.NewNullDecimal(decimal.NewFromInt(5))})
	s.AddOrder(&entity.Order{ID: "o3"})
	s.AddRefund(&entity.Refund{ID: "r1", OrderID: "o1"})

	ctx := context.Background()
	all, err := s.ListOrderIDs(ctx, repository.OrderQuery{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"o1", "o2", "o3"}, all)

	missing, err := s.ListOrderIDs(ctx, repository.OrderQuery{Limit: 10, MissingTotalCost: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"o1", "o3"}, missing)

	tail, err := s.ListOrderIDs(ctx, repository.OrderQuery{Offset: 2, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"o3"}, tail)
}

func TestTxRunner_RestauraMetadatosSiFalla(t *testing.T) {
	s := memory.NewStore()
	s.AddOrder(&entity.Order{ID: "o1", Items: []*entity.LineItem{{ID: "i1", Quantity: 1}}})
	tx := memory.NewTxRunner(s)

	boom := errors.New("boom")
	err := tx.RunOrders(context.Background(), func(orders repository.OrderRepository) error {
		require.NoError(t, orders.UpdateItemMeta(context.Background(), "i1", map[string]string{entity.MetaItemCost: "3.00"}))
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "", s.ItemMeta("i1", entity.MetaItemCost))
}

func TestTxRunner_RestauraSoloFilasModificadas(t *testing.T) {
	s := memory.NewStore()
	s.AddOrder(&entity.Order{ID: "o1", Items: []*entity.LineItem{
		{ID: "i1", Quantity: 1, UnitCost: decimal.NewNullDecimal(decimal.RequireFromString("1"))},
		{ID: "i2", Quantity: 1},
	}})
	tx := memory.NewTxRunner(s)
	ctx := context.Background()

	require.NoError(t, tx.RunOrders(ctx, func(orders repository.OrderRepository) error {
		return orders.UpdateItemMeta(ctx, "i2", map[string]string{entity.MetaItemCost: "2.00"})
	}))

	boom := errors.New("boom")
	err := tx.RunOrders(ctx, func(orders repository.OrderRepository) error {
		require.NoError(t, orders.UpdateItemMeta(ctx, "i1", map[string]string{entity.MetaItemCost: "5.00"}))
		require.NoError(t, orders.UpdateItemMeta(ctx, "i1", map[string]string{entity.MetaItemTotalCost: "5.00"}))
		require.NoError(t, orders.UpdateOrderMeta(ctx, "o1", map[string]string{entity.MetaOrderTotalCost: "5.00"}))
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "1", s.ItemMeta("i1", entity.MetaItemCost))
	assert.Equal(t, "", s.ItemMeta("i1", entity.MetaItemTotalCost))
	assert.Equal(t, "", s.OrderMeta("o1", entity.MetaOrderTotalCost))
	assert.Equal(t, "2.00", s.ItemMeta("i2", entity.MetaItemCost))
}

func TestSumRefundedItemCost_SumaLineasQueReferencian(t *testing.T) {
	s := memory.NewStore()
	s.AddOrder(&entity.Order{ID: "o1", Items: []*entity.LineItem{{ID: "i1", Quantity: 3}}})
	s.AddRefund(&entity.Refund{ID: "r1", OrderID: "o1", Items: []*entity.LineItem{{
		ID: "ri1", Quantity: -1, RefundedItemID: "i1",
		LineTotalCost: decimal.NewNullDecimal(decimal.RequireFromString("-4.00")),
	}}})
	s.AddRefund(&entity.Refund{ID: "r2", OrderID: "o1", Items: []*entity.LineItem{{
		ID: "ri2", Quantity: -1, RefundedItemID: "i1",
		LineTotalCost: decimal.NewNullDecimal(decimal.RequireFromString("-4.00")),
	}}})

	sum, err := s.SumRefundedItemCost(context.Background(), "i1")
	require.NoError(t, err)
	assert.Equal(t, "-8", sum.String())
}
