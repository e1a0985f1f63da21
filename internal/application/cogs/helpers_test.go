package cogs_test

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costos-api/internal/application/cogs"
	"github.com/jhoicas/Costos-api/internal/domain/entity"
	"github.com/jhoicas/Costos-api/internal/domain/repository"
	"github.com/jhoicas/Costos-api/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func nd(s string) decimal.NullDecimal { return decimal.NewNullDecimal(d(s)) }

type fixture struct {
	store    *memory.Store
	tx       cogs.TxRunner
	cache    *memory.ItemCostCache
	settings cogs.Settings
	resolver *cogs.CostResolver
	snapshot *cogs.SnapshotUseCase
	refunds  *cogs.RefundUseCase
	query    *cogs.CostQueryUseCase
}

func newFixture(hooks cogs.Hooks) *fixture {
	store := memory.NewStore()
	return newFixtureWith(store, memory.NewTxRunner(store), hooks, 500)
}

func newFixtureWith(store *memory.Store, tx cogs.TxRunner, hooks cogs.Hooks, chunk int) *fixture {
	f := &fixture{
		store:    store,
		tx:       tx,
		cache:    memory.NewItemCostCache(),
		settings: cogs.Settings{PriceDecimals: 2, ChunkSize: chunk},
	}
	f.resolver = cogs.NewCostResolver(store)
	f.snapshot = cogs.NewSnapshotUseCase(tx, f.resolver, f.cache, hooks, f.settings)
	f.refunds = cogs.NewRefundUseCase(tx, f.cache, hooks, f.settings)
	f.query = cogs.NewCostQueryUseCase(store, f.cache)
	return f
}

func (f *fixture) backfill() *cogs.BackfillJob {
	return cogs.NewBackfillJob(f.tx, f.store, f.store, f.snapshot, f.refunds, f.settings, zerolog.Nop())
}

func (f *fixture) simple(id, costValue string) {
	p := &entity.Product{ID: id, Title: id, Type: entity.ProductTypeSimple, Status: entity.ProductStatusPublish}
	if costValue != "" {
		p.Cost = nd(costValue)
	}
	f.store.AddProduct(p)
}

func (f *fixture) order(id string, items ...*entity.LineItem) {
	f.store.AddOrder(&entity.Order{ID: id, Status: "completed", Items: items})
}

func line(id, productID string, qty int) *entity.LineItem {
	return &entity.LineItem{ID: id, ProductID: productID, Quantity: qty, LineTotal: decimal.NewFromInt(int64(qty) * 10)}
}

// refundLine línea de reembolso que devuelve qty unidades de la línea original.
func refundLine(id, originalID string, qty int) *entity.LineItem {
	return &entity.LineItem{ID: id, RefundedItemID: originalID, Quantity: -qty, LineTotal: decimal.NewFromInt(int64(-qty) * 10)}
}

var errDB = errors.New("conexión perdida")

// failingTx entrega repositorios que fallan al cargar un pedido concreto.
type failingTx struct {
	cogs.TxRunner
	failOrder string
}

func (f failingTx) RunOrders(ctx context.Context, fn func(repository.OrderRepository) error) error {
	return f.TxRunner.RunOrders(ctx, func(orders repository.OrderRepository) error {
		return fn(failingOrders{OrderRepository: orders, failOrder: f.failOrder})
	})
}

type failingOrders struct {
	repository.OrderRepository
	failOrder string
}

func (f failingOrders) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	if id == f.failOrder {
		return nil, errDB
	}
	return f.OrderRepository.GetOrder(ctx, id)
}
