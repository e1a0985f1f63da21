// Package bootstrap arma los casos de uso a partir de la configuración. Lo comparten
// el servidor HTTP y la CLI de trabajos.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Costos-api/internal/application/cogs"
	"github.com/jhoicas/Costos-api/internal/application/valuation"
	"github.com/jhoicas/Costos-api/internal/domain/repository"
	"github.com/jhoicas/Costos-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Costos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Costos-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Costos-api/internal/infrastructure/rediscache"
	"github.com/jhoicas/Costos-api/pkg/config"
	"github.com/jhoicas/Costos-api/pkg/logger"
)

// Container casos de uso listos para usar y los recursos que hay que cerrar.
type Container struct {
	Resolver  *cogs.CostResolver
	Snapshot  *cogs.SnapshotUseCase
	Refunds   *cogs.RefundUseCase
	Query     *cogs.CostQueryUseCase
	Backfill  *cogs.BackfillJob
	Migration *cogs.VariableCostMigration
	Valuation *valuation.UseCase

	// Pool es nil con STORE_DRIVER=memory.
	Pool *pgxpool.Pool

	closers []func()
}

// Close libera conexiones en orden inverso a su apertura.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

type stores struct {
	catalog repository.CatalogRepository
	orders  repository.OrderRepository
	options repository.OptionRepository
	tx      cogs.TxRunner
}

// Build conecta el almacenamiento y la caché elegidos en cfg y construye los casos de uso.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	c := &Container{}

	var st stores
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		mem := memory.NewStore()
		st = stores{catalog: mem, orders: mem, options: mem, tx: memory.NewTxRunner(mem)}
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.Name)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		c.Pool = pool
		c.closers = append(c.closers, pool.Close)
		st = stores{
			catalog: postgres.NewCatalogRepository(pool),
			orders:  postgres.NewOrderRepository(pool),
			options: postgres.NewOptionRepository(pool),
			tx:      postgres.NewTxRunner(pool),
		}
	}

	var cache repository.ItemCostCache = rediscache.Noop{}
	if cfg.Redis.Enabled() {
		rc := rediscache.NewItemCostCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.ItemCacheTTL)
		if err := rc.Ping(ctx); err != nil {
			// sin Redis el motor sigue funcionando contra la base
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, caché de líneas desactivada")
			_ = rc.Close()
		} else {
			cache = rc
			c.closers = append(c.closers, func() { _ = rc.Close() })
		}
	}

	settings := cogs.Settings{
		PriceDecimals: int32(cfg.COGS.PriceDecimals),
		ChunkSize:     cfg.COGS.BackfillChunkSize,
	}
	hooks := cogs.Hooks{}

	c.Resolver = cogs.NewCostResolver(st.catalog)
	c.Snapshot = cogs.NewSnapshotUseCase(st.tx, c.Resolver, cache, hooks, settings)
	c.Refunds = cogs.NewRefundUseCase(st.tx, cache, hooks, settings)
	c.Query = cogs.NewCostQueryUseCase(st.orders, cache)
	c.Backfill = cogs.NewBackfillJob(st.tx, st.orders, st.options, c.Snapshot, c.Refunds, settings, log.Component("apply-costs"))
	c.Migration = cogs.NewVariableCostMigration(st.tx, st.catalog, st.options, settings, log.Component("variable-costs"))
	c.Valuation = valuation.NewUseCase(st.catalog, c.Resolver,
		infrapdf.NewMarotoPDFGenerator(cfg.App.Name, settings.PriceDecimals),
		valuation.Settings{PriceDecimals: settings.PriceDecimals, PerPage: cfg.COGS.ValuationPageSize})
	return c, nil
}
