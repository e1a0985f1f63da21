package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Costos-api/internal/application/cogs"
	"github.com/jhoicas/Costos-api/internal/domain/repository"
)

var _ cogs.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunOrders inicia una transacción con el repositorio de pedidos atado a ella.
func (r *TxRunner) RunOrders(ctx context.Context, fn func(orders repository.OrderRepository) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewOrderRepository(tx))
	})
}

// RunCatalog inicia una transacción con el repositorio de catálogo atado a ella.
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(catalog repository.CatalogRepository) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewCatalogRepository(tx))
	})
}

// run hace Commit si fn no falla; en cualquier otro caso Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
