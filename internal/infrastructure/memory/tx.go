package memory

import (
	"context"

	"github.com/jhoicas/Costos-api/internal/domain/repository"
)

// TxRunner serializa las transacciones del almacén. Si fn falla se restauran las
// filas de metadatos que fn modificó; las escrituras fuera de una transacción no
// esperan. Las filas base (productos, pedidos, líneas) no son transaccionales.
type TxRunner struct {
	store *Store
}

// NewTxRunner crea el runner sobre el almacén.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

func (r *TxRunner) RunOrders(ctx context.Context, fn func(orders repository.OrderRepository) error) error {
	return r.run(ctx, func() error { return fn(r.store) })
}

func (r *TxRunner) RunCatalog(ctx context.Context, fn func(catalog repository.CatalogRepository) error) error {
	return r.run(ctx, func() error { return fn(r.store) })
}

func (r *TxRunner) run(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := r.store
	s.txMu.Lock()
	defer s.txMu.Unlock()

	journal := []metaUndo{}
	s.mu.Lock()
	s.journal = &journal
	s.mu.Unlock()

	err := fn()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.journal = nil
	if err != nil {
		s.rollback(journal)
		return err
	}
	return nil
}
