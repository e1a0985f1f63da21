package cogs

import (
	"context"

	"github.com/jhoicas/Costos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a ella.
// Garantiza que las líneas y el total de un pedido se escriban juntos o no se escriban.
type TxRunner interface {
	RunOrders(ctx context.Context, fn func(orders repository.OrderRepository) error) error
	RunCatalog(ctx context.Context, fn func(catalog repository.CatalogRepository) error) error
}

// Settings parámetros del motor de costos.
type Settings struct {
	PriceDecimals int32 // precisión de precios del catálogo (típicamente 2–4)
	ChunkSize     int   // tamaño de página de los trabajos reanudables
}

// DefaultChunkSize tamaño de página por defecto de los trabajos por lotes.
const DefaultChunkSize = 500

func (s Settings) chunk() int {
	if s.ChunkSize <= 0 {
		return DefaultChunkSize
	}
	return s.ChunkSize
}
