package cogs

import (
	"context"
	"fmt"

	"github.com/jhoicas/Costos-api/internal/domain/entity"
	"github.com/jhoicas/Costos-api/internal/domain/repository"
)

// itemCosts lectura de metadatos de costo por línea a través de la caché, e
// invalidación tras escribir. get solo se usa fuera de transacciones: lo que
// guarda en la caché debe estar confirmado.
type itemCosts struct {
	cache repository.ItemCostCache
}

func (c itemCosts) get(ctx context.Context, orders repository.OrderRepository, itemID string) (*entity.ItemCost, error) {
	if c.cache != nil {
		if v, ok, err := c.cache.Get(ctx, itemID); err == nil && ok {
			return v, nil
		}
	}
	v, err := orders.GetItemCost(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("cogs: leer costo de línea %s: %w", itemID, err)
	}
	if v != nil && c.cache != nil {
		_ = c.cache.Set(ctx, itemID, v)
	}
	return v, nil
}

// invalidate se llama justo después de confirmar la escritura; una lectura de caché
// obsoleta mostraría el valor anterior a la edición.
func (c itemCosts) invalidate(ctx context.Context, itemIDs []string) error {
	if c.cache == nil || len(itemIDs) == 0 {
		return nil
	}
	if err := c.cache.Delete(ctx, itemIDs...); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheInvalidation, err)
	}
	return nil
}
