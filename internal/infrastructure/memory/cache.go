package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Costos-api/internal/domain/entity"
)

// ItemCostCache caché de costos de línea en proceso, sin expiración.
type ItemCostCache struct {
	mu    sync.RWMutex
	items map[string]entity.ItemCost
}

// NewItemCostCache crea la caché vacía.
func NewItemCostCache() *ItemCostCache {
	return &ItemCostCache{items: make(map[string]entity.ItemCost)}
}

func (c *ItemCostCache) Get(_ context.Context, itemID string) (*entity.ItemCost, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[itemID]
	if !ok {
		return nil, false, nil
	}
	return &v, true, nil
}

func (c *ItemCostCache) Set(_ context.Context, itemID string, value *entity.ItemCost) error {
	if value == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[itemID] = *value
	return nil
}

func (c *ItemCostCache) Delete(_ context.Context, itemIDs ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range itemIDs {
		delete(c.items, id)
	}
	return nil
}

// Len cantidad de entradas en caché.
func (c *ItemCostCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
