// Package rediscache guarda en Redis los metadatos de costo por línea de pedido.
// Las escrituras del motor invalidan las claves explícitamente después de confirmar.
package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costos-api/internal/domain/entity"
	"github.com/jhoicas/Costos-api/internal/domain/repository"
)

const keyPrefix = "cogs:item:"

var _ repository.ItemCostCache = (*ItemCostCache)(nil)

// ItemCostCache implementación de repository.ItemCostCache sobre go-redis.
type ItemCostCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewItemCostCache conecta al servidor indicado. ttl 0 = sin expiración.
func NewItemCostCache(addr, password string, db int, ttl time.Duration) *ItemCostCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &ItemCostCache{client: client, ttl: ttl}
}

func (c *ItemCostCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *ItemCostCache) Close() error {
	return c.client.Close()
}

type payload struct {
	UnitCost      decimal.NullDecimal `json:"unit_cost"`
	LineTotalCost decimal.NullDecimal `json:"line_total_cost"`
}

func key(itemID string) string { return keyPrefix + itemID }

func encode(v *entity.ItemCost) ([]byte, error) {
	return json.Marshal(payload{UnitCost: v.UnitCost, LineTotalCost: v.LineTotalCost})
}

func decode(raw []byte) (*entity.ItemCost, error) {
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &entity.ItemCost{UnitCost: p.UnitCost, LineTotalCost: p.LineTotalCost}, nil
}

func (c *ItemCostCache) Get(ctx context.Context, itemID string) (*entity.ItemCost, bool, error) {
	val, err := c.client.Get(ctx, key(itemID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", itemID, err)
	}
	v, err := decode(val)
	if err != nil {
		// entrada corrupta: se trata como fallo de caché
		return nil, false, nil
	}
	return v, true, nil
}

func (c *ItemCostCache) Set(ctx context.Context, itemID string, value *entity.ItemCost) error {
	if value == nil {
		return nil
	}
	raw, err := encode(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(itemID), raw, c.ttl).Err()
}

func (c *ItemCostCache) Delete(ctx context.Context, itemIDs ...string) error {
	if len(itemIDs) == 0 {
		return nil
	}
	keys := make([]string, len(itemIDs))
	for i, id := range itemIDs {
		keys[i] = key(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Noop caché desactivada (REDIS_ADDR vacío): siempre falla la búsqueda.
type Noop struct{}

var _ repository.ItemCostCache = Noop{}

func (Noop) Get(context.Context, string) (*entity.ItemCost, bool, error) { return nil, false, nil }

func (Noop) Set(context.Context, string, *entity.ItemCost) error { return nil }

func (Noop) Delete(context.Context, ...string) error { return nil }
