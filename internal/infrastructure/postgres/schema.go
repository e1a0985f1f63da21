package postgres

import (
	"context"
	"fmt"
)

// schema tablas base de catálogo y pedidos más las tablas planas de metadatos
// donde el motor de costos escribe sus atributos.
const schema = `
CREATE TABLE IF NOT EXISTS products (
    id             TEXT PRIMARY KEY,
    parent_id      TEXT REFERENCES products(id) ON DELETE CASCADE,
    type           TEXT NOT NULL CHECK (type IN ('simple', 'variable', 'variation')),
    title          TEXT NOT NULL DEFAULT '',
    status         TEXT NOT NULL DEFAULT 'publish',
    manage_stock   BOOLEAN NOT NULL DEFAULT FALSE,
    stock_quantity NUMERIC(18,4) NOT NULL DEFAULT 0,
    price          NUMERIC(18,4) NOT NULL DEFAULT 0,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_products_parent ON products(parent_id);
CREATE INDEX IF NOT EXISTS idx_products_valuation ON products(title, id)
    WHERE status = 'publish' AND manage_stock AND type <> 'variable';

CREATE TABLE IF NOT EXISTS product_meta (
    product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
    meta_key   TEXT NOT NULL,
    meta_value TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (product_id, meta_key)
);

CREATE TABLE IF NOT EXISTS orders (
    id         TEXT PRIMARY KEY,
    kind       TEXT NOT NULL CHECK (kind IN ('order', 'refund')),
    parent_id  TEXT REFERENCES orders(id) ON DELETE CASCADE,
    status     TEXT NOT NULL DEFAULT 'completed',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_orders_kind_created ON orders(kind, created_at, id);
CREATE INDEX IF NOT EXISTS idx_orders_parent ON orders(parent_id) WHERE kind = 'refund';

CREATE TABLE IF NOT EXISTS order_meta (
    order_id   TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
    meta_key   TEXT NOT NULL,
    meta_value TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (order_id, meta_key)
);

CREATE TABLE IF NOT EXISTS order_items (
    id               TEXT PRIMARY KEY,
    order_id         TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
    product_id       TEXT,
    variation_id     TEXT,
    quantity         INTEGER NOT NULL DEFAULT 1,
    line_total       NUMERIC(18,4) NOT NULL DEFAULT 0,
    refunded_item_id TEXT,
    position         BIGSERIAL
);
CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id, position);
CREATE INDEX IF NOT EXISTS idx_order_items_refunded ON order_items(refunded_item_id) WHERE refunded_item_id IS NOT NULL;

CREATE TABLE IF NOT EXISTS order_item_meta (
    item_id    TEXT NOT NULL REFERENCES order_items(id) ON DELETE CASCADE,
    meta_key   TEXT NOT NULL,
    meta_value TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (item_id, meta_key)
);

CREATE TABLE IF NOT EXISTS options (
    name  TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// Migrate crea las tablas si no existen. Idempotente.
func Migrate(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schema); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
