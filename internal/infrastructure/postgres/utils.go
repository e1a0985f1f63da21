package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Costos-api/internal/domain"
)

// isUndefinedTable verifica si un error es por tabla inexistente (42P01): falta correr Migrate.
func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42P01"
	}
	return false
}

// wrap agrega contexto y una pista cuando el esquema no está creado.
func wrap(op string, err error) error {
	if isUndefinedTable(err) {
		return fmt.Errorf("%s: esquema no inicializado (ejecute cogs migrate-schema): %w", op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// metaTable tabla plana de metadatos (dueño, clave, valor).
type metaTable struct {
	name   string
	owner  string // columna del dueño
	parent string // tabla del dueño
}

var (
	productMeta = metaTable{name: "product_meta", owner: "product_id", parent: "products"}
	orderMeta   = metaTable{name: "order_meta", owner: "order_id", parent: "orders"}
	itemMeta    = metaTable{name: "order_item_meta", owner: "item_id", parent: "order_items"}
)

// upsert escribe las claves en un solo batch. El dueño debe existir.
func (t metaTable) upsert(ctx context.Context, q Querier, ownerID string, meta map[string]string) error {
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+t.parent+` WHERE id = $1)`, ownerID).Scan(&exists); err != nil {
		return wrap("check "+t.parent, err)
	}
	if !exists {
		return fmt.Errorf("%s %s: %w", t.parent, ownerID, domain.ErrNotFound)
	}
	if len(meta) == 0 {
		return nil
	}
	query := `INSERT INTO ` + t.name + ` (` + t.owner + `, meta_key, meta_value) VALUES ($1, $2, $3)
		ON CONFLICT (` + t.owner + `, meta_key) DO UPDATE SET meta_value = EXCLUDED.meta_value`
	b := &pgx.Batch{}
	for _, k := range sortedKeys(meta) {
		b.Queue(query, ownerID, k, meta[k])
	}
	if err := q.SendBatch(ctx, b).Close(); err != nil {
		return wrap("upsert "+t.name, err)
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// likePattern escapa comodines de LIKE para buscar la subcadena literal.
func likePattern(search string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(search) + "%"
}
