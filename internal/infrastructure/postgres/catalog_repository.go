package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Costos-api/internal/domain/cost"
	"github.com/jhoicas/Costos-api/internal/domain/entity"
	"github.com/jhoicas/Costos-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo implementación del puerto CatalogRepository sobre PostgreSQL (usable con pool o tx).
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// productSelect producto con sus metadatos de costo pivotados a columnas.
const productSelect = `
	SELECT p.id, COALESCE(p.parent_id, ''), p.type, p.title, p.status, p.manage_stock,
	       p.stock_quantity, p.price, p.created_at, p.updated_at,
	       COALESCE(m.cost, ''), COALESCE(m.default_cost, ''), COALESCE(m.min_cost, ''),
	       COALESCE(m.max_cost, ''), COALESCE(m.uses_default, '')
	FROM products p
	LEFT JOIN LATERAL (
		SELECT
			MAX(meta_value) FILTER (WHERE meta_key = '` + entity.MetaProductCost + `')           AS cost,
			MAX(meta_value) FILTER (WHERE meta_key = '` + entity.MetaProductDefaultCost + `')    AS default_cost,
			MAX(meta_value) FILTER (WHERE meta_key = '` + entity.MetaProductMinVariantCost + `') AS min_cost,
			MAX(meta_value) FILTER (WHERE meta_key = '` + entity.MetaProductMaxVariantCost + `') AS max_cost,
			MAX(meta_value) FILTER (WHERE meta_key = '` + entity.MetaProductUsesDefault + `')    AS uses_default
		FROM product_meta WHERE product_id = p.id
	) m ON TRUE`

func scanProduct(row scanner) (*entity.Product, error) {
	var p entity.Product
	var costRaw, defRaw, minRaw, maxRaw, usesDefault string
	if err := row.Scan(
		&p.ID, &p.ParentID, &p.Type, &p.Title, &p.Status, &p.ManageStock,
		&p.StockQuantity, &p.Price, &p.CreatedAt, &p.UpdatedAt,
		&costRaw, &defRaw, &minRaw, &maxRaw, &usesDefault,
	); err != nil {
		return nil, err
	}
	p.Cost = cost.Parse(costRaw)
	p.DefaultCost = cost.Parse(defRaw)
	p.MinVariantCost = cost.Parse(minRaw)
	p.MaxVariantCost = cost.Parse(maxRaw)
	p.UsesDefaultCost = usesDefault == entity.MetaYes
	return &p, nil
}

func (r *CatalogRepo) listProducts(ctx context.Context, op, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// GetProduct obtiene un producto por ID.
func (r *CatalogRepo) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, productSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get product", err)
	}
	return p, nil
}

// ListVariations variaciones de un padre, por ID.
func (r *CatalogRepo) ListVariations(ctx context.Context, parentID string) ([]*entity.Product, error) {
	return r.listProducts(ctx, "list variations",
		productSelect+` WHERE p.parent_id = $1 AND p.type = 'variation' ORDER BY p.id`, parentID)
}

// ListVariableProductIDs página de padres variables por fecha de creación.
func (r *CatalogRepo) ListVariableProductIDs(ctx context.Context, limit, offset int) ([]string, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id FROM products WHERE type = 'variable' ORDER BY created_at, id LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, wrap("list variable products", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// UpdateProductMeta escribe metadatos del producto.
func (r *CatalogRepo) UpdateProductMeta(ctx context.Context, productID string, meta map[string]string) error {
	return productMeta.upsert(ctx, r.q, productID, meta)
}

const valuationWhere = `
	WHERE p.status = 'publish' AND p.manage_stock AND p.type <> 'variable'
	  AND ($1 = '' OR p.title ILIKE $2)`

// ListValuationProducts universo de valoración ordenado por título. Limit 0 = sin límite.
func (r *CatalogRepo) ListValuationProducts(ctx context.Context, q repository.ValuationQuery) ([]*entity.Product, int, error) {
	pattern := likePattern(q.Search)
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM products p`+valuationWhere, q.Search, pattern).Scan(&total); err != nil {
		return nil, 0, wrap("count valuation products", err)
	}
	list, err := r.listProducts(ctx, "list valuation products",
		productSelect+valuationWhere+` ORDER BY p.title, p.id LIMIT NULLIF($3, 0) OFFSET $4`,
		q.Search, pattern, q.Limit, q.Offset)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
