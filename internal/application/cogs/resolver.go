package cogs

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costos-api/internal/domain"
	"github.com/jhoicas/Costos-api/internal/domain/cost"
	"github.com/jhoicas/Costos-api/internal/domain/entity"
	"github.com/jhoicas/Costos-api/internal/domain/repository"
)

// ProductRef referencia a un producto: objeto ya cargado o solo su ID.
// Checkout y la API suelen tener únicamente el ID.
type ProductRef struct {
	ID      string
	Product *entity.Product
}

// ByID referencia por identificador.
func ByID(id string) ProductRef { return ProductRef{ID: id} }

// ByProduct referencia a un producto ya cargado.
func ByProduct(p *entity.Product) ProductRef { return ProductRef{Product: p} }

// CostResolver resuelve el costo unitario vigente de un producto aplicando la herencia
// de productos variables.
type CostResolver struct {
	catalog repository.CatalogRepository
}

// NewCostResolver construye el resolvedor.
func NewCostResolver(catalog repository.CatalogRepository) *CostResolver {
	return &CostResolver{catalog: catalog}
}

// Resolve devuelve el costo efectivo del producto; inválido si no tiene costo.
// Retorna domain.ErrNotFound si el producto no existe.
func (r *CostResolver) Resolve(ctx context.Context, ref ProductRef) (decimal.NullDecimal, error) {
	src, err := r.Source(ctx, ref)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return src.Effective(), nil
}

// Source como Resolve pero indicando la procedencia del costo.
func (r *CostResolver) Source(ctx context.Context, ref ProductRef) (cost.Source, error) {
	p, err := r.load(ctx, ref)
	if err != nil {
		return cost.Source{}, err
	}
	var parent *entity.Product
	if cost.NeedsParent(p) {
		parent, err = r.catalog.GetProduct(ctx, p.ParentID)
		if err != nil {
			return cost.Source{}, fmt.Errorf("cogs: cargar padre %s: %w", p.ParentID, err)
		}
	}
	return cost.Classify(p, parent), nil
}

// ResolveMany resuelve varios productos ya cargados; cada padre se consulta una sola vez.
func (r *CostResolver) ResolveMany(ctx context.Context, products []*entity.Product) ([]decimal.NullDecimal, error) {
	parents := make(map[string]*entity.Product)
	out := make([]decimal.NullDecimal, len(products))
	for i, p := range products {
		var parent *entity.Product
		if cost.NeedsParent(p) {
			cached, ok := parents[p.ParentID]
			if !ok {
				var err error
				cached, err = r.catalog.GetProduct(ctx, p.ParentID)
				if err != nil {
					return nil, fmt.Errorf("cogs: cargar padre %s: %w", p.ParentID, err)
				}
				parents[p.ParentID] = cached
			}
			parent = cached
		}
		out[i] = cost.Classify(p, parent).Effective()
	}
	return out, nil
}

// VariantCostRange recorre todas las variaciones del padre y devuelve el mínimo y
// máximo de sus costos efectivos. O(variaciones), sin caché.
func (r *CostResolver) VariantCostRange(ctx context.Context, ref ProductRef) (min, max decimal.NullDecimal, err error) {
	parent, err := r.load(ctx, ref)
	if err != nil {
		return min, max, err
	}
	if !parent.IsVariable() {
		return min, max, domain.ErrNotVariable
	}
	variations, err := r.catalog.ListVariations(ctx, parent.ID)
	if err != nil {
		return min, max, fmt.Errorf("cogs: listar variaciones: %w", err)
	}
	min, max = variantRange(parent, variations)
	return min, max, nil
}

// RefreshVariantCostRange recalcula y persiste las cotas cacheadas del padre variable.
func (r *CostResolver) RefreshVariantCostRange(ctx context.Context, parentID string, decimals int32) (min, max decimal.NullDecimal, err error) {
	min, max, err = r.VariantCostRange(ctx, ByID(parentID))
	if err != nil {
		return min, max, err
	}
	if err := r.catalog.UpdateProductMeta(ctx, parentID, rangeMeta(min, max, decimals)); err != nil {
		return min, max, fmt.Errorf("cogs: guardar rango de costos: %w", err)
	}
	return min, max, nil
}

func (r *CostResolver) load(ctx context.Context, ref ProductRef) (*entity.Product, error) {
	if ref.Product != nil {
		return ref.Product, nil
	}
	if ref.ID == "" {
		return nil, domain.ErrInvalidInput
	}
	p, err := r.catalog.GetProduct(ctx, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("cogs: cargar producto %s: %w", ref.ID, err)
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func variantRange(parent *entity.Product, variations []*entity.Product) (min, max decimal.NullDecimal) {
	costs := make([]decimal.NullDecimal, 0, len(variations))
	for _, v := range variations {
		costs = append(costs, cost.Classify(v, parent).Effective())
	}
	return cost.Range(costs)
}

// rangeMeta el costo propio de un padre variable es, por convención, el mínimo.
func rangeMeta(min, max decimal.NullDecimal, decimals int32) map[string]string {
	return map[string]string{
		entity.MetaProductCost:           cost.FormatNull(roundNull(min, decimals), decimals),
		entity.MetaProductMinVariantCost: cost.FormatNull(roundNull(min, decimals), decimals),
		entity.MetaProductMaxVariantCost: cost.FormatNull(roundNull(max, decimals), decimals),
	}
}

func roundNull(n decimal.NullDecimal, decimals int32) decimal.NullDecimal {
	if !n.Valid {
		return n
	}
	return decimal.NewNullDecimal(cost.Round(n.Decimal, decimals))
}
