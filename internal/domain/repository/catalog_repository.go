package repository

import (
	"context"

	"github.com/jhoicas/Costos-api/internal/domain/entity"
)

// ValuationQuery filtro del universo de valoración de inventario.
type ValuationQuery struct {
	Search string // subcadena del título (sin distinguir mayúsculas); vacío = sin filtro
	Limit  int    // 0 = sin límite
	Offset int
}

// CatalogRepository puerto de lectura/escritura del catálogo y sus metadatos de costo.
type CatalogRepository interface {
	// GetProduct devuelve nil, nil si el producto no existe.
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
	// ListVariations devuelve todas las variaciones de un padre variable, por ID.
	ListVariations(ctx context.Context, parentID string) ([]*entity.Product, error)
	// ListVariableProductIDs pagina los padres variables ordenados por creación.
	ListVariableProductIDs(ctx context.Context, limit, offset int) ([]string, error)
	// UpdateProductMeta escribe metadatos planos del producto (upsert por clave).
	UpdateProductMeta(ctx context.Context, productID string, meta map[string]string) error
	// ListValuationProducts productos y variaciones publicados, con stock gestionado y
	// que no son padres variables, ordenados por título (y ID para desempatar).
	// Devuelve además el total de coincidencias sin paginar.
	ListValuationProducts(ctx context.Context, q ValuationQuery) ([]*entity.Product, int, error)
}
