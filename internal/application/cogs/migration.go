package cogs

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Costos-api/internal/domain"
	"github.com/jhoicas/Costos-api/internal/domain/cost"
	"github.com/jhoicas/Costos-api/internal/domain/entity"
	"github.com/jhoicas/Costos-api/internal/domain/repository"
)

const migrationJobName = "variable-costs"

// VariableCostMigration recorre los productos variables por páginas y normaliza sus
// variaciones: las que no tienen costo propio y cuyo padre tiene costo por defecto
// quedan marcadas como usuarias del costo por defecto (y lo copian); el resto queda
// marcado "no". Después recalcula el rango min/max cacheado del padre.
// Mismo protocolo de cursor que BackfillJob.
type VariableCostMigration struct {
	tx       TxRunner
	catalog  repository.CatalogRepository
	cursor   cursor
	chunk    int
	decimals int32
	log      zerolog.Logger
	running  exclusive
}

// NewVariableCostMigration construye el trabajo.
func NewVariableCostMigration(
	tx TxRunner,
	catalog repository.CatalogRepository,
	options repository.OptionRepository,
	settings Settings,
	log zerolog.Logger,
) *VariableCostMigration {
	return &VariableCostMigration{
		tx:       tx,
		catalog:  catalog,
		cursor:   cursor{options: options, name: entity.OptionVariableProductOffset},
		chunk:    settings.chunk(),
		decimals: settings.PriceDecimals,
		log:      log.With().Str("job", migrationJobName).Logger(),
	}
}

// Step procesa la siguiente página de productos variables.
func (m *VariableCostMigration) Step(ctx context.Context) (StepResult, error) {
	release, err := m.running.acquire(migrationJobName)
	if err != nil {
		return StepResult{}, err
	}
	defer release()

	offset, err := m.cursor.offset(ctx)
	if err != nil {
		return StepResult{}, m.abort(0, "", err)
	}
	ids, err := m.catalog.ListVariableProductIDs(ctx, m.chunk, offset)
	if err != nil {
		return StepResult{Offset: offset}, m.abort(offset, "", fmt.Errorf("listar productos variables: %w", err))
	}

	res := StepResult{Offset: offset, Fetched: len(ids)}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return res, m.abort(offset, id, err)
		}
		err := m.tx.RunCatalog(ctx, func(catalog repository.CatalogRepository) error {
			return m.migrateProduct(ctx, catalog, id)
		})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return res, m.abort(offset, id, err)
		}
		res.Processed++
	}
	res.More = len(ids) == m.chunk

	if res.More {
		err = m.cursor.save(ctx, offset+m.chunk)
	} else {
		err = m.cursor.clear(ctx)
	}
	if err != nil {
		return res, m.abort(offset, "", err)
	}

	m.log.Info().
		Int("offset", offset).
		Int("fetched", res.Fetched).
		Int("processed", res.Processed).
		Bool("more", res.More).
		Msg("página de productos variables procesada")
	return res, nil
}

// Run encadena Steps hasta terminar o agotar opts.MaxPages.
func (m *VariableCostMigration) Run(ctx context.Context, opts RunOptions) (RunResult, error) {
	res, err := runPages(ctx, opts, m.Step)
	ev := m.log.Info()
	if err != nil {
		ev = m.log.Error().Err(err)
	}
	ev.Int("pages", res.Pages).
		Int("products_updated", res.Processed).
		Bool("completed", res.Completed).
		Msg("migración de costos de productos variables")
	return res, err
}

func (m *VariableCostMigration) migrateProduct(ctx context.Context, catalog repository.CatalogRepository, parentID string) error {
	parent, err := catalog.GetProduct(ctx, parentID)
	if err != nil {
		return fmt.Errorf("cargar producto %s: %w", parentID, err)
	}
	if parent == nil || !parent.IsVariable() {
		return domain.ErrNotFound
	}
	variations, err := catalog.ListVariations(ctx, parentID)
	if err != nil {
		return fmt.Errorf("listar variaciones de %s: %w", parentID, err)
	}

	for _, v := range variations {
		meta := map[string]string{entity.MetaProductUsesDefault: entity.MetaNo}
		if v.UsesDefaultCost || (!v.Cost.Valid && parent.DefaultCost.Valid) {
			meta[entity.MetaProductUsesDefault] = entity.MetaYes
			v.UsesDefaultCost = true
			if !v.Cost.Valid && parent.DefaultCost.Valid {
				meta[entity.MetaProductCost] = cost.FormatNull(roundNull(parent.DefaultCost, m.decimals), m.decimals)
				v.Cost = parent.DefaultCost
			}
		} else {
			v.UsesDefaultCost = false
		}
		if err := catalog.UpdateProductMeta(ctx, v.ID, meta); err != nil {
			return fmt.Errorf("guardar variación %s: %w", v.ID, err)
		}
	}

	min, max := variantRange(parent, variations)
	if err := catalog.UpdateProductMeta(ctx, parentID, rangeMeta(min, max, m.decimals)); err != nil {
		return fmt.Errorf("guardar rango de %s: %w", parentID, err)
	}
	return nil
}

func (m *VariableCostMigration) abort(offset int, id string, err error) error {
	m.log.Error().Err(err).
		Int("offset", offset).
		Str("product_id", id).
		Msg("migración abortada; el cursor se conserva")
	return &AbortError{Job: migrationJobName, Offset: offset, OrderID: id, Err: err}
}
