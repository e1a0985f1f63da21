// Package valuation calcula el valor del inventario actual a costo y a precio de venta.
// No guarda nada: siempre parte del catálogo y el stock vigentes.
package valuation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costos-api/internal/application/cogs"
	"github.com/jhoicas/Costos-api/internal/domain"
	"github.com/jhoicas/Costos-api/internal/domain/cost"
	"github.com/jhoicas/Costos-api/internal/domain/entity"
	"github.com/jhoicas/Costos-api/internal/domain/repository"
)

// DefaultPerPage tamaño de página del listado por producto.
const DefaultPerPage = 20

// scanBatch tamaño de lote al recorrer todo el universo.
const scanBatch = 500

// Totals valor total del inventario.
type Totals struct {
	AtCost   decimal.Decimal
	AtRetail decimal.Decimal
}

// ProductValuation valor de un producto o variación.
type ProductValuation struct {
	ProductID     string
	ParentID      string
	Title         string
	StockQuantity decimal.Decimal
	UnitCost      decimal.NullDecimal
	Price         decimal.Decimal
	ValueAtCost   decimal.Decimal
	ValueAtRetail decimal.Decimal
}

// Page página del listado por producto.
type Page struct {
	Items   []ProductValuation
	Total   int
	Page    int
	PerPage int
}

// Settings parámetros del reporte.
type Settings struct {
	PriceDecimals int32
	PerPage       int
}

// UseCase agregador de valoración.
type UseCase struct {
	catalog   repository.CatalogRepository
	resolver  *cogs.CostResolver
	generator PDFGenerator
	decimals  int32
	perPage   int
	now       func() time.Time
}

// NewUseCase construye el caso de uso. generator puede ser nil si no se exporta PDF.
func NewUseCase(catalog repository.CatalogRepository, resolver *cogs.CostResolver, generator PDFGenerator, settings Settings) *UseCase {
	perPage := settings.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return &UseCase{
		catalog:   catalog,
		resolver:  resolver,
		generator: generator,
		decimals:  settings.PriceDecimals,
		perPage:   perPage,
		now:       time.Now,
	}
}

// ComputeValuation suma a costo y a precio de venta todos los productos publicados con
// stock gestionado (los padres variables cuentan a través de sus variaciones).
// search filtra por subcadena del título; vacío = todo el catálogo.
func (uc *UseCase) ComputeValuation(ctx context.Context, search string) (Totals, error) {
	var totals Totals
	err := uc.scan(ctx, search, func(items []ProductValuation) {
		for _, it := range items {
			totals.AtCost = totals.AtCost.Add(it.ValueAtCost)
			totals.AtRetail = totals.AtRetail.Add(it.ValueAtRetail)
		}
	})
	if err != nil {
		return Totals{}, err
	}
	return uc.roundTotals(totals), nil
}

// ListProductValuations listado paginado por título. page empieza en 1.
func (uc *UseCase) ListProductValuations(ctx context.Context, search string, page, perPage int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = uc.perPage
	}
	products, total, err := uc.catalog.ListValuationProducts(ctx, repository.ValuationQuery{
		Search: strings.TrimSpace(search),
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	})
	if err != nil {
		return nil, fmt.Errorf("valuation: listar productos: %w", err)
	}
	items, err := uc.value(ctx, products)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].ValueAtCost = cost.Round(items[i].ValueAtCost, uc.decimals)
		items[i].ValueAtRetail = cost.Round(items[i].ValueAtRetail, uc.decimals)
	}
	return &Page{Items: items, Total: total, Page: page, PerPage: perPage}, nil
}

// ExportPDF genera el PDF del listado completo con sus totales.
func (uc *UseCase) ExportPDF(ctx context.Context, search string) (pdfBytes []byte, filename string, err error) {
	if uc.generator == nil {
		return nil, "", fmt.Errorf("%w: exportación PDF no configurada", domain.ErrInvalidInput)
	}
	report := &Report{Search: strings.TrimSpace(search), GeneratedAt: uc.now()}
	err = uc.scan(ctx, search, func(items []ProductValuation) {
		for _, it := range items {
			report.Totals.AtCost = report.Totals.AtCost.Add(it.ValueAtCost)
			report.Totals.AtRetail = report.Totals.AtRetail.Add(it.ValueAtRetail)
			it.ValueAtCost = cost.Round(it.ValueAtCost, uc.decimals)
			it.ValueAtRetail = cost.Round(it.ValueAtRetail, uc.decimals)
			report.Items = append(report.Items, it)
		}
	})
	if err != nil {
		return nil, "", err
	}
	report.Totals = uc.roundTotals(report.Totals)

	pdfBytes, err = uc.generator.GenerateValuationPDF(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("valuation: generar pdf: %w", err)
	}
	filename = fmt.Sprintf("valoracion_inventario_%s.pdf", report.GeneratedAt.Format("20060102"))
	return pdfBytes, filename, nil
}

// scan recorre el universo completo por lotes, en el mismo orden que el listado.
func (uc *UseCase) scan(ctx context.Context, search string, fn func([]ProductValuation)) error {
	for offset := 0; ; offset += scanBatch {
		products, _, err := uc.catalog.ListValuationProducts(ctx, repository.ValuationQuery{
			Search: strings.TrimSpace(search),
			Limit:  scanBatch,
			Offset: offset,
		})
		if err != nil {
			return fmt.Errorf("valuation: listar productos: %w", err)
		}
		items, err := uc.value(ctx, products)
		if err != nil {
			return err
		}
		fn(items)
		if len(products) < scanBatch {
			return nil
		}
	}
}

func (uc *UseCase) value(ctx context.Context, products []*entity.Product) ([]ProductValuation, error) {
	costs, err := uc.resolver.ResolveMany(ctx, products)
	if err != nil {
		return nil, fmt.Errorf("valuation: resolver costos: %w", err)
	}
	out := make([]ProductValuation, 0, len(products))
	for i, p := range products {
		out = append(out, valueOf(p, costs[i]))
	}
	return out, nil
}

// valueOf el stock se toma en unidades enteras; un costo no definido vale cero.
func valueOf(p *entity.Product, unitCost decimal.NullDecimal) ProductValuation {
	stock := p.StockQuantity.Truncate(0)
	unit := decimal.Zero
	if unitCost.Valid {
		unit = unitCost.Decimal
	}
	return ProductValuation{
		ProductID:     p.ID,
		ParentID:      p.ParentID,
		Title:         p.Title,
		StockQuantity: stock,
		UnitCost:      unitCost,
		Price:         p.Price,
		ValueAtCost:   unit.Mul(stock),
		ValueAtRetail: p.Price.Mul(stock),
	}
}

func (uc *UseCase) roundTotals(t Totals) Totals {
	return Totals{
		AtCost:   cost.Round(t.AtCost, uc.decimals),
		AtRetail: cost.Round(t.AtRetail, uc.decimals),
	}
}
