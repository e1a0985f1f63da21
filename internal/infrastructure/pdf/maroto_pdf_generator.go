// Package pdf implementa el reporte de valoración de inventario en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + filtro     │  Fecha de generación          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Stock | Costo | Precio | V.Costo | V.Venta│
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: A costo / A precio de venta                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costos-api/internal/application/valuation"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa valuation.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	appName  string
	decimals int32
}

// NewMarotoPDFGenerator construye el generador. decimals es la precisión de precios.
func NewMarotoPDFGenerator(appName string, decimals int32) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{appName: appName, decimals: decimals}
}

// GenerateValuationPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateValuationPDF(_ context.Context, report *valuation.Report) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Valoración de inventario", true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range g.tableRows(report.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(report.Totals))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título y filtro (izq), fecha de generación (der).
func headerRow(report *valuation.Report) core.Row {
	filter := "Todos los productos"
	if report.Search != "" {
		filter = fmt.Sprintf("Filtro: \"%s\"", report.Search)
	}
	return row.New(16).Add(
		col.New(8).Add(
			text.New("VALORACIÓN DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(filter, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New(fmt.Sprintf("%d productos", len(report.Items)), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 4, align.Left),
		h("Stock", 1, align.Center),
		h("Costo", 2, align.Right),
		h("Precio", 1, align.Right),
		h("Valor a costo", 2, align.Right),
		h("Valor a venta", 2, align.Right),
	)
}

// tableRows: una fila por producto o variación.
func (g *MarotoPDFGenerator) tableRows(items []valuation.ProductValuation) []core.Row {
	result := make([]core.Row, 0, len(items))
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	for _, it := range items {
		unitCost := "-"
		if it.UnitCost.Valid {
			unitCost = g.money(it.UnitCost.Decimal)
		}
		result = append(result, row.New(7).Add(
			cell(it.Title, 4, align.Left),
			cell(it.StockQuantity.StringFixed(0), 1, align.Center),
			cell(unitCost, 2, align.Right),
			cell(g.money(it.Price), 1, align.Right),
			cell(g.money(it.ValueAtCost), 2, align.Right),
			cell(g.money(it.ValueAtRetail), 2, align.Right),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func (g *MarotoPDFGenerator) totalsRow(t valuation.Totals) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 2, Color: colorPrimary,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(16).Add(
		col.New(6),
		col.New(3).Add(
			label("A costo:"),
			text.New("A precio de venta:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 2, Color: colorPrimary, Top: 7,
			}),
		),
		col.New(3).Add(
			value(g.money(t.AtCost), 0),
			value(g.money(t.AtRetail), 7),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// money "$1.234,50": puntos de miles y coma decimal.
func (g *MarotoPDFGenerator) money(d decimal.Decimal) string {
	s := d.StringFixed(g.decimals)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	out := sign + "$" + formatThousands(intPart)
	if frac != "" {
		out += "," + frac
	}
	return out
}

// formatThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
