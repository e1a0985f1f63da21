package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Costos-api/internal/application/valuation"
)

func TestMoney_FormatoLocal(t *testing.T) {
	g := NewMarotoPDFGenerator("Costos", 2)

	assert.Equal(t, "$1.234.567,50", g.money(decimal.RequireFromString("1234567.5")))
	assert.Equal(t, "$12,00", g.money(decimal.NewFromInt(12)))
	assert.Equal(t, "-$1.000,25", g.money(decimal.RequireFromString("-1000.25")))
}

func TestGenerateValuationPDF_DevuelvePDF(t *testing.T) {
	g := NewMarotoPDFGenerator("Costos", 2)
	report := &valuation.Report{
		Search:      "taza",
		GeneratedAt: time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC),
		Totals:      valuation.Totals{AtCost: decimal.NewFromInt(30), AtRetail: decimal.NewFromInt(80)},
		Items: []valuation.ProductValuation{{
			ProductID: "taza", Title: "Taza", StockQuantity: decimal.NewFromInt(10),
			UnitCost: decimal.NewNullDecimal(decimal.NewFromInt(3)), Price: decimal.NewFromInt(8),
			ValueAtCost: decimal.NewFromInt(30), ValueAtRetail: decimal.NewFromInt(80),
		}},
	}

	out, err := g.GenerateValuationPDF(context.Background(), report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
