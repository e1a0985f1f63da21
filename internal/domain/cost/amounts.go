package cost

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ClampQuantity cantidades ausentes o inválidas cuentan como 1.
func ClampQuantity(qty int) int {
	if qty < 1 {
		return 1
	}
	return qty
}

// LineTotal unitCost × max(1, qty), sin redondear.
func LineTotal(unitCost decimal.Decimal, qty int) decimal.Decimal {
	return unitCost.Mul(decimal.NewFromInt(int64(ClampQuantity(qty))))
}

// RefundMirror espejo negativo del costo original para una línea de reembolso:
// unit = -original, total = -(original × |qty|).
func RefundMirror(originalUnit decimal.Decimal, refundedQty int) (unit, total decimal.Decimal) {
	q := refundedQty
	if q < 0 {
		q = -q
	}
	unit = originalUnit.Neg()
	total = originalUnit.Mul(decimal.NewFromInt(int64(q))).Neg()
	return unit, total
}

// Round redondea a la precisión de precios configurada (mitad lejos de cero).
func Round(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}

// Format serializa un importe con exactamente places decimales ("37.50").
func Format(d decimal.Decimal, places int32) string {
	return d.StringFixed(places)
}

// FormatNull serializa un importe opcional; vacío si no está definido.
func FormatNull(n decimal.NullDecimal, places int32) string {
	if !n.Valid {
		return ""
	}
	return Format(n.Decimal, places)
}

// Parse interpreta un metadato de costo. Vacío o no numérico = no definido.
func Parse(raw string) decimal.NullDecimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
