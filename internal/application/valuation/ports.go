package valuation

import (
	"context"
	"time"
)

// Report datos de la valoración listos para exportar.
type Report struct {
	Search      string
	GeneratedAt time.Time
	Totals      Totals
	Items       []ProductValuation
}

// PDFGenerator genera el documento de la valoración por producto.
// La implementación vive en infrastructure (no depende de la librería PDF en el dominio).
type PDFGenerator interface {
	GenerateValuationPDF(ctx context.Context, report *Report) ([]byte, error)
}
