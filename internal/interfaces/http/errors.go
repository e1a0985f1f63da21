package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costos-api/internal/application/cogs"
	"github.com/jhoicas/Costos-api/internal/application/dto"
	"github.com/jhoicas/Costos-api/internal/domain"
)

// HeaderCacheWarning se envía cuando la escritura se confirmó pero la caché de líneas
// no pudo invalidarse.
const HeaderCacheWarning = "X-Cogs-Cache-Warning"

// writeError traduce errores de dominio a respuestas HTTP.
func writeError(c *fiber.Ctx, err error) error {
	var abort *cogs.AbortError
	switch {
	case errors.As(err, &abort):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.JobAbortedResponse{
			ErrorResponse: dto.ErrorResponse{Code: "JOB_ABORTED", Message: abort.Err.Error()},
			Job:           abort.Job,
			Offset:        abort.Offset,
			EntryID:       abort.OrderID,
		})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrNotVariable):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "NOT_VARIABLE", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// committed separa el aviso de caché (la escritura ya se hizo) de un error real.
func committed(c *fiber.Ctx, err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, cogs.ErrCacheInvalidation) {
		c.Set(HeaderCacheWarning, "stale")
		return true, nil
	}
	return false, writeError(c, err)
}

func missingID(c *fiber.Ctx, name string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: name + " es requerido"})
}

func nullable(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}

// positiveOrNull los costos cero o negativos no se muestran en el resumen.
func positiveOrNull(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid || !n.Decimal.IsPositive() {
		return nil
	}
	d := n.Decimal
	return &d
}

func nonZeroOrNull(d decimal.Decimal) *decimal.Decimal {
	if d.IsZero() {
		return nil
	}
	return &d
}
