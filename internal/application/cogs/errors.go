package cogs

import (
	"errors"
	"fmt"
)

// ErrCacheInvalidation la escritura se confirmó pero la caché de líneas no pudo invalidarse.
var ErrCacheInvalidation = errors.New("cogs: no se pudo invalidar la caché de costos de línea")

// AbortError un trabajo por lotes se detuvo por un error de acceso a datos. El cursor
// persistido queda intacto para que la siguiente ejecución continúe en Offset.
type AbortError struct {
	Job     string
	Offset  int
	OrderID string // pedido o producto en proceso; vacío si falló la paginación
	Err     error
}

func (e *AbortError) Error() string {
	if e.OrderID != "" {
		return fmt.Sprintf("%s: abortado en offset %d (id %s): %v", e.Job, e.Offset, e.OrderID, e.Err)
	}
	return fmt.Sprintf("%s: abortado en offset %d: %v", e.Job, e.Offset, e.Err)
}

func (e *AbortError) Unwrap() error { return e.Err }
