package repository

import "context"

// OptionRepository opciones globales clave/valor (cursores de trabajos reanudables).
type OptionRepository interface {
	// GetInt devuelve found=false si la opción no existe.
	GetInt(ctx context.Context, name string) (value int, found bool, err error)
	SetInt(ctx context.Context, name string, value int) error
	Delete(ctx context.Context, name string) error
}
