package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Costos-api/internal/domain/repository"
)

var _ repository.OptionRepository = (*OptionRepo)(nil)

// OptionRepo opciones globales (tabla options).
type OptionRepo struct {
	q Querier
}

// NewOptionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOptionRepository(q Querier) *OptionRepo {
	return &OptionRepo{q: q}
}

func (r *OptionRepo) GetInt(ctx context.Context, name string) (int, bool, error) {
	var raw string
	err := r.q.QueryRow(ctx, `SELECT value FROM options WHERE name = $1`, name).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, wrap("get option", err)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("option %s: valor no entero %q", name, raw)
	}
	return v, true, nil
}

func (r *OptionRepo) SetInt(ctx context.Context, name string, value int) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO options (name, value) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value`, name, strconv.Itoa(value))
	if err != nil {
		return wrap("set option", err)
	}
	return nil
}

func (r *OptionRepo) Delete(ctx context.Context, name string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM options WHERE name = $1`, name); err != nil {
		return wrap("delete option", err)
	}
	return nil
}
