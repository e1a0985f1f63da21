package cogs

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/Costos-api/internal/domain"
	"github.com/jhoicas/Costos-api/internal/domain/repository"
)

// StepResult resultado de procesar una página de un trabajo reanudable.
type StepResult struct {
	Offset    int  // offset con el que se pidió la página
	Fetched   int  // IDs recibidos
	Processed int  // IDs procesados con éxito
	More      bool // la página vino llena: puede haber más
}

// RunOptions controla una ejecución de varias páginas.
type RunOptions struct {
	// MaxPages corta la ejecución tras N páginas (0 = hasta terminar). Sirve para
	// respetar un límite de tiempo externo; la siguiente ejecución continúa desde el cursor.
	MaxPages int
	// Pace se invoca antes de cada página (por ejemplo rate.Limiter.Wait).
	Pace func(ctx context.Context) error
}

// RunResult acumulado de una ejecución.
type RunResult struct {
	Pages     int
	Processed int
	Completed bool // el trabajo terminó y el cursor se borró
}

func runPages(ctx context.Context, opts RunOptions, step func(context.Context) (StepResult, error)) (RunResult, error) {
	var res RunResult
	for {
		if opts.MaxPages > 0 && res.Pages >= opts.MaxPages {
			return res, nil
		}
		if opts.Pace != nil {
			if err := opts.Pace(ctx); err != nil {
				return res, err
			}
		}
		page, err := step(ctx)
		res.Processed += page.Processed
		if err != nil {
			return res, err
		}
		res.Pages++
		if !page.More {
			res.Completed = true
			return res, nil
		}
	}
}

// cursor offset persistido entre invocaciones de un mismo trabajo lógico.
type cursor struct {
	options repository.OptionRepository
	name    string
}

func (c cursor) offset(ctx context.Context) (int, error) {
	v, found, err := c.options.GetInt(ctx, c.name)
	if err != nil {
		return 0, fmt.Errorf("leer cursor %s: %w", c.name, err)
	}
	if !found || v < 0 {
		return 0, nil
	}
	return v, nil
}

func (c cursor) save(ctx context.Context, offset int) error {
	if err := c.options.SetInt(ctx, c.name, offset); err != nil {
		return fmt.Errorf("guardar cursor %s: %w", c.name, err)
	}
	return nil
}

func (c cursor) clear(ctx context.Context) error {
	if err := c.options.Delete(ctx, c.name); err != nil {
		return fmt.Errorf("borrar cursor %s: %w", c.name, err)
	}
	return nil
}

// exclusive permite un solo paso a la vez por trabajo dentro del proceso; dos pasos
// simultáneos leerían el mismo cursor.
type exclusive struct {
	mu sync.Mutex
}

func (e *exclusive) acquire(job string) (release func(), err error) {
	if !e.mu.TryLock() {
		return nil, fmt.Errorf("%w: %s ya está en ejecución", domain.ErrConflict, job)
	}
	return e.mu.Unlock, nil
}
