package cogs

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Costos-api/internal/domain"
	"github.com/jhoicas/Costos-api/internal/domain/entity"
	"github.com/jhoicas/Costos-api/internal/domain/repository"
)

// BackfillMode modo de aplicación de costos a pedidos históricos.
type BackfillMode string

const (
	// BackfillFillMissing solo pedidos sin costo total.
	BackfillFillMissing BackfillMode = "fill-missing"
	// BackfillOverwriteAll todos los pedidos, sobrescribiendo.
	BackfillOverwriteAll BackfillMode = "overwrite-all"
)

// ParseBackfillMode valida el modo recibido por API o CLI.
func ParseBackfillMode(s string) (BackfillMode, error) {
	switch m := BackfillMode(s); m {
	case BackfillFillMissing, BackfillOverwriteAll:
		return m, nil
	}
	return "", fmt.Errorf("%w: modo %q", domain.ErrInvalidInput, s)
}

const backfillJobName = "apply-costs"

// BackfillJob aplica snapshots de costo a los pedidos históricos por páginas, de forma
// reanudable: cada invocación puede morir entre páginas y la siguiente continúa.
//
// En fill-missing la consulta filtra pedidos sin costo total, así que el conjunto se
// vacía solo y el offset no avanza. En overwrite-all el offset persistido avanza una
// página tras procesarla.
type BackfillJob struct {
	tx       TxRunner
	orders   repository.OrderRepository
	cursor   cursor
	snapshot *SnapshotUseCase
	refunds  *RefundUseCase
	chunk    int
	log      zerolog.Logger
	running  exclusive
}

// NewBackfillJob construye el trabajo.
func NewBackfillJob(
	tx TxRunner,
	orders repository.OrderRepository,
	options repository.OptionRepository,
	snapshot *SnapshotUseCase,
	refunds *RefundUseCase,
	settings Settings,
	log zerolog.Logger,
) *BackfillJob {
	return &BackfillJob{
		tx:       tx,
		orders:   orders,
		cursor:   cursor{options: options, name: entity.OptionApplyCostsOffset},
		snapshot: snapshot,
		refunds:  refunds,
		chunk:    settings.chunk(),
		log:      log.With().Str("job", backfillJobName).Logger(),
	}
}

// Step procesa la siguiente página y reporta si quedan más.
// Un error de acceso a datos devuelve *AbortError y deja el cursor intacto.
func (j *BackfillJob) Step(ctx context.Context, mode BackfillMode) (StepResult, error) {
	if _, err := ParseBackfillMode(string(mode)); err != nil {
		return StepResult{}, err
	}
	release, err := j.running.acquire(backfillJobName)
	if err != nil {
		return StepResult{}, err
	}
	defer release()

	offset := 0
	if mode == BackfillOverwriteAll {
		var err error
		if offset, err = j.cursor.offset(ctx); err != nil {
			return StepResult{}, j.abort(mode, 0, "", err)
		}
	}

	ids, err := j.orders.ListOrderIDs(ctx, repository.OrderQuery{
		Offset:           offset,
		Limit:            j.chunk,
		MissingTotalCost: mode == BackfillFillMissing,
	})
	if err != nil {
		return StepResult{Offset: offset}, j.abort(mode, offset, "", fmt.Errorf("listar pedidos: %w", err))
	}

	res := StepResult{Offset: offset, Fetched: len(ids)}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return res, j.abort(mode, offset, id, err)
		}
		if err := j.processOrder(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// borrado entre la paginación y el proceso
				continue
			}
			return res, j.abort(mode, offset, id, err)
		}
		res.Processed++
	}
	res.More = len(ids) == j.chunk

	if mode == BackfillOverwriteAll {
		if res.More {
			err = j.cursor.save(ctx, offset+j.chunk)
		} else {
			err = j.cursor.clear(ctx)
		}
		if err != nil {
			return res, j.abort(mode, offset, "", err)
		}
	}

	j.log.Info().
		Str("mode", string(mode)).
		Int("offset", offset).
		Int("fetched", res.Fetched).
		Int("processed", res.Processed).
		Bool("more", res.More).
		Msg("página de pedidos procesada")
	return res, nil
}

// Run encadena Steps hasta terminar, agotar opts.MaxPages o fallar, y reporta
// cuántos pedidos se actualizaron.
func (j *BackfillJob) Run(ctx context.Context, mode BackfillMode, opts RunOptions) (RunResult, error) {
	runID := uuid.New().String()
	res, err := runPages(ctx, opts, func(ctx context.Context) (StepResult, error) {
		return j.Step(ctx, mode)
	})
	ev := j.log.Info()
	if err != nil {
		ev = j.log.Error().Err(err)
	}
	ev.Str("run_id", runID).
		Str("mode", string(mode)).
		Int("pages", res.Pages).
		Int("orders_updated", res.Processed).
		Bool("completed", res.Completed).
		Msg("aplicación de costos a pedidos previos")
	return res, err
}

// processOrder snapshot del pedido y asignación de todos sus reembolsos en una sola
// transacción: ningún pedido queda escrito a medias.
func (j *BackfillJob) processOrder(ctx context.Context, orderID string) error {
	var touched []string
	err := j.tx.RunOrders(ctx, func(orders repository.OrderRepository) error {
		_, items, err := j.snapshot.snapshotInTx(ctx, orders, orderID)
		if err != nil {
			return err
		}
		touched = append(touched, items...)

		refunds, err := orders.ListRefunds(ctx, orderID)
		if err != nil {
			return fmt.Errorf("listar reembolsos: %w", err)
		}
		for _, r := range refunds {
			_, items, err := j.refunds.allocateInTx(ctx, orders, r.ID)
			if err != nil {
				return err
			}
			touched = append(touched, items...)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := j.snapshot.items.invalidate(ctx, touched); err != nil {
		j.log.Warn().Err(err).Str("order_id", orderID).Msg("caché de líneas no invalidada")
	}
	return nil
}

func (j *BackfillJob) abort(mode BackfillMode, offset int, id string, err error) error {
	j.log.Error().Err(err).
		Str("mode", string(mode)).
		Int("offset", offset).
		Str("order_id", id).
		Msg("aplicación de costos abortada; el cursor se conserva")
	return &AbortError{Job: backfillJobName, Offset: offset, OrderID: id, Err: err}
}
