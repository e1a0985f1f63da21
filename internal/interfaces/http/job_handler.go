package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Costos-api/internal/application/cogs"
	"github.com/jhoicas/Costos-api/internal/application/dto"
)

// JobHandler expone un paso de cada trabajo reanudable. El cliente repite la llamada
// mientras la respuesta traiga more=true; si la petición muere, el cursor persistido
// permite retomar.
type JobHandler struct {
	backfill  *cogs.BackfillJob
	migration *cogs.VariableCostMigration
}

// NewJobHandler construye el handler.
func NewJobHandler(backfill *cogs.BackfillJob, migration *cogs.VariableCostMigration) *JobHandler {
	return &JobHandler{backfill: backfill, migration: migration}
}

// ApplyCostsStep godoc
// @Summary      Aplicar costos a pedidos previos (una página)
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Param        mode  query  string  true  "fill-missing | overwrite-all"
// @Success      200  {object}  dto.JobStepResponse
// @Failure      503  {object}  dto.JobAbortedResponse
// @Router       /api/jobs/apply-costs/step [post]
func (h *JobHandler) ApplyCostsStep(c *fiber.Ctx) error {
	mode, err := cogs.ParseBackfillMode(c.Query("mode"))
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.backfill.Step(c.UserContext(), mode)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(stepResponse("apply-costs", string(mode), res))
}

// VariableCostsStep godoc
// @Summary      Normalizar costos de productos variables (una página)
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.JobStepResponse
// @Failure      503  {object}  dto.JobAbortedResponse
// @Router       /api/jobs/variable-costs/step [post]
func (h *JobHandler) VariableCostsStep(c *fiber.Ctx) error {
	res, err := h.migration.Step(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(stepResponse("variable-costs", "", res))
}

func stepResponse(job, mode string, res cogs.StepResult) dto.JobStepResponse {
	return dto.JobStepResponse{
		Job:       job,
		Mode:      mode,
		Offset:    res.Offset,
		Fetched:   res.Fetched,
		Processed: res.Processed,
		More:      res.More,
	}
}
