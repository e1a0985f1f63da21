package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Costos-api/internal/application/cogs"
	"github.com/jhoicas/Costos-api/internal/application/dto"
)

// OrderHandler snapshots y ediciones de costo de pedidos y reembolsos (protegido).
type OrderHandler struct {
	snapshot *cogs.SnapshotUseCase
	refunds  *cogs.RefundUseCase
	query    *cogs.CostQueryUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(snapshot *cogs.SnapshotUseCase, refunds *cogs.RefundUseCase, query *cogs.CostQueryUseCase) *OrderHandler {
	return &OrderHandler{snapshot: snapshot, refunds: refunds, query: query}
}

// Snapshot godoc
// @Summary      Congelar el costo de un pedido
// @Description  Resuelve el costo vigente de cada línea y persiste líneas y total. Idempotente.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderCostTotalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/costs/snapshot [post]
func (h *OrderHandler) Snapshot(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c, "id")
	}
	total, err := h.snapshot.SnapshotOrderCosts(c.UserContext(), id)
	if ok, werr := committed(c, err); !ok {
		return werr
	}
	return c.JSON(dto.OrderCostTotalResponse{OrderID: id, TotalCost: total})
}

// ApplyOverrides godoc
// @Summary      Editar costos de línea
// @Description  Persiste tal cual los costos totales de línea recibidos y recalcula el total del pedido.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID del pedido"
// @Param        body  body  dto.ApplyCostOverridesRequest  true  "Costos por línea"
// @Success      200   {object}  dto.OrderCostTotalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/costs [put]
func (h *OrderHandler) ApplyOverrides(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c, "id")
	}
	var in dto.ApplyCostOverridesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "items es requerido"})
	}
	overrides := make(map[string]decimal.Decimal, len(in.Items))
	for itemID, v := range in.Items {
		overrides[itemID] = v
	}
	total, err := h.snapshot.ApplyCostOverrides(c.UserContext(), id, overrides)
	if ok, werr := committed(c, err); !ok {
		return werr
	}
	return c.JSON(dto.OrderCostTotalResponse{OrderID: id, TotalCost: total})
}

// Summary godoc
// @Summary      Costos de un pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderCostSummaryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/costs [get]
func (h *OrderHandler) Summary(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c, "id")
	}
	s, err := h.query.OrderCostSummary(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.OrderCostSummaryResponse{
		OrderID:      s.OrderID,
		TotalCost:    positiveOrNull(s.TotalCost),
		RefundedCost: nonZeroOrNull(s.RefundedCost),
		NetCost:      positiveOrNull(decimal.NewNullDecimal(s.NetCost)),
		Items:        make([]dto.ItemCostResponse, 0, len(s.Items)),
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, dto.ItemCostResponse{
			ItemID:        it.ItemID,
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			UnitCost:      positiveOrNull(it.UnitCost),
			LineTotalCost: positiveOrNull(it.LineTotalCost),
			RefundedCost:  nonZeroOrNull(it.RefundedCost),
		})
	}
	return c.JSON(out)
}

// InitItemCost godoc
// @Summary      Costo inicial de una línea agregada por el administrador
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id      path  string  true  "ID del pedido"
// @Param        itemId  path  string  true  "ID de la línea"
// @Success      200     {object}  dto.LineItemCostResponse
// @Router       /api/orders/{id}/items/{itemId}/costs [post]
func (h *OrderHandler) InitItemCost(c *fiber.Ctx) error {
	id, itemID := c.Params("id"), c.Params("itemId")
	if id == "" || itemID == "" {
		return missingID(c, "id e itemId")
	}
	unit, err := h.snapshot.InitLineItemCost(c.UserContext(), id, itemID)
	if ok, werr := committed(c, err); !ok {
		return werr
	}
	return c.JSON(dto.LineItemCostResponse{OrderID: id, ItemID: itemID, UnitCost: nullable(unit)})
}

// AllocateRefund godoc
// @Summary      Asignar costo a un reembolso
// @Tags         refunds
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del reembolso"
// @Success      200  {object}  dto.RefundCostResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/refunds/{id}/costs [post]
func (h *OrderHandler) AllocateRefund(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c, "id")
	}
	total, err := h.refunds.AllocateRefundCosts(c.UserContext(), id)
	if ok, werr := committed(c, err); !ok {
		return werr
	}
	return c.JSON(dto.RefundCostResponse{RefundID: id, TotalCost: total})
}
