package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Costos-api/internal/application/cogs"
	"github.com/jhoicas/Costos-api/internal/application/dto"
)

// ProductHandler consultas de costo del catálogo (protegido).
type ProductHandler struct {
	resolver *cogs.CostResolver
	decimals int32
}

// NewProductHandler construye el handler.
func NewProductHandler(resolver *cogs.CostResolver, decimals int32) *ProductHandler {
	return &ProductHandler{resolver: resolver, decimals: decimals}
}

// GetCost godoc
// @Summary      Costo efectivo de un producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto o variación"
// @Success      200  {object}  dto.ProductCostResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/cost [get]
func (h *ProductHandler) GetCost(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c, "id")
	}
	src, err := h.resolver.Source(c.UserContext(), cogs.ByID(id))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ProductCostResponse{
		ProductID: id,
		Source:    src.Kind.String(),
		Cost:      nullable(src.Effective()),
	})
}

// GetVariantCosts godoc
// @Summary      Rango de costos de las variaciones
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto variable"
// @Success      200  {object}  dto.VariantCostRangeResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/variant-costs [get]
func (h *ProductHandler) GetVariantCosts(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c, "id")
	}
	min, max, err := h.resolver.VariantCostRange(c.UserContext(), cogs.ByID(id))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.VariantCostRangeResponse{ProductID: id, MinCost: nullable(min), MaxCost: nullable(max)})
}

// RefreshVariantCosts godoc
// @Summary      Recalcular y guardar el rango de costos de las variaciones
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto variable"
// @Success      200  {object}  dto.VariantCostRangeResponse
// @Router       /api/products/{id}/variant-costs/refresh [post]
func (h *ProductHandler) RefreshVariantCosts(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c, "id")
	}
	min, max, err := h.resolver.RefreshVariantCostRange(c.UserContext(), id, h.decimals)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.VariantCostRangeResponse{ProductID: id, MinCost: nullable(min), MaxCost: nullable(max)})
}
