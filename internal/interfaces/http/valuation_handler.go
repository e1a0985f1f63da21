package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Costos-api/internal/application/dto"
	"github.com/jhoicas/Costos-api/internal/application/valuation"
)

// ValuationHandler reportes de valoración de inventario (protegido).
type ValuationHandler struct {
	uc *valuation.UseCase
}

// NewValuationHandler construye el handler.
func NewValuationHandler(uc *valuation.UseCase) *ValuationHandler {
	return &ValuationHandler{uc: uc}
}

// Totals godoc
// @Summary      Valor total del inventario
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        search   query  string  false  "Filtro por título"
// @Success      200  {object}  dto.ValuationResponse
// @Router       /api/reports/valuation [get]
func (h *ValuationHandler) Totals(c *fiber.Ctx) error {
	search := c.Query("search")
	t, err := h.uc.ComputeValuation(c.UserContext(), search)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ValuationResponse{Search: search, AtCost: t.AtCost, AtRetail: t.AtRetail})
}

// Products godoc
// @Summary      Valoración por producto
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        search         query  string  false  "Filtro por título"
// @Param        page      query  int     false  "Página"             default(1)
// @Param        per_page  query  int     false  "Productos por página"
// @Success      200  {object}  dto.ProductValuationListResponse
// @Router       /api/reports/valuation/products [get]
func (h *ValuationHandler) Products(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	perPage := c.QueryInt("per_page", 0)
	if perPage > 100 {
		perPage = 100
	}
	res, err := h.uc.ListProductValuations(c.UserContext(), c.Query("search"), page, perPage)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.ProductValuationListResponse{
		Items: make([]dto.ProductValuationResponse, 0, len(res.Items)),
		Page:  dto.PageResponse{Limit: res.PerPage, Offset: (res.Page - 1) * res.PerPage, Total: res.Total},
	}
	for _, it := range res.Items {
		out.Items = append(out.Items, dto.ProductValuationResponse{
			ProductID:     it.ProductID,
			ParentID:      it.ParentID,
			Title:         it.Title,
			StockQuantity: it.StockQuantity,
			UnitCost:      nullable(it.UnitCost),
			Price:         it.Price,
			ValueAtCost:   it.ValueAtCost,
			ValueAtRetail: it.ValueAtRetail,
		})
	}
	return c.JSON(out)
}

// ProductsPDF godoc
// @Summary      Valoración por producto en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        search   query  string  false  "Filtro por título"
// @Success      200  {file}  binary
// @Router       /api/reports/valuation/products.pdf [get]
func (h *ValuationHandler) ProductsPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.uc.ExportPDF(c.UserContext(), c.Query("search"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
