package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-insights-api/internal/application/analytics"
	"github.com/jhoicas/pos-insights-api/internal/application/dto"
)

// ReportHandler expone los reportes de negocio en JSON y PDF.
type ReportHandler struct {
	uc *analytics.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *analytics.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Generate godoc
// @Summary      Generar reporte
// @Tags         reports
// @Produce      json
// @Param        type    query  string  false  "sales | products | customers | inventory"  default(sales)
// @Param        period  query  string  false  "today | week | month | year"  default(today)
// @Success      200  {object}  dto.ReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports [get]
func (h *ReportHandler) Generate(c *fiber.Ctx) error {
	var in dto.ReportRequest
	if err := c.QueryParser(&in); err != nil {
		return invalidQuery(c)
	}
	out, err := h.uc.GenerateReport(c.UserContext(), in.Type, in.Period)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DownloadPDF godoc
// @Summary      Descargar reporte en PDF
// @Tags         reports
// @Produce      application/pdf
// @Param        type    query  string  false  "sales | products | customers | inventory"  default(sales)
// @Param        period  query  string  false  "today | week | month | year"  default(today)
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/pdf [get]
func (h *ReportHandler) DownloadPDF(c *fiber.Ctx) error {
	var in dto.ReportRequest
	if err := c.QueryParser(&in); err != nil {
		return invalidQuery(c)
	}
	pdf, filename, err := h.uc.ReportPDF(c.UserContext(), in.Type, in.Period)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdf)
}
