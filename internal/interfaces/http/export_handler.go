package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comisiones-api/internal/application/export"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

// ExportHandler descargas de planilla e informe.
type ExportHandler struct {
	uc *export.ExportUseCase
}

// NewExportHandler construye el handler.
func NewExportHandler(uc *export.ExportUseCase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

// Sales godoc
// @Summary      Exportar ventas a xlsx
// @Tags         export
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200
// @Router       /api/export/sales.xlsx [get]
func (h *ExportHandler) Sales(c *fiber.Ctx) error {
	b, name, err := h.uc.ExportSales(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, b, name, xlsxContentType)
}

// Report godoc
// @Summary      Relatório de comissões en PDF
// @Tags         export
// @Security     Bearer
// @Produce      application/pdf
// @Success      200
// @Router       /api/export/report.pdf [get]
func (h *ExportHandler) Report(c *fiber.Ctx) error {
	b, name, err := h.uc.ExportReport(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, b, name, pdfContentType)
}

func sendFile(c *fiber.Ctx, b []byte, name, contentType string) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Send(b)
}
