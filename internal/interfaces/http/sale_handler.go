package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comisiones-api/internal/application/dto"
	"github.com/jhoicas/Comisiones-api/internal/application/sales"
	"github.com/jhoicas/Comisiones-api/pkg/logger"
)

// HeaderTotalCount total de entradas antes de paginar.
const HeaderTotalCount = "X-Total-Count"

// SaleHandler maneja el ciclo de vida de las ventas (protegido).
type SaleHandler struct {
	uc  *sales.SaleUseCase
	log *logger.Logger
}

// NewSaleHandler construye el handler. Las mutaciones se registran con el id de sesión.
func NewSaleHandler(uc *sales.SaleUseCase, log *logger.Logger) *SaleHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &SaleHandler{uc: uc, log: log.Component("http")}
}

// audit registra una mutación con la sesión que la hizo.
func (h *SaleHandler) audit(c *fiber.Ctx, action, saleID string) {
	h.log.Info().
		Str("session_id", GetSessionID(c)).
		Str("subject", GetSubject(c)).
		Str("action", action).
		Str("sale_id", saleID).
		Msg("mutación")
}

// Create godoc
// @Summary      Registrar venta
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Datos de la venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	h.audit(c, "create", out.ID)
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SaleResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.uc.List(c.UserContext()))
}

// GetByID godoc
// @Summary      Detalle de una venta con sus pagos
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RequestDelete godoc
// @Summary      Solicitar exclusión (paso 1)
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      202  {object}  dto.DeleteConfirmation
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/delete-request [post]
func (h *SaleHandler) RequestDelete(c *fiber.Ctx) error {
	out, err := h.uc.RequestDelete(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	h.audit(c, "delete-request", out.SaleID)
	return c.Status(fiber.StatusAccepted).JSON(out)
}

// ConfirmDelete godoc
// @Summary      Confirmar exclusión (paso 2)
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        token  path  string  true  "Token de confirmación"
// @Success      200  {object}  dto.DeleteResult
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      410  {object}  dto.ErrorResponse
// @Router       /api/sales/deletions/{token}/confirm [post]
func (h *SaleHandler) ConfirmDelete(c *fiber.Ctx) error {
	out, err := h.uc.ConfirmDelete(c.UserContext(), c.Params("token"))
	if err != nil {
		return writeError(c, err)
	}
	h.audit(c, "delete-confirm", out.SaleID)
	return c.JSON(out)
}

// CancelDelete godoc
// @Summary      Cancelar una exclusión pendiente
// @Tags         sales
// @Security     Bearer
// @Param        token  path  string  true  "Token de confirmación"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/deletions/{token} [delete]
func (h *SaleHandler) CancelDelete(c *fiber.Ctx) error {
	if err := h.uc.CancelDelete(c.Params("token")); err != nil {
		return writeError(c, err)
	}
	h.audit(c, "delete-cancel", "")
	return c.SendStatus(fiber.StatusNoContent)
}

// Summary godoc
// @Summary      Totales del tablero
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SummaryResponse
// @Router       /api/summary [get]
func (h *SaleHandler) Summary(c *fiber.Ctx) error {
	return c.JSON(h.uc.Summary(c.UserContext()))
}

// Logs godoc
// @Summary      Log de auditoría (más reciente primero)
// @Tags         logs
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo 500; 0 = todas"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.LogEntryResponse
// @Header       200  {integer}  X-Total-Count  "total de entradas"
// @Router       /api/logs [get]
func (h *SaleHandler) Logs(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "limit/offset inválidos"})
	}
	if page.Limit > 500 || page.Limit < 0 || page.Offset < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "limit entre 0 y 500, offset >= 0"})
	}
	entries, total := h.uc.Logs(c.UserContext(), page)
	c.Set(HeaderTotalCount, strconv.Itoa(total))
	return c.JSON(entries)
}
