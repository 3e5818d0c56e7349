package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comisiones-api/internal/application/auth"
	"github.com/jhoicas/Comisiones-api/internal/application/dto"
)

// AuthHandler maneja el login del operador.
type AuthHandler struct {
	gate *auth.AccessGate
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(gate *auth.AccessGate) *AuthHandler {
	return &AuthHandler{gate: gate}
}

// Login godoc
// @Summary      Iniciar sesión con la credencial del operador
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "password es requerido"})
	}
	out, err := h.gate.Login(in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
