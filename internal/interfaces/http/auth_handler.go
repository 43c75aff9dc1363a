package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/application/auth"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/application/dto"
)

// AuthService login y gestión de operadores.
type AuthService interface {
	Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error)
	CreateUser(ctx context.Context, companyID string, in dto.CreateUserRequest) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, companyID string, page dto.PageRequest) ([]*dto.UserResponse, error)
	SetStatus(ctx context.Context, companyID, id string, active bool) (*dto.UserResponse, error)
}

var _ AuthService = (*auth.AuthUseCase)(nil)

// AuthHandler maneja login y operadores.
type AuthHandler struct {
	uc AuthService
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc AuthService) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email y password son requeridos"})
	}
	out, err := h.uc.Login(c.Context(), in)
	if err != nil {
		return writeFiscalError(c, err)
	}
	return c.JSON(out)
}

// CreateUser godoc
// @Summary      Crear operador (solo admin)
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "email, password, rol"
// @Success      201   {object}  dto.UserResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/fiscal/users [post]
func (h *AuthHandler) CreateUser(c *fiber.Ctx) error {
	companyID, ok := requireCompany(c)
	if !ok {
		return nil
	}
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateUser(c.Context(), companyID, in)
	if err != nil {
		return writeFiscalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListUsers GET /api/fiscal/users
func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	companyID, ok := requireCompany(c)
	if !ok {
		return nil
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "limit/offset inválidos"})
	}
	if page.Limit > 100 {
		page.Limit = 100
	}
	out, err := h.uc.ListUsers(c.Context(), companyID, page)
	if err != nil {
		return writeFiscalError(c, err)
	}
	return c.JSON(out)
}

// Deactivate POST /api/fiscal/users/:id/deactivate
func (h *AuthHandler) Deactivate(c *fiber.Ctx) error {
	return h.setStatus(c, false)
}

// Activate POST /api/fiscal/users/:id/activate
func (h *AuthHandler) Activate(c *fiber.Ctx) error {
	return h.setStatus(c, true)
}

func (h *AuthHandler) setStatus(c *fiber.Ctx, active bool) error {
	companyID, id, ok := requireCompanyAndID(c)
	if !ok {
		return nil
	}
	out, err := h.uc.SetStatus(c.Context(), companyID, id, active)
	if err != nil {
		return writeFiscalError(c, err)
	}
	return c.JSON(out)
}
