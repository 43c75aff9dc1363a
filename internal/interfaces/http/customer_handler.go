package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/application/billing"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/application/dto"
)

// CustomerService directorio de compradores.
type CustomerService interface {
	Create(ctx context.Context, companyID string, in dto.BuyerRequest) (*dto.CustomerResponse, error)
	Update(ctx context.Context, companyID, id string, in dto.BuyerRequest) (*dto.CustomerResponse, error)
	Get(ctx context.Context, companyID, id string) (*dto.CustomerResponse, error)
	List(ctx context.Context, companyID string, page dto.PageRequest) ([]*dto.CustomerResponse, error)
}

var _ CustomerService = (*billing.CustomerUseCase)(nil)

// CustomerHandler maneja las peticiones HTTP del directorio de compradores (protegido).
type CustomerHandler struct {
	uc CustomerService
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc CustomerService) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar comprador frecuente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BuyerRequest  true  "tipo de identificación, identificación y nombre"
// @Success      201  {object}  dto.CustomerResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/fiscal/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	companyID, ok := requireCompany(c)
	if !ok {
		return nil
	}
	var in dto.BuyerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), companyID, in)
	if err != nil {
		return writeFiscalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update PUT /api/fiscal/customers/:id
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	companyID, id, ok := requireCompanyAndID(c)
	if !ok {
		return nil
	}
	var in dto.BuyerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), companyID, id, in)
	if err != nil {
		return writeFiscalError(c, err)
	}
	return c.JSON(out)
}

// Get GET /api/fiscal/customers/:id
func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	companyID, id, ok := requireCompanyAndID(c)
	if !ok {
		return nil
	}
	out, err := h.uc.Get(c.Context(), companyID, id)
	if err != nil {
		return writeFiscalError(c, err)
	}
	return c.JSON(out)
}

// List GET /api/fiscal/customers?limit=20&offset=0
func (h *CustomerHandler) List(c *fiber.Ctx) error {
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
	out, err := h.uc.List(c.Context(), companyID, page)
	if err != nil {
		return writeFiscalError(c, err)
	}
	return c.JSON(out)
}
