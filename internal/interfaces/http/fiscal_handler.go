package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/application/billing"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/application/dto"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/fiscal"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/infrastructure/pdf"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/sri"
)

// FiscalDocumentService emisión y consulta de comprobantes.
type FiscalDocumentService interface {
	IssueInvoice(ctx context.Context, companyID string, in dto.IssueInvoiceRequest) (*dto.FiscalDocumentResponse, error)
	IssueCreditNote(ctx context.Context, companyID string, in dto.IssueCreditNoteRequest) (*dto.FiscalDocumentResponse, error)
	Get(ctx context.Context, companyID, id string) (*dto.FiscalDocumentResponse, error)
	List(ctx context.Context, companyID string, page dto.PageRequest) (*dto.FiscalDocumentListResponse, error)
	GetXML(ctx context.Context, companyID, id string) ([]byte, string, error)
}

// AuthorityService pasos del ciclo ante el SRI.
type AuthorityService interface {
	Send(ctx context.Context, companyID, id string) (*dto.FiscalDocumentResponse, error)
	Authorize(ctx context.Context, companyID, id string) (*dto.FiscalDocumentResponse, error)
	Void(ctx context.Context, companyID, id, reason string) (*dto.FiscalDocumentResponse, error)
}

// RideService RIDE y paquete de descarga.
type RideService interface {
	Download(ctx context.Context, companyID, id string) ([]byte, string, error)
	Export(ctx context.Context, companyID, id string) (string, error)
	Bundle(ctx context.Context, companyID, id string) ([]byte, string, error)
}

// EmitterService datos del emisor.
type EmitterService interface {
	Get(ctx context.Context, companyID string) (*dto.EmitterResponse, error)
	Save(ctx context.Context, companyID string, in dto.EmitterRequest) (*dto.EmitterResponse, error)
}

var (
	_ FiscalDocumentService = (*billing.FiscalDocumentUseCase)(nil)
	_ AuthorityService      = (*billing.AuthorityUseCase)(nil)
	_ RideService           = (*billing.RideUseCase)(nil)
	_ EmitterService        = (*billing.EmitterUseCase)(nil)
)

// FiscalHandler maneja las peticiones HTTP de comprobantes electrónicos (protegido).
type FiscalHandler struct {
	docs      FiscalDocumentService
	authority AuthorityService
	rides     RideService
	emitters  EmitterService
}

// NewFiscalHandler construye el handler.
func NewFiscalHandler(docs FiscalDocumentService, authority AuthorityService, rides RideService, emitters EmitterService) *FiscalHandler {
	return &FiscalHandler{docs: docs, authority: authority, rides: rides, emitters: emitters}
}

// IssueInvoice godoc
// @Summary      Generar factura electrónica
// @Tags         fiscal
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IssueInvoiceRequest  true  "comprador (opcional), líneas, pagos y propina"
// @Success      201   {object}  dto.FiscalDocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/fiscal/invoices [post]
func (h *FiscalHandler) IssueInvoice(c *fiber.Ctx) error {
	companyID, ok := requireCompany(c)
	if !ok {
		return nil
	}
	var in dto.IssueInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.docs.IssueInvoice(c.Context(), companyID, in)
	if err != nil {
		return writeFiscalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// IssueCreditNote godoc
// @Summary      Generar nota de crédito sobre una factura autorizada
// @Tags         fiscal
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IssueCreditNoteRequest  true  "invoice_id, motivo y líneas (vacío = valor total)"
// @Success      201   {object}  dto.FiscalDocumentResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/fiscal/credit-notes [post]
func (h *FiscalHandler) IssueCreditNote(c *fiber.Ctx) error {
	companyID, ok := requireCompany(c)
	if !ok {
		return nil
	}
	var in dto.IssueCreditNoteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.docs.IssueCreditNote(c.Context(), companyID, in)
	if err != nil {
		return writeFiscalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar comprobantes de la empresa
// @Tags         fiscal
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo 100"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.FiscalDocumentListResponse
// @Router       /api/fiscal/documents [get]
func (h *FiscalHandler) List(c *fiber.Ctx) error {
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
	out, err := h.docs.List(c.Context(), companyID, page)
	if err != nil {
		return writeFiscalError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener comprobante
// @Tags         fiscal
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del comprobante"
// @Success      200  {object}  dto.FiscalDocumentResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/fiscal/documents/{id} [get]
func (h *FiscalHandler) GetByID(c *fiber.Ctx) error {
	companyID, id, ok := requireCompanyAndID(c)
	if !ok {
		return nil
	}
	out, err := h.docs.Get(c.Context(), companyID, id)
	if err != nil {
		return writeFiscalError(c, err)
	}
	return c.JSON(out)
}

// Send godoc
// @Summary      Enviar comprobante a recepción del SRI
// @Tags         fiscal
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del comprobante"
// @Success      200  {object}  dto.FiscalDocumentResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/fiscal/documents/{id}/send [post]
func (h *FiscalHandler) Send(c *fiber.Ctx) error {
	companyID, id, ok := requireCompanyAndID(c)
	if !ok {
		return nil
	}
	out, err := h.authority.Send(c.Context(), companyID, id)
	if err != nil {
		return writeFiscalError(c, err)
	}
	return c.JSON(out)
}

// Authorize godoc
// @Summary      Consultar autorización del SRI
// @Tags         fiscal
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del comprobante"
// @Success      200  {object}  dto.FiscalDocumentResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/fiscal/documents/{id}/authorize [post]
func (h *FiscalHandler) Authorize(c *fiber.Ctx) error {
	companyID, id, ok := requireCompanyAndID(c)
	if !ok {
		return nil
	}
	out, err := h.authority.Authorize(c.Context(), companyID, id)
	if err != nil {
		return writeFiscalError(c, err)
	}
	return c.JSON(out)
}

// Void godoc
// @Summary      Anular factura (solo admin)
// @Tags         fiscal
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string           true   "ID del comprobante"
// @Param        body  body  dto.VoidRequest  false  "motivo"
// @Success      200  {object}  dto.FiscalDocumentResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/fiscal/documents/{id}/void [post]
func (h *FiscalHandler) Void(c *fiber.Ctx) error {
	companyID, id, ok := requireCompanyAndID(c)
	if !ok {
		return nil
	}
	var in dto.VoidRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	out, err := h.authority.Void(c.Context(), companyID, id, in.Reason)
	if err != nil {
		return writeFiscalError(c, err)
	}
	return c.JSON(out)
}

// XML godoc
// @Summary      Descargar XML del comprobante
// @Tags         fiscal
// @Security     Bearer
// @Produce      application/xml
// @Param        id   path  string  true  "ID del comprobante"
// @Success      200  {file}  binary
// @Router       /api/fiscal/documents/{id}/xml [get]
func (h *FiscalHandler) XML(c *fiber.Ctx) error {
	companyID, id, ok := requireCompanyAndID(c)
	if !ok {
		return nil
	}
	body, name, err := h.docs.GetXML(c.Context(), companyID, id)
	if err != nil {
		return writeFiscalError(c, err)
	}
	return sendAttachment(c, "application/xml; charset=utf-8", name, body)
}

// Ride godoc
// @Summary      Descargar RIDE en PDF
// @Tags         fiscal
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del comprobante"
// @Success      200  {file}  binary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/fiscal/documents/{id}/ride [get]
func (h *FiscalHandler) Ride(c *fiber.Ctx) error {
	companyID, id, ok := requireCompanyAndID(c)
	if !ok {
		return nil
	}
	body, name, err := h.rides.Download(c.Context(), companyID, id)
	if err != nil {
		return writeFiscalError(c, err)
	}
	return sendAttachment(c, "application/pdf", name, body)
}

// ExportRide godoc
// @Summary      Escribir el RIDE en el directorio de salida del servidor
// @Tags         fiscal
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del comprobante"
// @Success      201  {object}  map[string]string
// @Router       /api/fiscal/documents/{id}/ride/export [post]
func (h *FiscalHandler) ExportRide(c *fiber.Ctx) error {
	companyID, id, ok := requireCompanyAndID(c)
	if !ok {
		return nil
	}
	path, err := h.rides.Export(c.Context(), companyID, id)
	if err != nil {
		return writeFiscalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"path": path})
}

// Bundle godoc
// @Summary      Descargar ZIP con XML y RIDE
// @Tags         fiscal
// @Security     Bearer
// @Produce      application/zip
// @Param        id   path  string  true  "ID del comprobante"
// @Success      200  {file}  binary
// @Router       /api/fiscal/documents/{id}/bundle [get]
func (h *FiscalHandler) Bundle(c *fiber.Ctx) error {
	companyID, id, ok := requireCompanyAndID(c)
	if !ok {
		return nil
	}
	body, name, err := h.rides.Bundle(c.Context(), companyID, id)
	if err != nil {
		return writeFiscalError(c, err)
	}
	return sendAttachment(c, "application/zip", name, body)
}

// GetEmitter godoc
// @Summary      Datos del emisor de la empresa
// @Tags         fiscal
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.EmitterResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/fiscal/emitter [get]
func (h *FiscalHandler) GetEmitter(c *fiber.Ctx) error {
	companyID, ok := requireCompany(c)
	if !ok {
		return nil
	}
	out, err := h.emitters.Get(c.Context(), companyID)
	if err != nil {
		return writeFiscalError(c, err)
	}
	return c.JSON(out)
}

// SaveEmitter godoc
// @Summary      Configurar emisor (solo admin)
// @Tags         fiscal
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EmitterRequest  true  "RUC, razón social, establecimiento y punto de emisión"
// @Success      200  {object}  dto.EmitterResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/fiscal/emitter [put]
func (h *FiscalHandler) SaveEmitter(c *fiber.Ctx) error {
	companyID, ok := requireCompany(c)
	if !ok {
		return nil
	}
	var in dto.EmitterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.emitters.Save(c.Context(), companyID, in)
	if err != nil {
		return writeFiscalError(c, err)
	}
	return c.JSON(out)
}

func requireCompany(c *fiber.Ctx) (string, bool) {
	companyID := GetCompanyID(c)
	if companyID == "" {
		_ = c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
		return "", false
	}
	return companyID, true
}

func requireCompanyAndID(c *fiber.Ctx) (string, string, bool) {
	companyID, ok := requireCompany(c)
	if !ok {
		return "", "", false
	}
	id := c.Params("id")
	if id == "" {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
		return "", "", false
	}
	return companyID, id, true
}

func sendAttachment(c *fiber.Ctx, contentType, name string, body []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(body)
}

// writeFiscalError traduce errores de dominio a HTTP. La validación se revisa
// antes que el formato: un documento inválido puede arrastrar ambos.
func writeFiscalError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, sri.ErrValidation), errors.Is(err, fiscal.ErrInvalidDocument), errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, sri.ErrFormat):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "FORMAT", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, pdf.ErrRenderIO):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "RENDER_IO", Message: "no se pudo generar el RIDE"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
