package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/application/dto"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/entity"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/fiscal"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/repository"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/infrastructure/comprobante"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/infrastructure/pdf"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/infrastructure/storage"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/logger"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/sri"
)

// AuthorityUseCase mueve el comprobante por el ciclo del SRI:
//
//	generated → sent (recepción) → authorized | rejected (autorización)
//	factura → voided
//
// Cada paso consulta fiscal.Transition antes de llamar al SRI o persistir.
type AuthorityUseCase struct {
	invoiceRepo repository.InvoiceRepository
	client      comprobante.AuthorityClient
	ride        RideGenerator
	store       ArtifactStore // nil = sin archivo
	timeout     time.Duration
	log         *logger.Logger
	now         func() time.Time
}

// NewAuthorityUseCase construye el caso de uso. store puede ser nil.
func NewAuthorityUseCase(
	invoiceRepo repository.InvoiceRepository,
	client comprobante.AuthorityClient,
	ride RideGenerator,
	store ArtifactStore,
	timeout time.Duration,
	log *logger.Logger,
) *AuthorityUseCase {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AuthorityUseCase{
		invoiceRepo: invoiceRepo,
		client:      client,
		ride:        ride,
		store:       store,
		timeout:     timeout,
		log:         log.Component("sri"),
		now:         time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *AuthorityUseCase) WithClock(now func() time.Time) *AuthorityUseCase {
	uc.now = now
	return uc
}

// Send entrega el XML a recepción. Si el SRI lo devuelve, el comprobante sigue
// en generated con los mensajes registrados y se retorna ValidationError.
func (uc *AuthorityUseCase) Send(ctx context.Context, companyID, id string) (*dto.FiscalDocumentResponse, error) {
	rec, err := loadOwned(ctx, uc.invoiceRepo, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := fiscal.Transition(rec.DocumentType, rec.Status, entity.InvoiceStatusSent); err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	res, err := uc.client.Submit(callCtx, rec.AccessKey, []byte(rec.XML))
	if err != nil {
		uc.log.Error().Err(err).Str("invoice_id", rec.ID).Str("step", "send").Msg("recepción SRI fallida")
		return nil, fmt.Errorf("recepción SRI: %w", err)
	}

	if !res.Received() {
		rec.AuthorityResponse = messagesText(res.Status, res.Messages)
		rec.UpdatedAt = uc.now()
		if err := uc.invoiceRepo.UpdateStatus(ctx, rec); err != nil {
			return nil, fmt.Errorf("guardar respuesta de recepción: %w", err)
		}
		uc.log.Warn().Str("invoice_id", rec.ID).Str("access_key", rec.AccessKey).
			Str("status", string(rec.Status)).Str("step", "send").Msg(rec.AuthorityResponse)
		return nil, sri.NewValidationError("recepcion", "comprobante devuelto por el SRI: %s", rec.AuthorityResponse)
	}

	rec.Status = entity.InvoiceStatusSent
	rec.AuthorityResponse = res.Status
	rec.UpdatedAt = uc.now()
	if err := uc.invoiceRepo.UpdateStatus(ctx, rec); err != nil {
		return nil, fmt.Errorf("actualizar estado: %w", err)
	}
	uc.logStep(rec, "send", "comprobante recibido por el SRI")
	return ToFiscalDocumentResponse(rec), nil
}

// Authorize consulta la autorización. EN PROCESO deja el comprobante en sent;
// AUTORIZADO guarda número, fecha y el sobre <autorizacion>; NO AUTORIZADO lo rechaza.
func (uc *AuthorityUseCase) Authorize(ctx context.Context, companyID, id string) (*dto.FiscalDocumentResponse, error) {
	rec, err := loadOwned(ctx, uc.invoiceRepo, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := fiscal.Transition(rec.DocumentType, rec.Status, entity.InvoiceStatusAuthorized); err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	resp, err := uc.client.Authorize(callCtx, rec.AccessKey)
	if err != nil {
		uc.log.Error().Err(err).Str("invoice_id", rec.ID).Str("step", "authorize").Msg("autorización SRI fallida")
		return nil, fmt.Errorf("autorización SRI: %w", err)
	}

	switch resp.Status {
	case comprobante.AuthorizationAuthorized:
		envelope, err := comprobante.BuildAuthorizationEnvelope(resp)
		if err != nil {
			return nil, err
		}
		at := resp.AuthorizedAt
		rec.Status = entity.InvoiceStatusAuthorized
		rec.AuthorizationNumber = resp.Number
		rec.AuthorizedAt = &at
		rec.AuthorityResponse = string(envelope)
	case comprobante.AuthorizationNotAuthorized:
		envelope, err := comprobante.BuildAuthorizationEnvelope(resp)
		if err != nil {
			return nil, err
		}
		if err := fiscal.Transition(rec.DocumentType, rec.Status, entity.InvoiceStatusRejected); err != nil {
			return nil, err
		}
		rec.Status = entity.InvoiceStatusRejected
		rec.AuthorityResponse = string(envelope)
	default:
		uc.logStep(rec, "authorize", "autorización en proceso")
		return ToFiscalDocumentResponse(rec), nil
	}

	rec.UpdatedAt = uc.now()
	if err := uc.invoiceRepo.UpdateStatus(ctx, rec); err != nil {
		return nil, fmt.Errorf("actualizar estado: %w", err)
	}
	uc.logStep(rec, "authorize", "respuesta de autorización registrada")

	if rec.Status == entity.InvoiceStatusAuthorized {
		uc.archive(ctx, rec)
	}
	return ToFiscalDocumentResponse(rec), nil
}

// Void anula una factura. Las notas de crédito no se anulan.
func (uc *AuthorityUseCase) Void(ctx context.Context, companyID, id, reason string) (*dto.FiscalDocumentResponse, error) {
	rec, err := loadOwned(ctx, uc.invoiceRepo, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := fiscal.Transition(rec.DocumentType, rec.Status, entity.InvoiceStatusVoided); err != nil {
		return nil, err
	}
	rec.Status = entity.InvoiceStatusVoided
	if reason = strings.TrimSpace(reason); reason != "" {
		rec.AuthorityResponse = "ANULADO: " + reason
	}
	rec.UpdatedAt = uc.now()
	if err := uc.invoiceRepo.UpdateStatus(ctx, rec); err != nil {
		return nil, fmt.Errorf("actualizar estado: %w", err)
	}
	uc.logStep(rec, "void", "comprobante anulado")
	return ToFiscalDocumentResponse(rec), nil
}

// archive sube XML y RIDE autorizados. Un fallo aquí no revierte la autorización.
func (uc *AuthorityUseCase) archive(ctx context.Context, rec *entity.InvoiceRecord) {
	if uc.store == nil {
		return
	}
	issued, err := issuedFromRecord(rec)
	if err != nil {
		uc.log.Warn().Err(err).Str("invoice_id", rec.ID).Str("step", "archive").Msg("no se pudo archivar")
		return
	}
	ridePDF, err := uc.ride.Render(issued)
	if err != nil {
		uc.log.Warn().Err(err).Str("invoice_id", rec.ID).Str("step", "archive").Msg("RIDE no generado para archivo")
		return
	}
	xmlName, rideName, _ := comprobante.BundleFilenames(rec.AccessKey)
	issuedAt := rec.Document.IssueDate
	artifacts := []struct {
		name        string
		contentType string
		body        []byte
	}{
		{xmlName, "application/xml", []byte(rec.AuthorityResponse)},
		{rideName, "application/pdf", ridePDF},
	}
	for _, a := range artifacts {
		key := storage.ArtifactKey(rec.CompanyID, issuedAt, a.name)
		location, err := uc.store.Put(ctx, key, a.contentType, a.body)
		if err != nil {
			uc.log.Warn().Err(err).Str("invoice_id", rec.ID).Str("key", key).Str("step", "archive").Msg("archivo fallido")
			continue
		}
		uc.log.Debug().Str("invoice_id", rec.ID).Str("location", location).Str("step", "archive").Msg("artefacto archivado")
	}
}

func (uc *AuthorityUseCase) logStep(rec *entity.InvoiceRecord, step, msg string) {
	uc.log.Info().
		Str("invoice_id", rec.ID).
		Str("access_key", rec.AccessKey).
		Str("status", string(rec.Status)).
		Str("step", step).
		Msg(msg)
}

func messagesText(status string, msgs []comprobante.AuthorityMessage) string {
	resp := &comprobante.AuthorizationResponse{Messages: msgs}
	if text := resp.MessagesText(); text != "" {
		return status + ": " + text
	}
	return status
}

// Asegura que los adaptadores de infraestructura cumplen los puertos.
var (
	_ RideGenerator = (*pdf.RideRenderer)(nil)
	_ ArtifactStore = (*storage.S3Store)(nil)
	_ XMLBuilder    = (*comprobante.XMLBuilderService)(nil)
)
