package billing

import (
	"context"
	"fmt"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/entity"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/fiscal"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/repository"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/infrastructure/comprobante"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/infrastructure/pdf"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/logger"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/sri"
)

// RideUseCase genera el RIDE y el paquete ZIP de un comprobante.
// Solo se permite desde generated: antes no existe clave de acceso.
type RideUseCase struct {
	invoiceRepo repository.InvoiceRepository
	generator   RideGenerator
	outputDir   string
	log         *logger.Logger
}

// NewRideUseCase construye el caso de uso. outputDir es el destino de Export.
func NewRideUseCase(invoiceRepo repository.InvoiceRepository, generator RideGenerator, outputDir string, log *logger.Logger) *RideUseCase {
	return &RideUseCase{
		invoiceRepo: invoiceRepo,
		generator:   generator,
		outputDir:   outputDir,
		log:         log.Component("ride"),
	}
}

// Download devuelve el PDF en memoria y su nombre de archivo.
//
// Retorna:
//   - domain.ErrNotFound      si el comprobante no existe.
//   - domain.ErrForbidden     si pertenece a otra empresa.
//   - sri.ErrValidation       si aún está en draft.
//   - pdf.ErrRenderIO         si falla el renderizado.
func (uc *RideUseCase) Download(ctx context.Context, companyID, id string) ([]byte, string, error) {
	rec, issued, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.generator.Render(issued)
	if err != nil {
		uc.log.Error().Err(err).Str("invoice_id", rec.ID).Str("step", "ride").Msg("RIDE no generado")
		return nil, "", err
	}
	return data, pdf.FileName(rec.AccessKey), nil
}

// Export escribe RIDE-<clave>.pdf en el directorio configurado y devuelve la ruta.
func (uc *RideUseCase) Export(ctx context.Context, companyID, id string) (string, error) {
	rec, issued, err := uc.load(ctx, companyID, id)
	if err != nil {
		return "", err
	}
	path, err := uc.generator.RenderToFile(uc.outputDir, issued)
	if err != nil {
		uc.log.Error().Err(err).Str("invoice_id", rec.ID).Str("step", "ride-export").Msg("RIDE no exportado")
		return "", err
	}
	uc.log.Info().Str("invoice_id", rec.ID).Str("path", path).Str("step", "ride-export").Msg("RIDE exportado")
	return path, nil
}

// Bundle ZIP con el XML (sobre de autorización si existe) y el RIDE.
func (uc *RideUseCase) Bundle(ctx context.Context, companyID, id string) ([]byte, string, error) {
	rec, issued, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, "", err
	}
	ridePDF, err := uc.generator.Render(issued)
	if err != nil {
		return nil, "", err
	}
	xmlBody := rec.XML
	if rec.Status == entity.InvoiceStatusAuthorized && rec.AuthorityResponse != "" {
		xmlBody = rec.AuthorityResponse
	}
	zipBytes, err := comprobante.BuildBundle(rec.AccessKey, []byte(xmlBody), ridePDF)
	if err != nil {
		return nil, "", fmt.Errorf("empaquetar comprobante: %w", err)
	}
	_, _, zipName := comprobante.BundleFilenames(rec.AccessKey)
	return zipBytes, zipName, nil
}

func (uc *RideUseCase) load(ctx context.Context, companyID, id string) (*entity.InvoiceRecord, *fiscal.IssuedDocument, error) {
	rec, err := loadOwned(ctx, uc.invoiceRepo, companyID, id)
	if err != nil {
		return nil, nil, err
	}
	if rec.Status == entity.InvoiceStatusDraft {
		return nil, nil, sri.NewValidationError("estado", "el comprobante está en borrador y no tiene RIDE")
	}
	issued, err := issuedFromRecord(rec)
	if err != nil {
		return nil, nil, err
	}
	return rec, issued, nil
}
