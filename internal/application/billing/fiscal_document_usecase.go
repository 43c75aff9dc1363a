package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/application/dto"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/entity"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/fiscal"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/repository"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/logger"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/sri"
)

// SRIDefaults valores usados cuando el emisor no los tiene configurados.
type SRIDefaults struct {
	Environment  string
	EmissionType string
}

// FiscalDocumentUseCase genera facturas y notas de crédito:
//
//	secuencial → ensamblado → validación → clave de acceso → XML → registro en "generated"
//
// Todo ocurre en una transacción; si falla cualquier paso el secuencial no se consume.
type FiscalDocumentUseCase struct {
	txRunner    FiscalTxRunner
	invoiceRepo repository.InvoiceRepository
	emitterRepo repository.EmitterRepository
	customers   repository.CustomerRepository
	assembler   *DocumentAssembler
	codec       *sri.AccessKeyCodec
	xmlBuilder  XMLBuilder
	numericCode NumericCodeSource
	defaults    SRIDefaults
	log         *logger.Logger
	now         func() time.Time
}

// NewFiscalDocumentUseCase construye el caso de uso.
func NewFiscalDocumentUseCase(
	txRunner FiscalTxRunner,
	invoiceRepo repository.InvoiceRepository,
	emitterRepo repository.EmitterRepository,
	xmlBuilder XMLBuilder,
	numericCode NumericCodeSource,
	defaults SRIDefaults,
	log *logger.Logger,
) *FiscalDocumentUseCase {
	if numericCode == nil {
		numericCode = RandomNumericCode{}
	}
	return &FiscalDocumentUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		emitterRepo: emitterRepo,
		assembler:   NewDocumentAssembler(),
		codec:       sri.NewAccessKeyCodec(),
		xmlBuilder:  xmlBuilder,
		numericCode: numericCode,
		defaults:    defaults,
		log:         log.Component("fiscal"),
		now:         time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *FiscalDocumentUseCase) WithClock(now func() time.Time) *FiscalDocumentUseCase {
	uc.now = now
	return uc
}

// WithCustomers habilita customer_id en IssueInvoice.
func (uc *FiscalDocumentUseCase) WithCustomers(repo repository.CustomerRepository) *FiscalDocumentUseCase {
	uc.customers = repo
	return uc
}

// IssueInvoice genera una factura a partir de la orden.
func (uc *FiscalDocumentUseCase) IssueInvoice(ctx context.Context, companyID string, in dto.IssueInvoiceRequest) (*dto.FiscalDocumentResponse, error) {
	if len(in.Items) == 0 {
		return nil, sri.NewValidationError("detalles", "el comprobante debe tener al menos una línea")
	}
	date, err := uc.issueDate(in.IssueDate)
	if err != nil {
		return nil, err
	}
	emitter, err := uc.emitter(ctx, companyID)
	if err != nil {
		return nil, err
	}
	order := OrderFromRequest(in, date)
	if order.Buyer == nil && in.CustomerID != "" {
		if order.Buyer, err = uc.directoryBuyer(ctx, companyID, in.CustomerID); err != nil {
			return nil, err
		}
	}
	rec, err := uc.generate(ctx, companyID, sri.DocumentTypeFactura, func(seq int64) (*entity.FiscalDocument, error) {
		return uc.assembler.AssembleInvoice(emitter, seq, order)
	})
	if err != nil {
		return nil, err
	}
	return ToFiscalDocumentResponse(rec), nil
}

// IssueCreditNote genera una nota de crédito sobre una factura autorizada de la misma empresa.
func (uc *FiscalDocumentUseCase) IssueCreditNote(ctx context.Context, companyID string, in dto.IssueCreditNoteRequest) (*dto.FiscalDocumentResponse, error) {
	if in.InvoiceID == "" {
		return nil, sri.NewValidationError("numDocModificado", "invoice_id es obligatorio")
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, sri.NewValidationError("motivo", "la nota de crédito requiere un motivo")
	}
	original, err := loadOwned(ctx, uc.invoiceRepo, companyID, in.InvoiceID)
	if err != nil {
		return nil, err
	}
	if original.DocumentType != string(sri.DocumentTypeFactura) || original.Status != entity.InvoiceStatusAuthorized {
		return nil, sri.NewValidationError("numDocModificado",
			"solo se emiten notas de crédito sobre facturas autorizadas (estado actual %s)", original.Status)
	}
	date, err := uc.issueDate(in.IssueDate)
	if err != nil {
		return nil, err
	}
	emitter, err := uc.emitter(ctx, companyID)
	if err != nil {
		return nil, err
	}
	items := itemsFromDTO(in.Items)
	rec, err := uc.generate(ctx, companyID, sri.DocumentTypeNotaCredito, func(seq int64) (*entity.FiscalDocument, error) {
		return uc.assembler.AssembleCreditNote(emitter, seq, original, strings.TrimSpace(in.Reason), items, date)
	})
	if err != nil {
		return nil, err
	}
	return ToFiscalDocumentResponse(rec), nil
}

// Get devuelve el comprobante si pertenece a la empresa.
func (uc *FiscalDocumentUseCase) Get(ctx context.Context, companyID, id string) (*dto.FiscalDocumentResponse, error) {
	rec, err := loadOwned(ctx, uc.invoiceRepo, companyID, id)
	if err != nil {
		return nil, err
	}
	return ToFiscalDocumentResponse(rec), nil
}

// List comprobantes de la empresa, más recientes primero.
func (uc *FiscalDocumentUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) (*dto.FiscalDocumentListResponse, error) {
	page.DefaultPage()
	recs, err := uc.invoiceRepo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar comprobantes: %w", err)
	}
	out := &dto.FiscalDocumentListResponse{
		Items: make([]dto.FiscalDocumentResponse, 0, len(recs)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, rec := range recs {
		out.Items = append(out.Items, *ToFiscalDocumentResponse(rec))
	}
	return out, nil
}

// GetXML devuelve el XML sin firma tal como se generó y el nombre de archivo.
func (uc *FiscalDocumentUseCase) GetXML(ctx context.Context, companyID, id string) ([]byte, string, error) {
	rec, err := loadOwned(ctx, uc.invoiceRepo, companyID, id)
	if err != nil {
		return nil, "", err
	}
	if rec.XML == "" {
		return nil, "", sri.NewValidationError("xml", "el comprobante está en estado %s y aún no tiene XML", rec.Status)
	}
	return []byte(rec.XML), rec.AccessKey + ".xml", nil
}

// generate ejecuta el ciclo de generación dentro de la transacción.
func (uc *FiscalDocumentUseCase) generate(
	ctx context.Context,
	companyID string,
	docType sri.DocumentType,
	assemble func(seq int64) (*entity.FiscalDocument, error),
) (*entity.InvoiceRecord, error) {
	if err := fiscal.Transition(string(docType), entity.InvoiceStatusDraft, entity.InvoiceStatusGenerated); err != nil {
		return nil, err
	}
	numericCode, err := uc.numericCode.NumericCode()
	if err != nil {
		return nil, err
	}

	var rec *entity.InvoiceRecord
	err = uc.txRunner.RunFiscal(ctx, func(seqRepo repository.SequenceRepository, invoiceRepo repository.InvoiceRepository) error {
		seq, err := seqRepo.Next(ctx, companyID, string(docType))
		if err != nil {
			return fmt.Errorf("reservar secuencial: %w", err)
		}
		doc, err := assemble(seq)
		if err != nil {
			return err
		}
		issued, xml, err := IssueDocument(uc.codec, uc.xmlBuilder, doc, numericCode)
		if err != nil {
			return err
		}
		key := issued.AccessKey
		number, err := sri.DocumentNumber(doc.Emitter.Establishment, doc.Emitter.EmissionPoint, doc.Sequential)
		if err != nil {
			return err
		}
		now := uc.now()
		rec = &entity.InvoiceRecord{
			ID:           uuid.New().String(),
			CompanyID:    companyID,
			DocumentType: string(docType),
			Number:       number,
			Document:     doc,
			AccessKey:    key,
			NumericCode:  numericCode,
			XML:          string(xml),
			Status:       entity.InvoiceStatusGenerated,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return invoiceRepo.Create(ctx, rec)
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("company_id", companyID).Str("document_type", string(docType)).
			Str("step", "generate").Msg("comprobante no generado")
		return nil, err
	}
	uc.log.Info().
		Str("invoice_id", rec.ID).
		Str("access_key", rec.AccessKey).
		Str("number", rec.Number).
		Str("status", string(rec.Status)).
		Str("step", "generate").
		Msg("comprobante generado")
	return rec, nil
}

func (uc *FiscalDocumentUseCase) directoryBuyer(ctx context.Context, companyID, customerID string) (*entity.BuyerInfo, error) {
	if uc.customers == nil {
		return nil, sri.NewValidationError("customer_id", "directorio de compradores no disponible")
	}
	customer, err := lookupCustomer(ctx, uc.customers, companyID, customerID)
	if err != nil {
		return nil, err
	}
	buyer := customer.BuyerInfo
	return &buyer, nil
}

func (uc *FiscalDocumentUseCase) emitter(ctx context.Context, companyID string) (*entity.EmitterConfig, error) {
	e, err := uc.emitterRepo.GetByCompanyID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("obtener emisor: %w", err)
	}
	if e == nil {
		return nil, fmt.Errorf("%w: la empresa no tiene emisor configurado", domain.ErrNotFound)
	}
	cfg := *e
	if cfg.Environment == "" {
		cfg.Environment = uc.defaults.Environment
	}
	if cfg.EmissionType == "" {
		cfg.EmissionType = uc.defaults.EmissionType
	}
	return &cfg, nil
}

func (uc *FiscalDocumentUseCase) issueDate(s string) (time.Time, error) {
	if s == "" {
		return uc.now(), nil
	}
	return sri.ParseDate(s)
}

// IssueDocument valida el documento, calcula la clave y arma el XML. No toca
// persistencia; lo usan la generación en línea y la herramienta sri.
func IssueDocument(codec *sri.AccessKeyCodec, builder XMLBuilder, doc *entity.FiscalDocument, numericCode string) (*fiscal.IssuedDocument, []byte, error) {
	if err := fiscal.ValidateDocument(doc); err != nil {
		return nil, nil, err
	}
	key, err := codec.Build(AccessKeyParams(doc, numericCode))
	if err != nil {
		return nil, nil, err
	}
	issued, err := fiscal.NewIssuedDocument(doc, key, nil)
	if err != nil {
		return nil, nil, err
	}
	xml, err := builder.Build(issued)
	if err != nil {
		return nil, nil, err
	}
	return issued, xml, nil
}

// OrderFromRequest convierte el cuerpo de la solicitud en la orden a facturar.
func OrderFromRequest(in dto.IssueInvoiceRequest, issueDate time.Time) *OrderSnapshot {
	return &OrderSnapshot{
		Buyer:     buyerFromDTO(in.Buyer),
		Items:     itemsFromDTO(in.Items),
		Payments:  paymentsFromDTO(in.Payments),
		Tip:       in.Tip,
		IssueDate: issueDate,
	}
}

// AccessKeyParams segmentos de la clave a partir del documento. Con el mismo
// código numérico la clave resultante es siempre la misma.
func AccessKeyParams(doc *entity.FiscalDocument, numericCode string) *sri.AccessKeyParams {
	return &sri.AccessKeyParams{
		IssueDate:     doc.IssueDate,
		DocumentType:  sri.DocumentType(doc.DocumentType),
		RUC:           doc.Emitter.RUC,
		Environment:   sri.Environment(doc.Emitter.Environment),
		Establishment: doc.Emitter.Establishment,
		EmissionPoint: doc.Emitter.EmissionPoint,
		Sequential:    doc.Sequential,
		NumericCode:   numericCode,
		EmissionType:  sri.EmissionType(doc.Emitter.EmissionType),
	}
}

// loadOwned obtiene el registro y verifica que sea de la empresa del token.
func loadOwned(ctx context.Context, repo repository.InvoiceRepository, companyID, id string) (*entity.InvoiceRecord, error) {
	rec, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener comprobante: %w", err)
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	if rec.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return rec, nil
}

// issuedFromRecord reconstruye la entrada del XML/RIDE desde un registro persistido.
func issuedFromRecord(rec *entity.InvoiceRecord) (*fiscal.IssuedDocument, error) {
	if rec.Document == nil || rec.AccessKey == "" {
		return nil, sri.NewValidationError("claveAcceso", "el comprobante está en estado %s y aún no tiene clave de acceso", rec.Status)
	}
	return fiscal.NewIssuedDocument(rec.Document, rec.AccessKey, fiscal.AuthorizationFromRecord(rec))
}

// ToFiscalDocumentResponse mapea el registro a la respuesta HTTP.
func ToFiscalDocumentResponse(rec *entity.InvoiceRecord) *dto.FiscalDocumentResponse {
	out := &dto.FiscalDocumentResponse{
		ID:                  rec.ID,
		DocumentType:        rec.DocumentType,
		DocumentLabel:       sri.DocumentType(rec.DocumentType).Label(),
		Number:              rec.Number,
		AccessKey:           rec.AccessKey,
		Status:              string(rec.Status),
		AuthorizationNumber: rec.AuthorizationNumber,
		AuthorizedAt:        rec.AuthorizedAt,
		AuthorityResponse:   rec.AuthorityResponse,
		CreatedAt:           rec.CreatedAt,
		UpdatedAt:           rec.UpdatedAt,
		Taxes:               []dto.TaxTotalResponse{},
	}
	doc := rec.Document
	if doc == nil {
		return out
	}
	out.IssueDate = sri.FormatDate(doc.IssueDate)
	out.BuyerIdentification = doc.Buyer.Identification
	out.BuyerName = doc.Buyer.Name
	out.Net = doc.Totals.Net
	out.Discount = doc.Totals.Discount
	out.Tax = doc.Totals.Tax
	out.Tip = doc.Totals.Tip
	out.Total = doc.Totals.Grand
	out.Reason = doc.Reason
	if doc.Modified != nil {
		out.ModifiedNumber = doc.Modified.Number
	}
	if buckets, err := fiscal.AggregateTaxes(doc.Items); err == nil {
		for _, b := range buckets {
			out.Taxes = append(out.Taxes, dto.TaxTotalResponse{
				TaxType: b.TaxType, RateCode: b.RateCode, Rate: b.Rate, Base: b.Base, Amount: b.Amount,
			})
		}
	}
	return out
}

func buyerFromDTO(b *dto.BuyerRequest) *entity.BuyerInfo {
	if b == nil {
		return nil
	}
	return &entity.BuyerInfo{
		IdentificationType: b.IdentificationType,
		Identification:     strings.TrimSpace(b.Identification),
		Name:               strings.TrimSpace(b.Name),
		Address:            strings.TrimSpace(b.Address),
		Email:              strings.TrimSpace(b.Email),
		Phone:              strings.TrimSpace(b.Phone),
	}
}

func itemsFromDTO(items []dto.FiscalItemRequest) []OrderItem {
	out := make([]OrderItem, 0, len(items))
	for _, it := range items {
		out = append(out, OrderItem{
			Code:        it.Code,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
			TaxPercent:  it.TaxPercent,
			RateCode:    it.RateCode,
		})
	}
	return out
}

func paymentsFromDTO(payments []dto.PaymentRequest) []entity.Payment {
	out := make([]entity.Payment, 0, len(payments))
	for _, p := range payments {
		out = append(out, entity.Payment{Method: p.Method, Amount: p.Amount, Term: p.Term, TimeUnit: p.TimeUnit})
	}
	return out
}
