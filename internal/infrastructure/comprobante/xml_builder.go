// Package comprobante arma los artefactos que se entregan al SRI: el XML del
// comprobante (factura 2.1.0, nota de crédito 1.1.0), el sobre de autorización,
// el cliente de autorización y el paquete ZIP de descarga.
package comprobante

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/entity"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/fiscal"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/sri"
)

const (
	rootID      = "comprobante"
	rimpeLegend = "CONTRIBUYENTE RÉGIMEN RIMPE"
)

// XMLBuilderService construye el XML del comprobante sin firma.
type XMLBuilderService struct{}

// NewXMLBuilderService crea el servicio.
func NewXMLBuilderService() *XMLBuilderService {
	return &XMLBuilderService{}
}

// header segmentos ya formateados que comparten infoTributaria y el RIDE.
type header struct {
	estab, pto, seq string
}

// Build genera el XML según el tipo de comprobante. Ante cualquier error de
// formato no devuelve contenido parcial.
func (s *XMLBuilderService) Build(issued *fiscal.IssuedDocument) ([]byte, error) {
	if issued == nil || issued.Document == nil {
		return nil, fmt.Errorf("comprobante: documento nulo")
	}
	if err := sri.ValidateAccessKey(issued.AccessKey); err != nil {
		return nil, err
	}
	h, err := formatHeader(issued.Document)
	if err != nil {
		return nil, err
	}

	switch sri.DocumentType(issued.Document.DocumentType) {
	case sri.DocumentTypeFactura:
		return s.buildFactura(issued, h)
	case sri.DocumentTypeNotaCredito:
		return s.buildNotaCredito(issued, h)
	}
	return nil, sri.NewValidationError("codDoc", "sin esquema XML para el tipo %q", issued.Document.DocumentType)
}

func formatHeader(doc *entity.FiscalDocument) (header, error) {
	estab, err := sri.PadDigits("estab", doc.Emitter.Establishment, 3)
	if err != nil {
		return header{}, err
	}
	pto, err := sri.PadDigits("ptoEmi", doc.Emitter.EmissionPoint, 3)
	if err != nil {
		return header{}, err
	}
	seq, err := sri.PadNumber("secuencial", doc.Sequential, 9)
	if err != nil {
		return header{}, err
	}
	return header{estab: estab, pto: pto, seq: seq}, nil
}

// ── Factura v2.1.0 ────────────────────────────────────────────────────────────

func (s *XMLBuilderService) buildFactura(issued *fiscal.IssuedDocument, h header) ([]byte, error) {
	doc := issued.Document
	xdoc, root := newComprobanteDocument("factura", "2.1.0")

	writeInfoTributaria(root, issued, h)

	info := root.CreateElement("infoFactura")
	leaf(info, "fechaEmision", sri.FormatDate(doc.IssueDate))
	leaf(info, "dirEstablecimiento", doc.Emitter.EstablishmentAddressOrMatrix())
	optional(info, "contribuyenteEspecial", doc.Emitter.SpecialTaxpayer)
	leaf(info, "obligadoContabilidad", yesNo(doc.Emitter.AccountingRequired))
	leaf(info, "tipoIdentificacionComprador", doc.Buyer.IdentificationType)
	leaf(info, "razonSocialComprador", doc.Buyer.Name)
	leaf(info, "identificacionComprador", doc.Buyer.Identification)
	optional(info, "direccionComprador", doc.Buyer.Address)
	leaf(info, "totalSinImpuestos", sri.Amount2(doc.Totals.Net))
	leaf(info, "totalDescuento", sri.Amount2(doc.Totals.Discount))
	writeTotalConImpuestos(info, issued.Taxes)
	leaf(info, "propina", sri.Amount2(doc.Totals.Tip))
	leaf(info, "importeTotal", sri.Amount2(doc.Totals.Grand))
	leaf(info, "moneda", currency(doc))
	if len(doc.Payments) > 0 {
		pagos := info.CreateElement("pagos")
		for _, p := range doc.Payments {
			pago := pagos.CreateElement("pago")
			leaf(pago, "formaPago", p.Method)
			leaf(pago, "total", sri.Amount2(p.Amount))
			if p.Term > 0 {
				leaf(pago, "plazo", strconv.Itoa(p.Term))
				optional(pago, "unidadTiempo", p.TimeUnit)
			}
		}
	}

	writeDetalles(root, doc.Items, "codigoPrincipal")
	writeInfoAdicional(root, doc)

	return serialize(xdoc)
}

// ── Nota de crédito v1.1.0 ────────────────────────────────────────────────────

func (s *XMLBuilderService) buildNotaCredito(issued *fiscal.IssuedDocument, h header) ([]byte, error) {
	doc := issued.Document
	xdoc, root := newComprobanteDocument("notaCredito", "1.1.0")

	writeInfoTributaria(root, issued, h)

	info := root.CreateElement("infoNotaCredito")
	leaf(info, "fechaEmision", sri.FormatDate(doc.IssueDate))
	leaf(info, "dirEstablecimiento", doc.Emitter.EstablishmentAddressOrMatrix())
	leaf(info, "tipoIdentificacionComprador", doc.Buyer.IdentificationType)
	leaf(info, "razonSocialComprador", doc.Buyer.Name)
	leaf(info, "identificacionComprador", doc.Buyer.Identification)
	optional(info, "contribuyenteEspecial", doc.Emitter.SpecialTaxpayer)
	leaf(info, "obligadoContabilidad", yesNo(doc.Emitter.AccountingRequired))
	var mod entity.ModifiedDocument
	if doc.Modified != nil {
		mod = *doc.Modified
	}
	leaf(info, "codDocModificado", mod.Type)
	leaf(info, "numDocModificado", mod.Number)
	if mod.IssueDate.IsZero() {
		leaf(info, "fechaEmisionDocSustento", "")
	} else {
		leaf(info, "fechaEmisionDocSustento", sri.FormatDate(mod.IssueDate))
	}
	leaf(info, "totalSinImpuestos", sri.Amount2(doc.Totals.Net))
	leaf(info, "valorModificacion", sri.Amount2(doc.Totals.Grand))
	leaf(info, "moneda", currency(doc))
	writeTotalConImpuestos(info, issued.Taxes)
	leaf(info, "motivo", doc.Reason)

	writeDetalles(root, doc.Items, "codigoInterno")
	writeInfoAdicional(root, doc)

	return serialize(xdoc)
}

// ── Bloques comunes ───────────────────────────────────────────────────────────

func writeInfoTributaria(root *etree.Element, issued *fiscal.IssuedDocument, h header) {
	doc := issued.Document
	e := doc.Emitter
	it := root.CreateElement("infoTributaria")
	leaf(it, "ambiente", e.Environment)
	leaf(it, "tipoEmision", e.EmissionType)
	leaf(it, "razonSocial", e.LegalName)
	optional(it, "nombreComercial", e.TradeName)
	leaf(it, "ruc", e.RUC)
	leaf(it, "claveAcceso", issued.AccessKey)
	leaf(it, "codDoc", doc.DocumentType)
	leaf(it, "estab", h.estab)
	leaf(it, "ptoEmi", h.pto)
	leaf(it, "secuencial", h.seq)
	leaf(it, "dirMatriz", e.MatrixAddress)
	if e.SimplifiedRegime {
		leaf(it, "contribuyenteRimpe", rimpeLegend)
	}
}

// writeTotalConImpuestos un totalImpuesto por grupo, en el orden del agregador.
func writeTotalConImpuestos(parent *etree.Element, taxes []fiscal.TaxBucket) {
	tc := parent.CreateElement("totalConImpuestos")
	for _, b := range taxes {
		ti := tc.CreateElement("totalImpuesto")
		leaf(ti, "codigo", b.TaxType)
		leaf(ti, "codigoPorcentaje", b.RateCode)
		leaf(ti, "baseImponible", sri.Amount2(b.Base))
		leaf(ti, "valor", sri.Amount2(b.Amount))
	}
}

// writeDetalles codeTag es codigoPrincipal (factura) o codigoInterno (nota de crédito).
func writeDetalles(root *etree.Element, items []entity.LineItem, codeTag string) {
	detalles := root.CreateElement("detalles")
	for _, it := range items {
		det := detalles.CreateElement("detalle")
		leaf(det, codeTag, it.Code)
		leaf(det, "descripcion", it.Description)
		leaf(det, "cantidad", sri.Amount6(it.Quantity))
		leaf(det, "precioUnitario", sri.Amount6(it.UnitPrice))
		leaf(det, "descuento", sri.Amount2(it.Discount))
		leaf(det, "precioTotalSinImpuesto", sri.Amount2(it.Net))
		imp := det.CreateElement("impuestos").CreateElement("impuesto")
		leaf(imp, "codigo", it.TaxType)
		leaf(imp, "codigoPorcentaje", it.RateCode)
		leaf(imp, "tarifa", sri.Amount2(it.TaxRate))
		leaf(imp, "baseImponible", sri.Amount2(it.TaxableBase))
		leaf(imp, "valor", sri.Amount2(it.TaxAmount))
	}
}

// writeInfoAdicional se omite por completo si no hay campos.
func writeInfoAdicional(root *etree.Element, doc *entity.FiscalDocument) {
	fields := fiscal.AdditionalFields(doc)
	if len(fields) == 0 {
		return
	}
	ia := root.CreateElement("infoAdicional")
	for _, f := range fields {
		leaf(ia, "campoAdicional", f.Value).CreateAttr("nombre", f.Name)
	}
}

func yesNo(b bool) string {
	if b {
		return "SI"
	}
	return "NO"
}

func currency(doc *entity.FiscalDocument) string {
	if doc.Currency == "" {
		return sri.CurrencyDollar
	}
	return doc.Currency
}
