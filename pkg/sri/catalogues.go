// Package sri contiene los catálogos, formatos y la clave de acceso de los
// comprobantes electrónicos del SRI (Servicio de Rentas Internas, Ecuador).
//
// Los catálogos son enumeraciones cerradas: un código fuera de tabla se rechaza
// en Parse* con un ValidationError, nunca se sustituye por una etiqueta genérica.
package sri

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// Tabla 3 - Tipos de comprobante
// =============================================================================

// DocumentType código de tipo de comprobante (codDoc).
type DocumentType string

const (
	DocumentTypeFactura      DocumentType = "01"
	DocumentTypeNotaCredito  DocumentType = "04"
	DocumentTypeNotaDebito   DocumentType = "05"
	DocumentTypeGuiaRemision DocumentType = "06"
	DocumentTypeRetencion    DocumentType = "07"
)

// ParseDocumentType valida el código contra la tabla del SRI.
func ParseDocumentType(code string) (DocumentType, error) {
	t := DocumentType(code)
	if !t.IsValid() {
		return "", validationErr("codDoc", "tipo de comprobante desconocido %q", code)
	}
	return t, nil
}

// IsValid indica si el código pertenece al catálogo.
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeFactura, DocumentTypeNotaCredito, DocumentTypeNotaDebito,
		DocumentTypeGuiaRemision, DocumentTypeRetencion:
		return true
	}
	return false
}

// Label etiqueta impresa en el RIDE.
func (t DocumentType) Label() string {
	switch t {
	case DocumentTypeFactura:
		return "FACTURA"
	case DocumentTypeNotaCredito:
		return "NOTA DE CRÉDITO"
	case DocumentTypeNotaDebito:
		return "NOTA DE DÉBITO"
	case DocumentTypeGuiaRemision:
		return "GUÍA DE REMISIÓN"
	case DocumentTypeRetencion:
		return "COMPROBANTE DE RETENCIÓN"
	}
	return ""
}

// SchemaVersion versión del esquema XSD soportada por tipo de comprobante.
// Solo factura y nota de crédito tienen esquema en este motor.
func (t DocumentType) SchemaVersion() (string, bool) {
	switch t {
	case DocumentTypeFactura:
		return "2.1.0", true
	case DocumentTypeNotaCredito:
		return "1.1.0", true
	}
	return "", false
}

func (t DocumentType) String() string { return string(t) }

// =============================================================================
// Tabla 6 - Tipo de identificación del comprador
// =============================================================================

// IdentificationType código tipoIdentificacionComprador.
type IdentificationType string

const (
	IdentificationRUC        IdentificationType = "04"
	IdentificationCedula     IdentificationType = "05"
	IdentificationPasaporte  IdentificationType = "06"
	IdentificationConsumidor IdentificationType = "07"
	IdentificationExterior   IdentificationType = "08"
)

// Datos del comprador cuando la venta es a consumidor final.
const (
	FinalConsumerIdentification = "9999999999999"
	FinalConsumerName           = "CONSUMIDOR FINAL"
)

// ParseIdentificationType valida el código contra la tabla del SRI.
func ParseIdentificationType(code string) (IdentificationType, error) {
	t := IdentificationType(code)
	if !t.IsValid() {
		return "", validationErr("tipoIdentificacionComprador", "tipo de identificación desconocido %q", code)
	}
	return t, nil
}

func (t IdentificationType) IsValid() bool {
	switch t {
	case IdentificationRUC, IdentificationCedula, IdentificationPasaporte,
		IdentificationConsumidor, IdentificationExterior:
		return true
	}
	return false
}

// Label etiqueta del tipo de identificación en el bloque del comprador del RIDE.
func (t IdentificationType) Label() string {
	switch t {
	case IdentificationRUC:
		return "RUC"
	case IdentificationCedula:
		return "CÉDULA"
	case IdentificationPasaporte:
		return "PASAPORTE"
	case IdentificationConsumidor:
		return "CONSUMIDOR FINAL"
	case IdentificationExterior:
		return "IDENTIFICACIÓN DEL EXTERIOR"
	}
	return ""
}

// ExpectedLength longitud exacta de la identificación; 0 = libre (pasaporte, exterior).
func (t IdentificationType) ExpectedLength() int {
	switch t {
	case IdentificationRUC, IdentificationConsumidor:
		return 13
	case IdentificationCedula:
		return 10
	}
	return 0
}

// =============================================================================
// Tabla 24 - Formas de pago
// =============================================================================

// PaymentMethod código formaPago.
type PaymentMethod string

const (
	PaymentSinSistemaFinanciero PaymentMethod = "01"
	PaymentCompensacionDeudas   PaymentMethod = "15"
	PaymentTarjetaDebito        PaymentMethod = "16"
	PaymentDineroElectronico    PaymentMethod = "17"
	PaymentTarjetaPrepago       PaymentMethod = "18"
	PaymentTarjetaCredito       PaymentMethod = "19"
	PaymentOtrosSistemaFinanc   PaymentMethod = "20"
	PaymentEndosoTitulos        PaymentMethod = "21"
)

// ParsePaymentMethod valida el código contra la tabla del SRI.
func ParsePaymentMethod(code string) (PaymentMethod, error) {
	m := PaymentMethod(code)
	if !m.IsValid() {
		return "", validationErr("formaPago", "forma de pago desconocida %q", code)
	}
	return m, nil
}

func (m PaymentMethod) IsValid() bool {
	return m.Label() != ""
}

// Label descripción oficial abreviada para el RIDE.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentSinSistemaFinanciero:
		return "SIN UTILIZACIÓN DEL SISTEMA FINANCIERO"
	case PaymentCompensacionDeudas:
		return "COMPENSACIÓN DE DEUDAS"
	case PaymentTarjetaDebito:
		return "TARJETA DE DÉBITO"
	case PaymentDineroElectronico:
		return "DINERO ELECTRÓNICO"
	case PaymentTarjetaPrepago:
		return "TARJETA PREPAGO"
	case PaymentTarjetaCredito:
		return "TARJETA DE CRÉDITO"
	case PaymentOtrosSistemaFinanc:
		return "OTROS CON UTILIZACIÓN DEL SISTEMA FINANCIERO"
	case PaymentEndosoTitulos:
		return "ENDOSO DE TÍTULOS"
	}
	return ""
}

// =============================================================================
// Tabla 16/17 - Impuestos y tarifas
// =============================================================================

// TaxType código de impuesto.
type TaxType string

const (
	TaxTypeIVA    TaxType = "2"
	TaxTypeICE    TaxType = "3"
	TaxTypeIRBPNR TaxType = "5"
)

// ParseTaxType valida el código de impuesto.
func ParseTaxType(code string) (TaxType, error) {
	t := TaxType(code)
	switch t {
	case TaxTypeIVA, TaxTypeICE, TaxTypeIRBPNR:
		return t, nil
	}
	return "", validationErr("codigo", "impuesto desconocido %q", code)
}

// Label nombre corto del impuesto.
func (t TaxType) Label() string {
	switch t {
	case TaxTypeIVA:
		return "IVA"
	case TaxTypeICE:
		return "ICE"
	case TaxTypeIRBPNR:
		return "IRBPNR"
	}
	return ""
}

// TaxRateCode código de porcentaje de IVA (codigoPorcentaje).
type TaxRateCode string

const (
	RateCode0        TaxRateCode = "0"
	RateCode12       TaxRateCode = "2"
	RateCode14       TaxRateCode = "3"
	RateCode15       TaxRateCode = "4"
	RateCode5        TaxRateCode = "5"
	RateCodeNoObjeto TaxRateCode = "6"
	RateCodeExento   TaxRateCode = "7"
)

// ParseTaxRateCode valida el código de tarifa de IVA.
func ParseTaxRateCode(code string) (TaxRateCode, error) {
	c := TaxRateCode(code)
	if _, ok := c.percent(); !ok {
		return "", validationErr("codigoPorcentaje", "código de tarifa desconocido %q", code)
	}
	return c, nil
}

func (c TaxRateCode) percent() (int64, bool) {
	switch c {
	case RateCode0, RateCodeNoObjeto, RateCodeExento:
		return 0, true
	case RateCode5:
		return 5, true
	case RateCode12:
		return 12, true
	case RateCode14:
		return 14, true
	case RateCode15:
		return 15, true
	}
	return 0, false
}

// Percent tarifa en porcentaje asociada al código.
func (c TaxRateCode) Percent() decimal.Decimal {
	p, _ := c.percent()
	return decimal.NewFromInt(p)
}

// IsValid indica si el código pertenece al catálogo.
func (c TaxRateCode) IsValid() bool {
	_, ok := c.percent()
	return ok
}

// Label texto del subtotal en el RIDE ("IVA 15%", "NO OBJETO DE IVA"...).
func (c TaxRateCode) Label() string {
	switch c {
	case RateCodeNoObjeto:
		return "NO OBJETO DE IVA"
	case RateCodeExento:
		return "EXENTO DE IVA"
	}
	p, ok := c.percent()
	if !ok {
		return ""
	}
	return "IVA " + decimal.NewFromInt(p).String() + "%"
}

// RateCodeForPercent mapea la tarifa (0, 5, 12, 14, 15) a su código SRI.
func RateCodeForPercent(pct decimal.Decimal) (TaxRateCode, error) {
	if !pct.Equal(pct.Truncate(0)) {
		return "", validationErr("tarifa", "tarifa de IVA no soportada %s%%", pct.String())
	}
	switch pct.IntPart() {
	case 0:
		return RateCode0, nil
	case 5:
		return RateCode5, nil
	case 12:
		return RateCode12, nil
	case 14:
		return RateCode14, nil
	case 15:
		return RateCode15, nil
	}
	return "", validationErr("tarifa", "tarifa de IVA no soportada %s%%", pct.String())
}

// =============================================================================
// Ambiente y tipo de emisión
// =============================================================================

// Environment código de ambiente (1 = pruebas, 2 = producción).
type Environment string

const (
	EnvironmentTest       Environment = "1"
	EnvironmentProduction Environment = "2"
)

// ParseEnvironment acepta el código ("1"/"2") o el nombre ("test"/"production").
func ParseEnvironment(s string) (Environment, error) {
	switch s {
	case "1", "test", "pruebas":
		return EnvironmentTest, nil
	case "2", "production", "produccion", "producción":
		return EnvironmentProduction, nil
	}
	return "", validationErr("ambiente", "ambiente desconocido %q", s)
}

// Label texto del ambiente en el RIDE y en la respuesta de autorización.
func (e Environment) Label() string {
	switch e {
	case EnvironmentTest:
		return "PRUEBAS"
	case EnvironmentProduction:
		return "PRODUCCIÓN"
	}
	return ""
}

// EmissionType código de tipo de emisión (1 = normal).
type EmissionType string

const EmissionNormal EmissionType = "1"

// ParseEmissionType valida el tipo de emisión.
func ParseEmissionType(s string) (EmissionType, error) {
	if EmissionType(s) != EmissionNormal {
		return "", validationErr("tipoEmision", "tipo de emisión desconocido %q", s)
	}
	return EmissionNormal, nil
}

// Label texto del tipo de emisión en el RIDE.
func (e EmissionType) Label() string {
	if e == EmissionNormal {
		return "NORMAL"
	}
	return ""
}

// CurrencyDollar valor de <moneda> para comprobantes en dólares.
const CurrencyDollar = "DOLAR"
