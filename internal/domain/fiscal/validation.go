package fiscal

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/entity"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/sri"
)

// ErrInvalidDocument agrupa errores de validación del comprobante.
var ErrInvalidDocument = errors.New("comprobante inválido para el SRI")

var hundred = decimal.NewFromInt(100)

// LineTax impuesto de una línea: round(base × tarifa / 100, 2).
func LineTax(base, ratePercent decimal.Decimal) decimal.Decimal {
	return sri.Round2(base.Mul(ratePercent).Div(hundred))
}

// ValidateDocument revisa catálogos, emisor, comprador y coherencia de totales
// antes de generar clave, XML o RIDE. Devuelve todos los problemas unidos con errors.Join.
func ValidateDocument(doc *entity.FiscalDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: documento nulo", ErrInvalidDocument)
	}
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, sri.NewValidationError(field, format, args...))
	}

	dt, err := sri.ParseDocumentType(doc.DocumentType)
	if err != nil {
		errs = append(errs, err)
	} else if _, ok := dt.SchemaVersion(); !ok {
		add("codDoc", "tipo de comprobante %s no soportado", dt.Label())
	}

	// Emisor.
	e := doc.Emitter
	if len(e.RUC) != 13 || !sri.IsDigits(e.RUC) {
		add("ruc", "el RUC del emisor debe tener 13 dígitos")
	}
	if e.LegalName == "" {
		add("razonSocial", "obligatoria")
	}
	if e.MatrixAddress == "" {
		add("dirMatriz", "obligatoria")
	}
	if len(e.Establishment) != 3 || !sri.IsDigits(e.Establishment) {
		add("estab", "debe tener 3 dígitos")
	}
	if len(e.EmissionPoint) != 3 || !sri.IsDigits(e.EmissionPoint) {
		add("ptoEmi", "debe tener 3 dígitos")
	}
	if _, err := sri.ParseEnvironment(e.Environment); err != nil || len(e.Environment) != 1 {
		add("ambiente", "código de ambiente inválido %q", e.Environment)
	}
	if _, err := sri.ParseEmissionType(e.EmissionType); err != nil {
		errs = append(errs, err)
	}
	if doc.Sequential <= 0 || doc.Sequential > 999_999_999 {
		add("secuencial", "fuera de rango: %d", doc.Sequential)
	}
	if doc.IssueDate.IsZero() {
		add("fechaEmision", "obligatoria")
	}

	errs = append(errs, buyerErrors(doc.Buyer)...)

	// Líneas y totales.
	if len(doc.Items) == 0 {
		add("detalles", "el comprobante debe tener al menos una línea")
	}
	sumNet, sumDiscount, sumTax := decimal.Zero, decimal.Zero, decimal.Zero
	for i, it := range doc.Items {
		n := i + 1
		if it.Code == "" || it.Description == "" {
			add("detalle", "línea %d: código y descripción son obligatorios", n)
		}
		if !it.Quantity.IsPositive() {
			add("cantidad", "línea %d: la cantidad debe ser positiva", n)
		}
		if it.UnitPrice.IsNegative() || it.Discount.IsNegative() {
			add("precioUnitario", "línea %d: precio y descuento no pueden ser negativos", n)
		}
		if _, err := sri.ParseTaxType(it.TaxType); err != nil {
			errs = append(errs, fmt.Errorf("línea %d: %w", n, err))
		}
		rc, err := sri.ParseTaxRateCode(it.RateCode)
		if err != nil {
			errs = append(errs, fmt.Errorf("línea %d: %w", n, err))
		} else if it.TaxType == string(sri.TaxTypeIVA) && !rc.Percent().Equal(it.TaxRate) {
			add("tarifa", "línea %d: código %s corresponde a %s%%, no a %s%%", n, rc, rc.Percent(), it.TaxRate)
		}
		gross := it.Quantity.Mul(it.UnitPrice)
		if it.Discount.GreaterThan(sri.Round2(gross)) {
			add("descuento", "línea %d: el descuento %s supera cantidad × precio (%s)", n, it.Discount, sri.Round2(gross))
		}
		expectedNet := sri.Round2(gross.Sub(it.Discount))
		if !it.Net.Equal(expectedNet) {
			add("precioTotalSinImpuesto", "línea %d: %s no coincide con cantidad × precio − descuento (%s)", n, it.Net, expectedNet)
		}
		if !it.TaxableBase.Equal(it.Net) {
			add("baseImponible", "línea %d: la base imponible debe ser igual al neto", n)
		}
		if expected := LineTax(it.TaxableBase, it.TaxRate); !it.TaxAmount.Equal(expected) {
			add("valor", "línea %d: impuesto %s, se esperaba %s", n, it.TaxAmount, expected)
		}
		sumNet = sumNet.Add(it.Net)
		sumDiscount = sumDiscount.Add(it.Discount)
		sumTax = sumTax.Add(it.TaxAmount)
	}
	if _, err := AggregateTaxes(doc.Items); err != nil {
		errs = append(errs, err)
	}
	t := doc.Totals
	if !t.Net.Equal(sumNet) {
		add("totalSinImpuestos", "%s no coincide con la suma de líneas (%s)", t.Net, sumNet)
	}
	if !t.Discount.Equal(sumDiscount) {
		add("totalDescuento", "%s no coincide con la suma de descuentos (%s)", t.Discount, sumDiscount)
	}
	if !t.Tax.Equal(sumTax) {
		add("totalImpuestos", "%s no coincide con la suma de impuestos (%s)", t.Tax, sumTax)
	}
	if t.Tip.IsNegative() {
		add("propina", "no puede ser negativa")
	}
	if expected := t.Net.Add(t.Tax).Add(t.Tip); !t.Grand.Equal(expected) {
		add("importeTotal", "%s no coincide con neto + impuestos + propina (%s)", t.Grand, expected)
	}

	for i, p := range doc.Payments {
		if _, err := sri.ParsePaymentMethod(p.Method); err != nil {
			errs = append(errs, fmt.Errorf("pago %d: %w", i+1, err))
		}
		if p.Amount.IsNegative() {
			add("pago", "pago %d: importe negativo", i+1)
		}
	}

	// Nota de crédito: referencia al comprobante modificado y motivo.
	if dt == sri.DocumentTypeNotaCredito {
		if doc.Modified == nil {
			add("codDocModificado", "la nota de crédito requiere el comprobante modificado")
		} else {
			if doc.Modified.Type == "" || doc.Modified.Number == "" || doc.Modified.IssueDate.IsZero() {
				add("numDocModificado", "tipo, número y fecha del comprobante modificado son obligatorios")
			}
		}
		if doc.Reason == "" {
			add("motivo", "la nota de crédito requiere un motivo")
		}
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidDocument}, errs...)...)
	}
	return nil
}

// ValidateBuyer revisa tipo y longitud de identificación y nombre del comprador.
func ValidateBuyer(b entity.BuyerInfo) error {
	return errors.Join(buyerErrors(b)...)
}

func buyerErrors(b entity.BuyerInfo) []error {
	var errs []error
	idType, err := sri.ParseIdentificationType(b.IdentificationType)
	if err != nil {
		errs = append(errs, err)
	} else if n := idType.ExpectedLength(); n > 0 && (len(b.Identification) != n || !sri.IsDigits(b.Identification)) {
		errs = append(errs, sri.NewValidationError("identificacionComprador", "%s requiere %d dígitos", idType.Label(), n))
	}
	if b.Identification == "" {
		errs = append(errs, sri.NewValidationError("identificacionComprador", "obligatoria"))
	}
	if b.Name == "" {
		errs = append(errs, sri.NewValidationError("razonSocialComprador", "obligatoria"))
	}
	return errs
}
