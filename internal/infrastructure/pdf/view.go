package pdf

import (
	"fmt"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/fiscal"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/sri"
)

const authorizationTimeLayout = "02/01/2006 15:04:05"

type labeled struct {
	label string
	value string
}

type rowView struct {
	code, description, quantity, unitPrice, discount, total string
}

type totalLine struct {
	label string
	value string
	grand bool
}

// rideView textos ya formateados y validados. Si algo no se puede formatear
// o un código no está en catálogo, el RIDE no se dibuja.
type rideView struct {
	accessKey string

	legalName    string
	emitterLines []string

	ruc, docLabel, number    string
	envLabel, emissionLabel  string
	authNumber, authDateTime string

	buyer      []labeled
	dates      []labeled
	additional []labeled

	rows     []rowView
	totals   []totalLine
	payments []labeled
}

func newRideView(issued *fiscal.IssuedDocument) (*rideView, error) {
	if issued == nil || issued.Document == nil {
		return nil, fmt.Errorf("ride: documento nulo")
	}
	doc := issued.Document
	e := doc.Emitter
	if err := sri.ValidateAccessKey(issued.AccessKey); err != nil {
		return nil, err
	}
	dt, err := sri.ParseDocumentType(doc.DocumentType)
	if err != nil {
		return nil, err
	}
	number, err := sri.DocumentNumber(e.Establishment, e.EmissionPoint, doc.Sequential)
	if err != nil {
		return nil, err
	}
	env, err := sri.ParseEnvironment(e.Environment)
	if err != nil {
		return nil, err
	}
	emission, err := sri.ParseEmissionType(e.EmissionType)
	if err != nil {
		return nil, err
	}
	idType, err := sri.ParseIdentificationType(doc.Buyer.IdentificationType)
	if err != nil {
		return nil, err
	}

	v := &rideView{
		accessKey:     issued.AccessKey,
		legalName:     e.LegalName,
		ruc:           e.RUC,
		docLabel:      dt.Label(),
		number:        number,
		envLabel:      env.Label(),
		emissionLabel: emission.Label(),
	}

	if e.TradeName != "" {
		v.emitterLines = append(v.emitterLines, e.TradeName)
	}
	v.emitterLines = append(v.emitterLines, "Dirección Matriz: "+e.MatrixAddress)
	if e.EstablishmentAddress != "" && e.EstablishmentAddress != e.MatrixAddress {
		v.emitterLines = append(v.emitterLines, "Dirección Sucursal: "+e.EstablishmentAddress)
	}
	if e.AccountingRequired {
		v.emitterLines = append(v.emitterLines, "OBLIGADO A LLEVAR CONTABILIDAD: SI")
	}
	if e.SpecialTaxpayer != "" {
		v.emitterLines = append(v.emitterLines, "Contribuyente Especial Nro.: "+e.SpecialTaxpayer)
	}
	if e.SimplifiedRegime {
		v.emitterLines = append(v.emitterLines, "CONTRIBUYENTE RÉGIMEN RIMPE")
	}

	if a := issued.Authorization; a != nil {
		v.authNumber = a.Number
		v.authDateTime = a.AuthorizedAt.Format(authorizationTimeLayout)
	}

	v.buyer = []labeled{
		{"Razón Social / Nombres y Apellidos:", doc.Buyer.Name},
		{"Identificación:", doc.Buyer.Identification + " (" + idType.Label() + ")"},
	}
	v.dates = []labeled{{"Fecha Emisión:", sri.FormatDate(doc.IssueDate)}}
	if dt == sri.DocumentTypeNotaCredito && doc.Modified != nil {
		mt, err := sri.ParseDocumentType(doc.Modified.Type)
		if err != nil {
			return nil, err
		}
		v.dates = append(v.dates,
			labeled{"Comprobante que se modifica:", mt.Label() + " " + doc.Modified.Number},
			labeled{"Fecha Emisión (Comprobante a modificar):", sri.FormatDate(doc.Modified.IssueDate)},
		)
	}
	for _, f := range fiscal.AdditionalFields(doc) {
		v.additional = append(v.additional, labeled{f.Name + ":", f.Value})
	}

	for _, it := range doc.Items {
		v.rows = append(v.rows, rowView{
			code:        it.Code,
			description: it.Description,
			quantity:    sri.Amount2(it.Quantity),
			unitPrice:   sri.Amount2(it.UnitPrice),
			discount:    sri.Amount2(it.Discount),
			total:       sri.Amount2(it.Net),
		})
	}

	if err := v.buildTotals(issued, dt); err != nil {
		return nil, err
	}

	for _, p := range doc.Payments {
		m, err := sri.ParsePaymentMethod(p.Method)
		if err != nil {
			return nil, err
		}
		v.payments = append(v.payments, labeled{m.Label(), sri.Amount2(p.Amount)})
	}
	return v, nil
}

// buildTotals subtotales por grupo, neto, descuento, impuesto por tarifa activa,
// propina y total, en ese orden.
func (v *rideView) buildTotals(issued *fiscal.IssuedDocument, dt sri.DocumentType) error {
	t := issued.Document.Totals
	var taxLines []totalLine
	for _, b := range issued.Taxes {
		label, err := bucketLabel(b)
		if err != nil {
			return err
		}
		v.totals = append(v.totals, totalLine{label: "SUBTOTAL " + label, value: sri.Amount2(b.Base)})
		if b.Rate.IsPositive() {
			taxLines = append(taxLines, totalLine{label: label, value: sri.Amount2(b.Amount)})
		}
	}
	v.totals = append(v.totals, totalLine{label: "SUBTOTAL SIN IMPUESTOS", value: sri.Amount2(t.Net)})
	if !t.Discount.IsZero() {
		v.totals = append(v.totals, totalLine{label: "TOTAL DESCUENTO", value: sri.Amount2(t.Discount)})
	}
	v.totals = append(v.totals, taxLines...)
	if !t.Tip.IsZero() {
		v.totals = append(v.totals, totalLine{label: "PROPINA", value: sri.Amount2(t.Tip)})
	}
	grandLabel := "VALOR TOTAL"
	if dt == sri.DocumentTypeNotaCredito {
		grandLabel = "VALOR MODIFICACIÓN"
	}
	v.totals = append(v.totals, totalLine{label: grandLabel, value: sri.Amount2(t.Grand), grand: true})
	return nil
}

func bucketLabel(b fiscal.TaxBucket) (string, error) {
	tt, err := sri.ParseTaxType(b.TaxType)
	if err != nil {
		return "", err
	}
	if tt != sri.TaxTypeIVA {
		return tt.Label() + " " + b.Rate.String() + "%", nil
	}
	rc, err := sri.ParseTaxRateCode(b.RateCode)
	if err != nil {
		return "", err
	}
	return rc.Label(), nil
}
