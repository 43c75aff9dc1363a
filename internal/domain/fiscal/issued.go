package fiscal

import (
	"time"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/entity"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/sri"
)

// Authorization respuesta del SRI para un comprobante autorizado.
type Authorization struct {
	Number       string
	AuthorizedAt time.Time
}

// IssuedDocument documento con su clave de acceso y los impuestos agrupados;
// es la entrada común del XML y del RIDE.
type IssuedDocument struct {
	Document      *entity.FiscalDocument
	AccessKey     string
	Taxes         []TaxBucket
	Authorization *Authorization // nil mientras no esté autorizado
}

// NewIssuedDocument agrupa los impuestos del documento.
func NewIssuedDocument(doc *entity.FiscalDocument, accessKey string, auth *Authorization) (*IssuedDocument, error) {
	taxes, err := AggregateTaxes(doc.Items)
	if err != nil {
		return nil, err
	}
	return &IssuedDocument{Document: doc, AccessKey: accessKey, Taxes: taxes, Authorization: auth}, nil
}

// AuthorizationFromRecord extrae la autorización de un registro persistido.
func AuthorizationFromRecord(rec *entity.InvoiceRecord) *Authorization {
	if rec == nil || rec.AuthorizationNumber == "" || rec.AuthorizedAt == nil {
		return nil
	}
	return &Authorization{Number: rec.AuthorizationNumber, AuthorizedAt: *rec.AuthorizedAt}
}

// AdditionalField campo adicional (nombre, valor) del comprobante.
type AdditionalField struct {
	Name  string
	Value string
}

// AdditionalFields campos opcionales del comprador en orden fijo: email, teléfono,
// dirección. En la nota de crédito el motivo va siempre al final.
func AdditionalFields(doc *entity.FiscalDocument) []AdditionalField {
	var out []AdditionalField
	if doc.Buyer.Email != "" {
		out = append(out, AdditionalField{Name: "Email", Value: doc.Buyer.Email})
	}
	if doc.Buyer.Phone != "" {
		out = append(out, AdditionalField{Name: "Teléfono", Value: doc.Buyer.Phone})
	}
	if doc.Buyer.Address != "" {
		out = append(out, AdditionalField{Name: "Dirección", Value: doc.Buyer.Address})
	}
	if doc.DocumentType == string(sri.DocumentTypeNotaCredito) {
		out = append(out, AdditionalField{Name: "Motivo", Value: doc.Reason})
	}
	return out
}
