package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/application/billing"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/application/dto"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/entity"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/fiscal"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/infrastructure/comprobante"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/sri"
)

// documentFile factura de entrada: emisor, secuencial y el mismo cuerpo que
// POST /api/fiscal/invoices. La autorización es opcional y solo afecta al RIDE.
type documentFile struct {
	Emitter     entity.EmitterConfig `json:"emitter"`
	Sequential  int64                `json:"sequential"`
	NumericCode string               `json:"numeric_code,omitempty"`
	dto.IssueInvoiceRequest
	Authorization *struct {
		Number       string    `json:"number"`
		AuthorizedAt time.Time `json:"authorized_at"`
	} `json:"authorization,omitempty"`
}

// loadDocument lee el JSON y produce el documento emitido con su XML.
// codeOverride tiene prioridad sobre numeric_code del archivo.
func loadDocument(path, codeOverride string) (*fiscal.IssuedDocument, []byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("leer %s: %w", path, err)
	}
	var f documentFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, nil, fmt.Errorf("json inválido en %s: %w", path, err)
	}
	if len(f.Items) == 0 {
		return nil, nil, sri.NewValidationError("detalles", "el comprobante debe tener al menos una línea")
	}
	if f.IssueDate == "" {
		return nil, nil, sri.NewValidationError("fechaEmision", "issue_date es obligatorio (dd/mm/aaaa)")
	}
	date, err := sri.ParseDate(f.IssueDate)
	if err != nil {
		return nil, nil, err
	}
	if f.Emitter.Environment == "" {
		f.Emitter.Environment = string(sri.EnvironmentTest)
	}
	if f.Emitter.EmissionType == "" {
		f.Emitter.EmissionType = string(sri.EmissionNormal)
	}

	doc, err := billing.NewDocumentAssembler().AssembleInvoice(&f.Emitter, f.Sequential, billing.OrderFromRequest(f.IssueInvoiceRequest, date))
	if err != nil {
		return nil, nil, err
	}

	code := codeOverride
	if code == "" {
		code = f.NumericCode
	}
	if code == "" {
		if code, err = (billing.RandomNumericCode{}).NumericCode(); err != nil {
			return nil, nil, err
		}
	}
	if code, err = sri.PadDigits("codigoNumerico", code, sri.NumericCodeLength); err != nil {
		return nil, nil, err
	}

	issued, xml, err := billing.IssueDocument(sri.NewAccessKeyCodec(), comprobante.NewXMLBuilderService(), doc, code)
	if err != nil {
		return nil, nil, err
	}
	if a := f.Authorization; a != nil && a.Number != "" {
		issued.Authorization = &fiscal.Authorization{Number: a.Number, AuthorizedAt: a.AuthorizedAt}
	}
	return issued, xml, nil
}
