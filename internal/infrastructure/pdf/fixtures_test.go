package pdf_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/entity"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/fiscal"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/sri"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(code, desc, qty, price string) entity.LineItem {
	q, p := dec(qty), dec(price)
	net := q.Mul(p).Round(2)
	rate := dec("15")
	return entity.LineItem{
		Code: code, Description: desc,
		Quantity: q, UnitPrice: p, Discount: decimal.Zero, Net: net,
		TaxType: "2", RateCode: "4", TaxRate: rate,
		TaxableBase: net, TaxAmount: fiscal.LineTax(net, rate),
	}
}

func invoiceWith(items []entity.LineItem) *entity.FiscalDocument {
	net, tax := decimal.Zero, decimal.Zero
	for _, it := range items {
		net = net.Add(it.Net)
		tax = tax.Add(it.TaxAmount)
	}
	grand := net.Add(tax)
	return &entity.FiscalDocument{
		Emitter: entity.EmitterConfig{
			RUC:                "1790012345001",
			LegalName:          "RESTAURANTE EL BUEN SABOR S.A.",
			TradeName:          "El Buen Sabor",
			MatrixAddress:      "Av. Amazonas N34-12 y Naciones Unidas, Quito",
			AccountingRequired: true,
			SimplifiedRegime:   true,
			Environment:        "1",
			EmissionType:       "1",
			Establishment:      "001",
			EmissionPoint:      "002",
		},
		DocumentType: "01",
		Sequential:   123,
		IssueDate:    time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Buyer: entity.BuyerInfo{
			IdentificationType: "05",
			Identification:     "1712345678",
			Name:               "Juan Pérez",
			Email:              "juan@correo.ec",
		},
		Items:    items,
		Payments: []entity.Payment{{Method: "01", Amount: grand}},
		Totals:   entity.Totals{Net: net, Discount: decimal.Zero, Tax: tax, Tip: decimal.Zero, Grand: grand},
		Currency: "DOLAR",
	}
}

func sampleInvoice() *entity.FiscalDocument {
	return invoiceWith([]entity.LineItem{item("P001", "Almuerzo ejecutivo", "2", "10.00")})
}

func manyItems(n int) []entity.LineItem {
	items := make([]entity.LineItem, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, item(fmt.Sprintf("P%03d", i), fmt.Sprintf("Plato del día número %d", i), "1", "4.50"))
	}
	return items
}

func issue(t *testing.T, doc *entity.FiscalDocument, auth *fiscal.Authorization) *fiscal.IssuedDocument {
	t.Helper()
	key, err := sri.NewAccessKeyCodec().Build(&sri.AccessKeyParams{
		IssueDate:     doc.IssueDate,
		DocumentType:  sri.DocumentType(doc.DocumentType),
		RUC:           doc.Emitter.RUC,
		Environment:   sri.Environment(doc.Emitter.Environment),
		Establishment: doc.Emitter.Establishment,
		EmissionPoint: doc.Emitter.EmissionPoint,
		Sequential:    doc.Sequential,
		NumericCode:   "12345678",
		EmissionType:  sri.EmissionType(doc.Emitter.EmissionType),
	})
	require.NoError(t, err)
	issued, err := fiscal.NewIssuedDocument(doc, key, auth)
	require.NoError(t, err)
	return issued
}
