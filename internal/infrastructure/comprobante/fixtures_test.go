package comprobante_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/entity"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/fiscal"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/sri"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleLine(code, desc, qty, price, rateCode, rate string) entity.LineItem {
	q, p, r := dec(qty), dec(price), dec(rate)
	net := q.Mul(p).Round(2)
	return entity.LineItem{
		Code: code, Description: desc,
		Quantity: q, UnitPrice: p, Discount: decimal.Zero, Net: net,
		TaxType: "2", RateCode: rateCode, TaxRate: r,
		TaxableBase: net, TaxAmount: fiscal.LineTax(net, r),
	}
}

func sampleDocument() *entity.FiscalDocument {
	return &entity.FiscalDocument{
		Emitter: entity.EmitterConfig{
			RUC:                "1790012345001",
			LegalName:          "RESTAURANTE EL BUEN SABOR S.A.",
			TradeName:          "El Buen Sabor",
			MatrixAddress:      "Av. Amazonas N34-12, Quito",
			AccountingRequired: true,
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
		},
		Items:    []entity.LineItem{sampleLine("P001", "Almuerzo ejecutivo", "2", "10.00", "4", "15")},
		Payments: []entity.Payment{{Method: "01", Amount: dec("23.00")}},
		Totals: entity.Totals{
			Net: dec("20.00"), Discount: decimal.Zero, Tax: dec("3.00"), Tip: decimal.Zero, Grand: dec("23.00"),
		},
		Currency: "DOLAR",
	}
}

func issue(t *testing.T, doc *entity.FiscalDocument) *fiscal.IssuedDocument {
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
	issued, err := fiscal.NewIssuedDocument(doc, key, nil)
	require.NoError(t, err)
	return issued
}
