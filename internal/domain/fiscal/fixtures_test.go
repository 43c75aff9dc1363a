package fiscal_test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/entity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func line(code, qty, price, rateCode, rate string) entity.LineItem {
	q, p, r := dec(qty), dec(price), dec(rate)
	net := q.Mul(p).Round(2)
	return entity.LineItem{
		Code:        code,
		Description: "Producto " + code,
		Quantity:    q,
		UnitPrice:   p,
		Discount:    decimal.Zero,
		Net:         net,
		TaxType:     "2",
		RateCode:    rateCode,
		TaxRate:     r,
		TaxableBase: net,
		TaxAmount:   net.Mul(r).Div(decimal.NewFromInt(100)).Round(2),
	}
}

// sampleInvoice factura de una línea: 2 × 10.00 con IVA 15%.
func sampleInvoice() *entity.FiscalDocument {
	it := line("P001", "2", "10.00", "4", "15")
	return &entity.FiscalDocument{
		Emitter: entity.EmitterConfig{
			RUC:           "1790012345001",
			LegalName:     "RESTAURANTE EL BUEN SABOR S.A.",
			MatrixAddress: "Av. Amazonas N34-12, Quito",
			Environment:   "1",
			EmissionType:  "1",
			Establishment: "001",
			EmissionPoint: "001",
		},
		DocumentType: "01",
		Sequential:   1,
		IssueDate:    time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Buyer: entity.BuyerInfo{
			IdentificationType: "05",
			Identification:     "1712345678",
			Name:               "Juan Pérez",
		},
		Items:    []entity.LineItem{it},
		Payments: []entity.Payment{{Method: "01", Amount: dec("23.00")}},
		Totals: entity.Totals{
			Net:      dec("20.00"),
			Discount: decimal.Zero,
			Tax:      dec("3.00"),
			Tip:      decimal.Zero,
			Grand:    dec("23.00"),
		},
		Currency: "DOLAR",
	}
}
