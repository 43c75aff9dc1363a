package billing_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/application/billing"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/entity"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/fiscal"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/sri"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func order(items ...billing.OrderItem) *billing.OrderSnapshot {
	return &billing.OrderSnapshot{Items: items, IssueDate: testNow}
}

func TestAssembleInvoice_ConsumidorFinalYPagoPorDefecto(t *testing.T) {
	a := billing.NewDocumentAssembler()
	doc, err := a.AssembleInvoice(sampleEmitter(), 1, order(
		billing.OrderItem{Code: "P001", Description: "Almuerzo", Quantity: dec("2"), UnitPrice: dec("10.00")},
	))
	require.NoError(t, err)

	assert.Equal(t, string(sri.IdentificationConsumidor), doc.Buyer.IdentificationType)
	assert.Equal(t, sri.FinalConsumerIdentification, doc.Buyer.Identification)
	assert.Equal(t, sri.FinalConsumerName, doc.Buyer.Name)

	require.Len(t, doc.Items, 1)
	it := doc.Items[0]
	assert.Equal(t, "20.00", sri.Amount2(it.Net))
	assert.True(t, it.TaxableBase.Equal(it.Net), "la base imponible es el neto")
	assert.Equal(t, string(sri.RateCode15), it.RateCode, "sin tarifa en la línea se usa la del emisor")
	assert.Equal(t, "3.00", sri.Amount2(it.TaxAmount))

	assert.Equal(t, "20.00", sri.Amount2(doc.Totals.Net))
	assert.Equal(t, "3.00", sri.Amount2(doc.Totals.Tax))
	assert.Equal(t, "23.00", sri.Amount2(doc.Totals.Grand))
	require.Len(t, doc.Payments, 1)
	assert.Equal(t, string(sri.PaymentSinSistemaFinanciero), doc.Payments[0].Method)
	assert.Equal(t, "23.00", sri.Amount2(doc.Payments[0].Amount))
	assert.Equal(t, sri.CurrencyDollar, doc.Currency)

	assert.NoError(t, fiscal.ValidateDocument(doc), "el documento ensamblado debe ser válido")
}

func TestAssembleInvoice_CompradorIncompletoNoSeReemplaza(t *testing.T) {
	a := billing.NewDocumentAssembler()
	o := order(billing.OrderItem{Code: "P001", Description: "Almuerzo", Quantity: dec("1"), UnitPrice: dec("10.00")})
	o.Buyer = &entity.BuyerInfo{IdentificationType: "05", Name: "Ana Torres", Email: "ana@correo.ec"}

	doc, err := a.AssembleInvoice(sampleEmitter(), 1, o)
	require.NoError(t, err)
	assert.Equal(t, "Ana Torres", doc.Buyer.Name, "los datos enviados no se pierden")
	assert.Equal(t, "ana@correo.ec", doc.Buyer.Email)
	assert.Empty(t, doc.Buyer.Identification)

	err = fiscal.ValidateDocument(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sri.ErrValidation))
	assert.Contains(t, err.Error(), "identificacionComprador")
}

func TestAssembleInvoice_RedondeoYTarifasMixtas(t *testing.T) {
	zero := decimal.Zero
	a := billing.NewDocumentAssembler()
	o := order(
		billing.OrderItem{Code: "B01", Description: "Jugo", Quantity: dec("3"), UnitPrice: dec("1.115"), Discount: dec("0.10")},
		billing.OrderItem{Code: "A01", Description: "Agua", Quantity: dec("1"), UnitPrice: dec("1.00"), TaxPercent: &zero},
		billing.OrderItem{Code: "S01", Description: "Servicio", Quantity: dec("1"), UnitPrice: dec("2.00"), RateCode: string(sri.RateCodeNoObjeto)},
	)
	o.Tip = dec("1.50")
	doc, err := a.AssembleInvoice(sampleEmitter(), 7, o)
	require.NoError(t, err)

	// 3 × 1.115 − 0.10 = 3.245 → 3.25 (mitad hacia arriba); IVA 15% = 0.4875 → 0.49.
	assert.Equal(t, "3.25", sri.Amount2(doc.Items[0].Net))
	assert.Equal(t, "0.49", sri.Amount2(doc.Items[0].TaxAmount))
	assert.Equal(t, string(sri.RateCode0), doc.Items[1].RateCode)
	assert.Equal(t, string(sri.RateCodeNoObjeto), doc.Items[2].RateCode)
	assert.True(t, doc.Items[2].TaxAmount.IsZero())

	assert.Equal(t, "6.25", sri.Amount2(doc.Totals.Net))
	assert.Equal(t, "0.10", sri.Amount2(doc.Totals.Discount))
	assert.Equal(t, "1.50", sri.Amount2(doc.Totals.Tip))
	assert.Equal(t, "8.24", sri.Amount2(doc.Totals.Grand))
	assert.NoError(t, fiscal.ValidateDocument(doc))

	buckets, err := fiscal.AggregateTaxes(doc.Items)
	require.NoError(t, err)
	assert.Len(t, buckets, 3, "una agrupación por cada código de tarifa")
}

func TestAssembleInvoice_TarifaDesconocida(t *testing.T) {
	pct := dec("13")
	a := billing.NewDocumentAssembler()
	_, err := a.AssembleInvoice(sampleEmitter(), 1, order(
		billing.OrderItem{Code: "X", Description: "X", Quantity: dec("1"), UnitPrice: dec("1"), TaxPercent: &pct},
	))
	require.Error(t, err)
	assert.True(t, errors.Is(err, sri.ErrValidation))
}

func authorizedOriginal(t *testing.T) *entity.InvoiceRecord {
	t.Helper()
	doc, err := billing.NewDocumentAssembler().AssembleInvoice(sampleEmitter(), 5, order(
		billing.OrderItem{Code: "P001", Description: "Almuerzo", Quantity: dec("2"), UnitPrice: dec("10.00")},
	))
	require.NoError(t, err)
	return &entity.InvoiceRecord{
		ID:           "orig",
		CompanyID:    testCompanyID,
		DocumentType: string(sri.DocumentTypeFactura),
		Number:       "001-002-000000005",
		Document:     doc,
		AccessKey:    "1503202401179001234500110010020000000051234567810",
		Status:       entity.InvoiceStatusAuthorized,
	}
}

func TestAssembleCreditNote_ReversoTotal(t *testing.T) {
	orig := authorizedOriginal(t)
	doc, err := billing.NewDocumentAssembler().AssembleCreditNote(sampleEmitter(), 1, orig, "Devolución", nil, testNow)
	require.NoError(t, err)

	assert.Equal(t, string(sri.DocumentTypeNotaCredito), doc.DocumentType)
	assert.Equal(t, orig.Document.Buyer, doc.Buyer)
	assert.Equal(t, "23.00", sri.Amount2(doc.Totals.Grand))
	require.NotNil(t, doc.Modified)
	assert.Equal(t, "01", doc.Modified.Type)
	assert.Equal(t, "001-002-000000005", doc.Modified.Number)
	assert.Equal(t, orig.Document.IssueDate, doc.Modified.IssueDate)
	assert.Equal(t, "Devolución", doc.Reason)
	assert.Empty(t, doc.Payments, "la nota de crédito no lleva pagos")
	assert.NoError(t, fiscal.ValidateDocument(doc))
}

func TestAssembleCreditNote_NoSuperaElOriginal(t *testing.T) {
	orig := authorizedOriginal(t)
	_, err := billing.NewDocumentAssembler().AssembleCreditNote(sampleEmitter(), 1, orig, "Error", []billing.OrderItem{
		{Code: "P001", Description: "Almuerzo", Quantity: dec("3"), UnitPrice: dec("10.00")},
	}, testNow)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sri.ErrValidation))
	assert.Contains(t, err.Error(), "valorModificacion")
}
