package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/entity"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/fiscal"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/sri"
)

// OrderItem línea de la orden tal como llega del punto de venta.
type OrderItem struct {
	Code        string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	TaxPercent  *decimal.Decimal // nil = tarifa por defecto del emisor
	RateCode    string           // opcional; obligatorio para no objeto (6) y exento (7)
}

// OrderSnapshot foto de la orden a facturar. Buyer nil = consumidor final.
type OrderSnapshot struct {
	Buyer     *entity.BuyerInfo
	Items     []OrderItem
	Payments  []entity.Payment
	Tip       decimal.Decimal
	IssueDate time.Time
}

// DocumentAssembler convierte una orden en un FiscalDocument con líneas y totales calculados.
type DocumentAssembler struct{}

// NewDocumentAssembler crea el ensamblador.
func NewDocumentAssembler() *DocumentAssembler {
	return &DocumentAssembler{}
}

// AssembleInvoice arma una factura. Sin pagos se registra uno sin utilización
// del sistema financiero por el total.
func (a *DocumentAssembler) AssembleInvoice(emitter *entity.EmitterConfig, sequential int64, order *OrderSnapshot) (*entity.FiscalDocument, error) {
	items, err := a.lines(emitter, order.Items)
	if err != nil {
		return nil, err
	}
	doc := &entity.FiscalDocument{
		Emitter:      *emitter,
		DocumentType: string(sri.DocumentTypeFactura),
		Sequential:   sequential,
		IssueDate:    issueDate(order.IssueDate),
		Buyer:        buyerOrFinalConsumer(order.Buyer),
		Items:        items,
		Currency:     sri.CurrencyDollar,
		Totals:       totals(items, order.Tip),
	}
	doc.Payments = order.Payments
	if len(doc.Payments) == 0 {
		doc.Payments = []entity.Payment{{
			Method: string(sri.PaymentSinSistemaFinanciero),
			Amount: doc.Totals.Grand,
		}}
	}
	return doc, nil
}

// AssembleCreditNote arma una nota de crédito sobre original. Sin ítems se
// reversa el comprobante completo (sin propina).
func (a *DocumentAssembler) AssembleCreditNote(emitter *entity.EmitterConfig, sequential int64, original *entity.InvoiceRecord, reason string, items []OrderItem, date time.Time) (*entity.FiscalDocument, error) {
	src := original.Document
	var lines []entity.LineItem
	if len(items) == 0 {
		lines = append(lines, src.Items...)
	} else {
		var err error
		if lines, err = a.lines(emitter, items); err != nil {
			return nil, err
		}
	}
	doc := &entity.FiscalDocument{
		Emitter:      *emitter,
		DocumentType: string(sri.DocumentTypeNotaCredito),
		Sequential:   sequential,
		IssueDate:    issueDate(date),
		Buyer:        src.Buyer,
		Items:        lines,
		Currency:     src.Currency,
		Totals:       totals(lines, decimal.Zero),
		Modified: &entity.ModifiedDocument{
			Type:      original.DocumentType,
			Number:    original.Number,
			IssueDate: src.IssueDate,
			AccessKey: original.AccessKey,
		},
		Reason: reason,
	}
	if doc.Totals.Grand.GreaterThan(src.Totals.Grand) {
		return nil, sri.NewValidationError("valorModificacion",
			"%s supera el total del comprobante modificado (%s)", sri.Amount2(doc.Totals.Grand), sri.Amount2(src.Totals.Grand))
	}
	return doc, nil
}

func (a *DocumentAssembler) lines(emitter *entity.EmitterConfig, items []OrderItem) ([]entity.LineItem, error) {
	out := make([]entity.LineItem, 0, len(items))
	for _, it := range items {
		code, rate, err := rateFor(emitter, it)
		if err != nil {
			return nil, err
		}
		discount := sri.Round2(it.Discount)
		net := sri.Round2(it.Quantity.Mul(it.UnitPrice).Sub(discount))
		out = append(out, entity.LineItem{
			Code:        it.Code,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    discount,
			Net:         net,
			TaxType:     string(sri.TaxTypeIVA),
			RateCode:    string(code),
			TaxRate:     rate,
			TaxableBase: net,
			TaxAmount:   fiscal.LineTax(net, rate),
		})
	}
	return out, nil
}

// rateFor resuelve código y porcentaje de IVA: el código explícito manda;
// si no, el porcentaje de la línea o el del emisor.
func rateFor(emitter *entity.EmitterConfig, it OrderItem) (sri.TaxRateCode, decimal.Decimal, error) {
	if it.RateCode != "" {
		code, err := sri.ParseTaxRateCode(it.RateCode)
		if err != nil {
			return "", decimal.Zero, err
		}
		return code, code.Percent(), nil
	}
	pct := emitter.DefaultTaxPercent
	if it.TaxPercent != nil {
		pct = *it.TaxPercent
	}
	code, err := sri.RateCodeForPercent(pct)
	if err != nil {
		return "", decimal.Zero, err
	}
	return code, code.Percent(), nil
}

func totals(items []entity.LineItem, tip decimal.Decimal) entity.Totals {
	t := entity.Totals{Tip: sri.Round2(tip)}
	for _, it := range items {
		t.Net = t.Net.Add(it.Net)
		t.Discount = t.Discount.Add(it.Discount)
		t.Tax = t.Tax.Add(it.TaxAmount)
	}
	t.Grand = t.Net.Add(t.Tax).Add(t.Tip)
	return t
}

// buyerOrFinalConsumer solo un comprador ausente pasa a CONSUMIDOR FINAL; uno
// incompleto se conserva para que la validación lo rechace.
func buyerOrFinalConsumer(b *entity.BuyerInfo) entity.BuyerInfo {
	if b == nil {
		return entity.BuyerInfo{
			IdentificationType: string(sri.IdentificationConsumidor),
			Identification:     sri.FinalConsumerIdentification,
			Name:               sri.FinalConsumerName,
		}
	}
	return *b
}

// issueDate trunca a la fecha calendario; el SRI solo usa dd/mm/aaaa.
func issueDate(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
