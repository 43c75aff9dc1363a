package entity

import "github.com/shopspring/decimal"

// LineItem línea de detalle de un comprobante.
// Net == TaxableBase; TaxAmount == round(TaxableBase × TaxRate / 100, 2).
type LineItem struct {
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	Net         decimal.Decimal `json:"net"` // precio × cantidad − descuento
	TaxType     string          `json:"tax_type"`
	RateCode    string          `json:"rate_code"`
	TaxRate     decimal.Decimal `json:"tax_rate"` // porcentaje
	TaxableBase decimal.Decimal `json:"taxable_base"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
}
