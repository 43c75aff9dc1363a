package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment forma de pago del comprobante.
type Payment struct {
	Method   string          `json:"method"` // código de forma de pago del SRI
	Amount   decimal.Decimal `json:"amount"`
	Term     int             `json:"term,omitempty"`      // plazo
	TimeUnit string          `json:"time_unit,omitempty"` // dias, meses
}

// Totals totales calculados del comprobante.
type Totals struct {
	Net      decimal.Decimal `json:"net"` // totalSinImpuestos
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Tip      decimal.Decimal `json:"tip"` // propina
	Grand    decimal.Decimal `json:"grand"`
}

// ModifiedDocument comprobante al que hace referencia una nota de crédito.
type ModifiedDocument struct {
	Type      string    `json:"type"`   // codDocModificado
	Number    string    `json:"number"` // estab-ptoEmi-secuencial
	IssueDate time.Time `json:"issue_date"`
	AccessKey string    `json:"access_key,omitempty"`
}

// FiscalDocument raíz del agregado: se construye una vez por solicitud de
// generación y no se modifica después. Las correcciones se hacen emitiendo
// otro comprobante (nota de crédito).
type FiscalDocument struct {
	Emitter      EmitterConfig     `json:"emitter"`
	DocumentType string            `json:"document_type"`
	Sequential   int64             `json:"sequential"`
	IssueDate    time.Time         `json:"issue_date"`
	Buyer        BuyerInfo         `json:"buyer"`
	Items        []LineItem        `json:"items"`
	Payments     []Payment         `json:"payments,omitempty"`
	Totals       Totals            `json:"totals"`
	Currency     string            `json:"currency"`
	Modified     *ModifiedDocument `json:"modified,omitempty"` // solo notas de crédito
	Reason       string            `json:"reason,omitempty"`   // motivo de la nota de crédito
}
