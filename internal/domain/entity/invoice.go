package entity

import (
	"time"
)

// InvoiceStatus estado del comprobante frente al SRI.
type InvoiceStatus string

const (
	InvoiceStatusDraft      InvoiceStatus = "draft"      // Reservado antes de generar clave y XML
	InvoiceStatusGenerated  InvoiceStatus = "generated"  // Clave de acceso y XML generados
	InvoiceStatusSent       InvoiceStatus = "sent"       // Recibido por el SRI, pendiente de autorización
	InvoiceStatusAuthorized InvoiceStatus = "authorized" // Autorizado
	InvoiceStatusRejected   InvoiceStatus = "rejected"   // No autorizado / devuelto
	InvoiceStatusVoided     InvoiceStatus = "voided"     // Anulado (solo facturas)
)

// IsValid indica si el estado pertenece al ciclo de vida.
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusGenerated, InvoiceStatusSent,
		InvoiceStatusAuthorized, InvoiceStatusRejected, InvoiceStatusVoided:
		return true
	}
	return false
}

// IsTerminal no admite más transiciones.
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusVoided
}

// InvoiceRecord comprobante persistido: el documento fiscal inmutable más su estado.
type InvoiceRecord struct {
	ID                  string
	CompanyID           string
	DocumentType        string // codDoc: 01 factura, 04 nota de crédito
	Number              string // estab-ptoEmi-secuencial
	Document            *FiscalDocument
	AccessKey           string // 49 dígitos
	NumericCode         string // relleno de 8 dígitos usado en la clave; se reutiliza al regenerar
	XML                 string // comprobante sin firma
	Status              InvoiceStatus
	AuthorityResponse   string // sobre <autorizacion> o mensajes de rechazo
	AuthorizationNumber string
	AuthorizedAt        *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
