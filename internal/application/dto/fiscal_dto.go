package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BuyerRequest comprador. Si se omite, la factura sale a consumidor final.
type BuyerRequest struct {
	IdentificationType string `json:"identification_type"` // 04 RUC, 05 cédula, 06 pasaporte, 07 consumidor final, 08 exterior
	Identification     string `json:"identification"`
	Name               string `json:"name"`
	Address            string `json:"address,omitempty"`
	Email              string `json:"email,omitempty"`
	Phone              string `json:"phone,omitempty"`
}

// FiscalItemRequest línea del comprobante.
type FiscalItemRequest struct {
	Code        string           `json:"code"`
	Description string           `json:"description"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	Discount    decimal.Decimal  `json:"discount"`
	TaxPercent  *decimal.Decimal `json:"tax_percent,omitempty"` // vacío = tarifa del emisor
	RateCode    string           `json:"rate_code,omitempty"`   // código de tarifa IVA del SRI
}

// PaymentRequest forma de pago.
type PaymentRequest struct {
	Method   string          `json:"method"`
	Amount   decimal.Decimal `json:"amount"`
	Term     int             `json:"term,omitempty"`
	TimeUnit string          `json:"time_unit,omitempty"`
}

// IssueInvoiceRequest body para POST /api/fiscal/invoices.
type IssueInvoiceRequest struct {
	Buyer      *BuyerRequest       `json:"buyer,omitempty"`
	CustomerID string              `json:"customer_id,omitempty"` // comprador del directorio; ignorado si viene buyer
	Items      []FiscalItemRequest `json:"items"`
	Payments   []PaymentRequest    `json:"payments,omitempty"`
	Tip        decimal.Decimal     `json:"tip"`
	IssueDate  string              `json:"issue_date,omitempty"` // dd/mm/aaaa; vacío = hoy
}

// IssueCreditNoteRequest body para POST /api/fiscal/credit-notes.
// Sin items la nota de crédito anula el valor completo de la factura.
type IssueCreditNoteRequest struct {
	InvoiceID string              `json:"invoice_id"`
	Reason    string              `json:"reason"`
	Items     []FiscalItemRequest `json:"items,omitempty"`
	IssueDate string              `json:"issue_date,omitempty"`
}

// VoidRequest body para POST /api/fiscal/documents/:id/void.
type VoidRequest struct {
	Reason string `json:"reason"`
}

// TaxTotalResponse subtotal por impuesto y tarifa.
type TaxTotalResponse struct {
	TaxType  string          `json:"tax_type"`
	RateCode string          `json:"rate_code"`
	Rate     decimal.Decimal `json:"rate"`
	Base     decimal.Decimal `json:"base"`
	Amount   decimal.Decimal `json:"amount"`
}

// FiscalDocumentResponse comprobante en respuestas.
type FiscalDocumentResponse struct {
	ID                  string             `json:"id"`
	DocumentType        string             `json:"document_type"`
	DocumentLabel       string             `json:"document_label"`
	Number              string             `json:"number"`
	AccessKey           string             `json:"access_key"`
	IssueDate           string             `json:"issue_date"`
	Status              string             `json:"status"`
	BuyerIdentification string             `json:"buyer_identification"`
	BuyerName           string             `json:"buyer_name"`
	Net                 decimal.Decimal    `json:"net"`
	Discount            decimal.Decimal    `json:"discount"`
	Tax                 decimal.Decimal    `json:"tax"`
	Tip                 decimal.Decimal    `json:"tip"`
	Total               decimal.Decimal    `json:"total"`
	Taxes               []TaxTotalResponse `json:"taxes"`
	ModifiedNumber      string             `json:"modified_number,omitempty"`
	Reason              string             `json:"reason,omitempty"`
	AuthorizationNumber string             `json:"authorization_number,omitempty"`
	AuthorizedAt        *time.Time         `json:"authorized_at,omitempty"`
	AuthorityResponse   string             `json:"authority_response,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// FiscalDocumentListResponse listado paginado.
type FiscalDocumentListResponse struct {
	Items []FiscalDocumentResponse `json:"items"`
	Page  PageResponse             `json:"page"`
}

// CustomerResponse comprador del directorio.
type CustomerResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	BuyerRequest
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
