package entity

import "github.com/shopspring/decimal"

// EmitterConfig datos del emisor (tenant) usados al construir cada comprobante.
// Se tratan como solo lectura durante la generación.
type EmitterConfig struct {
	CompanyID            string          `json:"company_id,omitempty"`
	RUC                  string          `json:"ruc"` // 13 dígitos
	LegalName            string          `json:"legal_name"`
	TradeName            string          `json:"trade_name,omitempty"`
	MatrixAddress        string          `json:"matrix_address"`
	EstablishmentAddress string          `json:"establishment_address,omitempty"`
	AccountingRequired   bool            `json:"accounting_required"`
	SpecialTaxpayer      string          `json:"special_taxpayer,omitempty"` // número de resolución
	SimplifiedRegime     bool            `json:"simplified_regime"`          // contribuyente RIMPE
	Environment          string          `json:"environment"`                // 1 pruebas, 2 producción
	EmissionType         string          `json:"emission_type"`
	Establishment        string          `json:"establishment"`  // 3 dígitos
	EmissionPoint        string          `json:"emission_point"` // 3 dígitos
	DefaultTaxPercent    decimal.Decimal `json:"default_tax_percent"`
}

// EstablishmentAddressOrMatrix dirección del establecimiento; si no hay, la matriz.
func (e *EmitterConfig) EstablishmentAddressOrMatrix() string {
	if e.EstablishmentAddress != "" {
		return e.EstablishmentAddress
	}
	return e.MatrixAddress
}
