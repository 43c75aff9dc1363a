package dto

import "github.com/shopspring/decimal"

// EmitterRequest datos del emisor de la empresa del token.
type EmitterRequest struct {
	RUC                  string          `json:"ruc" validate:"required,len=13"`
	LegalName            string          `json:"legal_name" validate:"required,max=300"`
	TradeName            string          `json:"trade_name"`
	MatrixAddress        string          `json:"matrix_address" validate:"required"`
	EstablishmentAddress string          `json:"establishment_address"`
	AccountingRequired   bool            `json:"accounting_required"`
	SpecialTaxpayer      string          `json:"special_taxpayer"`
	SimplifiedRegime     bool            `json:"simplified_regime"`
	Environment          string          `json:"environment" validate:"omitempty,oneof=1 2"`
	EmissionType         string          `json:"emission_type"`
	Establishment        string          `json:"establishment" validate:"required,len=3"`
	EmissionPoint        string          `json:"emission_point" validate:"required,len=3"`
	DefaultTaxPercent    decimal.Decimal `json:"default_tax_percent"`
}

// EmitterResponse emisor configurado.
type EmitterResponse struct {
	CompanyID            string          `json:"company_id"`
	RUC                  string          `json:"ruc"`
	LegalName            string          `json:"legal_name"`
	TradeName            string          `json:"trade_name,omitempty"`
	MatrixAddress        string          `json:"matrix_address"`
	EstablishmentAddress string          `json:"establishment_address,omitempty"`
	AccountingRequired   bool            `json:"accounting_required"`
	SpecialTaxpayer      string          `json:"special_taxpayer,omitempty"`
	SimplifiedRegime     bool            `json:"simplified_regime"`
	Environment          string          `json:"environment"`
	EnvironmentLabel     string          `json:"environment_label"`
	EmissionType         string          `json:"emission_type"`
	Establishment        string          `json:"establishment"`
	EmissionPoint        string          `json:"emission_point"`
	DefaultTaxPercent    decimal.Decimal `json:"default_tax_percent"`
}
