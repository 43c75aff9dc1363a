package entity

import "time"

// BuyerInfo comprador del comprobante.
type BuyerInfo struct {
	IdentificationType string `json:"identification_type"` // 04 RUC, 05 cédula, 06 pasaporte, 07 consumidor final, 08 exterior
	Identification     string `json:"identification"`
	Name               string `json:"name"`
	Address            string `json:"address,omitempty"`
	Email              string `json:"email,omitempty"`
	Phone              string `json:"phone,omitempty"`
}

// Customer comprador frecuente guardado en el directorio de la empresa.
// Las facturas lo referencian por ID en lugar de repetir sus datos.
type Customer struct {
	ID        string
	CompanyID string
	BuyerInfo
	CreatedAt time.Time
	UpdatedAt time.Time
}
