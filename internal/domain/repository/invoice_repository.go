package repository

import (
	"context"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia de los comprobantes emitidos.
// GetByID devuelve (nil, nil) si no existe.
type InvoiceRepository interface {
	Create(ctx context.Context, rec *entity.InvoiceRecord) error
	GetByID(ctx context.Context, id string) (*entity.InvoiceRecord, error)
	GetByAccessKey(ctx context.Context, accessKey string) (*entity.InvoiceRecord, error)
	// UpdateStatus persiste estado, respuesta del SRI y datos de autorización.
	UpdateStatus(ctx context.Context, rec *entity.InvoiceRecord) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.InvoiceRecord, error)
}
