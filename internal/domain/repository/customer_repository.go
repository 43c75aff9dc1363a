package repository

import (
	"context"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/entity"
)

// CustomerRepository directorio de compradores por empresa (DIP).
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	GetByIdentification(ctx context.Context, companyID, identification string) (*entity.Customer, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
}
