package repository

import (
	"context"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para operadores (DIP).
// El email es único en todo el sistema: el login no conoce la empresa.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
}
