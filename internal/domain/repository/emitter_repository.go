package repository

import (
	"context"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/entity"
)

// EmitterRepository configuración del emisor por empresa (DIP).
// La implementación vive en infrastructure.
type EmitterRepository interface {
	GetByCompanyID(ctx context.Context, companyID string) (*entity.EmitterConfig, error)
	Save(ctx context.Context, cfg *entity.EmitterConfig) error
}
