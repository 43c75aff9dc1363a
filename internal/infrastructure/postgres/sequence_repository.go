package postgres

import (
	"context"
	"fmt"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo secuenciales por (empresa, tipo de comprobante) en document_sequences.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next reserva el siguiente secuencial en una sola sentencia: la fila se crea
// con 1 o se incrementa bajo el lock de la propia fila, sin lectura previa.
func (r *SequenceRepo) Next(ctx context.Context, companyID, documentType string) (int64, error) {
	const query = `
		INSERT INTO document_sequences (company_id, document_type, last_value, updated_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (company_id, document_type)
		DO UPDATE SET last_value = document_sequences.last_value + 1,
		              updated_at = NOW()
		RETURNING last_value`
	var next int64
	if err := r.q.QueryRow(ctx, query, companyID, documentType).Scan(&next); err != nil {
		return 0, fmt.Errorf("next sequence %s/%s: %w", companyID, documentType, err)
	}
	return next, nil
}
