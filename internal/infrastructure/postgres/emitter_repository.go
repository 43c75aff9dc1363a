package postgres

import (
	"context"
	"fmt"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/entity"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/repository"
)

// Asegura que EmitterRepo implementa repository.EmitterRepository.
var _ repository.EmitterRepository = (*EmitterRepo)(nil)

// EmitterRepo configuración del emisor sobre PostgreSQL (una fila por empresa).
type EmitterRepo struct {
	q Querier
}

// NewEmitterRepository construye el adaptador de persistencia para emisores.
func NewEmitterRepository(q Querier) *EmitterRepo {
	return &EmitterRepo{q: q}
}

// GetByCompanyID obtiene la configuración del emisor; (nil, nil) si no existe.
func (r *EmitterRepo) GetByCompanyID(ctx context.Context, companyID string) (*entity.EmitterConfig, error) {
	query := `
		SELECT company_id, ruc, legal_name, trade_name, matrix_address, establishment_address,
		       accounting_required, special_taxpayer, simplified_regime, environment, emission_type,
		       establishment, emission_point, default_tax_percent
		FROM emitters WHERE company_id = $1`
	var e entity.EmitterConfig
	var tradeName, establishmentAddr, specialNumber *string
	err := r.q.QueryRow(ctx, query, companyID).Scan(
		&e.CompanyID, &e.RUC, &e.LegalName, &tradeName, &e.MatrixAddress, &establishmentAddr,
		&e.AccountingRequired, &specialNumber, &e.SimplifiedRegime, &e.Environment, &e.EmissionType,
		&e.Establishment, &e.EmissionPoint, &e.DefaultTaxPercent,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get emitter: %w", err)
	}
	e.TradeName = derefStr(tradeName)
	e.EstablishmentAddress = derefStr(establishmentAddr)
	e.SpecialTaxpayer = derefStr(specialNumber)
	return &e, nil
}

// Save crea o reemplaza la configuración del emisor.
func (r *EmitterRepo) Save(ctx context.Context, e *entity.EmitterConfig) error {
	query := `
		INSERT INTO emitters (company_id, ruc, legal_name, trade_name, matrix_address, establishment_address,
		                      accounting_required, special_taxpayer, simplified_regime, environment, emission_type,
		                      establishment, emission_point, default_tax_percent, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
		ON CONFLICT (company_id) DO UPDATE SET
		    ruc                   = EXCLUDED.ruc,
		    legal_name            = EXCLUDED.legal_name,
		    trade_name            = EXCLUDED.trade_name,
		    matrix_address        = EXCLUDED.matrix_address,
		    establishment_address = EXCLUDED.establishment_address,
		    accounting_required   = EXCLUDED.accounting_required,
		    special_taxpayer      = EXCLUDED.special_taxpayer,
		    simplified_regime     = EXCLUDED.simplified_regime,
		    environment           = EXCLUDED.environment,
		    emission_type         = EXCLUDED.emission_type,
		    establishment         = EXCLUDED.establishment,
		    emission_point        = EXCLUDED.emission_point,
		    default_tax_percent   = EXCLUDED.default_tax_percent,
		    updated_at            = NOW()`
	_, err := r.q.Exec(ctx, query,
		e.CompanyID, e.RUC, e.LegalName, nullIfEmpty(e.TradeName), e.MatrixAddress, nullIfEmpty(e.EstablishmentAddress),
		e.AccountingRequired, nullIfEmpty(e.SpecialTaxpayer), e.SimplifiedRegime, e.Environment, e.EmissionType,
		e.Establishment, e.EmissionPoint, e.DefaultTaxPercent,
	)
	if err != nil {
		return fmt.Errorf("save emitter: %w", err)
	}
	return nil
}
