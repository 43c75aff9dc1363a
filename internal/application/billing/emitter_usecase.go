package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/application/dto"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/entity"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/repository"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/logger"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/sri"
)

// EmitterUseCase consulta y guarda los datos del emisor de cada empresa.
type EmitterUseCase struct {
	repo     repository.EmitterRepository
	defaults SRIDefaults
	log      *logger.Logger
}

// NewEmitterUseCase construye el caso de uso.
func NewEmitterUseCase(repo repository.EmitterRepository, defaults SRIDefaults, log *logger.Logger) *EmitterUseCase {
	return &EmitterUseCase{repo: repo, defaults: defaults, log: log.Component("emitter")}
}

// Get devuelve el emisor de la empresa o domain.ErrNotFound.
func (uc *EmitterUseCase) Get(ctx context.Context, companyID string) (*dto.EmitterResponse, error) {
	e, err := uc.repo.GetByCompanyID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("obtener emisor: %w", err)
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	return toEmitterResponse(e), nil
}

// Save valida y guarda el emisor. Ambiente y tipo de emisión vacíos toman los de la configuración.
func (uc *EmitterUseCase) Save(ctx context.Context, companyID string, in dto.EmitterRequest) (*dto.EmitterResponse, error) {
	cfg := &entity.EmitterConfig{
		CompanyID:            companyID,
		RUC:                  strings.TrimSpace(in.RUC),
		LegalName:            strings.TrimSpace(in.LegalName),
		TradeName:            strings.TrimSpace(in.TradeName),
		MatrixAddress:        strings.TrimSpace(in.MatrixAddress),
		EstablishmentAddress: strings.TrimSpace(in.EstablishmentAddress),
		AccountingRequired:   in.AccountingRequired,
		SpecialTaxpayer:      strings.TrimSpace(in.SpecialTaxpayer),
		SimplifiedRegime:     in.SimplifiedRegime,
		Environment:          in.Environment,
		EmissionType:         in.EmissionType,
		Establishment:        in.Establishment,
		EmissionPoint:        in.EmissionPoint,
		DefaultTaxPercent:    in.DefaultTaxPercent,
	}
	if cfg.Environment == "" {
		cfg.Environment = uc.defaults.Environment
	}
	if cfg.EmissionType == "" {
		cfg.EmissionType = uc.defaults.EmissionType
	}
	if err := validateEmitter(cfg); err != nil {
		return nil, err
	}
	if err := uc.repo.Save(ctx, cfg); err != nil {
		return nil, fmt.Errorf("guardar emisor: %w", err)
	}
	uc.log.Info().Str("company_id", companyID).Str("ruc", cfg.RUC).Str("step", "emitter").Msg("emisor actualizado")
	return toEmitterResponse(cfg), nil
}

func validateEmitter(cfg *entity.EmitterConfig) error {
	var errs []error
	if len(cfg.RUC) != 13 || !sri.IsDigits(cfg.RUC) {
		errs = append(errs, sri.NewValidationError("ruc", "el RUC debe tener 13 dígitos"))
	}
	if cfg.LegalName == "" {
		errs = append(errs, sri.NewValidationError("razonSocial", "obligatoria"))
	}
	if cfg.MatrixAddress == "" {
		errs = append(errs, sri.NewValidationError("dirMatriz", "obligatoria"))
	}
	if len(cfg.Establishment) != 3 || !sri.IsDigits(cfg.Establishment) {
		errs = append(errs, sri.NewValidationError("estab", "debe tener 3 dígitos"))
	}
	if len(cfg.EmissionPoint) != 3 || !sri.IsDigits(cfg.EmissionPoint) {
		errs = append(errs, sri.NewValidationError("ptoEmi", "debe tener 3 dígitos"))
	}
	if env, err := sri.ParseEnvironment(cfg.Environment); err != nil {
		errs = append(errs, err)
	} else {
		cfg.Environment = string(env)
	}
	if _, err := sri.ParseEmissionType(cfg.EmissionType); err != nil {
		errs = append(errs, err)
	}
	if _, err := sri.RateCodeForPercent(cfg.DefaultTaxPercent); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func toEmitterResponse(e *entity.EmitterConfig) *dto.EmitterResponse {
	return &dto.EmitterResponse{
		CompanyID:            e.CompanyID,
		RUC:                  e.RUC,
		LegalName:            e.LegalName,
		TradeName:            e.TradeName,
		MatrixAddress:        e.MatrixAddress,
		EstablishmentAddress: e.EstablishmentAddress,
		AccountingRequired:   e.AccountingRequired,
		SpecialTaxpayer:      e.SpecialTaxpayer,
		SimplifiedRegime:     e.SimplifiedRegime,
		Environment:          e.Environment,
		EnvironmentLabel:     sri.Environment(e.Environment).Label(),
		EmissionType:         e.EmissionType,
		Establishment:        e.Establishment,
		EmissionPoint:        e.EmissionPoint,
		DefaultTaxPercent:    e.DefaultTaxPercent,
	}
}
