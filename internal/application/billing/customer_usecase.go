package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/application/dto"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/entity"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/fiscal"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/repository"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/logger"
)

// CustomerUseCase directorio de compradores frecuentes de la empresa.
type CustomerUseCase struct {
	repo repository.CustomerRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, log *logger.Logger) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, log: log.Component("customers"), now: time.Now}
}

// Create registra un comprador. La identificación es única por empresa.
func (uc *CustomerUseCase) Create(ctx context.Context, companyID string, in dto.BuyerRequest) (*dto.CustomerResponse, error) {
	buyer := buyerFromDTO(&in)
	if err := fiscal.ValidateBuyer(*buyer); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByIdentification(ctx, companyID, buyer.Identification)
	if err != nil {
		return nil, fmt.Errorf("buscar comprador: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := uc.now().UTC()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		BuyerInfo: *buyer,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", companyID).Str("customer_id", customer.ID).Msg("comprador registrado")
	return toCustomerResponse(customer), nil
}

// Update reemplaza los datos de un comprador de la empresa.
func (uc *CustomerUseCase) Update(ctx context.Context, companyID, id string, in dto.BuyerRequest) (*dto.CustomerResponse, error) {
	customer, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	buyer := buyerFromDTO(&in)
	if err := fiscal.ValidateBuyer(*buyer); err != nil {
		return nil, err
	}
	if buyer.Identification != customer.Identification {
		other, err := uc.repo.GetByIdentification(ctx, companyID, buyer.Identification)
		if err != nil {
			return nil, fmt.Errorf("buscar comprador: %w", err)
		}
		if other != nil {
			return nil, domain.ErrDuplicate
		}
	}
	customer.BuyerInfo = *buyer
	customer.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// Get devuelve un comprador de la empresa.
func (uc *CustomerUseCase) Get(ctx context.Context, companyID, id string) (*dto.CustomerResponse, error) {
	customer, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// List lista compradores de la empresa.
func (uc *CustomerUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) ([]*dto.CustomerResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

func (uc *CustomerUseCase) owned(ctx context.Context, companyID, id string) (*entity.Customer, error) {
	return lookupCustomer(ctx, uc.repo, companyID, id)
}

// lookupCustomer carga un comprador verificando que pertenece a la empresa.
func lookupCustomer(ctx context.Context, repo repository.CustomerRepository, companyID, id string) (*entity.Customer, error) {
	customer, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener comprador: %w", err)
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return customer, nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		BuyerRequest: dto.BuyerRequest{
			IdentificationType: c.IdentificationType,
			Identification:     c.Identification,
			Name:               c.Name,
			Address:            c.Address,
			Email:              c.Email,
			Phone:              c.Phone,
		},
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
