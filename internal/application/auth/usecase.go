package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/application/dto"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/entity"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/domain/repository"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/jwt"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/logger"
)

const minPasswordLen = 8

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login de operadores y alta de cuentas por el administrador de la empresa.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	log      *logger.Logger
	hashCost int
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
		log:      log.Component("auth"),
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

// WithHashCost cambia el costo de bcrypt (tests).
func (uc *AuthUseCase) WithHashCost(cost int) *AuthUseCase {
	uc.hashCost = cost
	return uc
}

// CreateUser da de alta un operador en la empresa. Rol vacío = cajero.
func (uc *AuthUseCase) CreateUser(ctx context.Context, companyID string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	role := in.Role
	if role == "" {
		role = jwt.RoleCashier
	}
	if err := validateUser(email, in.Password, role); err != nil {
		return nil, err
	}
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash de password: %w", err)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	now := uc.now().UTC()
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", companyID).Str("user_id", user.ID).Str("role", role).Msg("operador creado")
	return toUserResponse(user), nil
}

// EnsureAdmin crea el administrador inicial si el email aún no existe.
func (uc *AuthUseCase) EnsureAdmin(ctx context.Context, companyID, email, password string) error {
	existing, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	_, err = uc.CreateUser(ctx, companyID, dto.CreateUserRequest{
		Email:    email,
		Password: password,
		Name:     "Administrador",
		Role:     jwt.RoleAdmin,
	})
	return err
}

// Login verifica email/password, genera JWT y retorna token + operador.
// Email desconocido y password incorrecto devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive() {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.CompanyID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	uc.log.Debug().Str("user_id", user.ID).Msg("login")
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

// ListUsers operadores de la empresa.
func (uc *AuthUseCase) ListUsers(ctx context.Context, companyID string, page dto.PageRequest) ([]*dto.UserResponse, error) {
	page.DefaultPage()
	list, err := uc.userRepo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, toUserResponse(u))
	}
	return out, nil
}

// SetStatus activa o desactiva un operador de la empresa.
func (uc *AuthUseCase) SetStatus(ctx context.Context, companyID, id string, active bool) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	if user.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	user.Status = entity.UserStatusInactive
	if active {
		user.Status = entity.UserStatusActive
	}
	user.UpdatedAt = uc.now().UTC()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func validateUser(email, password, role string) error {
	var errs []error
	if email == "" || !strings.Contains(email, "@") {
		errs = append(errs, fmt.Errorf("%w: email inválido", domain.ErrInvalidInput))
	}
	if len(password) < minPasswordLen {
		errs = append(errs, fmt.Errorf("%w: password debe tener al menos %d caracteres", domain.ErrInvalidInput, minPasswordLen))
	}
	switch role {
	case jwt.RoleAdmin, jwt.RoleCashier, jwt.RoleAuditor:
	default:
		errs = append(errs, fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, role))
	}
	return errors.Join(errs...)
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
