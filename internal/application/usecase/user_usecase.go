package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/erp-saas-api/internal/application/dto"
	"github.com/jhoicas/erp-saas-api/internal/domain"
	"github.com/jhoicas/erp-saas-api/internal/domain/entity"
	"github.com/jhoicas/erp-saas-api/internal/domain/repository"
	"golang.org/x/crypto/bcrypt"
)

// UserUseCase administración de usuarios dentro de la empresa del caller.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// Create crea un usuario en la empresa del caller. El email es único en toda la plataforma.
func (uc *UserUseCase) Create(ctx context.Context, caller domain.Caller, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := validateTenantRoles(in.Roles); err != nil {
		return nil, err
	}
	user, err := NewUser(caller.CompanyID, in.Name, in.Email, in.Password, in.Roles)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: el email ya está registrado", domain.ErrDuplicate)
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// List lista los usuarios de la empresa.
func (uc *UserUseCase) List(ctx context.Context, caller domain.Caller, page dto.PageQuery) (*dto.Paginated[dto.UserResponse], error) {
	page.Normalize()
	list, total, err := uc.repo.ListByCompany(ctx, caller.CompanyID, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *ToUserResponse(u))
	}
	return &dto.Paginated[dto.UserResponse]{Data: out, Meta: dto.NewPageMeta(total, page.Page, page.Limit)}, nil
}

// Update modifica nombre, roles, contraseña o estado. Un administrador no puede
// desactivarse ni quitarse el rol admin a sí mismo.
func (uc *UserUseCase) Update(ctx context.Context, caller domain.Caller, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, caller.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	self := sameID(user.ID, caller.UserID)
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name no puede estar vacío", domain.ErrInvalidInput)
		}
		user.Name = name
	}
	if in.Roles != nil {
		if err := validateTenantRoles(in.Roles); err != nil {
			return nil, err
		}
		if self && user.HasRole(entity.RoleAdmin) && !slices.Contains(in.Roles, entity.RoleAdmin) {
			return nil, fmt.Errorf("%w: no puede quitarse el rol admin a sí mismo", domain.ErrConflict)
		}
		// super-admin no se asigna desde la empresa, pero se conserva si ya lo tenía.
		roles := slices.Clone(in.Roles)
		if user.HasRole(entity.RoleSuperAdmin) {
			roles = append(roles, entity.RoleSuperAdmin)
		}
		user.Roles = normalizeRoles(roles)
	}
	if in.Password != nil {
		hash, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if in.IsActive != nil {
		if self && !*in.IsActive {
			return nil, fmt.Errorf("%w: no puede desactivarse a sí mismo", domain.ErrConflict)
		}
		user.IsActive = *in.IsActive
	}
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// Delete desactiva el usuario (las órdenes que registró lo siguen referenciando).
func (uc *UserUseCase) Delete(ctx context.Context, caller domain.Caller, id string) error {
	if sameID(id, caller.UserID) {
		return fmt.Errorf("%w: no puede eliminarse a sí mismo", domain.ErrConflict)
	}
	return uc.repo.Deactivate(ctx, caller.CompanyID, id)
}

// NewUser arma un usuario activo con la contraseña hasheada (bcrypt).
func NewUser(companyID, name, email, password string, roles []string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || name == "" {
		return nil, fmt.Errorf("%w: email y name son obligatorios", domain.ErrInvalidInput)
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Roles:        normalizeRoles(roles),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ToUserResponse convierte la entidad en DTO (sin hash).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Roles:     slices.Clone(u.Roles),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func hashPassword(password string) (string, error) {
	if len(password) < 8 || len(password) > 72 {
		return "", fmt.Errorf("%w: la contraseña debe tener entre 8 y 72 caracteres", domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func validateTenantRoles(roles []string) error {
	if len(roles) == 0 {
		return fmt.Errorf("%w: al menos un rol", domain.ErrInvalidInput)
	}
	for _, r := range roles {
		if !entity.IsTenantRole(r) {
			return fmt.Errorf("%w: rol %q no permitido", domain.ErrInvalidInput, r)
		}
	}
	return nil
}

func normalizeRoles(roles []string) []string {
	out := slices.Clone(roles)
	slices.Sort(out)
	return slices.Compact(out)
}
