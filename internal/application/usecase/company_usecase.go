package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/erp-saas-api/internal/application/dto"
	"github.com/jhoicas/erp-saas-api/internal/domain"
	"github.com/jhoicas/erp-saas-api/internal/domain/entity"
	"github.com/jhoicas/erp-saas-api/internal/domain/repository"
)

// CompanyUseCase administración de empresas de la plataforma (rol super-admin).
type CompanyUseCase struct {
	txRunner TenantTxRunner
	repo     repository.CompanyRepository
	cache    CompanyStatusCache
}

// NewCompanyUseCase construye el caso de uso. cache puede ser nil.
func NewCompanyUseCase(txRunner TenantTxRunner, repo repository.CompanyRepository, cache CompanyStatusCache) *CompanyUseCase {
	return &CompanyUseCase{txRunner: txRunner, repo: repo, cache: cache}
}

// Create crea la empresa y su primer administrador en una sola transacción.
// Devuelve domain.ErrDuplicate si el identificador legal o el email ya existen.
func (uc *CompanyUseCase) Create(ctx context.Context, caller domain.Caller, in dto.CreateCompanyRequest) (*dto.CreateCompanyResponse, error) {
	if !caller.HasRole(entity.RoleSuperAdmin) {
		return nil, domain.ErrForbidden
	}
	name := strings.TrimSpace(in.Name)
	legalID := strings.TrimSpace(in.LegalID)
	if name == "" || legalID == "" {
		return nil, fmt.Errorf("%w: name y legalId son obligatorios", domain.ErrInvalidInput)
	}
	now := time.Now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      name,
		LegalID:   legalID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	admin, err := NewUser(company.ID, in.AdminName, in.AdminEmail, in.AdminPassword, []string{entity.RoleAdmin})
	if err != nil {
		return nil, err
	}

	err = uc.txRunner.RunTenant(ctx, func(companyRepo repository.CompanyRepository, userRepo repository.UserRepository) error {
		existing, err := companyRepo.GetByLegalID(ctx, legalID)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: ya existe una empresa con identificador %s", domain.ErrDuplicate, legalID)
		}
		user, err := userRepo.GetByEmail(ctx, admin.Email)
		if err != nil {
			return err
		}
		if user != nil {
			return fmt.Errorf("%w: el email ya está registrado", domain.ErrDuplicate)
		}
		if err := companyRepo.Create(ctx, company); err != nil {
			return err
		}
		return userRepo.Create(ctx, admin)
	})
	if err != nil {
		return nil, err
	}
	return &dto.CreateCompanyResponse{
		Company: *ToCompanyResponse(company),
		Admin:   *ToUserResponse(admin),
	}, nil
}

// List lista todas las empresas con paginación.
func (uc *CompanyUseCase) List(ctx context.Context, caller domain.Caller, page dto.PageQuery) (*dto.Paginated[dto.CompanyResponse], error) {
	if !caller.HasRole(entity.RoleSuperAdmin) {
		return nil, domain.ErrForbidden
	}
	page.Normalize()
	list, total, err := uc.repo.List(ctx, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	out := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *ToCompanyResponse(c))
	}
	return &dto.Paginated[dto.CompanyResponse]{Data: out, Meta: dto.NewPageMeta(total, page.Page, page.Limit)}, nil
}

// Toggle activa o desactiva una empresa. La empresa del propio super-admin no se puede desactivar.
func (uc *CompanyUseCase) Toggle(ctx context.Context, caller domain.Caller, id string) (*dto.CompanyResponse, error) {
	if !caller.HasRole(entity.RoleSuperAdmin) {
		return nil, domain.ErrForbidden
	}
	if sameID(id, caller.CompanyID) {
		return nil, fmt.Errorf("%w: no puede desactivar su propia empresa", domain.ErrConflict)
	}
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	company.IsActive = !company.IsActive
	company.UpdatedAt = time.Now()
	if err := uc.repo.SetActive(ctx, company.ID, company.IsActive); err != nil {
		return nil, err
	}
	if uc.cache != nil {
		uc.cache.Delete(company.ID)
	}
	return ToCompanyResponse(company), nil
}

// ToCompanyResponse convierte la entidad en DTO.
func ToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		LegalID:   c.LegalID,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
