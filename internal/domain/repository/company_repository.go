package repository

import (
	"context"

	"github.com/jhoicas/erp-saas-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// Es el único repositorio sin filtro de tenant: lo usan el login, el middleware de estado y super-admin.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	GetByLegalID(ctx context.Context, legalID string) (*entity.Company, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Company, int, error)
	SetActive(ctx context.Context, id string, active bool) error
	IsActive(ctx context.Context, id string) (bool, error)
}
