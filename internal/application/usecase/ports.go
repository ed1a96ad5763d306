package usecase

import (
	"context"
	"io"

	"github.com/jhoicas/erp-saas-api/internal/domain/repository"
)

// CatalogTxRunner ejecuta cambios de producto y su movimiento de stock en una sola transacción.
type CatalogTxRunner interface {
	RunCatalog(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// TenantTxRunner crea empresa y usuarios de forma atómica.
type TenantTxRunner interface {
	RunTenant(ctx context.Context, fn func(
		companyRepo repository.CompanyRepository,
		userRepo repository.UserRepository,
	) error) error
}

// ObjectStorage guarda archivos subidos y devuelve su URL pública.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}

// CompanyStatusCache cachea el estado activo de las empresas para el middleware.
type CompanyStatusCache interface {
	Get(companyID string) (active bool, found bool)
	Set(companyID string, active bool)
	Delete(companyID string)
}
