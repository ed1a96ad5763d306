package repository

import (
	"context"

	"github.com/jhoicas/erp-saas-api/internal/domain/entity"
)

// ProductFilter criterios de listado de productos.
type ProductFilter struct {
	Search          string // coincide con nombre o SKU (ILIKE)
	CategoryID      string
	IncludeInactive bool
	Limit           int
	Offset          int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Toda lectura y escritura recibe companyID; un producto de otra empresa se comporta como inexistente.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE). Devuelve también productos inactivos.
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Product, error)
	GetByCompanyAndSKU(ctx context.Context, companyID, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// AdjustStock suma delta al stock si el resultado no queda negativo; devuelve el stock final.
	AdjustStock(ctx context.Context, companyID, id string, delta int) (int, error)
	List(ctx context.Context, companyID string, filter ProductFilter) ([]*entity.Product, int, error)
	ListLowStock(ctx context.Context, companyID string, limit int) ([]*entity.Product, error)
	Deactivate(ctx context.Context, companyID, id string) error
}
