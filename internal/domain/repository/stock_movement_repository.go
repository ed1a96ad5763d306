package repository

import (
	"context"

	"github.com/jhoicas/erp-saas-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del libro de stock (DIP).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, companyID, productID string, limit, offset int) ([]*entity.StockMovement, error)
}
