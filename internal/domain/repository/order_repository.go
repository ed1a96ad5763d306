package repository

import (
	"context"

	"github.com/jhoicas/erp-saas-api/internal/domain/entity"
)

// OrderFilter criterios de listado de órdenes.
type OrderFilter struct {
	Status             string
	CancellationStatus string
	PaymentMethod      string
	SortBy             string // created_at | total
	Desc               bool
	Limit              int
	Offset             int
}

// OrderRepository define el puerto de persistencia para Order y OrderItem (DIP).
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	CreateItem(ctx context.Context, item *entity.OrderItem) error
	// GetByID devuelve la orden con sus ítems.
	GetByID(ctx context.Context, companyID, id string) (*entity.Order, error)
	// GetForUpdate bloquea la fila de la orden y carga sus ítems.
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, order *entity.Order) error
	List(ctx context.Context, companyID string, filter OrderFilter) ([]*entity.Order, int, error)
}
