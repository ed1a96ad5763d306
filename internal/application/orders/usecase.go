package orders

import (
	"context"
	"time"

	"github.com/jhoicas/erp-saas-api/internal/application/dto"
	"github.com/jhoicas/erp-saas-api/internal/domain"
	"github.com/jhoicas/erp-saas-api/internal/domain/entity"
	"github.com/jhoicas/erp-saas-api/internal/domain/repository"
)

// OrderUseCase orquesta el ciclo de vida de las órdenes de una empresa.
type OrderUseCase struct {
	txRunner  TxRunner
	orderRepo repository.OrderRepository
	notifier  Notifier
	now       func() time.Time
}

// NewOrderUseCase construye el caso de uso. notifier puede ser nil.
func NewOrderUseCase(txRunner TxRunner, orderRepo repository.OrderRepository, notifier Notifier) *OrderUseCase {
	if notifier == nil {
		notifier = Notifiers(nil)
	}
	return &OrderUseCase{
		txRunner:  txRunner,
		orderRepo: orderRepo,
		notifier:  notifier,
		now:       time.Now,
	}
}

func (uc *OrderUseCase) emit(ctx context.Context, eventType string, o *entity.Order) {
	uc.notifier.Notify(ctx, Event{
		Type:               eventType,
		OrderID:            o.ID,
		CompanyID:          o.CompanyID,
		UserID:             o.UserID,
		Total:              o.Total,
		Status:             o.Status,
		CancellationStatus: o.CancellationStatus,
		OccurredAt:         uc.now(),
	})
}

func requireAdmin(caller domain.Caller) error {
	if !caller.HasRole(entity.RoleAdmin) {
		return domain.ErrForbidden
	}
	return nil
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ID:              it.ID,
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			SKU:             it.SKU,
			Quantity:        it.Quantity,
			PriceAtPurchase: it.PriceAtPurchase,
			Subtotal:        it.Subtotal(),
		})
	}
	return &dto.OrderResponse{
		ID:                 o.ID,
		UserID:             o.UserID,
		Total:              o.Total,
		PaymentMethod:      o.PaymentMethod,
		Status:             o.Status,
		CancellationStatus: o.CancellationStatus,
		CancellationReason: o.CancellationReason,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
		Items:              items,
	}
}
