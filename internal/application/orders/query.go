package orders

import (
	"context"
	"strings"

	"github.com/jhoicas/erp-saas-api/internal/application/dto"
	"github.com/jhoicas/erp-saas-api/internal/domain"
	"github.com/jhoicas/erp-saas-api/internal/domain/entity"
	"github.com/jhoicas/erp-saas-api/internal/domain/repository"
)

var sortColumns = map[string]string{
	"":          "created_at",
	"createdAt": "created_at",
	"total":     "total",
}

// GetOrder devuelve una orden de la empresa del caller con sus líneas.
func (uc *OrderUseCase) GetOrder(ctx context.Context, caller domain.Caller, orderID string) (*dto.OrderResponse, error) {
	o, err := uc.orderRepo.GetByID(ctx, caller.CompanyID, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return toOrderResponse(o), nil
}

// ListOrders lista órdenes de la empresa con filtros, orden y paginación por página.
func (uc *OrderUseCase) ListOrders(ctx context.Context, caller domain.Caller, q dto.OrderListQuery) (*dto.Paginated[dto.OrderResponse], error) {
	column, ok := sortColumns[q.SortBy]
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	page := dto.PageQuery{Page: q.Page, Limit: q.Limit}
	page.Normalize()

	list, total, err := uc.orderRepo.List(ctx, caller.CompanyID, repository.OrderFilter{
		Status:             q.Status,
		CancellationStatus: q.CancellationStatus,
		PaymentMethod:      q.PaymentMethod,
		SortBy:             column,
		Desc:               !strings.EqualFold(q.Order, "asc"),
		Limit:              page.Limit,
		Offset:             page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	return &dto.Paginated[dto.OrderResponse]{
		Data: toOrderResponses(list),
		Meta: dto.NewPageMeta(total, page.Page, page.Limit),
	}, nil
}

// pendingPageSize filas por consulta al recorrer las solicitudes pendientes.
const pendingPageSize = 200

// ListPendingCancellations devuelve todas las órdenes con solicitud de cancelación pendiente,
// más antiguas primero. Recorre el repositorio por páginas hasta agotar el total.
func (uc *OrderUseCase) ListPendingCancellations(ctx context.Context, caller domain.Caller) ([]dto.OrderResponse, error) {
	out := make([]dto.OrderResponse, 0)
	for offset := 0; ; offset += pendingPageSize {
		list, total, err := uc.orderRepo.List(ctx, caller.CompanyID, repository.OrderFilter{
			CancellationStatus: entity.CancellationPending,
			SortBy:             "created_at",
			Limit:              pendingPageSize,
			Offset:             offset,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, toOrderResponses(list)...)
		if len(list) < pendingPageSize || offset+len(list) >= total {
			return out, nil
		}
	}
}

func toOrderResponses(list []*entity.Order) []dto.OrderResponse {
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *toOrderResponse(o))
	}
	return out
}
