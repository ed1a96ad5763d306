package orders

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/erp-saas-api/internal/application/dto"
	"github.com/jhoicas/erp-saas-api/internal/domain"
	"github.com/jhoicas/erp-saas-api/internal/domain/entity"
	"github.com/jhoicas/erp-saas-api/internal/domain/repository"
)

const maxReasonLength = 500

// CancelOrder anula una orden completada y devuelve su stock (solo administradores).
// Cancelar una orden ya cancelada es un conflicto: el stock nunca se repone dos veces.
func (uc *OrderUseCase) CancelOrder(ctx context.Context, caller domain.Caller, orderID string) (*dto.OrderResponse, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	var order *entity.Order
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
		movRepo repository.StockMovementRepository,
	) error {
		o, err := lockOrder(ctx, orderRepo, caller.CompanyID, orderID)
		if err != nil {
			return err
		}
		if o.IsCancelled() {
			return fmt.Errorf("%w: la orden ya está cancelada", domain.ErrConflict)
		}
		if err := uc.applyCancellation(ctx, caller, productRepo, orderRepo, movRepo, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.emit(ctx, EventOrderCancelled, order)
	return toOrderResponse(order), nil
}

// RequestCancellation registra una solicitud de cancelación pendiente de aprobación.
// La orden sigue completed (y visible en ventas) hasta que un administrador la resuelva.
func (uc *OrderUseCase) RequestCancellation(ctx context.Context, caller domain.Caller, orderID, reason string) (*dto.OrderResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: el motivo es obligatorio", domain.ErrInvalidInput)
	}
	if len([]rune(reason)) > maxReasonLength {
		return nil, fmt.Errorf("%w: el motivo supera %d caracteres", domain.ErrInvalidInput, maxReasonLength)
	}
	var order *entity.Order
	err := uc.txRunner.Run(ctx, func(
		_ repository.ProductRepository,
		orderRepo repository.OrderRepository,
		_ repository.StockMovementRepository,
	) error {
		o, err := lockOrder(ctx, orderRepo, caller.CompanyID, orderID)
		if err != nil {
			return err
		}
		if o.IsCancelled() {
			return fmt.Errorf("%w: la orden ya está cancelada", domain.ErrConflict)
		}
		switch o.CancellationStatus {
		case entity.CancellationNone, entity.CancellationRejected:
		case entity.CancellationPending:
			return fmt.Errorf("%w: la orden ya tiene una solicitud pendiente", domain.ErrConflict)
		default:
			return fmt.Errorf("%w: estado de cancelación %s", domain.ErrConflict, o.CancellationStatus)
		}
		o.CancellationStatus = entity.CancellationPending
		o.CancellationReason = reason
		o.UpdatedAt = uc.now()
		if err := orderRepo.UpdateStatus(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.emit(ctx, EventCancellationRequested, order)
	return toOrderResponse(order), nil
}

// ResolveCancellation aprueba o rechaza una solicitud pendiente (solo administradores).
// Aprobar equivale a CancelOrder; rechazar deja la orden completed sin tocar stock.
func (uc *OrderUseCase) ResolveCancellation(ctx context.Context, caller domain.Caller, orderID string, approved bool) (*dto.OrderResponse, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	var order *entity.Order
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
		movRepo repository.StockMovementRepository,
	) error {
		o, err := lockOrder(ctx, orderRepo, caller.CompanyID, orderID)
		if err != nil {
			return err
		}
		if o.CancellationStatus != entity.CancellationPending {
			return fmt.Errorf("%w: la orden no tiene una solicitud de cancelación pendiente", domain.ErrConflict)
		}
		if approved {
			if o.IsCancelled() {
				return fmt.Errorf("%w: la orden ya está cancelada", domain.ErrConflict)
			}
			if err := uc.applyCancellation(ctx, caller, productRepo, orderRepo, movRepo, o); err != nil {
				return err
			}
		} else {
			o.Status = entity.OrderStatusCompleted
			o.CancellationStatus = entity.CancellationRejected
			o.UpdatedAt = uc.now()
			if err := orderRepo.UpdateStatus(ctx, o); err != nil {
				return err
			}
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	if approved {
		uc.emit(ctx, EventOrderCancelled, order)
	} else {
		uc.emit(ctx, EventCancellationRejected, order)
	}
	return toOrderResponse(order), nil
}

// applyCancellation repone el stock de cada línea cuyo producto aún existe y marca la orden cancelada.
// Debe ejecutarse dentro de la tx que bloqueó la orden.
func (uc *OrderUseCase) applyCancellation(
	ctx context.Context,
	caller domain.Caller,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	movRepo repository.StockMovementRepository,
	o *entity.Order,
) error {
	now := uc.now()
	if err := restock(ctx, caller, productRepo, movRepo, o, now); err != nil {
		return err
	}
	o.Status = entity.OrderStatusCancelled
	o.CancellationStatus = entity.CancellationApproved
	o.UpdatedAt = now
	return orderRepo.UpdateStatus(ctx, o)
}

func restock(
	ctx context.Context,
	caller domain.Caller,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	o *entity.Order,
	now time.Time,
) error {
	qtyByProduct := make(map[string]int)
	for _, it := range o.Items {
		if it.ProductID == "" {
			continue
		}
		qtyByProduct[it.ProductID] += it.Quantity
	}
	ids := make([]string, 0, len(qtyByProduct))
	for id := range qtyByProduct {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		p, err := productRepo.GetForUpdate(ctx, o.CompanyID, id)
		if err != nil {
			return err
		}
		if p == nil {
			continue
		}
		qty := qtyByProduct[id]
		stockAfter, err := productRepo.AdjustStock(ctx, o.CompanyID, id, qty)
		if err != nil {
			return err
		}
		if err := movRepo.Create(ctx, &entity.StockMovement{
			ID:         uuid.New().String(),
			CompanyID:  o.CompanyID,
			ProductID:  id,
			OrderID:    o.ID,
			Type:       entity.MovementTypeCancellation,
			Quantity:   qty,
			StockAfter: stockAfter,
			CreatedBy:  caller.UserID,
			CreatedAt:  now,
		}); err != nil {
			return err
		}
	}
	return nil
}

func lockOrder(ctx context.Context, orderRepo repository.OrderRepository, companyID, orderID string) (*entity.Order, error) {
	if orderID == "" {
		return nil, domain.ErrNotFound
	}
	o, err := orderRepo.GetForUpdate(ctx, companyID, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return o, nil
}
