package orders

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jhoicas/erp-saas-api/internal/application/dto"
	"github.com/jhoicas/erp-saas-api/internal/domain"
	"github.com/jhoicas/erp-saas-api/internal/domain/entity"
	"github.com/jhoicas/erp-saas-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// CreateOrder crea la orden, congela precios y descuenta stock en una sola transacción.
// Cualquier línea inválida (producto inexistente, de otra empresa, inactivo o sin stock) revierte todo.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, caller domain.Caller, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if err := validateCreateOrder(in); err != nil {
		return nil, err
	}
	paymentMethod := in.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = entity.PaymentCash
	}

	now := uc.now()
	order := &entity.Order{
		ID:                 uuid.New().String(),
		CompanyID:          caller.CompanyID,
		UserID:             caller.UserID,
		PaymentMethod:      paymentMethod,
		Status:             entity.OrderStatusCompleted,
		CancellationStatus: entity.CancellationNone,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
		movRepo repository.StockMovementRepository,
	) error {
		products, err := lockProducts(ctx, productRepo, caller.CompanyID, in.Items)
		if err != nil {
			return err
		}

		// 1) Validar stock línea por línea (acumulado si un producto se repite) y congelar precios.
		available := make(map[string]int, len(products))
		for id, p := range products {
			available[id] = p.Stock
		}
		items := make([]entity.OrderItem, 0, len(in.Items))
		total := decimal.Zero
		for _, line := range in.Items {
			p := products[line.ProductID]
			if available[p.ID] < line.Quantity {
				return fmt.Errorf("%w: %s (disponible %d, solicitado %d)",
					domain.ErrInsufficientStock, p.SKU, available[p.ID], line.Quantity)
			}
			available[p.ID] -= line.Quantity
			item := entity.OrderItem{
				ID:              uuid.New().String(),
				OrderID:         order.ID,
				ProductID:       p.ID,
				ProductName:     p.Name,
				SKU:             p.SKU,
				Quantity:        line.Quantity,
				PriceAtPurchase: p.Price,
			}
			total = total.Add(item.Subtotal())
			items = append(items, item)
		}
		order.Total = total
		order.Items = items

		// 2) Cabecera, líneas y salida de stock con su movimiento.
		if err := orderRepo.Create(ctx, order); err != nil {
			return err
		}
		for i := range items {
			item := &items[i]
			if err := orderRepo.CreateItem(ctx, item); err != nil {
				return err
			}
			stockAfter, err := productRepo.AdjustStock(ctx, caller.CompanyID, item.ProductID, -item.Quantity)
			if err != nil {
				return err
			}
			if err := movRepo.Create(ctx, &entity.StockMovement{
				ID:         uuid.New().String(),
				CompanyID:  caller.CompanyID,
				ProductID:  item.ProductID,
				OrderID:    order.ID,
				Type:       entity.MovementTypeSale,
				Quantity:   -item.Quantity,
				StockAfter: stockAfter,
				CreatedBy:  caller.UserID,
				CreatedAt:  now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.emit(ctx, EventOrderCreated, order)
	return toOrderResponse(order), nil
}

func validateCreateOrder(in dto.CreateOrderRequest) error {
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: la orden debe tener al menos un ítem", domain.ErrInvalidInput)
	}
	for i, line := range in.Items {
		if line.ProductID == "" {
			return fmt.Errorf("%w: items[%d].productId requerido", domain.ErrInvalidInput, i)
		}
		if line.Quantity < 1 {
			return fmt.Errorf("%w: items[%d].quantity debe ser mayor o igual a 1", domain.ErrInvalidInput, i)
		}
	}
	if in.PaymentMethod != "" && !entity.IsValidPaymentMethod(in.PaymentMethod) {
		return fmt.Errorf("%w: paymentMethod inválido", domain.ErrInvalidInput)
	}
	return nil
}

// lockProducts bloquea cada producto distinto en orden de ID para que dos órdenes
// concurrentes sobre los mismos productos no se bloqueen mutuamente.
func lockProducts(
	ctx context.Context,
	productRepo repository.ProductRepository,
	companyID string,
	lines []dto.OrderItemRequest,
) (map[string]*entity.Product, error) {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}
	sort.Strings(ids)

	products := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		p, err := productRepo.GetForUpdate(ctx, companyID, id)
		if err != nil {
			return nil, err
		}
		if p == nil || !p.IsActive {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		products[id] = p
	}
	return products, nil
}
