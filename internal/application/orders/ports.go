// Package orders contiene el flujo transaccional de órdenes de venta:
// creación con descuento de stock, cancelación directa y la solicitud/aprobación de cancelación.
package orders

import (
	"context"
	"time"

	"github.com/jhoicas/erp-saas-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error no se persiste ningún cambio hecho dentro de ella.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// Tipos de evento del ciclo de vida de una orden.
const (
	EventOrderCreated          = "order.created"
	EventOrderCancelled        = "order.cancelled"
	EventCancellationRequested = "order.cancellation_requested"
	EventCancellationRejected  = "order.cancellation_rejected"
)

// Event notificación emitida después del commit.
type Event struct {
	Type               string          `json:"type"`
	OrderID            string          `json:"orderId"`
	CompanyID          string          `json:"companyId"`
	UserID             string          `json:"userId,omitempty"`
	Total              decimal.Decimal `json:"total"`
	Status             string          `json:"status"`
	CancellationStatus string          `json:"cancellationStatus"`
	OccurredAt         time.Time       `json:"occurredAt"`
}

// Notifier recibe eventos de órdenes. Los fallos se registran en la implementación,
// nunca revierten una operación ya confirmada.
type Notifier interface {
	Notify(ctx context.Context, evt Event)
}

// Notifiers reparte un evento a varios notificadores.
type Notifiers []Notifier

// Notify implementa Notifier.
func (n Notifiers) Notify(ctx context.Context, evt Event) {
	for _, notifier := range n {
		if notifier != nil {
			notifier.Notify(ctx, evt)
		}
	}
}
