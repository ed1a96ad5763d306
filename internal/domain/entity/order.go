package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la orden.
const (
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Estados de la solicitud de cancelación.
const (
	CancellationNone     = "none"
	CancellationPending  = "pending"
	CancellationApproved = "approved"
	CancellationRejected = "rejected"
)

// Métodos de pago.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
)

// Order es una venta de punto de venta. Solo los campos de estado cambian después de creada.
type Order struct {
	ID                 string
	CompanyID          string
	UserID             string // vacío si el usuario ya no existe
	Total              decimal.Decimal
	PaymentMethod      string
	Status             string
	CancellationStatus string
	CancellationReason string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Items              []OrderItem
}

// OrderItem es una línea de la orden con el precio congelado al momento de la venta.
type OrderItem struct {
	ID              string
	OrderID         string
	ProductID       string
	ProductName     string // solo lectura (join)
	SKU             string // solo lectura (join)
	Quantity        int
	PriceAtPurchase decimal.Decimal
}

// Subtotal devuelve PriceAtPurchase × Quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// IsCancelled indica si la orden ya fue anulada.
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// IsValidPaymentMethod valida contra el conjunto cerrado de métodos de pago.
func IsValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer:
		return true
	}
	return false
}
