package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea solicitada de una orden.
type OrderItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// CreateOrderRequest entrada para crear una orden de venta.
type CreateOrderRequest struct {
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,max=200,dive"`
	PaymentMethod string             `json:"paymentMethod" validate:"omitempty,oneof=cash card transfer"`
}

// RequestCancellationRequest entrada de la solicitud de cancelación.
type RequestCancellationRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=500"`
}

// ResolveCancellationRequest decisión del administrador sobre una solicitud pendiente.
type ResolveCancellationRequest struct {
	Approved *bool `json:"approved" validate:"required"`
}

// OrderListQuery filtros de GET /orders.
type OrderListQuery struct {
	Status             string `query:"status" validate:"omitempty,oneof=completed cancelled"`
	CancellationStatus string `query:"cancellationStatus" validate:"omitempty,oneof=none pending approved rejected"`
	PaymentMethod      string `query:"paymentMethod" validate:"omitempty,oneof=cash card transfer"`
	SortBy             string `query:"sortBy" validate:"omitempty,oneof=createdAt total"`
	Order              string `query:"order" validate:"omitempty,oneof=asc desc ASC DESC"`
	Page               int    `query:"page" validate:"omitempty,min=1"`
	Limit              int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

// OrderItemResponse línea de orden con precio congelado.
type OrderItemResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"productId"`
	ProductName     string          `json:"productName"`
	SKU             string          `json:"sku"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

// OrderResponse salida de una orden.
type OrderResponse struct {
	ID                 string              `json:"id"`
	UserID             string              `json:"userId,omitempty"`
	Total              decimal.Decimal     `json:"total"`
	PaymentMethod      string              `json:"paymentMethod"`
	Status             string              `json:"status"`
	CancellationStatus string              `json:"cancellationStatus"`
	CancellationReason string              `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
	Items              []OrderItemResponse `json:"items"`
}
