package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU         string          `json:"sku" validate:"required,min=1,max=64"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" validate:"min=0"`
	MinStock    int             `json:"minStock" validate:"min=0"`
	CategoryID  string          `json:"categoryId" validate:"omitempty,uuid"`
	ImageURL    string          `json:"imageUrl" validate:"omitempty,max=1000"`
}

// UpdateProductRequest entrada para actualizar un producto. Campos nil no se modifican.
// Stock es absoluto: la diferencia se registra como movimiento de ajuste.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" validate:"omitempty,min=0"`
	MinStock    *int             `json:"minStock" validate:"omitempty,min=0"`
	CategoryID  *string          `json:"categoryId" validate:"omitempty,uuid"`
	ImageURL    *string          `json:"imageUrl" validate:"omitempty,max=1000"`
	IsActive    *bool            `json:"isActive"`
}

// ProductListQuery filtros de GET /products.
type ProductListQuery struct {
	Search          string `query:"search" validate:"max=100"`
	CategoryID      string `query:"categoryId" validate:"omitempty,uuid"`
	IncludeInactive bool   `query:"includeInactive"`
	Page            int    `query:"page" validate:"omitempty,min=1"`
	Limit           int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	MinStock     int             `json:"minStock"`
	LowStock     bool            `json:"lowStock"`
	CategoryID   string          `json:"categoryId,omitempty"`
	CategoryName string          `json:"categoryName,omitempty"`
	ImageURL     string          `json:"imageUrl,omitempty"`
	IsActive     bool            `json:"isActive"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// StockMovementResponse fila del libro de stock de un producto.
type StockMovementResponse struct {
	ID         string    `json:"id"`
	OrderID    string    `json:"orderId,omitempty"`
	Type       string    `json:"type"`
	Quantity   int       `json:"quantity"`
	StockAfter int       `json:"stockAfter"`
	CreatedBy  string    `json:"createdBy,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// UploadResponse URL pública de un archivo subido.
type UploadResponse struct {
	URL string `json:"url"`
}
