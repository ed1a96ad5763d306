package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de una empresa.
// Stock solo cambia por órdenes, cancelaciones o ajustes, siempre con su StockMovement.
type Product struct {
	ID           string
	CompanyID    string
	SKU          string // código único por empresa
	Name         string
	Description  string
	Price        decimal.Decimal // precio de venta vigente
	Stock        int
	MinStock     int    // umbral para el listado de bajo stock
	CategoryID   string // vacío si no tiene categoría
	CategoryName string // solo lectura (join)
	ImageURL     string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsLowStock indica si el stock está en o por debajo del mínimo configurado.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}
