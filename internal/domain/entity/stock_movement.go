package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeSale         = "SALE"         // salida por orden
	MovementTypeCancellation = "CANCELLATION" // reingreso por orden cancelada
	MovementTypeAdjustment   = "ADJUSTMENT"   // ajuste manual del administrador
)

// StockMovement es una fila del libro de stock: cada cambio de Product.Stock deja una.
type StockMovement struct {
	ID         string
	CompanyID  string
	ProductID  string
	OrderID    string // vacío en ajustes
	Type       string
	Quantity   int // positivo entrada, negativo salida
	StockAfter int
	CreatedBy  string // UserID
	CreatedAt  time.Time
}
