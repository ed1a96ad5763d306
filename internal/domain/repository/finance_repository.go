package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Period rango de fechas inclusivo; nil en un extremo significa sin límite.
type Period struct {
	Start *time.Time
	End   *time.Time
}

// SalesTotals ingresos y cantidad de órdenes completadas de un período.
type SalesTotals struct {
	Revenue    decimal.Decimal
	OrderCount int
}

// DailyRevenue punto de la serie diaria de ventas.
type DailyRevenue struct {
	Day        time.Time
	Revenue    decimal.Decimal
	OrderCount int
}

// ProductRevenue fila del ranking de productos por ingreso.
type ProductRevenue struct {
	ProductID   string
	SKU         string
	ProductName string
	UnitsSold   int
	Revenue     decimal.Decimal
}

// CategoryRevenue ingreso agrupado por categoría de producto.
type CategoryRevenue struct {
	CategoryID   string // vacío = sin categoría
	CategoryName string
	UnitsSold    int
	Revenue      decimal.Decimal
}

// ExpenseByCategory total de gastos agrupado por su categoría.
type ExpenseByCategory struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

// FinanceRepository consultas de solo lectura para reportes financieros.
// Todas las ventas consideran únicamente órdenes en estado completed.
type FinanceRepository interface {
	GetSalesTotals(ctx context.Context, companyID string, period Period) (SalesTotals, error)
	GetDailyRevenue(ctx context.Context, companyID string, period Period) ([]DailyRevenue, error)
	GetTopProducts(ctx context.Context, companyID string, period Period, limit int) ([]ProductRevenue, error)
	GetRevenueByCategory(ctx context.Context, companyID string, period Period) ([]CategoryRevenue, error)
	GetExpensesByCategory(ctx context.Context, companyID string, period Period) ([]ExpenseByCategory, error)
}
