package dto

import "github.com/shopspring/decimal"

// PeriodQuery rango de fechas opcional (YYYY-MM-DD, ambos extremos inclusivos).
type PeriodQuery struct {
	StartDate string `query:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

// TopProductsQuery rango + cantidad de productos del ranking.
type TopProductsQuery struct {
	StartDate string `query:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"endDate" validate:"omitempty,datetime=2006-01-02"`
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=50"`
}

// PeriodDTO período efectivo del reporte; vacío = sin límite.
type PeriodDTO struct {
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// FinanceSummaryDTO resumen financiero del período.
type FinanceSummaryDTO struct {
	Period        PeriodDTO       `json:"period"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	OrderCount    int             `json:"orderCount"`
	AverageTicket decimal.Decimal `json:"averageTicket"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetProfit     decimal.Decimal `json:"netProfit"`
}

// DailyRevenueDTO punto de la serie diaria.
type DailyRevenueDTO struct {
	Date       string          `json:"date"`
	Revenue    decimal.Decimal `json:"revenue"`
	OrderCount int             `json:"orderCount"`
}

// RevenueHistoryDTO serie diaria de ingresos.
type RevenueHistoryDTO struct {
	Period PeriodDTO         `json:"period"`
	Points []DailyRevenueDTO `json:"points"`
}

// TopProductDTO fila del ranking de productos.
type TopProductDTO struct {
	Rank        int             `json:"rank"`
	ProductID   string          `json:"productId"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"productName"`
	UnitsSold   int             `json:"unitsSold"`
	Revenue     decimal.Decimal `json:"revenue"`
	RevenuePct  decimal.Decimal `json:"revenuePct"`
}

// TopProductsDTO ranking de productos por ingreso.
type TopProductsDTO struct {
	Period   PeriodDTO       `json:"period"`
	Products []TopProductDTO `json:"products"`
}

// CategoryRevenueDTO ingreso de una categoría.
type CategoryRevenueDTO struct {
	CategoryID   string          `json:"categoryId,omitempty"`
	CategoryName string          `json:"categoryName"`
	UnitsSold    int             `json:"unitsSold"`
	Revenue      decimal.Decimal `json:"revenue"`
	RevenuePct   decimal.Decimal `json:"revenuePct"`
}

// CategoriesRevenueDTO ingresos por categoría.
type CategoriesRevenueDTO struct {
	Period     PeriodDTO            `json:"period"`
	Categories []CategoryRevenueDTO `json:"categories"`
}

// ExpenseCategoryDTO total de gastos de una categoría.
type ExpenseCategoryDTO struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// ExpensesSummaryDTO gastos del período y su desglose.
type ExpensesSummaryDTO struct {
	Period     PeriodDTO            `json:"period"`
	Total      decimal.Decimal      `json:"total"`
	Categories []ExpenseCategoryDTO `json:"categories"`
}
