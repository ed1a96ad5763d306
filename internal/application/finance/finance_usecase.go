// Package finance contiene los reportes financieros (ventas, gastos, utilidad)
// y el registro de gastos de la empresa.
package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/erp-saas-api/internal/application/dto"
	"github.com/jhoicas/erp-saas-api/internal/domain"
	"github.com/jhoicas/erp-saas-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

const (
	defaultTopProducts = 5
	maxTopProducts     = 50
)

var hundred = decimal.NewFromInt(100)

// FinanceUseCase agrega ventas completadas y gastos por período (solo lectura).
type FinanceUseCase struct {
	repo repository.FinanceRepository
	loc  *time.Location
}

// NewFinanceUseCase construye el caso de uso. loc es la zona horaria de las fechas del reporte.
func NewFinanceUseCase(repo repository.FinanceRepository, loc *time.Location) *FinanceUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &FinanceUseCase{repo: repo, loc: loc}
}

// Summary ingresos, cantidad de órdenes, ticket promedio, gastos y utilidad neta.
func (uc *FinanceUseCase) Summary(ctx context.Context, caller domain.Caller, q dto.PeriodQuery) (*dto.FinanceSummaryDTO, error) {
	period, periodDTO, err := ParsePeriod(q.StartDate, q.EndDate, uc.loc)
	if err != nil {
		return nil, err
	}

	// Ventas y gastos son consultas independientes: se lanzan en paralelo.
	type salesResult struct {
		totals repository.SalesTotals
		err    error
	}
	type expensesResult struct {
		rows []repository.ExpenseByCategory
		err  error
	}
	salesChan := make(chan salesResult, 1)
	expChan := make(chan expensesResult, 1)

	go func() {
		totals, err := uc.repo.GetSalesTotals(ctx, caller.CompanyID, period)
		salesChan <- salesResult{totals, err}
	}()
	go func() {
		rows, err := uc.repo.GetExpensesByCategory(ctx, caller.CompanyID, period)
		expChan <- expensesResult{rows, err}
	}()

	sales := <-salesChan
	exp := <-expChan
	if sales.err != nil {
		return nil, fmt.Errorf("finance: ventas: %w", sales.err)
	}
	if exp.err != nil {
		return nil, fmt.Errorf("finance: gastos: %w", exp.err)
	}

	summary := buildSummary(sales.totals, exp.rows)
	summary.Period = periodDTO
	return &summary, nil
}

// History serie diaria de ingresos del período.
func (uc *FinanceUseCase) History(ctx context.Context, caller domain.Caller, q dto.PeriodQuery) (*dto.RevenueHistoryDTO, error) {
	period, periodDTO, err := ParsePeriod(q.StartDate, q.EndDate, uc.loc)
	if err != nil {
		return nil, err
	}
	rows, err := uc.repo.GetDailyRevenue(ctx, caller.CompanyID, period)
	if err != nil {
		return nil, fmt.Errorf("finance: historial: %w", err)
	}
	return &dto.RevenueHistoryDTO{Period: periodDTO, Points: buildHistory(rows)}, nil
}

// TopProducts ranking de productos por ingreso.
func (uc *FinanceUseCase) TopProducts(ctx context.Context, caller domain.Caller, q dto.TopProductsQuery) (*dto.TopProductsDTO, error) {
	period, periodDTO, err := ParsePeriod(q.StartDate, q.EndDate, uc.loc)
	if err != nil {
		return nil, err
	}
	rows, err := uc.repo.GetTopProducts(ctx, caller.CompanyID, period, clampTopN(q.Limit))
	if err != nil {
		return nil, fmt.Errorf("finance: top productos: %w", err)
	}
	totals, err := uc.repo.GetSalesTotals(ctx, caller.CompanyID, period)
	if err != nil {
		return nil, fmt.Errorf("finance: ventas: %w", err)
	}
	return &dto.TopProductsDTO{Period: periodDTO, Products: buildTopProducts(rows, totals.Revenue)}, nil
}

// Categories ingresos agrupados por categoría de producto.
func (uc *FinanceUseCase) Categories(ctx context.Context, caller domain.Caller, q dto.PeriodQuery) (*dto.CategoriesRevenueDTO, error) {
	period, periodDTO, err := ParsePeriod(q.StartDate, q.EndDate, uc.loc)
	if err != nil {
		return nil, err
	}
	rows, err := uc.repo.GetRevenueByCategory(ctx, caller.CompanyID, period)
	if err != nil {
		return nil, fmt.Errorf("finance: categorías: %w", err)
	}
	return &dto.CategoriesRevenueDTO{Period: periodDTO, Categories: buildCategories(rows)}, nil
}

// Expenses total de gastos del período y desglose por categoría.
func (uc *FinanceUseCase) Expenses(ctx context.Context, caller domain.Caller, q dto.PeriodQuery) (*dto.ExpensesSummaryDTO, error) {
	period, periodDTO, err := ParsePeriod(q.StartDate, q.EndDate, uc.loc)
	if err != nil {
		return nil, err
	}
	rows, err := uc.repo.GetExpensesByCategory(ctx, caller.CompanyID, period)
	if err != nil {
		return nil, fmt.Errorf("finance: gastos: %w", err)
	}
	total, categories := buildExpenses(rows)
	return &dto.ExpensesSummaryDTO{Period: periodDTO, Total: total, Categories: categories}, nil
}

func clampTopN(n int) int {
	if n <= 0 {
		return defaultTopProducts
	}
	if n > maxTopProducts {
		return maxTopProducts
	}
	return n
}

func buildSummary(sales repository.SalesTotals, expenses []repository.ExpenseByCategory) dto.FinanceSummaryDTO {
	totalExpenses, _ := buildExpenses(expenses)
	avg := decimal.Zero
	if sales.OrderCount > 0 {
		avg = sales.Revenue.Div(decimal.NewFromInt(int64(sales.OrderCount))).Round(2)
	}
	return dto.FinanceSummaryDTO{
		TotalRevenue:  sales.Revenue.Round(2),
		OrderCount:    sales.OrderCount,
		AverageTicket: avg,
		TotalExpenses: totalExpenses,
		NetProfit:     sales.Revenue.Sub(totalExpenses).Round(2),
	}
}

func buildHistory(rows []repository.DailyRevenue) []dto.DailyRevenueDTO {
	out := make([]dto.DailyRevenueDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.DailyRevenueDTO{
			Date:       r.Day.Format(dateLayout),
			Revenue:    r.Revenue.Round(2),
			OrderCount: r.OrderCount,
		})
	}
	return out
}

func buildTopProducts(rows []repository.ProductRevenue, totalRevenue decimal.Decimal) []dto.TopProductDTO {
	out := make([]dto.TopProductDTO, 0, len(rows))
	for i, r := range rows {
		out = append(out, dto.TopProductDTO{
			Rank:        i + 1,
			ProductID:   r.ProductID,
			SKU:         r.SKU,
			ProductName: r.ProductName,
			UnitsSold:   r.UnitsSold,
			Revenue:     r.Revenue.Round(2),
			RevenuePct:  percent(r.Revenue, totalRevenue),
		})
	}
	return out
}

func buildCategories(rows []repository.CategoryRevenue) []dto.CategoryRevenueDTO {
	var total decimal.Decimal
	for _, r := range rows {
		total = total.Add(r.Revenue)
	}
	out := make([]dto.CategoryRevenueDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.CategoryRevenueDTO{
			CategoryID:   r.CategoryID,
			CategoryName: r.CategoryName,
			UnitsSold:    r.UnitsSold,
			Revenue:      r.Revenue.Round(2),
			RevenuePct:   percent(r.Revenue, total),
		})
	}
	return out
}

func buildExpenses(rows []repository.ExpenseByCategory) (decimal.Decimal, []dto.ExpenseCategoryDTO) {
	total := decimal.Zero
	out := make([]dto.ExpenseCategoryDTO, 0, len(rows))
	for _, r := range rows {
		total = total.Add(r.Total)
		out = append(out, dto.ExpenseCategoryDTO{Category: r.Category, Total: r.Total.Round(2), Count: r.Count})
	}
	return total.Round(2), out
}

func percent(part, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred).Round(2)
}
