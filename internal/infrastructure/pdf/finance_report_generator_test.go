package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-saas-api/internal/application/dto"
	"github.com/jhoicas/erp-saas-api/internal/application/finance"
	"github.com/jhoicas/erp-saas-api/internal/infrastructure/pdf"
)

func TestGenerateFinanceReport_DevuelvePDF(t *testing.T) {
	gen := pdf.NewMarotoReportGenerator()
	data := finance.ReportData{
		CompanyName: "Tienda Uno",
		LegalID:     "900123456",
		Period:      dto.PeriodDTO{StartDate: "2024-01-01", EndDate: "2024-01-31"},
		GeneratedAt: time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC),
		Summary: dto.FinanceSummaryDTO{
			TotalRevenue:  decimal.NewFromInt(1250000),
			OrderCount:    42,
			AverageTicket: decimal.RequireFromString("29761.90"),
			TotalExpenses: decimal.NewFromInt(300000),
			NetProfit:     decimal.NewFromInt(950000),
		},
		TopProducts: []dto.TopProductDTO{
			{Rank: 1, SKU: "CAF-01", ProductName: "Café", UnitsSold: 30, Revenue: decimal.NewFromInt(900000), RevenuePct: decimal.NewFromInt(72)},
		},
		Categories: []dto.CategoryRevenueDTO{
			{CategoryName: "Bebidas", UnitsSold: 30, Revenue: decimal.NewFromInt(900000), RevenuePct: decimal.NewFromInt(72)},
		},
		History: []dto.DailyRevenueDTO{
			{Date: "2024-01-02", Revenue: decimal.NewFromInt(50000), OrderCount: 2},
		},
		Expenses: []dto.ExpenseCategoryDTO{{Category: "Arriendo", Total: decimal.NewFromInt(300000), Count: 1}},
	}

	out, err := gen.GenerateFinanceReport(context.Background(), data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un documento PDF")
}

func TestGenerateFinanceReport_SinDatos(t *testing.T) {
	out, err := pdf.NewMarotoReportGenerator().GenerateFinanceReport(context.Background(), finance.ReportData{CompanyName: "Vacía"})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGenerateFinanceReport_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pdf.NewMarotoReportGenerator().GenerateFinanceReport(ctx, finance.ReportData{})
	assert.ErrorIs(t, err, context.Canceled)
}
