package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/erp-saas-api/internal/application/dto"
	"github.com/jhoicas/erp-saas-api/internal/domain"
	"github.com/jhoicas/erp-saas-api/internal/domain/repository"
	"golang.org/x/sync/errgroup"
)

const reportTopProducts = 10

// ReportGenerator genera el PDF del reporte financiero.
type ReportGenerator interface {
	GenerateFinanceReport(ctx context.Context, data ReportData) ([]byte, error)
}

// ReportData datos ya agregados que se vuelcan en el PDF.
type ReportData struct {
	CompanyName string
	LegalID     string
	Period      dto.PeriodDTO
	GeneratedAt time.Time
	Summary     dto.FinanceSummaryDTO
	TopProducts []dto.TopProductDTO
	Categories  []dto.CategoryRevenueDTO
	History     []dto.DailyRevenueDTO
	Expenses    []dto.ExpenseCategoryDTO
}

// ReportUseCase reúne todas las agregaciones del período y las entrega al generador de PDF.
type ReportUseCase struct {
	repo        repository.FinanceRepository
	companyRepo repository.CompanyRepository
	generator   ReportGenerator
	loc         *time.Location
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	repo repository.FinanceRepository,
	companyRepo repository.CompanyRepository,
	generator ReportGenerator,
	loc *time.Location,
) *ReportUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &ReportUseCase{repo: repo, companyRepo: companyRepo, generator: generator, loc: loc}
}

// Generate devuelve los bytes del PDF del reporte financiero de la empresa del caller.
func (uc *ReportUseCase) Generate(ctx context.Context, caller domain.Caller, q dto.PeriodQuery) ([]byte, error) {
	period, periodDTO, err := ParsePeriod(q.StartDate, q.EndDate, uc.loc)
	if err != nil {
		return nil, err
	}
	company, err := uc.companyRepo.GetByID(ctx, caller.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}

	var (
		sales      repository.SalesTotals
		daily      []repository.DailyRevenue
		top        []repository.ProductRevenue
		categories []repository.CategoryRevenue
		expenses   []repository.ExpenseByCategory
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sales, err = uc.repo.GetSalesTotals(gctx, caller.CompanyID, period)
		return err
	})
	g.Go(func() (err error) {
		daily, err = uc.repo.GetDailyRevenue(gctx, caller.CompanyID, period)
		return err
	})
	g.Go(func() (err error) {
		top, err = uc.repo.GetTopProducts(gctx, caller.CompanyID, period, reportTopProducts)
		return err
	})
	g.Go(func() (err error) {
		categories, err = uc.repo.GetRevenueByCategory(gctx, caller.CompanyID, period)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = uc.repo.GetExpensesByCategory(gctx, caller.CompanyID, period)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("finance: reporte: %w", err)
	}

	summary := buildSummary(sales, expenses)
	summary.Period = periodDTO
	_, expenseRows := buildExpenses(expenses)

	pdf, err := uc.generator.GenerateFinanceReport(ctx, ReportData{
		CompanyName: company.Name,
		LegalID:     company.LegalID,
		Period:      periodDTO,
		GeneratedAt: time.Now().In(uc.loc),
		Summary:     summary,
		TopProducts: buildTopProducts(top, sales.Revenue),
		Categories:  buildCategories(categories),
		History:     buildHistory(daily),
		Expenses:    expenseRows,
	})
	if err != nil {
		return nil, fmt.Errorf("finance: generar pdf: %w", err)
	}
	return pdf, nil
}
