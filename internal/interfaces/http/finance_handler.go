package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/erp-saas-api/internal/application/dto"
	"github.com/jhoicas/erp-saas-api/internal/application/finance"
)

// FinanceHandler expone los reportes financieros de la empresa del token.
type FinanceHandler struct {
	uc     *finance.FinanceUseCase
	report *finance.ReportUseCase
}

// NewFinanceHandler construye el handler.
func NewFinanceHandler(uc *finance.FinanceUseCase, report *finance.ReportUseCase) *FinanceHandler {
	return &FinanceHandler{uc: uc, report: report}
}

// Summary godoc
// @Summary      Resumen financiero del período
// @Description  Ingresos de órdenes completadas, ticket promedio, gastos y utilidad neta.
// @Tags         finances
// @Security     Bearer
// @Produce      json
// @Param        startDate  query  string  false  "Inicio (YYYY-MM-DD)"
// @Param        endDate    query  string  false  "Fin inclusivo (YYYY-MM-DD)"
// @Success      200  {object}  dto.FinanceSummaryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/finances/summary [get]
func (h *FinanceHandler) Summary(c *fiber.Ctx) error {
	var q dto.PeriodQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	out, err := h.uc.Summary(c.Context(), GetCaller(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Ingresos diarios
// @Tags         finances
// @Security     Bearer
// @Produce      json
// @Param        startDate  query  string  false  "Inicio (YYYY-MM-DD)"
// @Param        endDate    query  string  false  "Fin inclusivo (YYYY-MM-DD)"
// @Success      200  {object}  dto.RevenueHistoryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/finances/history [get]
func (h *FinanceHandler) History(c *fiber.Ctx) error {
	var q dto.PeriodQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	out, err := h.uc.History(c.Context(), GetCaller(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// TopProducts godoc
// @Summary      Productos con más ingreso
// @Tags         finances
// @Security     Bearer
// @Produce      json
// @Param        startDate  query  string  false  "Inicio (YYYY-MM-DD)"
// @Param        endDate    query  string  false  "Fin inclusivo (YYYY-MM-DD)"
// @Param        limit      query  int     false  "Cantidad (default 5, max 50)"
// @Success      200  {object}  dto.TopProductsDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/finances/top-products [get]
func (h *FinanceHandler) TopProducts(c *fiber.Ctx) error {
	var q dto.TopProductsQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	out, err := h.uc.TopProducts(c.Context(), GetCaller(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Categories godoc
// @Summary      Ingresos por categoría
// @Tags         finances
// @Security     Bearer
// @Produce      json
// @Param        startDate  query  string  false  "Inicio (YYYY-MM-DD)"
// @Param        endDate    query  string  false  "Fin inclusivo (YYYY-MM-DD)"
// @Success      200  {object}  dto.CategoriesRevenueDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/finances/categories [get]
func (h *FinanceHandler) Categories(c *fiber.Ctx) error {
	var q dto.PeriodQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	out, err := h.uc.Categories(c.Context(), GetCaller(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Expenses godoc
// @Summary      Gastos del período por categoría
// @Tags         finances
// @Security     Bearer
// @Produce      json
// @Param        startDate  query  string  false  "Inicio (YYYY-MM-DD)"
// @Param        endDate    query  string  false  "Fin inclusivo (YYYY-MM-DD)"
// @Success      200  {object}  dto.ExpensesSummaryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/finances/expenses [get]
func (h *FinanceHandler) Expenses(c *fiber.Ctx) error {
	var q dto.PeriodQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	out, err := h.uc.Expenses(c.Context(), GetCaller(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte financiero en PDF (admin)
// @Tags         finances
// @Security     Bearer
// @Produce      application/pdf
// @Param        startDate  query  string  false  "Inicio (YYYY-MM-DD)"
// @Param        endDate    query  string  false  "Fin inclusivo (YYYY-MM-DD)"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/finances/report [get]
func (h *FinanceHandler) Report(c *fiber.Ctx) error {
	var q dto.PeriodQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	pdf, err := h.report.Generate(c.Context(), GetCaller(c), q)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, reportFilename(q)))
	return c.Send(pdf)
}

func reportFilename(q dto.PeriodQuery) string {
	name := "reporte-financiero"
	if q.StartDate != "" {
		name += "-" + q.StartDate
	}
	if q.EndDate != "" {
		name += "-" + q.EndDate
	}
	return name + ".pdf"
}
