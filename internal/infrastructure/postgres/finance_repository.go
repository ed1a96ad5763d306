package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/erp-saas-api/internal/domain/repository"
)

var _ repository.FinanceRepository = (*FinanceRepo)(nil)

// FinanceRepo consultas de agregación para reportes financieros.
// Ventas: solo órdenes completed. Los extremos nil del período no filtran.
type FinanceRepo struct {
	q        Querier
	timezone string // zona IANA para agrupar por día
}

// NewFinanceRepository construye el adaptador. timezone vacío = UTC.
func NewFinanceRepository(q Querier, timezone string) *FinanceRepo {
	if timezone == "" {
		timezone = "UTC"
	}
	return &FinanceRepo{q: q, timezone: timezone}
}

const completedInPeriod = `
	o.company_id = $1
	AND o.status = 'completed'
	AND ($2::timestamptz IS NULL OR o.created_at >= $2)
	AND ($3::timestamptz IS NULL OR o.created_at <= $3)`

// GetSalesTotals ingresos y cantidad de órdenes completadas del período.
func (r *FinanceRepo) GetSalesTotals(ctx context.Context, companyID string, period repository.Period) (repository.SalesTotals, error) {
	query := `SELECT COALESCE(SUM(o.total), 0), COUNT(*) FROM orders o WHERE ` + completedInPeriod
	var out repository.SalesTotals
	if err := r.q.QueryRow(ctx, query, companyID, period.Start, period.End).Scan(&out.Revenue, &out.OrderCount); err != nil {
		return out, fmt.Errorf("finance.GetSalesTotals: %w", err)
	}
	return out, nil
}

// GetDailyRevenue serie diaria (en la zona horaria configurada) de ingresos y órdenes.
func (r *FinanceRepo) GetDailyRevenue(ctx context.Context, companyID string, period repository.Period) ([]repository.DailyRevenue, error) {
	query := `
		SELECT (o.created_at AT TIME ZONE $4)::date AS day, SUM(o.total), COUNT(*)
		FROM orders o
		WHERE ` + completedInPeriod + `
		GROUP BY day
		ORDER BY day`
	rows, err := r.q.Query(ctx, query, companyID, period.Start, period.End, r.timezone)
	if err != nil {
		return nil, fmt.Errorf("finance.GetDailyRevenue: %w", err)
	}
	defer rows.Close()

	var out []repository.DailyRevenue
	for rows.Next() {
		var d repository.DailyRevenue
		if err := rows.Scan(&d.Day, &d.Revenue, &d.OrderCount); err != nil {
			return nil, fmt.Errorf("finance.GetDailyRevenue scan: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetTopProducts productos con más ingreso (precio congelado × cantidad).
func (r *FinanceRepo) GetTopProducts(ctx context.Context, companyID string, period repository.Period, limit int) ([]repository.ProductRevenue, error) {
	query := `
		SELECT COALESCE(oi.product_id::text, ''), COALESCE(p.sku, ''), COALESCE(p.name, 'Producto eliminado'),
		       SUM(oi.quantity), SUM(oi.quantity * oi.price_at_purchase) AS revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE ` + completedInPeriod + `
		GROUP BY oi.product_id, p.sku, p.name
		ORDER BY revenue DESC, 3
		LIMIT $4`
	rows, err := r.q.Query(ctx, query, companyID, period.Start, period.End, limit)
	if err != nil {
		return nil, fmt.Errorf("finance.GetTopProducts: %w", err)
	}
	defer rows.Close()

	var out []repository.ProductRevenue
	for rows.Next() {
		var p repository.ProductRevenue
		if err := rows.Scan(&p.ProductID, &p.SKU, &p.ProductName, &p.UnitsSold, &p.Revenue); err != nil {
			return nil, fmt.Errorf("finance.GetTopProducts scan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetRevenueByCategory ingresos por categoría; productos sin categoría se agrupan como "Sin categoría".
func (r *FinanceRepo) GetRevenueByCategory(ctx context.Context, companyID string, period repository.Period) ([]repository.CategoryRevenue, error) {
	query := `
		SELECT COALESCE(c.id::text, ''), COALESCE(c.name, 'Sin categoría'),
		       SUM(oi.quantity), SUM(oi.quantity * oi.price_at_purchase) AS revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		LEFT JOIN products p ON p.id = oi.product_id
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE ` + completedInPeriod + `
		GROUP BY c.id, c.name
		ORDER BY revenue DESC`
	rows, err := r.q.Query(ctx, query, companyID, period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("finance.GetRevenueByCategory: %w", err)
	}
	defer rows.Close()

	var out []repository.CategoryRevenue
	for rows.Next() {
		var c repository.CategoryRevenue
		if err := rows.Scan(&c.CategoryID, &c.CategoryName, &c.UnitsSold, &c.Revenue); err != nil {
			return nil, fmt.Errorf("finance.GetRevenueByCategory scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetExpensesByCategory total y cantidad de gastos por categoría.
func (r *FinanceRepo) GetExpensesByCategory(ctx context.Context, companyID string, period repository.Period) ([]repository.ExpenseByCategory, error) {
	query := `
		SELECT category, SUM(amount) AS total, COUNT(*)
		FROM expenses
		WHERE company_id = $1
		  AND ($2::date IS NULL OR date >= $2::date)
		  AND ($3::date IS NULL OR date <= $3::date)
		GROUP BY category
		ORDER BY total DESC, category`
	rows, err := r.q.Query(ctx, query, companyID, dateArg(period.Start), dateArg(period.End))
	if err != nil {
		return nil, fmt.Errorf("finance.GetExpensesByCategory: %w", err)
	}
	defer rows.Close()

	var out []repository.ExpenseByCategory
	for rows.Next() {
		var e repository.ExpenseByCategory
		if err := rows.Scan(&e.Category, &e.Total, &e.Count); err != nil {
			return nil, fmt.Errorf("finance.GetExpensesByCategory scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
