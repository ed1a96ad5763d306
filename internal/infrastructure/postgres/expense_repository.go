package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/erp-saas-api/internal/domain"
	"github.com/jhoicas/erp-saas-api/internal/domain/entity"
	"github.com/jhoicas/erp-saas-api/internal/domain/repository"
)

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

// ExpenseRepo implementación del puerto ExpenseRepository sobre PostgreSQL.
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el adaptador.
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

// Create persiste un gasto. La fecha se guarda como día calendario.
func (r *ExpenseRepo) Create(ctx context.Context, e *entity.Expense) error {
	query := `
		INSERT INTO expenses (id, company_id, description, amount, category, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.CompanyID, e.Description, e.Amount, e.Category, e.Date.Format(dateLayout), e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// List gastos de la empresa entre from y to (inclusive, nil = sin límite), más recientes primero.
func (r *ExpenseRepo) List(ctx context.Context, companyID string, from, to *time.Time, limit, offset int) ([]*entity.Expense, int, error) {
	where := `
		WHERE company_id = $1
		  AND ($2::date IS NULL OR date >= $2::date)
		  AND ($3::date IS NULL OR date <= $3::date)`
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM expenses`+where, companyID, dateArg(from), dateArg(to)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count expenses: %w", err)
	}

	query := `SELECT id, company_id, description, amount, category, date, created_at FROM expenses` + where + `
		ORDER BY date DESC, created_at DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, companyID, dateArg(from), dateArg(to), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var list []*entity.Expense
	for rows.Next() {
		var e entity.Expense
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.Description, &e.Amount, &e.Category, &e.Date, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan expense: %w", err)
		}
		list = append(list, &e)
	}
	return list, total, rows.Err()
}

// Delete elimina físicamente el gasto (nada lo referencia).
func (r *ExpenseRepo) Delete(ctx context.Context, companyID, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM expenses WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
