package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/erp-saas-api/internal/domain"
	"github.com/jhoicas/erp-saas-api/internal/domain/entity"
	"github.com/jhoicas/erp-saas-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste una categoría. Nombre repetido entre las activas de la empresa → domain.ErrDuplicate.
func (r *CategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	query := `
		INSERT INTO categories (id, company_id, name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		category.ID, category.CompanyID, category.Name, category.IsActive, category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría activa de la empresa.
func (r *CategoryRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Category, error) {
	query := `
		SELECT id, company_id, name, is_active, created_at, updated_at
		FROM categories WHERE id = $1 AND company_id = $2 AND is_active`
	var c entity.Category
	err := r.q.QueryRow(ctx, query, id, companyID).Scan(&c.ID, &c.CompanyID, &c.Name, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// ListByCompany categorías activas ordenadas por nombre.
func (r *CategoryRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Category, error) {
	query := `
		SELECT id, company_id, name, is_active, created_at, updated_at
		FROM categories WHERE company_id = $1 AND is_active
		ORDER BY name`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var list []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Name, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Deactivate desactiva una categoría activa de la empresa y deja sin categoría a sus productos.
func (r *CategoryRepo) Deactivate(ctx context.Context, companyID, id string) error {
	query := `
		WITH cat AS (
			UPDATE categories SET is_active = FALSE, updated_at = now()
			WHERE id = $1 AND company_id = $2 AND is_active
			RETURNING id
		), detached AS (
			UPDATE products SET category_id = NULL, updated_at = now()
			WHERE company_id = $2 AND category_id IN (SELECT id FROM cat)
		)
		SELECT count(*) FROM cat`
	var n int
	if err := r.q.QueryRow(ctx, query, id, companyID).Scan(&n); err != nil {
		return fmt.Errorf("deactivate category: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
