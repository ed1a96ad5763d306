package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/erp-saas-api/internal/domain"
	"github.com/jhoicas/erp-saas-api/internal/domain/entity"
	"github.com/jhoicas/erp-saas-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productSelect = `
	SELECT p.id, p.company_id, p.sku, p.name, p.description, p.price, p.stock, p.min_stock,
	       COALESCE(p.category_id::text, ''), COALESCE(c.name, ''), p.image_url, p.is_active,
	       p.created_at, p.updated_at
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id`

// Create persiste un nuevo producto con stock 0; el stock inicial entra por AdjustStock.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, company_id, sku, name, description, price, stock, min_stock, category_id, image_url, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.CompanyID, product.SKU, product.Name, product.Description, product.Price,
		product.MinStock, nullIfEmpty(product.CategoryID), product.ImageURL, product.IsActive,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto de la empresa (activo o no).
func (r *ProductRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Product, error) {
	query := productSelect + ` WHERE p.id = $1 AND p.company_id = $2`
	return scanProduct(r.q.QueryRow(ctx, query, id, companyID), "get product")
}

// GetForUpdate igual que GetByID pero bloquea la fila del producto hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Product, error) {
	query := productSelect + ` WHERE p.id = $1 AND p.company_id = $2 FOR UPDATE OF p`
	return scanProduct(r.q.QueryRow(ctx, query, id, companyID), "lock product")
}

// GetByCompanyAndSKU obtiene un producto por empresa y SKU.
func (r *ProductRepo) GetByCompanyAndSKU(ctx context.Context, companyID, sku string) (*entity.Product, error) {
	query := productSelect + ` WHERE p.company_id = $1 AND p.sku = $2`
	return scanProduct(r.q.QueryRow(ctx, query, companyID, sku), "get product by sku")
}

// Update actualiza los datos del producto. No toca stock: eso solo pasa por AdjustStock.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $3, description = $4, price = $5, min_stock = $6, category_id = $7,
		    image_url = $8, is_active = $9, updated_at = $10
		WHERE id = $1 AND company_id = $2`
	tag, err := r.q.Exec(ctx, query,
		product.ID, product.CompanyID, product.Name, product.Description, product.Price, product.MinStock,
		nullIfEmpty(product.CategoryID), product.ImageURL, product.IsActive, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustStock aplica delta con guarda: si el stock quedaría negativo no actualiza y devuelve ErrInsufficientStock.
func (r *ProductRepo) AdjustStock(ctx context.Context, companyID, id string, delta int) (int, error) {
	query := `
		UPDATE products SET stock = stock + $3, updated_at = now()
		WHERE id = $1 AND company_id = $2 AND stock + $3 >= 0
		RETURNING stock`
	var stock int
	err := r.q.QueryRow(ctx, query, id, companyID, delta).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			exists, existsErr := r.GetByID(ctx, companyID, id)
			if existsErr != nil {
				return 0, existsErr
			}
			if exists == nil {
				return 0, domain.ErrNotFound
			}
			return 0, fmt.Errorf("%w: producto %s", domain.ErrInsufficientStock, id)
		}
		return 0, fmt.Errorf("adjust stock: %w", err)
	}
	return stock, nil
}

// List lista productos de la empresa con búsqueda por nombre o SKU y filtro de categoría.
func (r *ProductRepo) List(ctx context.Context, companyID string, filter repository.ProductFilter) ([]*entity.Product, int, error) {
	conds := []string{"p.company_id = $1"}
	args := []any{companyID}
	if !filter.IncludeInactive {
		conds = append(conds, "p.is_active")
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		conds = append(conds, fmt.Sprintf("(p.name ILIKE $%d OR p.sku ILIKE $%d)", len(args), len(args)))
	}
	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		conds = append(conds, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	where := " WHERE " + strings.Join(conds, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products p`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := productSelect + where + fmt.Sprintf(" ORDER BY p.name, p.id LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	list, err := r.queryProducts(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListLowStock productos activos con stock <= min_stock, los más críticos primero.
func (r *ProductRepo) ListLowStock(ctx context.Context, companyID string, limit int) ([]*entity.Product, error) {
	query := productSelect + `
		WHERE p.company_id = $1 AND p.is_active AND p.stock <= p.min_stock
		ORDER BY (p.stock - p.min_stock), p.name
		LIMIT $2`
	return r.queryProducts(ctx, query, companyID, limit)
}

// Deactivate marca el producto como inactivo (soft delete).
func (r *ProductRepo) Deactivate(ctx context.Context, companyID, id string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE products SET is_active = FALSE, updated_at = now() WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) queryProducts(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows, "scan product")
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanProduct(row pgx.Row, op string) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.SKU, &p.Name, &p.Description, &p.Price, &p.Stock, &p.MinStock,
		&p.CategoryID, &p.CategoryName, &p.ImageURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// escapeLike escapa los comodines de LIKE en texto de búsqueda del usuario.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}
