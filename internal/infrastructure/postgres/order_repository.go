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

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `
	id, company_id, COALESCE(user_id::text, ''), total, payment_method, status,
	cancellation_status, cancellation_reason, created_at, updated_at`

// Create inserta la cabecera de la orden.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (id, company_id, user_id, total, payment_method, status, cancellation_status, cancellation_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.CompanyID, nullIfEmpty(o.UserID), o.Total, o.PaymentMethod, o.Status,
		o.CancellationStatus, o.CancellationReason, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// CreateItem inserta una línea con su precio congelado.
func (r *OrderRepo) CreateItem(ctx context.Context, item *entity.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, price_at_purchase)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.OrderID, nullIfEmpty(item.ProductID), item.Quantity, item.PriceAtPurchase,
	)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

// GetByID obtiene la orden de la empresa con sus ítems.
func (r *OrderRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND company_id = $2`
	return r.getWithItems(ctx, query, id, companyID)
}

// GetForUpdate bloquea la fila de la orden; dos cancelaciones concurrentes se serializan aquí.
func (r *OrderRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND company_id = $2 FOR UPDATE`
	return r.getWithItems(ctx, query, id, companyID)
}

// UpdateStatus actualiza solo los campos de estado; total e ítems son inmutables.
func (r *OrderRepo) UpdateStatus(ctx context.Context, o *entity.Order) error {
	query := `
		UPDATE orders
		SET status = $3, cancellation_status = $4, cancellation_reason = $5, updated_at = $6
		WHERE id = $1 AND company_id = $2`
	tag, err := r.q.Exec(ctx, query,
		o.ID, o.CompanyID, o.Status, o.CancellationStatus, o.CancellationReason, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List órdenes de la empresa con filtros, orden y paginación; incluye los ítems de la página.
func (r *OrderRepo) List(ctx context.Context, companyID string, filter repository.OrderFilter) ([]*entity.Order, int, error) {
	conds := []string{"company_id = $1"}
	args := []any{companyID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.CancellationStatus != "" {
		args = append(args, filter.CancellationStatus)
		conds = append(conds, fmt.Sprintf("cancellation_status = $%d", len(args)))
	}
	if filter.PaymentMethod != "" {
		args = append(args, filter.PaymentMethod)
		conds = append(conds, fmt.Sprintf("payment_method = $%d", len(args)))
	}
	where := " WHERE " + strings.Join(conds, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	// Columna de orden solo desde lista blanca.
	sortCol := "created_at"
	if filter.SortBy == "total" {
		sortCol = "total"
	}
	dir := "ASC"
	if filter.Desc {
		dir = "DESC"
	}
	args = append(args, filter.Limit, filter.Offset)
	query := `SELECT ` + orderColumns + ` FROM orders` + where +
		fmt.Sprintf(" ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d", sortCol, dir, dir, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	var list []*entity.Order
	byID := make(map[string]*entity.Order)
	for rows.Next() {
		o, err := scanOrder(rows, "scan order")
		if err != nil {
			rows.Close()
			return nil, 0, err
		}
		list = append(list, o)
		byID[o.ID] = o
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	if len(list) == 0 {
		return list, total, nil
	}

	ids := make([]string, 0, len(list))
	for _, o := range list {
		ids = append(ids, o.ID)
	}
	items, err := r.loadItems(ctx, `oi.order_id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, 0, err
	}
	for _, it := range items {
		if o := byID[it.OrderID]; o != nil {
			o.Items = append(o.Items, it)
		}
	}
	return list, total, nil
}

func (r *OrderRepo) getWithItems(ctx context.Context, query, id, companyID string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, id, companyID), "get order")
	if err != nil || o == nil {
		return nil, err
	}
	items, err := r.loadItems(ctx, `oi.order_id = $1`, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

// loadItems carga líneas con nombre y SKU actuales del producto (vacíos si ya no existe).
func (r *OrderRepo) loadItems(ctx context.Context, cond string, arg any) ([]entity.OrderItem, error) {
	query := `
		SELECT oi.id, oi.order_id, COALESCE(oi.product_id::text, ''), COALESCE(p.name, ''), COALESCE(p.sku, ''),
		       oi.quantity, oi.price_at_purchase
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE ` + cond + `
		ORDER BY oi.created_at, oi.id`
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var items []entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.SKU, &it.Quantity, &it.PriceAtPurchase); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanOrder(row pgx.Row, op string) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(
		&o.ID, &o.CompanyID, &o.UserID, &o.Total, &o.PaymentMethod, &o.Status,
		&o.CancellationStatus, &o.CancellationReason, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &o, nil
}
