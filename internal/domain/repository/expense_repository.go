package repository

import (
	"context"
	"time"

	"github.com/jhoicas/erp-saas-api/internal/domain/entity"
)

// ExpenseRepository define el puerto de persistencia para Expense (DIP).
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	List(ctx context.Context, companyID string, from, to *time.Time, limit, offset int) ([]*entity.Expense, int, error)
	Delete(ctx context.Context, companyID, id string) error
}
