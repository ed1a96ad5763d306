package finance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/erp-saas-api/internal/application/dto"
	"github.com/jhoicas/erp-saas-api/internal/domain"
	"github.com/jhoicas/erp-saas-api/internal/domain/entity"
	"github.com/jhoicas/erp-saas-api/internal/domain/repository"
)

// ExpenseUseCase registro de gastos de la empresa.
type ExpenseUseCase struct {
	repo repository.ExpenseRepository
	loc  *time.Location
}

// NewExpenseUseCase construye el caso de uso.
func NewExpenseUseCase(repo repository.ExpenseRepository, loc *time.Location) *ExpenseUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &ExpenseUseCase{repo: repo, loc: loc}
}

// Create registra un gasto. Sin fecha se usa el día actual.
func (uc *ExpenseUseCase) Create(ctx context.Context, caller domain.Caller, in dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	description := strings.TrimSpace(in.Description)
	category := strings.TrimSpace(in.Category)
	if description == "" || category == "" {
		return nil, fmt.Errorf("%w: description y category son obligatorios", domain.ErrInvalidInput)
	}
	if in.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount no puede ser negativo", domain.ErrInvalidInput)
	}
	now := time.Now().In(uc.loc)
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, uc.loc)
	if in.Date != "" {
		d, err := time.ParseInLocation(dateLayout, in.Date, uc.loc)
		if err != nil {
			return nil, fmt.Errorf("%w: date inválido", domain.ErrInvalidInput)
		}
		date = d
	}
	expense := &entity.Expense{
		ID:          uuid.New().String(),
		CompanyID:   caller.CompanyID,
		Description: description,
		Amount:      in.Amount,
		Category:    category,
		Date:        date,
		CreatedAt:   now,
	}
	if err := uc.repo.Create(ctx, expense); err != nil {
		return nil, err
	}
	return toExpenseResponse(expense), nil
}

// List lista los gastos del período (más recientes primero).
func (uc *ExpenseUseCase) List(ctx context.Context, caller domain.Caller, q dto.ExpenseListQuery) (*dto.Paginated[dto.ExpenseResponse], error) {
	period, _, err := ParsePeriod(q.StartDate, q.EndDate, uc.loc)
	if err != nil {
		return nil, err
	}
	page := dto.PageQuery{Page: q.Page, Limit: q.Limit}
	page.Normalize()
	list, total, err := uc.repo.List(ctx, caller.CompanyID, period.Start, period.End, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpenseResponse, 0, len(list))
	for _, e := range list {
		out = append(out, *toExpenseResponse(e))
	}
	return &dto.Paginated[dto.ExpenseResponse]{Data: out, Meta: dto.NewPageMeta(total, page.Page, page.Limit)}, nil
}

// Delete elimina el gasto de la empresa del caller.
func (uc *ExpenseUseCase) Delete(ctx context.Context, caller domain.Caller, id string) error {
	return uc.repo.Delete(ctx, caller.CompanyID, id)
}

func toExpenseResponse(e *entity.Expense) *dto.ExpenseResponse {
	return &dto.ExpenseResponse{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		Category:    e.Category,
		Date:        e.Date.Format(dateLayout),
		CreatedAt:   e.CreatedAt,
	}
}
