//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/erp-saas-api/internal/application/dto"
	"github.com/jhoicas/erp-saas-api/internal/application/orders"
	"github.com/jhoicas/erp-saas-api/internal/domain"
	"github.com/jhoicas/erp-saas-api/internal/domain/entity"
	"github.com/jhoicas/erp-saas-api/internal/domain/repository"
	"github.com/jhoicas/erp-saas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/erp-saas-api/pkg/config"
)

// newTestPool levanta PostgreSQL en un contenedor, aplica migraciones y devuelve el pool.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("erp_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "no se pudo iniciar el contenedor de PostgreSQL")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(ctx, dsn))

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

type tenant struct {
	company *entity.Company
	admin   *entity.User
	caller  domain.Caller
}

func seedTenant(t *testing.T, pool *pgxpool.Pool, legalID string) tenant {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	company := &entity.Company{ID: uuid.NewString(), Name: "Empresa " + legalID, LegalID: legalID, IsActive: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, postgres.NewCompanyRepository(pool).Create(ctx, company))
	admin := &entity.User{
		ID: uuid.NewString(), CompanyID: company.ID, Email: legalID + "@test.co", PasswordHash: "x",
		Name: "Admin", Roles: []string{entity.RoleAdmin}, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, postgres.NewUserRepository(pool).Create(ctx, admin))
	return tenant{company: company, admin: admin, caller: domain.NewCaller(admin.ID, company.ID, admin.Roles)}
}

func seedProduct(t *testing.T, pool *pgxpool.Pool, companyID, sku string, price string, stock int) *entity.Product {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	p := &entity.Product{
		ID: uuid.NewString(), CompanyID: companyID, SKU: sku, Name: "Producto " + sku,
		Price: decimal.RequireFromString(price), IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
	repo := postgres.NewProductRepository(pool)
	require.NoError(t, repo.Create(ctx, p))
	if stock > 0 {
		_, err := repo.AdjustStock(ctx, companyID, p.ID, stock)
		require.NoError(t, err)
	}
	return p
}

func stockOf(t *testing.T, pool *pgxpool.Pool, companyID, id string) int {
	t.Helper()
	p, err := postgres.NewProductRepository(pool).GetByID(context.Background(), companyID, id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func newOrderUseCase(pool *pgxpool.Pool) *orders.OrderUseCase {
	return orders.NewOrderUseCase(postgres.NewTxRunner(pool), postgres.NewOrderRepository(pool), nil)
}

func TestIntegration_Postgres(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	a := seedTenant(t, pool, "900001")
	b := seedTenant(t, pool, "900002")
	uc := newOrderUseCase(pool)

	t.Run("crear y cancelar conserva el stock", func(t *testing.T) {
		p := seedProduct(t, pool, a.company.ID, "P-10", "1000", 10)

		order, err := uc.CreateOrder(ctx, a.caller, dto.CreateOrderRequest{
			Items: []dto.OrderItemRequest{{ProductID: p.ID, Quantity: 3}},
		})
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(3000).Equal(order.Total))
		assert.Equal(t, 7, stockOf(t, pool, a.company.ID, p.ID))

		_, err = uc.CancelOrder(ctx, a.caller, order.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, stockOf(t, pool, a.company.ID, p.ID))

		_, err = uc.CancelOrder(ctx, a.caller, order.ID)
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Equal(t, 10, stockOf(t, pool, a.company.ID, p.ID))

		movs, err := postgres.NewStockMovementRepository(pool).ListByProduct(ctx, a.company.ID, p.ID, 10, 0)
		require.NoError(t, err)
		assert.Len(t, movs, 2, "venta y cancelación")
	})

	t.Run("stock insuficiente no deja orden", func(t *testing.T) {
		p := seedProduct(t, pool, a.company.ID, "P-3", "500", 3)

		_, err := uc.CreateOrder(ctx, a.caller, dto.CreateOrderRequest{
			Items: []dto.OrderItemRequest{{ProductID: p.ID, Quantity: 5}},
		})
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.Equal(t, 3, stockOf(t, pool, a.company.ID, p.ID))
	})

	t.Run("aislamiento entre empresas", func(t *testing.T) {
		p := seedProduct(t, pool, a.company.ID, "P-ISO", "100", 5)

		_, err := uc.CreateOrder(ctx, b.caller, dto.CreateOrderRequest{
			Items: []dto.OrderItemRequest{{ProductID: p.ID, Quantity: 1}},
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		got, err := postgres.NewProductRepository(pool).GetByID(ctx, b.company.ID, p.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.ErrorIs(t, postgres.NewProductRepository(pool).Deactivate(ctx, b.company.ID, p.ID), domain.ErrNotFound)
	})

	t.Run("ventas concurrentes nunca dejan stock negativo", func(t *testing.T) {
		p := seedProduct(t, pool, a.company.ID, "P-RACE", "10", 10)

		var wg sync.WaitGroup
		var mu sync.Mutex
		ok := 0
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := uc.CreateOrder(ctx, a.caller, dto.CreateOrderRequest{
					Items: []dto.OrderItemRequest{{ProductID: p.ID, Quantity: 1}},
				})
				if err == nil {
					mu.Lock()
					ok++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 10, ok)
		assert.Equal(t, 0, stockOf(t, pool, a.company.ID, p.ID))
	})

	t.Run("SKU duplicado por empresa", func(t *testing.T) {
		seedProduct(t, pool, b.company.ID, "DUP", "1", 0)
		now := time.Now()
		dup := &entity.Product{ID: uuid.NewString(), CompanyID: b.company.ID, SKU: "DUP", Name: "x", IsActive: true, CreatedAt: now, UpdatedAt: now}
		assert.ErrorIs(t, postgres.NewProductRepository(pool).Create(ctx, dup), domain.ErrDuplicate)
	})

	t.Run("búsqueda escapa comodines", func(t *testing.T) {
		seedProduct(t, pool, b.company.ID, "100%-ALGODON", "1", 0)
		seedProduct(t, pool, b.company.ID, "100X-ALGODON", "1", 0)

		list, total, err := postgres.NewProductRepository(pool).List(ctx, b.company.ID, repository.ProductFilter{Search: "100%", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, list, 1)
		assert.Equal(t, "100%-ALGODON", list[0].SKU)
	})

	t.Run("finanzas solo cuentan órdenes completadas", func(t *testing.T) {
		c := seedTenant(t, pool, "900003")
		p := seedProduct(t, pool, c.company.ID, "FIN", "250", 10)
		ucC := newOrderUseCase(pool)

		_, err := ucC.CreateOrder(ctx, c.caller, dto.CreateOrderRequest{Items: []dto.OrderItemRequest{{ProductID: p.ID, Quantity: 2}}})
		require.NoError(t, err)
		cancelled, err := ucC.CreateOrder(ctx, c.caller, dto.CreateOrderRequest{Items: []dto.OrderItemRequest{{ProductID: p.ID, Quantity: 4}}})
		require.NoError(t, err)
		_, err = ucC.CancelOrder(ctx, c.caller, cancelled.ID)
		require.NoError(t, err)

		fin := postgres.NewFinanceRepository(pool, "America/Bogota")
		totals, err := fin.GetSalesTotals(ctx, c.company.ID, repository.Period{})
		require.NoError(t, err)
		assert.Equal(t, 1, totals.OrderCount)
		assert.True(t, decimal.NewFromInt(500).Equal(totals.Revenue))

		top, err := fin.GetTopProducts(ctx, c.company.ID, repository.Period{}, 5)
		require.NoError(t, err)
		require.Len(t, top, 1)
		assert.Equal(t, 2, top[0].UnitsSold)

		cats, err := fin.GetRevenueByCategory(ctx, c.company.ID, repository.Period{})
		require.NoError(t, err)
		require.Len(t, cats, 1)
		assert.Equal(t, "Sin categoría", cats[0].CategoryName)
	})

	t.Run("gastos por rango de fechas", func(t *testing.T) {
		repo := postgres.NewExpenseRepository(pool)
		loc, _ := time.LoadLocation("America/Bogota")
		for _, d := range []string{"2024-01-31", "2024-02-01"} {
			day, _ := time.ParseInLocation("2006-01-02", d, loc)
			require.NoError(t, repo.Create(ctx, &entity.Expense{
				ID: uuid.NewString(), CompanyID: a.company.ID, Description: "Gasto " + d,
				Amount: decimal.NewFromInt(100), Category: "Servicios", Date: day, CreatedAt: time.Now(),
			}))
		}
		start := time.Date(2024, 1, 1, 0, 0, 0, 0, loc)
		end := time.Date(2024, 1, 31, 23, 59, 59, 999999000, loc)

		list, total, err := repo.List(ctx, a.company.ID, &start, &end, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, list, 1)
		assert.Equal(t, "Gasto 2024-01-31", list[0].Description)
	})
}
