// seed prepara una base de datos: aplica migraciones, crea la empresa de plataforma con su
// super-admin y, opcionalmente, una empresa demo con catálogo, ventas y gastos.
//
// Uso: go run ./cmd/seed [-demo] [-products catalogo.csv] [-orders 40]
// El super-admin se toma de SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-saas-api/internal/application/dto"
	"github.com/jhoicas/erp-saas-api/internal/application/finance"
	"github.com/jhoicas/erp-saas-api/internal/application/orders"
	"github.com/jhoicas/erp-saas-api/internal/application/usecase"
	"github.com/jhoicas/erp-saas-api/internal/domain"
	"github.com/jhoicas/erp-saas-api/internal/domain/entity"
	"github.com/jhoicas/erp-saas-api/internal/domain/repository"
	"github.com/jhoicas/erp-saas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/erp-saas-api/pkg/config"
	"github.com/jhoicas/erp-saas-api/pkg/logger"
)

const platformLegalID = "PLATAFORMA"

var expenseCategories = []string{"Arriendo", "Servicios", "Nómina", "Transporte", "Publicidad"}

func main() {
	demo := flag.Bool("demo", false, "crear una empresa demo con datos de ejemplo")
	productsCSV := flag.String("products", "", "catálogo CSV (Windows-1252, separador ';') para la empresa demo")
	orderCount := flag.Int("orders", 40, "cantidad de ventas de ejemplo")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	l := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: cfg.App.Name})
	log := l.Component("seed")

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria inválida")
	}

	ctx := context.Background()
	if err := postgres.Migrate(ctx, cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)
	companyRepo := postgres.NewCompanyRepository(pool)

	superAdmin, err := ensurePlatform(ctx, txRunner, companyRepo, cfg.Seed)
	if err != nil {
		log.Fatal().Err(err).Msg("empresa de plataforma")
	}
	log.Info().Str("email", cfg.Seed.AdminEmail).Msg("super-admin listo")

	if !*demo {
		return
	}

	var rows []productRow
	if *productsCSV != "" {
		f, err := os.Open(*productsCSV)
		if err != nil {
			log.Fatal().Err(err).Msg("abrir catálogo")
		}
		rows, err = readProductsCSV(f)
		f.Close()
		if err != nil {
			log.Fatal().Err(err).Msg("leer catálogo")
		}
	}

	s := &seeder{
		log:        log,
		faker:      gofakeit.New(0),
		loc:        loc,
		companyUC:  usecase.NewCompanyUseCase(txRunner, companyRepo, nil),
		categoryUC: usecase.NewCategoryUseCase(postgres.NewCategoryRepository(pool)),
		productUC: usecase.NewProductUseCase(txRunner,
			postgres.NewProductRepository(pool),
			postgres.NewCategoryRepository(pool),
			postgres.NewStockMovementRepository(pool),
			nil),
		orderUC:   orders.NewOrderUseCase(txRunner, postgres.NewOrderRepository(pool), nil),
		expenseUC: finance.NewExpenseUseCase(postgres.NewExpenseRepository(pool), loc),
	}
	if err := s.run(ctx, superAdmin, rows, *orderCount); err != nil {
		log.Fatal().Err(err).Msg("empresa demo")
	}
}

// ensurePlatform crea (una sola vez) la empresa interna que aloja al super-admin.
func ensurePlatform(ctx context.Context, txRunner *postgres.TxRunner, companyRepo repository.CompanyRepository, seedCfg config.SeedConfig) (domain.Caller, error) {
	if seedCfg.AdminEmail == "" || seedCfg.AdminPassword == "" {
		return domain.Caller{}, fmt.Errorf("SEED_ADMIN_EMAIL y SEED_ADMIN_PASSWORD son obligatorios")
	}
	var caller domain.Caller
	err := txRunner.RunTenant(ctx, func(companies repository.CompanyRepository, users repository.UserRepository) error {
		company, err := companies.GetByLegalID(ctx, platformLegalID)
		if err != nil {
			return err
		}
		if company == nil {
			now := time.Now()
			company = &entity.Company{
				ID: uuid.New().String(), Name: "Plataforma", LegalID: platformLegalID,
				IsActive: true, CreatedAt: now, UpdatedAt: now,
			}
			if err := companies.Create(ctx, company); err != nil {
				return err
			}
		}
		user, err := users.GetByEmail(ctx, seedCfg.AdminEmail)
		if err != nil {
			return err
		}
		if user == nil {
			user, err = usecase.NewUser(company.ID, "Super Admin", seedCfg.AdminEmail, seedCfg.AdminPassword, []string{entity.RoleSuperAdmin})
			if err != nil {
				return err
			}
			if err := users.Create(ctx, user); err != nil {
				return err
			}
		} else if user.CompanyID != company.ID || !user.HasRole(entity.RoleSuperAdmin) {
			return fmt.Errorf("%w: %s ya pertenece a otra empresa", domain.ErrConflict, seedCfg.AdminEmail)
		}
		caller = domain.NewCaller(user.ID, company.ID, user.Roles)
		return nil
	})
	return caller, err
}

type seeder struct {
	log        zerolog.Logger
	faker      *gofakeit.Faker
	loc        *time.Location
	companyUC  *usecase.CompanyUseCase
	categoryUC *usecase.CategoryUseCase
	productUC  *usecase.ProductUseCase
	orderUC    *orders.OrderUseCase
	expenseUC  *finance.ExpenseUseCase
}

func (s *seeder) run(ctx context.Context, superAdmin domain.Caller, rows []productRow, orderCount int) error {
	f := s.faker
	adminPassword := f.Password(true, true, true, false, false, 14)
	created, err := s.companyUC.Create(ctx, superAdmin, dto.CreateCompanyRequest{
		Name:          f.Company(),
		LegalID:       f.Numerify("900######-#"),
		AdminName:     f.Name(),
		AdminEmail:    f.Email(),
		AdminPassword: adminPassword,
	})
	if err != nil {
		return fmt.Errorf("crear empresa: %w", err)
	}
	admin := domain.NewCaller(created.Admin.ID, created.Company.ID, created.Admin.Roles)
	s.log.Info().
		Str("company", created.Company.Name).
		Str("admin_email", created.Admin.Email).
		Str("admin_password", adminPassword).
		Msg("empresa demo creada")

	if len(rows) == 0 {
		rows = s.fakeProducts(25)
	}
	productIDs, err := s.createCatalog(ctx, admin, rows)
	if err != nil {
		return err
	}

	sold, cancelled := 0, 0
	for i := 0; i < orderCount; i++ {
		order, err := s.orderUC.CreateOrder(ctx, admin, s.fakeOrder(productIDs))
		if err != nil {
			// Sin stock suficiente la venta se descarta, igual que en caja.
			s.log.Debug().Err(err).Msg("venta omitida")
			continue
		}
		sold++
		if f.Float32Range(0, 1) < 0.1 {
			if _, err := s.orderUC.CancelOrder(ctx, admin, order.ID); err != nil {
				return fmt.Errorf("cancelar venta: %w", err)
			}
			cancelled++
		}
	}

	today := time.Now().In(s.loc)
	for i := 0; i < 12; i++ {
		day := today.AddDate(0, 0, -f.IntRange(0, 29))
		category := f.RandomString(expenseCategories)
		_, err := s.expenseUC.Create(ctx, admin, dto.CreateExpenseRequest{
			Description: category + " - " + f.Company(),
			Amount:      decimal.NewFromInt(int64(f.IntRange(20, 800)) * 1000),
			Category:    category,
			Date:        day.Format("2006-01-02"),
		})
		if err != nil {
			return fmt.Errorf("crear gasto: %w", err)
		}
	}

	s.log.Info().
		Int("products", len(productIDs)).
		Int("orders", sold).
		Int("cancelled", cancelled).
		Msg("datos demo generados")
	return nil
}

func (s *seeder) createCatalog(ctx context.Context, admin domain.Caller, rows []productRow) ([]string, error) {
	categoryIDs := make(map[string]string)
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		categoryID := ""
		if row.Category != "" {
			id, ok := categoryIDs[row.Category]
			if !ok {
				cat, err := s.categoryUC.Create(ctx, admin, dto.CreateCategoryRequest{Name: row.Category})
				if err != nil {
					return nil, fmt.Errorf("crear categoría %q: %w", row.Category, err)
				}
				id = cat.ID
				categoryIDs[row.Category] = id
			}
			categoryID = id
		}
		p, err := s.productUC.Create(ctx, admin, dto.CreateProductRequest{
			SKU:        row.SKU,
			Name:       row.Name,
			Price:      row.Price,
			Stock:      row.Stock,
			MinStock:   row.MinStock,
			CategoryID: categoryID,
		})
		if err != nil {
			return nil, fmt.Errorf("crear producto %s: %w", row.SKU, err)
		}
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func (s *seeder) fakeProducts(n int) []productRow {
	f := s.faker
	rows := make([]productRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, productRow{
			SKU:      fmt.Sprintf("DEMO-%03d", i+1),
			Name:     f.ProductName(),
			Price:    decimal.NewFromInt(int64(f.IntRange(2, 250)) * 500),
			Stock:    f.IntRange(0, 80),
			MinStock: f.IntRange(3, 10),
			Category: f.ProductCategory(),
		})
	}
	return rows
}

func (s *seeder) fakeOrder(productIDs []string) dto.CreateOrderRequest {
	f := s.faker
	lines := f.IntRange(1, 4)
	seen := make(map[string]bool, lines)
	var items []dto.OrderItemRequest
	for i := 0; i < lines; i++ {
		id := productIDs[f.IntRange(0, len(productIDs)-1)]
		if seen[id] {
			continue
		}
		seen[id] = true
		items = append(items, dto.OrderItemRequest{ProductID: id, Quantity: f.IntRange(1, 3)})
	}
	return dto.CreateOrderRequest{
		Items:         items,
		PaymentMethod: f.RandomString([]string{entity.PaymentCash, entity.PaymentCard, entity.PaymentTransfer}),
	}
}
