package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // zonas IANA embebidas para contenedores sin tzdata

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jhoicas/erp-saas-api/internal/application/auth"
	"github.com/jhoicas/erp-saas-api/internal/application/finance"
	"github.com/jhoicas/erp-saas-api/internal/application/orders"
	"github.com/jhoicas/erp-saas-api/internal/application/usecase"
	"github.com/jhoicas/erp-saas-api/internal/infrastructure/cache"
	"github.com/jhoicas/erp-saas-api/internal/infrastructure/events"
	"github.com/jhoicas/erp-saas-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/erp-saas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/erp-saas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/erp-saas-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/erp-saas-api/internal/interfaces/http"
	"github.com/jhoicas/erp-saas-api/pkg/config"
	"github.com/jhoicas/erp-saas-api/pkg/logger"
)

const companyCacheMaxEntries = 10_000

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("timezone", cfg.App.Timezone).
		Msg("iniciando aplicación")

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.App.Timezone).Msg("zona horaria inválida")
	}

	ctx := context.Background()
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	financeRepo := postgres.NewFinanceRepository(pool, cfg.App.Timezone)
	txRunner := postgres.NewTxRunner(pool)

	// Estado activo de empresas: una consulta por empresa cada TTL
	companyCache, err := cache.NewCompanyStatusCache(companyCacheMaxEntries, time.Duration(cfg.Cache.CompanyTTLSeconds)*time.Second)
	if err != nil {
		log.Fatal().Err(err).Msg("caché de empresas")
	}
	defer companyCache.Close()

	appMetrics := metrics.New()
	notifiers := orders.Notifiers{appMetrics}
	if cfg.NATS.URL != "" {
		publisher, err := events.ConnectNATS(cfg.NATS.URL, cfg.App.Name)
		if err != nil {
			// Los eventos son best-effort: la API arranca sin ellos.
			log.Warn().Err(err).Msg("NATS no disponible, eventos de pedidos deshabilitados")
		} else {
			defer publisher.Close()
			notifiers = append(notifiers, publisher)
		}
	}

	var objectStorage usecase.ObjectStorage
	var localStorage *storage.LocalStorage
	if cfg.Storage.UseS3() {
		s3Storage, err := storage.NewS3Storage(ctx, cfg.Storage)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente S3")
		}
		objectStorage = s3Storage
	} else {
		localStorage, err = storage.NewLocalStorage(cfg.Storage.LocalDir, "/uploads")
		if err != nil {
			log.Fatal().Err(err).Msg("almacenamiento local")
		}
		objectStorage = localStorage
	}

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	orderUC := orders.NewOrderUseCase(txRunner, orderRepo, notifiers)
	productUC := usecase.NewProductUseCase(txRunner, productRepo, categoryRepo, movementRepo, objectStorage)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	companyUC := usecase.NewCompanyUseCase(txRunner, companyRepo, companyCache)
	companyStatus := usecase.NewCompanyStatusService(companyRepo, companyCache)
	financeUC := finance.NewFinanceUseCase(financeRepo, loc)
	expenseUC := finance.NewExpenseUseCase(expenseRepo, loc)
	reportUC := finance.NewReportUseCase(financeRepo, companyRepo, infrapdf.NewMarotoReportGenerator(), loc)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    usecase.MaxImageSize + 1<<20,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Component("http"), appMetrics))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "ERP SaaS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(appMetrics.Handler()))
	if localStorage != nil {
		app.Static("/uploads", localStorage.Dir())
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		OrderUC:       orderUC,
		ProductUC:     productUC,
		CategoryUC:    categoryUC,
		UserUC:        userUC,
		CompanyUC:     companyUC,
		FinanceUC:     financeUC,
		ReportUC:      reportUC,
		ExpenseUC:     expenseUC,
		CompanyStatus: companyStatus,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
