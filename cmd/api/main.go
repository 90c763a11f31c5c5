package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	_ "github.com/jhoicas/tienda-pos/docs"
	"github.com/jhoicas/tienda-pos/internal/application/alerts"
	"github.com/jhoicas/tienda-pos/internal/application/auth"
	"github.com/jhoicas/tienda-pos/internal/application/ports"
	"github.com/jhoicas/tienda-pos/internal/application/reports"
	"github.com/jhoicas/tienda-pos/internal/application/sales"
	"github.com/jhoicas/tienda-pos/internal/application/usecase"
	"github.com/jhoicas/tienda-pos/internal/domain/alerting"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/postgres"
	"github.com/jhoicas/tienda-pos/internal/infrastructure/rabbitmq"
	infraredis "github.com/jhoicas/tienda-pos/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/tienda-pos/internal/interfaces/http"
	"github.com/jhoicas/tienda-pos/pkg/config"
	"github.com/jhoicas/tienda-pos/pkg/logger"
)

// @title        Tienda POS API
// @version      1.0
// @description  Punto de venta y back-office: checkout, catálogo, gastos, alertas y reportes.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		Name:  cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Caché de reportes: opcional, sin REDIS_ADDR se consulta siempre la DB
	var cache ports.Cache = ports.NopCache{}
	if cfg.Redis.Addr != "" {
		client, err := infraredis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no disponible, reportes sin caché")
		} else {
			defer client.Close()
			cache = infraredis.NewCache(client, cfg.App.Name)
		}
	}

	// Eventos: opcional, sin RABBITMQ_URL se descartan
	var publisher ports.EventPublisher = ports.NopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		conn, ch, err := rabbitmq.SetupConn(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, 5, log.Component("rabbitmq"))
		if err != nil {
			log.Warn().Err(err).Msg("RabbitMQ no disponible, eventos desactivados")
		} else {
			defer conn.Close()
			defer ch.Close()
			publisher = rabbitmq.NewPublisher(ch, cfg.RabbitMQ.Exchange, cfg.App.Name)
		}
	}

	policy := alerting.Policy{
		LowStockThreshold: cfg.Alerts.LowStockDefault,
		ExpiringSoonDays:  cfg.Alerts.ExpiringSoonDays,
	}
	evaluator := alerts.NewEvaluator(alertRepo, policy, publisher, log.Component("alerts"))
	alertUC := alerts.NewUseCase(alertRepo, productRepo, evaluator, log.Component("alerts"))
	reportUC := reports.NewUseCase(reportRepo, alertRepo, cache, cfg.Redis.TTL, cfg.Alerts.LowStockDefault, log.Component("reports"))
	restockUC := reports.NewReplenishmentUseCase(productRepo, reportRepo, policy, log.Component("reports"))
	checkoutUC := sales.NewProcessSaleUseCase(txRunner, evaluator, publisher, reportUC, cfg.DB.QueryTimeout, log.Component("sales"))
	historyUC := sales.NewHistoryUseCase(saleRepo)
	productUC := usecase.NewProductUseCase(productRepo, txRunner, evaluator, log.Component("products"))
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	expenseUC := usecase.NewExpenseUseCase(expenseRepo, reportUC, log.Component("expenses"))
	userUC := usecase.NewUserUseCase(userRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Component("auth"))

	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		created, err := authUC.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			log.Fatal().Err(err).Msg("crear administrador inicial")
		}
		if created {
			log.Info().Str("email", cfg.Admin.Email).Msg("administrador inicial creado")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))
	app.Use(cors.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Tienda POS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		UserUC:     userUC,
		ProductUC:  productUC,
		CategoryUC: categoryUC,
		SupplierUC: supplierUC,
		ExpenseUC:  expenseUC,
		Checkout:   checkoutUC,
		History:    historyUC,
		AlertUC:    alertUC,
		ReportUC:   reportUC,
		Restock:    restockUC,
		JWTSecret:  cfg.JWT.Secret,
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
