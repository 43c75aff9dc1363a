package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/application/auth"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/application/billing"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/infrastructure/comprobante"
	infrapdf "github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/infrastructure/pdf"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/infrastructure/postgres"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/infrastructure/storage"
	httpRouter "github.com/twidoo-cloud/tsh-restaurantes-sub004/internal/interfaces/http"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/config"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/logger"
	"github.com/twidoo-cloud/tsh-restaurantes-sub004/pkg/sri"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("sri_environment", cfg.SRI.Environment).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	invoiceRepo := postgres.NewInvoiceRepository(pool)
	emitterRepo := postgres.NewEmitterRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	defaults := billing.SRIDefaults{
		Environment:  cfg.SRI.Environment,
		EmissionType: cfg.SRI.EmissionType,
	}

	// Solo existe el cliente simulado; config.validate rechaza otros modos.
	envLabel := sri.Environment(cfg.SRI.Environment).Label()
	authorityClient := comprobante.NewSimulatedAuthorityClient(envLabel)
	rideRenderer := infrapdf.NewRideRenderer()

	// Archivo de XML y RIDE autorizados: solo si hay bucket configurado.
	var artifactStore billing.ArtifactStore
	if cfg.Storage.Enabled() {
		s3Store, err := storage.NewS3Store(ctx, cfg.Storage)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente S3")
		}
		artifactStore = s3Store
		log.Info().Str("bucket", cfg.Storage.Bucket).Msg("archivo de comprobantes en S3 habilitado")
	}

	documentUC := billing.NewFiscalDocumentUseCase(
		txRunner, invoiceRepo, emitterRepo,
		comprobante.NewXMLBuilderService(),
		billing.RandomNumericCode{},
		defaults, log,
	).WithCustomers(customerRepo)
	authorityUC := billing.NewAuthorityUseCase(
		invoiceRepo, authorityClient, rideRenderer, artifactStore,
		time.Duration(cfg.SRI.TimeoutSec)*time.Second, log,
	)
	rideUC := billing.NewRideUseCase(invoiceRepo, rideRenderer, cfg.SRI.RideOutputDir, log)
	emitterUC := billing.NewEmitterUseCase(emitterRepo, defaults, log)
	customerUC := billing.NewCustomerUseCase(customerRepo, log)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)

	if cfg.Auth.AdminEmail != "" {
		if err := authUC.EnsureAdmin(ctx, cfg.Auth.AdminCompanyID, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			log.Fatal().Err(err).Msg("administrador inicial")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "SRI Comprobantes API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Documents: documentUC,
		Authority: authorityUC,
		Rides:     rideUC,
		Emitters:  emitterUC,
		Customers: customerUC,
		Auth:      authUC,
		JWTSecret: cfg.JWT.Secret,
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
