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

	"github.com/jhoicas/posadmin-api/internal/application/billing"
	"github.com/jhoicas/posadmin-api/internal/domain/repository"
	infracache "github.com/jhoicas/posadmin-api/internal/infrastructure/cache"
	infraexport "github.com/jhoicas/posadmin-api/internal/infrastructure/export"
	"github.com/jhoicas/posadmin-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/posadmin-api/internal/infrastructure/pdf"
	"github.com/jhoicas/posadmin-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/posadmin-api/internal/interfaces/http"
	"github.com/jhoicas/posadmin-api/pkg/config"
	"github.com/jhoicas/posadmin-api/pkg/logger"
	"github.com/jhoicas/posadmin-api/pkg/money"
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
		Str("storage", cfg.App.StorageDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		txRunner    billing.InvoiceTxRunner
		invoiceRepo repository.InvoiceRepository
		catalogRepo repository.CatalogRepository
	)
	switch cfg.App.StorageDriver {
	case "memory":
		// Solo desarrollo local: catálogo de demostración, sin persistencia.
		store := memory.NewSeededStore()
		txRunner, invoiceRepo, catalogRepo = store, store, store
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner = postgres.NewTxRunner(pool)
		invoiceRepo = postgres.NewInvoiceRepository(pool)
		catalogRepo = postgres.NewCatalogRepository(pool)
	}

	if cfg.Cache.Enabled {
		catalogRepo = infracache.NewCachedCatalog(catalogRepo, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
	}

	invoiceFormatter := money.NewFormatter(money.FormatOptions{
		Currency:          cfg.Billing.Currency,
		Locale:            cfg.Billing.Locale,
		MinFractionDigits: cfg.Billing.InvoiceFractionDigits,
		MaxFractionDigits: cfg.Billing.InvoiceFractionDigits,
	})
	reportFormatter := money.NewFormatter(money.FormatOptions{
		Currency:          cfg.Billing.Currency,
		Locale:            cfg.Billing.Locale,
		MinFractionDigits: cfg.Billing.ReportFractionDigits,
		MaxFractionDigits: cfg.Billing.ReportFractionDigits,
	})
	presenter := billing.NewPresenter(invoiceFormatter, cfg.Billing.VATRate)

	invoiceUC := billing.NewInvoiceUseCase(txRunner, invoiceRepo, catalogRepo, presenter, log).
		WithRejectNegativeTotals(cfg.Billing.RejectNegativeTotals)
	pdfRenderer := infrapdf.NewMarotoInvoiceRenderer(infrapdf.Issuer{
		Name:    cfg.Billing.IssuerName,
		Address: cfg.Billing.IssuerAddress,
		Email:   cfg.Billing.IssuerEmail,
		Phone:   cfg.Billing.IssuerPhone,
	})
	exportUC := billing.NewExportUseCase(invoiceUC, pdfRenderer, infraexport.CSVExporter{}, infraexport.XLSXExporter{})
	catalogUC := billing.NewCatalogUseCase(catalogRepo)
	reportUC := billing.NewReportUseCase(invoiceRepo, presenter, reportFormatter)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "POS Admin Billing API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		InvoiceUC: invoiceUC,
		ExportUC:  exportUC,
		CatalogUC: catalogUC,
		ReportUC:  reportUC,
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
