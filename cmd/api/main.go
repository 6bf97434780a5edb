package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/conjunto-api/internal/application/billing"
	domainbilling "github.com/jhoicas/conjunto-api/internal/domain/billing"
	"github.com/jhoicas/conjunto-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/conjunto-api/internal/interfaces/http"
	"github.com/jhoicas/conjunto-api/pkg/config"
	"github.com/jhoicas/conjunto-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	txPolicy, err := domainbilling.ParseTxPolicy(cfg.Billing.TxPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("BILLING_TX_POLICY")
	}
	loc := time.UTC
	if cfg.Billing.Timezone != "" {
		if loc, err = time.LoadLocation(cfg.Billing.Timezone); err != nil {
			log.Fatal().Err(err).Str("timezone", cfg.Billing.Timezone).Msg("zona horaria de facturación")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	policy := domainbilling.PeriodPolicy{MinYear: cfg.Billing.MinYear, MaxYear: cfg.Billing.MaxYear, DueDays: cfg.Billing.DueDays}
	repos := postgres.NewInvoicingRepos(pool)
	generateUC := billing.NewGenerateMonthlyInvoicesUseCase(
		postgres.NewTxRunner(pool), policy, txPolicy,
		billing.WithLocation(loc),
		billing.WithLogger(log.WithComponent("billing")),
	)
	invoiceQueryUC := billing.NewInvoiceQueryUseCase(repos.Conjuntos, repos.Apartments, repos.Invoices, policy)
	conceptQueryUC := billing.NewConceptQueryUseCase(repos.Conjuntos, repos.Concepts)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Minute * 5, // la generación mensual puede tardar
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Conjunto API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Generator: generateUC,
		Invoices:  invoiceQueryUC,
		Concepts:  conceptQueryUC,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Listen(cfg.HTTP.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("servidor HTTP finalizado")
	}
	log.Info().Msg("aplicación detenida")
}
