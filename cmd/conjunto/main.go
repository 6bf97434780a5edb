package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"

	"github.com/jhoicas/conjunto-api/internal/application/billing"
	domainbilling "github.com/jhoicas/conjunto-api/internal/domain/billing"
	"github.com/jhoicas/conjunto-api/internal/infrastructure/jobs"
	"github.com/jhoicas/conjunto-api/internal/infrastructure/postgres"
	"github.com/jhoicas/conjunto-api/internal/interfaces/cli"
	"github.com/jhoicas/conjunto-api/pkg/config"
	"github.com/jhoicas/conjunto-api/pkg/logger"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	if envErr != nil {
		log.Debug().Err(envErr).Msg("sin archivo .env, se usan variables de entorno")
	}

	cli.Main(cli.Deps{
		Config: cfg,
		Log:    log,
		NewGenerator: func(ctx context.Context, policy domainbilling.TxPolicy) (cli.Generator, func(), error) {
			gen, cleanup, err := newGenerator(ctx, cfg, log, policy)
			if err != nil {
				return nil, nil, err
			}
			return gen, cleanup, nil
		},
		NewEnqueuer: func(ctx context.Context) (cli.Enqueuer, error) {
			if err := jobs.PingRedis(ctx, cfg.Redis); err != nil {
				return nil, err
			}
			return jobs.NewClient(jobs.RedisOpts(cfg.Redis)), nil
		},
		RunWorker: func(ctx context.Context) error {
			return runWorker(ctx, cfg, log)
		},
	})
}

func periodPolicy(cfg config.BillingConfig) domainbilling.PeriodPolicy {
	return domainbilling.PeriodPolicy{MinYear: cfg.MinYear, MaxYear: cfg.MaxYear, DueDays: cfg.DueDays}
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("zona horaria %q: %w", name, err)
	}
	return loc, nil
}

// newGenerator abre el pool y arma el caso de uso; cleanup cierra el pool.
func newGenerator(ctx context.Context, cfg *config.Config, log *logger.Logger, policy domainbilling.TxPolicy) (*billing.GenerateMonthlyInvoicesUseCase, func(), error) {
	loc, err := loadLocation(cfg.Billing.Timezone)
	if err != nil {
		return nil, nil, err
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	uc := billing.NewGenerateMonthlyInvoicesUseCase(
		postgres.NewTxRunner(pool),
		periodPolicy(cfg.Billing),
		policy,
		billing.WithLocation(loc),
		billing.WithLogger(log.WithComponent("billing")),
	)
	return uc, pool.Close, nil
}

func runWorker(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	policy, err := domainbilling.ParseTxPolicy(cfg.Billing.TxPolicy)
	if err != nil {
		return err
	}
	loc, err := loadLocation(cfg.Billing.Timezone)
	if err != nil {
		return err
	}
	if err := jobs.PingRedis(ctx, cfg.Redis); err != nil {
		return err
	}

	gen, cleanup, err := newGenerator(ctx, cfg, log, policy)
	if err != nil {
		return err
	}
	defer cleanup()

	// Payload vacío: cada disparo del cron factura el mes en curso.
	monthly, err := jobs.NewGenerateMonthlyTask(jobs.GenerateMonthlyPayload{})
	if err != nil {
		return err
	}
	job := jobs.NewGenerateMonthlyJob(gen, log.WithComponent("jobs"))

	var schedule []jobs.CronRegistration
	if cfg.Billing.Cron != "" {
		schedule = append(schedule, jobs.CronRegistration{Spec: cfg.Billing.Cron, Task: monthly})
	}
	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   jobs.RedisOpts(cfg.Redis),
		Concurrency: cfg.Billing.WorkerConcurrency,
		Location:    loc,
		Logger:      log.WithComponent("asynq"),
		Handlers:    []jobs.TaskHandler{{Type: jobs.TaskGenerateMonthlyInvoices, Handler: job.Handle}},
		Cron:        schedule,
	})
	if err != nil {
		return err
	}
	log.Info().
		Str("cron", cfg.Billing.Cron).
		Str("tx_policy", string(policy)).
		Msg("worker de facturación iniciado")
	return worker.Run(ctx)
}
