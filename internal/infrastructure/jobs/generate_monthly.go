package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/jhoicas/conjunto-api/internal/application/dto"
	domainbilling "github.com/jhoicas/conjunto-api/internal/domain/billing"
)

// MonthlyInvoiceGenerator lo que el job necesita del caso de uso de generación.
type MonthlyInvoiceGenerator interface {
	Generate(ctx context.Context, in dto.GenerateMonthlyRequest) (*dto.GenerationSummary, error)
}

// GenerateMonthlyJob handler de TaskGenerateMonthlyInvoices.
type GenerateMonthlyJob struct {
	generator MonthlyInvoiceGenerator
	log       zerolog.Logger
}

// NewGenerateMonthlyJob construye el handler.
func NewGenerateMonthlyJob(generator MonthlyInvoiceGenerator, log zerolog.Logger) *GenerateMonthlyJob {
	return &GenerateMonthlyJob{generator: generator, log: log}
}

// Handle ejecuta la generación. Ningún error se reintenta.
func (j *GenerateMonthlyJob) Handle(ctx context.Context, task *asynq.Task) error {
	if j == nil || j.generator == nil {
		return fmt.Errorf("generate monthly: dependencias sin configurar: %w", asynq.SkipRetry)
	}
	var payload GenerateMonthlyPayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("payload inválido: %v: %w", err, asynq.SkipRetry)
		}
	}

	summary, err := j.generator.Generate(ctx, dto.GenerateMonthlyRequest{
		Year:  payload.Year,
		Month: payload.Month,
		Force: payload.Force,
	})
	if err != nil {
		var genErr *domainbilling.GenerationError
		if errors.As(err, &genErr) {
			j.log.Warn().Str("kind", string(genErr.Kind)).Msg(genErr.Message)
		} else {
			j.log.Error().Err(err).Msg("error inesperado durante la generación de facturas")
		}
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	j.log.Info().
		Str("period", summary.PeriodKey).
		Int("generated", summary.Generated).
		Int("skipped", summary.Skipped).
		Int("errored", summary.Errored).
		Msg("tarea de facturación mensual completada")
	return nil
}
