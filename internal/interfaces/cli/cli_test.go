package cli_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/conjunto-api/internal/application/dto"
	domainbilling "github.com/jhoicas/conjunto-api/internal/domain/billing"
	"github.com/jhoicas/conjunto-api/internal/infrastructure/jobs"
	"github.com/jhoicas/conjunto-api/internal/interfaces/cli"
	"github.com/jhoicas/conjunto-api/pkg/config"
	"github.com/jhoicas/conjunto-api/pkg/logger"
)

type fakeGenerator struct {
	summary *dto.GenerationSummary
	err     error
	got     []dto.GenerateMonthlyRequest
}

func (f *fakeGenerator) Generate(ctx context.Context, in dto.GenerateMonthlyRequest) (*dto.GenerationSummary, error) {
	f.got = append(f.got, in)
	return f.summary, f.err
}

type fakeEnqueuer struct {
	got    []jobs.GenerateMonthlyPayload
	closed bool
}

func (f *fakeEnqueuer) EnqueueGenerateMonthly(ctx context.Context, payload jobs.GenerateMonthlyPayload) (*asynq.TaskInfo, error) {
	f.got = append(f.got, payload)
	return &asynq.TaskInfo{ID: "task-1", Queue: jobs.QueueBilling, Type: jobs.TaskGenerateMonthlyInvoices}, nil
}

func (f *fakeEnqueuer) Close() error {
	f.closed = true
	return nil
}

type harness struct {
	gen      *fakeGenerator
	enqueuer *fakeEnqueuer
	policies []domainbilling.TxPolicy
	cleaned  bool
	deps     cli.Deps
}

func newHarness() *harness {
	h := &harness{
		gen: &fakeGenerator{summary: &dto.GenerationSummary{
			Year:        2025,
			Month:       3,
			PeriodKey:   "2025-03",
			PeriodLabel: "marzo 2025",
			DueDate:     time.Date(2025, 3, 16, 8, 0, 0, 0, time.UTC),
			Generated:   2,
			TotalBilled: decimal.RequireFromString("250.00"),
		}},
		enqueuer: &fakeEnqueuer{},
	}
	h.deps = cli.Deps{
		Config: &config.Config{Billing: config.BillingConfig{TxPolicy: "whole_run"}},
		Log:    logger.Nop(),
		NewGenerator: func(ctx context.Context, policy domainbilling.TxPolicy) (cli.Generator, func(), error) {
			h.policies = append(h.policies, policy)
			return h.gen, func() { h.cleaned = true }, nil
		},
		NewEnqueuer: func(ctx context.Context) (cli.Enqueuer, error) {
			return h.enqueuer, nil
		},
		RunWorker: func(ctx context.Context) error { return context.Canceled },
	}
	return h
}

func intp(v int) *int { return &v }

func (h *harness) run(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := cli.Execute(h.deps, args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestGenerateMonthly_Reporte(t *testing.T) {
	h := newHarness()
	code, out, _ := h.run("invoices", "generate-monthly", "--year", "2025", "--month", "3", "--force")

	require.Equal(t, 0, code)
	assert.Equal(t, []dto.GenerateMonthlyRequest{dto.ForPeriod(2025, 3, true)}, h.gen.got)
	assert.Equal(t, []domainbilling.TxPolicy{domainbilling.TxWholeRun}, h.policies)
	assert.True(t, h.cleaned)
	assert.Contains(t, out, "Generando facturas mensuales para 2025-03...")
	assert.Contains(t, out, "Facturas generadas exitosamente: 2")
	assert.Contains(t, out, "Período de facturación: marzo 2025")
	assert.Contains(t, out, "Fecha de vencimiento: 2025-03-16")
	assert.Contains(t, out, "Total facturado: $ 250,00")
	assert.NotContains(t, out, "omitidos")
}

func TestGenerateMonthly_ReportaOmitidosYErrores(t *testing.T) {
	h := newHarness()
	h.gen.summary.Deleted = 2
	h.gen.summary.Skipped = 1
	h.gen.summary.Errored = 1
	h.gen.summary.Failures = []dto.ApartmentFailure{{ApartmentID: "apt-x", ApartmentNumber: "101", Message: "violación de restricción"}}

	code, out, _ := h.run("invoices", "generate-monthly")
	require.Equal(t, 0, code, "omitidos y errores por apartamento no cambian el código de salida")
	assert.Contains(t, out, "Se eliminaron 2 facturas existentes.")
	assert.Contains(t, out, "Apartamentos omitidos (sin conceptos aplicables): 1")
	assert.Contains(t, out, "Errores durante la generación: 1")
	assert.Contains(t, out, "Apartamento 101: violación de restricción")
}

func TestGenerateMonthly_SinPeriodoUsaElActual(t *testing.T) {
	h := newHarness()
	code, out, _ := h.run("invoices", "generate-monthly")
	require.Equal(t, 0, code)
	require.Len(t, h.gen.got, 1)
	assert.Nil(t, h.gen.got[0].Year)
	assert.Nil(t, h.gen.got[0].Month)
	assert.Contains(t, out, "Generando facturas mensuales...")
}

func TestGenerateMonthly_CeroExplicitoLlegaComoValor(t *testing.T) {
	cases := map[string]struct {
		args      []string
		wantYear  *int
		wantMonth *int
		genErr    error
		message   string
	}{
		"mes cero": {
			args:      []string{"--year", "2025", "--month", "0"},
			wantYear:  intp(2025),
			wantMonth: intp(0),
			genErr:    domainbilling.InvalidMonth(),
			message:   "El mes debe estar entre 1 y 12.",
		},
		"año cero": {
			args:      []string{"--year", "0", "--month", "3"},
			wantYear:  intp(0),
			wantMonth: intp(3),
			genErr:    domainbilling.InvalidYear(2020, 2030),
			message:   "El año debe estar entre 2020 y 2030.",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			h := newHarness()
			h.gen.err = tc.genErr

			code, _, stderr := h.run(append([]string{"invoices", "generate-monthly"}, tc.args...)...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, tc.message)
			require.Len(t, h.gen.got, 1)
			assert.Equal(t, tc.wantYear, h.gen.got[0].Year)
			assert.Equal(t, tc.wantMonth, h.gen.got[0].Month)
		})
	}
}

func TestGenerateMonthly_AsyncRechazaPeriodoInvalido(t *testing.T) {
	for _, args := range [][]string{
		{"--year", "2025", "--month", "0"},
		{"--year", "0", "--month", "3"},
	} {
		h := newHarness()
		code, _, stderr := h.run(append([]string{"invoices", "generate-monthly", "--async"}, args...)...)
		assert.Equal(t, 1, code, args)
		assert.NotEmpty(t, stderr)
		assert.Empty(t, h.enqueuer.got, args)
	}
}

func TestGenerateMonthly_PoliticaPorBandera(t *testing.T) {
	h := newHarness()
	code, _, _ := h.run("invoices", "generate-monthly", "--policy", "per_apartment")
	require.Equal(t, 0, code)
	assert.Equal(t, []domainbilling.TxPolicy{domainbilling.TxPerApartment}, h.policies)

	code, _, stderr := h.run("invoices", "generate-monthly", "--policy", "todo")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "política transaccional desconocida")
}

func TestGenerateMonthly_ErrorDeDominioSaleConUno(t *testing.T) {
	h := newHarness()
	h.gen.err = domainbilling.DuplicatePeriod(2025, 3, 2)

	code, _, stderr := h.run("invoices", "generate-monthly", "--year", "2025", "--month", "3")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Ya existen 2 facturas para el período 2025-03. Use la opción de forzar para regenerarlas.")
}

func TestGenerateMonthly_ErrorInesperado(t *testing.T) {
	h := newHarness()
	h.gen.err = errors.New("conexión perdida")

	code, _, stderr := h.run("invoices", "generate-monthly")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Error inesperado durante la generación de facturas: conexión perdida")
}

func TestGenerateMonthly_Async(t *testing.T) {
	h := newHarness()
	code, out, _ := h.run("invoices", "generate-monthly", "--year", "2025", "--month", "3", "--async")

	require.Equal(t, 0, code)
	assert.Empty(t, h.gen.got)
	assert.Equal(t, []jobs.GenerateMonthlyPayload{{Year: intp(2025), Month: intp(3)}}, h.enqueuer.got)
	assert.True(t, h.enqueuer.closed)
	assert.Contains(t, out, "task-1")
}

func TestWorker_CancelacionNoEsError(t *testing.T) {
	h := newHarness()
	code, _, _ := h.run("worker")
	assert.Equal(t, 0, code)

	h.deps.RunWorker = func(ctx context.Context) error { return errors.New("redis caído") }
	code, _, stderr := h.run("worker")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "redis caído")
}
