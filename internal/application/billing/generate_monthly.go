package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/conjunto-api/internal/application/dto"
	domainbilling "github.com/jhoicas/conjunto-api/internal/domain/billing"
	"github.com/jhoicas/conjunto-api/internal/domain/entity"
	"github.com/jhoicas/conjunto-api/internal/domain/repository"
)

// GenerateMonthlyInvoicesUseCase genera una factura por apartamento elegible para un período,
// con las líneas de los conceptos mensuales de administración que le aplican.
type GenerateMonthlyInvoicesUseCase struct {
	runner   InvoicingTxRunner
	policy   domainbilling.PeriodPolicy
	txPolicy domainbilling.TxPolicy
	loc      *time.Location
	now      func() time.Time
	log      zerolog.Logger
}

// Option ajusta dependencias opcionales del caso de uso.
type Option func(*GenerateMonthlyInvoicesUseCase)

// WithClock reemplaza el reloj (fecha de facturación).
func WithClock(now func() time.Time) Option {
	return func(uc *GenerateMonthlyInvoicesUseCase) { uc.now = now }
}

// WithLocation zona horaria del período y de la fecha de facturación.
func WithLocation(loc *time.Location) Option {
	return func(uc *GenerateMonthlyInvoicesUseCase) {
		if loc != nil {
			uc.loc = loc
		}
	}
}

// WithLogger logger para progreso y errores por apartamento.
func WithLogger(log zerolog.Logger) Option {
	return func(uc *GenerateMonthlyInvoicesUseCase) { uc.log = log }
}

// NewGenerateMonthlyInvoicesUseCase construye el caso de uso.
func NewGenerateMonthlyInvoicesUseCase(
	runner InvoicingTxRunner,
	policy domainbilling.PeriodPolicy,
	txPolicy domainbilling.TxPolicy,
	opts ...Option,
) *GenerateMonthlyInvoicesUseCase {
	uc := &GenerateMonthlyInvoicesUseCase{
		runner:   runner,
		policy:   policy,
		txPolicy: txPolicy,
		loc:      time.UTC,
		now:      time.Now,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	if uc.txPolicy == "" {
		uc.txPolicy = domainbilling.TxWholeRun
	}
	return uc
}

// monthlyRun valores fijos de una corrida.
type monthlyRun struct {
	period      domainbilling.Period
	billingDate time.Time
	dueDate     time.Time
	force       bool
}

// runPlan conjunto resuelto y conjuntos de apartamentos/conceptos elegibles.
type runPlan struct {
	conjunto   *entity.ConjuntoConfig
	apartments []*entity.Apartment
	concepts   []*entity.PaymentConcept
}

// Generate ejecuta la corrida: validar período → resolver conjunto → conflicto con facturas
// existentes → cargar apartamentos y conceptos → construir facturas.
//
// Errores de validación, precondición o conflicto se devuelven como *domainbilling.GenerationError
// sin escribir nada. Los fallos de un apartamento se cuentan en el resumen y no abortan la corrida.
func (uc *GenerateMonthlyInvoicesUseCase) Generate(ctx context.Context, in dto.GenerateMonthlyRequest) (*dto.GenerationSummary, error) {
	now := uc.now().In(uc.loc)
	year, month := now.Year(), int(now.Month())
	if in.Year != nil {
		year = *in.Year
	}
	if in.Month != nil {
		month = *in.Month
	}
	if err := uc.policy.Validate(year, month); err != nil {
		return nil, err
	}

	run := &monthlyRun{
		period:      domainbilling.NewPeriod(year, month, uc.loc),
		billingDate: now,
		dueDate:     uc.policy.DueDate(now),
		force:       in.Force,
	}
	log := uc.log.With().
		Str("period", run.period.Key()).
		Bool("force", run.force).
		Str("tx_policy", string(uc.txPolicy)).
		Logger()
	log.Info().Msg("generando facturas mensuales")

	summary := &dto.GenerationSummary{
		Year:        year,
		Month:       month,
		PeriodKey:   run.period.Key(),
		PeriodLabel: run.period.Label(),
		PeriodStart: run.period.Start,
		PeriodEnd:   run.period.End,
		BillingDate: run.billingDate,
		DueDate:     run.dueDate,
		TxPolicy:    string(uc.txPolicy),
		Force:       run.force,
		TotalBilled: decimal.Zero,
	}

	err := uc.runner.RunPeriodExclusive(ctx, year, month, func(ctx context.Context) error {
		return uc.execute(ctx, run, summary, log)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("generated", summary.Generated).
		Int("skipped", summary.Skipped).
		Int("errored", summary.Errored).
		Int64("deleted", summary.Deleted).
		Str("total_billed", summary.TotalBilled.StringFixed(2)).
		Msg("generación de facturas finalizada")
	return summary, nil
}

// execute corre la generación según la política transaccional.
func (uc *GenerateMonthlyInvoicesUseCase) execute(
	ctx context.Context,
	run *monthlyRun,
	summary *dto.GenerationSummary,
	log zerolog.Logger,
) error {
	if uc.txPolicy == domainbilling.TxPerApartment {
		var plan *runPlan
		err := uc.runner.RunInvoicing(ctx, func(ctx context.Context, repos InvoicingRepos) error {
			p, err := uc.prepare(ctx, repos, run, summary, log)
			plan = p
			return err
		})
		if err != nil {
			return err
		}
		uc.buildAll(ctx, plan, run, summary, log)
		return nil
	}
	return uc.runner.RunInvoicing(ctx, func(ctx context.Context, repos InvoicingRepos) error {
		plan, err := uc.prepare(ctx, repos, run, summary, log)
		if err != nil {
			return err
		}
		uc.buildAll(ctx, plan, run, summary, log)
		return nil
	})
}

// prepare resuelve el conjunto, aplica la política de conflicto y carga los elegibles.
func (uc *GenerateMonthlyInvoicesUseCase) prepare(
	ctx context.Context,
	repos InvoicingRepos,
	run *monthlyRun,
	summary *dto.GenerationSummary,
	log zerolog.Logger,
) (*runPlan, error) {
	configs, err := repos.Conjuntos.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("consultar conjunto activo: %w", err)
	}
	conjunto, err := domainbilling.ResolveActiveConjunto(configs)
	if err != nil {
		return nil, err
	}
	summary.ConjuntoID = conjunto.ID
	summary.ConjuntoName = conjunto.Name

	deleted, err := uc.resolveConflicts(ctx, repos.Invoices, conjunto.ID, run, log)
	if err != nil {
		return nil, err
	}
	summary.Deleted = deleted

	apartments, err := repos.Apartments.ListByConjuntoAndStatus(ctx, conjunto.ID, entity.BillableApartmentStatuses)
	if err != nil {
		return nil, fmt.Errorf("consultar apartamentos: %w", err)
	}
	apartments = domainbilling.BillableApartments(apartments)
	if len(apartments) == 0 {
		return nil, domainbilling.NoOccupiedApartments()
	}

	concepts, err := repos.Concepts.ListMonthlyCommonExpenses(ctx, conjunto.ID)
	if err != nil {
		return nil, fmt.Errorf("consultar conceptos de pago: %w", err)
	}
	concepts = domainbilling.MonthlyConcepts(concepts)
	if len(concepts) == 0 {
		return nil, domainbilling.NoPaymentConcepts()
	}

	return &runPlan{conjunto: conjunto, apartments: apartments, concepts: concepts}, nil
}

// resolveConflicts aborta si ya hay facturas del período, o las elimina si se pidió forzar.
// El bloqueo del período se toma antes de contar para que otra corrida no se intercale.
func (uc *GenerateMonthlyInvoicesUseCase) resolveConflicts(
	ctx context.Context,
	invoices repository.InvoiceRepository,
	conjuntoID string,
	run *monthlyRun,
	log zerolog.Logger,
) (int64, error) {
	year, month := run.period.Year, run.period.Month
	if err := invoices.LockPeriod(ctx, conjuntoID, year, month); err != nil {
		return 0, fmt.Errorf("bloquear período: %w", err)
	}
	existing, err := invoices.CountMonthlyByPeriod(ctx, conjuntoID, year, month)
	if err != nil {
		return 0, fmt.Errorf("contar facturas existentes: %w", err)
	}
	if existing == 0 {
		return 0, nil
	}
	if !run.force {
		return 0, domainbilling.DuplicatePeriod(year, month, existing)
	}

	log.Warn().Int("existing", existing).Msgf("eliminando %d facturas existentes para %s", existing, run.period.Key())
	deleted, err := invoices.DeleteMonthlyByPeriod(ctx, conjuntoID, year, month)
	if err != nil {
		return 0, fmt.Errorf("eliminar facturas existentes: %w", err)
	}
	log.Info().Int64("deleted", deleted).Msgf("se eliminaron %d facturas existentes", deleted)
	return deleted, nil
}

// buildAll procesa cada apartamento en su propia unidad de trabajo (savepoint o transacción
// según la política). Un fallo se registra y se continúa con el siguiente.
func (uc *GenerateMonthlyInvoicesUseCase) buildAll(
	ctx context.Context,
	plan *runPlan,
	run *monthlyRun,
	summary *dto.GenerationSummary,
	log zerolog.Logger,
) {
	log.Info().Int("apartments", len(plan.apartments)).Msgf("procesando %d apartamentos elegibles", len(plan.apartments))

	for _, apt := range plan.apartments {
		applicable := domainbilling.ApplicableConcepts(plan.concepts, apt.ApartmentTypeID)
		if len(applicable) == 0 {
			log.Warn().
				Str("apartment_id", apt.ID).
				Str("apartment_type", apt.ApartmentTypeName).
				Msgf("apartamento %s (%s) no tiene conceptos aplicables", apt.Number, apt.ApartmentTypeName)
			summary.Skipped++
			summary.SkippedApartments = append(summary.SkippedApartments, apt.Number)
			continue
		}

		var inv *entity.Invoice
		err := uc.runner.RunInvoicing(ctx, func(ctx context.Context, repos InvoicingRepos) error {
			created, err := uc.createInvoice(ctx, repos.Invoices, plan.conjunto.ID, apt, applicable, run)
			inv = created
			return err
		})
		if err != nil {
			log.Error().
				Err(err).
				Str("apartment_id", apt.ID).
				Msgf("error generando factura para apartamento %s", apt.Number)
			summary.Errored++
			summary.Failures = append(summary.Failures, dto.ApartmentFailure{
				ApartmentID:     apt.ID,
				ApartmentNumber: apt.Number,
				Message:         err.Error(),
			})
			continue
		}

		log.Debug().Str("invoice", inv.Number).Str("total", inv.Total.StringFixed(2)).Msg("factura generada")
		summary.Generated++
		summary.TotalBilled = summary.TotalBilled.Add(inv.Total)
		summary.InvoiceIDs = append(summary.InvoiceIDs, inv.ID)
	}
}

// createInvoice crea la cabecera, una línea por concepto y luego persiste el total.
func (uc *GenerateMonthlyInvoicesUseCase) createInvoice(
	ctx context.Context,
	invoices repository.InvoiceRepository,
	conjuntoID string,
	apt *entity.Apartment,
	concepts []*entity.PaymentConcept,
	run *monthlyRun,
) (*entity.Invoice, error) {
	inv := domainbilling.NewMonthlyInvoice(conjuntoID, apt, run.period, run.billingDate, run.dueDate)
	if err := invoices.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("crear factura: %w", err)
	}

	items := make([]*entity.InvoiceItem, 0, len(concepts))
	for _, concept := range concepts {
		item := domainbilling.NewInvoiceItem(inv.ID, concept, run.period)
		if err := invoices.CreateItem(ctx, item); err != nil {
			return nil, fmt.Errorf("crear línea %q: %w", concept.Name, err)
		}
		items = append(items, item)
	}

	total, err := invoices.RecalculateTotals(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("calcular totales: %w", err)
	}
	inv.Total = total
	if err := domainbilling.ValidateInvoiceTotals(inv, items); err != nil {
		return nil, err
	}
	return inv, nil
}
