package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/conjunto-api/internal/application/dto"
	domainbilling "github.com/jhoicas/conjunto-api/internal/domain/billing"
	"github.com/jhoicas/conjunto-api/internal/infrastructure/jobs"
)

type generateMonthlyFlags struct {
	year   int
	month  int
	force  bool
	policy string
	async  bool

	// yearSet/monthSet distinguen "--month 0" de no indicar el mes.
	yearSet  bool
	monthSet bool
}

// period año y mes indicados; nil = usar el actual.
func (f generateMonthlyFlags) period() (year, month *int) {
	if f.yearSet {
		y := f.year
		year = &y
	}
	if f.monthSet {
		m := f.month
		month = &m
	}
	return year, month
}

func newGenerateMonthlyCmd(deps Deps) *cobra.Command {
	var flags generateMonthlyFlags
	cmd := &cobra.Command{
		Use:   "generate-monthly",
		Short: "Genera las facturas mensuales de administración",
		Long: `Genera una factura por cada apartamento ocupado o disponible del conjunto activo,
con una línea por cada concepto mensual de administración que le aplique.

Sin --year/--month se usa el mes actual. Si ya existen facturas del período la
operación falla, salvo que se indique --force, que las elimina y las regenera.`,
		Example: `  # Mes actual
  conjunto invoices generate-monthly

  # Marzo de 2025, regenerando si ya existen
  conjunto invoices generate-monthly --year 2025 --month 3 --force

  # Encolar para el worker
  conjunto invoices generate-monthly --year 2025 --month 3 --async`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			flags.yearSet = cmd.Flags().Changed("year")
			flags.monthSet = cmd.Flags().Changed("month")
			if flags.async {
				return enqueueMonthly(ctx, cmd.OutOrStdout(), deps, flags)
			}
			return runMonthly(ctx, cmd.OutOrStdout(), deps, flags)
		},
	}
	cmd.Flags().IntVar(&flags.year, "year", 0, "año a facturar (por defecto el actual)")
	cmd.Flags().IntVar(&flags.month, "month", 0, "mes a facturar, 1-12 (por defecto el actual)")
	cmd.Flags().BoolVar(&flags.force, "force", false, "eliminar y regenerar las facturas existentes del período")
	cmd.Flags().StringVar(&flags.policy, "policy", "", "alcance transaccional: whole_run | per_apartment (por defecto BILLING_TX_POLICY)")
	cmd.Flags().BoolVar(&flags.async, "async", false, "encolar la tarea en lugar de ejecutarla")
	return cmd
}

func runMonthly(ctx context.Context, out io.Writer, deps Deps, flags generateMonthlyFlags) error {
	policyName := flags.policy
	if policyName == "" && deps.Config != nil {
		policyName = deps.Config.Billing.TxPolicy
	}
	policy, err := domainbilling.ParseTxPolicy(policyName)
	if err != nil {
		return err
	}

	gen, cleanup, err := deps.NewGenerator(ctx, policy)
	if err != nil {
		return fmt.Errorf("inicializar generación: %w", err)
	}
	defer cleanup()

	year, month := flags.period()
	if year != nil && month != nil {
		fmt.Fprintf(out, "Generando facturas mensuales para %04d-%02d...\n", *year, *month)
	} else {
		fmt.Fprintln(out, "Generando facturas mensuales...")
	}
	summary, err := gen.Generate(ctx, dto.GenerateMonthlyRequest{Year: year, Month: month, Force: flags.force})
	if err != nil {
		var genErr *domainbilling.GenerationError
		if errors.As(err, &genErr) {
			return genErr
		}
		return fmt.Errorf("Error inesperado durante la generación de facturas: %w", err)
	}
	printReport(out, summary)
	return nil
}

func enqueueMonthly(ctx context.Context, out io.Writer, deps Deps, flags generateMonthlyFlags) error {
	// Un período explícito inválido se rechaza aquí en vez de encolar una tarea que fallará.
	if err := validateExplicitPeriod(deps, flags); err != nil {
		return err
	}
	client, err := deps.NewEnqueuer(ctx)
	if err != nil {
		return fmt.Errorf("conectar cola de tareas: %w", err)
	}
	defer client.Close()

	year, month := flags.period()
	info, err := client.EnqueueGenerateMonthly(ctx, jobs.GenerateMonthlyPayload{
		Year:  year,
		Month: month,
		Force: flags.force,
	})
	if err != nil {
		return fmt.Errorf("encolar generación: %w", err)
	}
	fmt.Fprintf(out, "Tarea %s encolada en la cola %q (id %s).\n", info.Type, info.Queue, info.ID)
	return nil
}

func validateExplicitPeriod(deps Deps, flags generateMonthlyFlags) error {
	if !flags.yearSet && !flags.monthSet {
		return nil
	}
	policy := domainbilling.DefaultPeriodPolicy()
	if deps.Config != nil && deps.Config.Billing.MinYear > 0 && deps.Config.Billing.MaxYear > 0 {
		policy.MinYear = deps.Config.Billing.MinYear
		policy.MaxYear = deps.Config.Billing.MaxYear
	}
	now := time.Now()
	year, month := now.Year(), int(now.Month())
	if flags.yearSet {
		year = flags.year
	}
	if flags.monthSet {
		month = flags.month
	}
	return policy.Validate(year, month)
}

// printReport resumen de la corrida en español; montos con formato es.
func printReport(out io.Writer, s *dto.GenerationSummary) {
	p := message.NewPrinter(language.Spanish)

	if s.Deleted > 0 {
		fmt.Fprintf(out, "Se eliminaron %d facturas existentes.\n", s.Deleted)
	}
	fmt.Fprintf(out, "Facturas generadas exitosamente: %d\n", s.Generated)
	if s.Skipped > 0 {
		fmt.Fprintf(out, "Apartamentos omitidos (sin conceptos aplicables): %d\n", s.Skipped)
	}
	if s.Errored > 0 {
		fmt.Fprintf(out, "Errores durante la generación: %d\n", s.Errored)
		for _, f := range s.Failures {
			fmt.Fprintf(out, "  - Apartamento %s: %s\n", f.ApartmentNumber, f.Message)
		}
	}
	fmt.Fprintf(out, "Período de facturación: %s\n", s.PeriodLabel)
	fmt.Fprintf(out, "Fecha de vencimiento: %s\n", s.DueDate.Format("2006-01-02"))
	fmt.Fprintf(out, "Total facturado: $ %s\n",
		p.Sprintf("%v", number.Decimal(s.TotalBilled.InexactFloat64(), number.Scale(2))))
}
