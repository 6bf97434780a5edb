// Package cli define los comandos de línea de comandos del back office del conjunto.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/jhoicas/conjunto-api/internal/application/dto"
	domainbilling "github.com/jhoicas/conjunto-api/internal/domain/billing"
	"github.com/jhoicas/conjunto-api/internal/infrastructure/jobs"
	"github.com/jhoicas/conjunto-api/pkg/config"
	"github.com/jhoicas/conjunto-api/pkg/logger"
)

var version = "1.0.0"

// Generator caso de uso de generación mensual.
type Generator interface {
	Generate(ctx context.Context, in dto.GenerateMonthlyRequest) (*dto.GenerationSummary, error)
}

// Enqueuer encola la generación para el worker.
type Enqueuer interface {
	EnqueueGenerateMonthly(ctx context.Context, payload jobs.GenerateMonthlyPayload) (*asynq.TaskInfo, error)
	Close() error
}

// Deps dependencias de los comandos. Las fábricas abren recursos solo cuando el comando
// los necesita; cleanup libera lo abierto.
type Deps struct {
	Config       *config.Config
	Log          *logger.Logger
	NewGenerator func(ctx context.Context, policy domainbilling.TxPolicy) (gen Generator, cleanup func(), err error)
	NewEnqueuer  func(ctx context.Context) (Enqueuer, error)
	RunWorker    func(ctx context.Context) error
}

// NewRootCmd arma el árbol de comandos.
func NewRootCmd(deps Deps) *cobra.Command {
	root := &cobra.Command{
		Use:   "conjunto",
		Short: "Back office del conjunto residencial",
		Long: `Herramientas de administración del conjunto residencial:
generación de facturas mensuales de administración y worker de tareas programadas.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	invoices := &cobra.Command{
		Use:   "invoices",
		Short: "Facturación del conjunto",
	}
	invoices.AddCommand(newGenerateMonthlyCmd(deps))
	root.AddCommand(invoices)
	root.AddCommand(newWorkerCmd(deps))
	return root
}

// Execute ejecuta el comando y devuelve el código de salida del proceso.
func Execute(deps Deps, args []string, stdout, stderr io.Writer) int {
	log := deps.Log.WithComponent("cli")

	root := NewRootCmd(deps)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("falló la ejecución del comando")
		fmt.Fprintln(stderr, err.Error())
		return 1
	}
	return 0
}

// Main punto de entrada para cmd/conjunto.
func Main(deps Deps) {
	os.Exit(Execute(deps, os.Args[1:], os.Stdout, os.Stderr))
}
