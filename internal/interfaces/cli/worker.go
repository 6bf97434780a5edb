package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newWorkerCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Procesa tareas de facturación y la programación mensual",
		Long: `Inicia el worker de tareas (asynq) con el programador cron de BILLING_CRON,
que encola la generación del mes en curso. Se detiene con SIGINT o SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err := deps.RunWorker(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			deps.Log.Info().Msg("worker detenido")
			return nil
		},
	}
}
