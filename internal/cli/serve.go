package cli

import (
	"hajj_backend/internal/app"
	"hajj_backend/internal/logger"

	"github.com/spf13/cobra"
)

var serveNoWorkers bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API.

With the memory queue the notification workers always run in-process,
otherwise accepted notifications would never be reconciled. With
RabbitMQ the workers can be moved to a separate "worker" process
using --no-workers.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveNoWorkers, "no-workers", false, "do not consume the notification queue in this process (rabbitmq only)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, db, err := connect()
	if err != nil {
		return err
	}
	defer closeDB(db)

	application, err := app.New(cfg, db, app.Options{})
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn("failed to close queue", "error", err)
		}
	}()

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	if serveNoWorkers && cfg.Queue.Driver == "memory" {
		logger.Warn("--no-workers ignored: memory queue is consumed in-process")
	}
	if !serveNoWorkers || cfg.Queue.Driver == "memory" {
		if err := application.StartWorkers(ctx); err != nil {
			return err
		}
	}

	return application.Serve(ctx)
}
