package cli

import (
	"errors"

	"hajj_backend/internal/app"
	"hajj_backend/internal/logger"

	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume payment notifications from RabbitMQ",
	Long: `Consume payment notifications from RabbitMQ and reconcile them,
and periodically report bookings stuck in pending_payment.

Requires queue.driver: rabbitmq.`,
	Args: cobra.NoArgs,
	RunE: runWorker,
}

func runWorker(cmd *cobra.Command, args []string) error {
	cfg, db, err := connect()
	if err != nil {
		return err
	}
	defer closeDB(db)

	if cfg.Queue.Driver != "rabbitmq" {
		return errors.New("worker requires queue.driver rabbitmq; the memory queue is consumed by serve")
	}

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

	if err := application.StartWorkers(ctx); err != nil {
		return err
	}
	logger.Info("Worker running, waiting for notifications")
	<-ctx.Done()
	logger.Info("Worker stopping")
	return nil
}
