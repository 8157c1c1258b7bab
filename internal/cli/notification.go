package cli

import (
	"errors"
	"fmt"

	"hajj_backend/internal/app"
	"hajj_backend/internal/logger"
	"hajj_backend/internal/queue"

	"github.com/spf13/cobra"
)

var notificationCmd = &cobra.Command{
	Use:   "notification",
	Short: "Archived payment notifications",
}

var notificationReplayCmd = &cobra.Command{
	Use:   "replay <key>...",
	Short: "Reconcile archived payment notifications again",
	Long: `Load archived Midtrans notifications and run them through the
reconciler synchronously. Applying a notification twice is a no-op.

Examples:
  hajj notification replay notifications/midtrans/2026/10/16/3f0c...json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNotificationReplay,
}

func init() {
	notificationCmd.AddCommand(notificationReplayCmd)
}

func runNotificationReplay(cmd *cobra.Command, args []string) error {
	cfg, db, err := connect()
	if err != nil {
		return err
	}
	defer closeDB(db)

	if !cfg.Archive.Enabled {
		return errors.New("notification archive is disabled (archive.enabled: false)")
	}
	archive, err := app.InitializeArchive(cfg)
	if err != nil {
		return err
	}

	// Очередь не нужна: уведомления применяются прямо здесь
	application, err := app.New(cfg, db, app.Options{
		Queue:   queue.NewMemoryQueue(1, 1),
		Archive: archive,
	})
	if err != nil {
		return err
	}
	defer application.Close()

	reconciler := application.Services().WebhookReconciler
	var failed int
	for _, key := range args {
		payload, err := archive.Load(cmd.Context(), key)
		if err != nil {
			logger.Error("failed to load notification", "key", key, "error", err)
			failed++
			continue
		}
		if err := reconciler.Reconcile(cmd.Context(), db, payload); err != nil {
			logger.Error("failed to replay notification", "key", key, "error", err)
			failed++
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "replayed %s\n", key)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d notifications failed", failed, len(args))
	}
	return nil
}
