package cli

import (
	"fmt"

	"hajj_backend/internal/database"
	"hajj_backend/internal/logger"

	"github.com/spf13/cobra"
)

var migrateSkipSeed bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Create or update the database schema.

Unless --skip-seed is given, also inserts the Midtrans payment gateway
row from payment.midtrans when no gateway row exists yet.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateSkipSeed, "skip-seed", false, "do not seed the payment gateway row")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, db, err := connect()
	if err != nil {
		return err
	}
	defer closeDB(db)

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("✅ Migrations applied")

	if migrateSkipSeed {
		return nil
	}
	if err := database.SeedPaymentGateway(db, cfg); err != nil {
		return fmt.Errorf("seed payment gateway: %w", err)
	}
	return nil
}
