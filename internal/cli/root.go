package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hajj_backend/internal/config"
	"hajj_backend/internal/database"
	"hajj_backend/internal/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	configPath string
	rootCmd    *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "hajj",
		Short: "Hajj & Umrah booking backend",
		Long: `Backend for Hajj and Umrah package bookings.

Creates bookings with a Midtrans Snap payment and reconciles
payment notifications into booking and transaction statuses.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				if err := os.Setenv("CONFIG_PATH", configPath); err != nil {
					return err
				}
			}
			cfg := config.GetConfig()
			logger.InitWithWriter(cfg.Server.Env, cfg.Server.LogLevel, os.Stdout)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (default: $CONFIG_PATH or config/config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(workerCmd)
	rootCmd.AddCommand(bookingCmd)
	rootCmd.AddCommand(notificationCmd)
}

// Execute запускает корневую команду
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// connect открывает БД по текущей конфигурации
func connect() (*config.Config, *gorm.DB, error) {
	cfg := config.GetConfig()
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("✅ Database connected", "driver", cfg.Database.Driver)
	return cfg, db, nil
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("failed to close database", "error", err)
	}
}

// signalContext отменяется по SIGINT / SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
