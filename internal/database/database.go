package database

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"hajj_backend/internal/config"
	"hajj_backend/internal/logger"
	"hajj_backend/internal/models"
	"hajj_backend/internal/repositories"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open подключается к БД выбранным драйвером
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres", "":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get *sql.DB from GORM: %w", err)
	}
	if driver == "sqlite" {
		// SQLite не допускает параллельных писателей
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database unavailable: %w", err)
	}
	return db, nil
}

// Connect открывает БД по конфигурации приложения
func Connect(cfg *config.Config) (*gorm.DB, error) {
	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	db, err := Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	logger.Info("Database connected")
	return db, nil
}

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// SeedPaymentGateway создает строку шлюза из конфигурации, если ее еще нет.
// Существующая строка не перезаписывается: ключи могли поменять вручную.
func SeedPaymentGateway(db *gorm.DB, cfg *config.Config) error {
	repo := repositories.NewPaymentGatewayRepository()
	name := cfg.Payment.Provider

	_, err := repo.FindByName(db, name)
	if err == nil {
		logger.Info("Payment gateway already exists. Skipping seeding.", "name", name)
		return nil
	}
	if !errors.Is(err, repositories.ErrGatewayNotFound) {
		return fmt.Errorf("failed to check payment gateway: %w", err)
	}

	mt := cfg.Payment.Midtrans
	if mt.ServerKey == "" {
		logger.Warn("payment.midtrans.server_key is not set. Skipping gateway seeding.")
		return nil
	}

	gw := &models.PaymentGateway{Name: name, IsActive: true}
	if err := gw.SetMidtransSettings(models.MidtransSettings{
		ServerKey:    mt.ServerKey,
		ClientKey:    mt.ClientKey,
		IsProduction: mt.IsProduction,
		Is3DS:        mt.Is3DS,
		VerifyStatus: mt.VerifyStatus,
	}); err != nil {
		return err
	}
	if err := repo.Create(db, gw); err != nil {
		return fmt.Errorf("failed to create payment gateway: %w", err)
	}

	logger.Info("Payment gateway created", "name", name, "production", mt.IsProduction)
	return nil
}
