package app

import (
	"errors"
	"fmt"

	"hajj_backend/internal/config"
	"hajj_backend/internal/validator"
)

// ValidateConfig проверяет значения, без которых приложение не работает
func ValidateConfig(cfg *config.Config) error {
	v := validator.New()

	checks := []struct {
		field string
		value interface{}
		tag   string
	}{
		{"database.driver", cfg.Database.Driver, "required,is-db-driver"},
		{"queue.driver", cfg.Queue.Driver, "required,is-queue-driver"},
		{"jwt.secret", cfg.JWT.Secret, "required"},
		{"payment.provider", cfg.Payment.Provider, "required"},
		{"payment.timeout_seconds", cfg.Payment.TimeoutSeconds, "min=1,max=120"},
		{"payment.finish_url", cfg.Payment.FinishURL, "omitempty,url"},
	}

	var errs []error
	for _, c := range checks {
		if err := v.Var(c.value, c.tag); err != nil {
			errs = append(errs, fmt.Errorf("config %s: %w", c.field, err))
		}
	}
	if cfg.Queue.Driver == "rabbitmq" {
		if err := v.Var(cfg.Queue.RabbitMQ.URL, "required"); err != nil {
			errs = append(errs, fmt.Errorf("config queue.rabbitmq.url: %w", err))
		}
	}
	if cfg.Archive.Enabled {
		if err := v.Var(cfg.Archive.Driver, "oneof=local s3 r2"); err != nil {
			errs = append(errs, fmt.Errorf("config archive.driver: %w", err))
		}
		if cfg.Archive.Driver != "local" {
			if err := v.Var(cfg.Archive.Bucket, "required"); err != nil {
				errs = append(errs, fmt.Errorf("config archive.bucket: %w", err))
			}
		}
	}
	return errors.Join(errs...)
}
