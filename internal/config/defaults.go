package config

import "os"

const (
	DefaultPaymentProvider       = "Midtrans"
	DefaultPaymentTimeoutSeconds = 15
)

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = 60
	}

	if cfg.Payment.Provider == "" {
		cfg.Payment.Provider = DefaultPaymentProvider
	}
	if cfg.Payment.TimeoutSeconds <= 0 {
		cfg.Payment.TimeoutSeconds = DefaultPaymentTimeoutSeconds
	}

	if cfg.Queue.Driver == "" {
		cfg.Queue.Driver = "memory"
	}
	if cfg.Queue.Workers <= 0 {
		cfg.Queue.Workers = 4
	}
	if cfg.Queue.Buffer <= 0 {
		cfg.Queue.Buffer = 256
	}
	rmq := &cfg.Queue.RabbitMQ
	if rmq.Exchange == "" {
		rmq.Exchange = "payments"
	}
	if rmq.Queue == "" {
		rmq.Queue = "payments.midtrans.notifications"
	}
	if rmq.RoutingKey == "" {
		rmq.RoutingKey = "midtrans.notification"
	}
	if rmq.Prefetch <= 0 {
		rmq.Prefetch = cfg.Queue.Workers
	}
	if rmq.ConnectRetries <= 0 {
		rmq.ConnectRetries = 5
	}
	if rmq.ConnectDelayMs <= 0 {
		rmq.ConnectDelayMs = 2000
	}

	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}
	if cfg.Email.FromName == "" {
		cfg.Email.FromName = "Hajj & Umrah Booking"
	}

	if cfg.Archive.Driver == "" {
		cfg.Archive.Driver = "local"
	}
	if cfg.Archive.Driver == "local" && cfg.Archive.BasePath == "" {
		cfg.Archive.BasePath = "./var/archive"
	}

	if cfg.Workers.StaleAfterHours <= 0 {
		cfg.Workers.StaleAfterHours = 24
	}
	if cfg.Workers.IntervalMinutes <= 0 {
		cfg.Workers.IntervalMinutes = 60
	}
}

// Секреты можно не хранить в файле.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("MIDTRANS_SERVER_KEY"); v != "" {
		cfg.Payment.Midtrans.ServerKey = v
	}
	if v := os.Getenv("MIDTRANS_CLIENT_KEY"); v != "" {
		cfg.Payment.Midtrans.ClientKey = v
	}
	if v := os.Getenv("ARCHIVE_SECRET_KEY"); v != "" {
		cfg.Archive.SecretKey = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.Email.SMTPPassword = v
	}
}
