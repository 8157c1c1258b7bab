package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Env      string `yaml:"env"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver"` // postgres, mysql
		DSN    string `yaml:"url"`
	} `yaml:"database"`

	Email struct {
		Enabled      bool   `yaml:"enabled"`
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		UseTLS       bool   `yaml:"use_tls"`
	} `yaml:"email"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // минуты
	} `yaml:"jwt"`

	Payment struct {
		Provider       string `yaml:"provider"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		FinishURL      string `yaml:"finish_url"`

		// Используется только командой migrate для первичного заполнения payment_gateways.
		Midtrans struct {
			ServerKey    string `yaml:"server_key"`
			ClientKey    string `yaml:"client_key"`
			IsProduction bool   `yaml:"is_production"`
			Is3DS        bool   `yaml:"is_3ds"`
			VerifyStatus bool   `yaml:"verify_status"`
		} `yaml:"midtrans"`
	} `yaml:"payment"`

	Queue struct {
		Driver   string `yaml:"driver"` // memory, rabbitmq
		Workers  int    `yaml:"workers"`
		Buffer   int    `yaml:"buffer"`
		RabbitMQ struct {
			URL            string `yaml:"url"`
			Exchange       string `yaml:"exchange"`
			Queue          string `yaml:"queue"`
			RoutingKey     string `yaml:"routing_key"`
			Prefetch       int    `yaml:"prefetch"`
			ConnectRetries int    `yaml:"connect_retries"`
			ConnectDelayMs int    `yaml:"connect_delay_ms"`
		} `yaml:"rabbitmq"`
	} `yaml:"queue"`

	// Архив сырых webhook-уведомлений
	Archive struct {
		Enabled   bool   `yaml:"enabled"`
		Driver    string `yaml:"driver"` // local, s3, r2
		BasePath  string `yaml:"base_path"`
		Bucket    string `yaml:"bucket"`
		Region    string `yaml:"region"`
		Endpoint  string `yaml:"endpoint"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
	} `yaml:"archive"`

	Workers struct {
		StaleAfterHours int `yaml:"stale_after_hours"`
		IntervalMinutes int `yaml:"interval_minutes"`
	} `yaml:"workers"`
}

var AppConfig *Config

// Load читает YAML файл и применяет значения по умолчанию.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file at %s: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file at %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

// FromEnv собирает конфигурацию только из переменных окружения (режим теста / контейнера).
func FromEnv() *Config {
	var cfg Config

	cfg.Database.DSN = os.Getenv("DATABASE_URL")
	cfg.Database.Driver = os.Getenv("DATABASE_DRIVER")
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.Payment.FinishURL = os.Getenv("PAYMENT_FINISH_URL")
	cfg.Queue.Driver = os.Getenv("QUEUE_DRIVER")
	cfg.Queue.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	return &cfg
}

func LoadConfig() {
	if os.Getenv("DATABASE_URL") != "" {
		log.Println("✅ Загрузка конфигурации из ПЕРЕМЕННЫХ ОКРУЖЕНИЯ")
		AppConfig = FromEnv()
		return
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка из %s", configPath)

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	AppConfig = cfg
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

// PaymentTimeout - таймаут вызова платежного шлюза
func (c *Config) PaymentTimeout() time.Duration {
	return time.Duration(c.Payment.TimeoutSeconds) * time.Second
}

func (c *Config) JWTTTL() time.Duration {
	return time.Duration(c.JWT.TTL) * time.Minute
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
