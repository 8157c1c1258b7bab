package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

var log *slog.Logger

// InitWithWriter позволяет задать уровень и выход (используется в тестах).
func InitWithWriter(env, level string, w io.Writer) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     parseLevel(level, env),
		AddSource: env != "test",
	}

	if env == "development" || env == "test" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		// Production: JSON формат для парсинга
		handler = slog.NewJSONHandler(w, opts)
	}

	log = slog.New(handler).With("service", "hajj_backend")
	slog.SetDefault(log)
}

func parseLevel(level, env string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		return slog.LevelInfo
	}
	if env == "development" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// GetLogger возвращает глобальный логгер
func GetLogger() *slog.Logger {
	if log == nil {
		// Fallback если InitWithWriter не вызван
		InitWithWriter("development", "", os.Stdout)
	}
	return log
}

func Debug(msg string, args ...any) {
	GetLogger().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	GetLogger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	GetLogger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	GetLogger().Error(msg, args...)
}

// With создает новый логгер с дополнительными полями
func With(args ...any) *slog.Logger {
	return GetLogger().With(args...)
}

// PaymentLog логирует обращение к платежному шлюзу
func PaymentLog(gateway, operation, orderID string, duration time.Duration, err error) {
	fields := []any{
		"gateway", gateway,
		"operation", operation,
		"order_id", orderID,
		"duration_ms", duration.Milliseconds(),
	}

	if err != nil {
		fields = append(fields, "error", err.Error())
		GetLogger().Error("payment gateway call failed", fields...)
	} else {
		GetLogger().Info("payment gateway call", fields...)
	}
}

// WorkerLog логирует операцию фонового воркера
func WorkerLog(worker, operation string, err error, args ...any) {
	fields := append([]any{
		"worker", worker,
		"operation", operation,
	}, args...)

	if err != nil {
		fields = append(fields, "error", err.Error())
		GetLogger().Error("worker operation failed", fields...)
	} else {
		GetLogger().Info("worker operation completed", fields...)
	}
}
