// Package storage хранит сырые уведомления платежного шлюза (локально или в S3-совместимом бакете).
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"hajj_backend/internal/config"
)

var ErrObjectNotFound = errors.New("object not found")

// Storage defines the interface for object storage operations
type Storage interface {
	// Save stores an object under the given key
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Get retrieves an object. Returns ErrObjectNotFound for a missing key.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	Exists(ctx context.Context, key string) (bool, error)
}

// Config holds storage configuration
type Config struct {
	Type      string // local, s3, r2
	BasePath  string // For local storage
	Bucket    string // For S3/R2
	Region    string // For S3
	AccessKey string // For S3/R2
	SecretKey string // For S3/R2
	Endpoint  string // For R2 or custom S3
}

// ConfigFromApp берет настройки из секции archive
func ConfigFromApp(cfg *config.Config) Config {
	a := cfg.Archive
	return Config{
		Type:      a.Driver,
		BasePath:  a.BasePath,
		Bucket:    a.Bucket,
		Region:    a.Region,
		AccessKey: a.AccessKey,
		SecretKey: a.SecretKey,
		Endpoint:  a.Endpoint,
	}
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local", "":
		return NewLocalStorage(cfg)
	case "s3", "r2":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
