package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"hajj_backend/internal/config"
	"hajj_backend/internal/email"
	"hajj_backend/internal/handlers"
	"hajj_backend/internal/logger"
	"hajj_backend/internal/middleware"
	"hajj_backend/internal/payment"
	"hajj_backend/internal/queue"
	"hajj_backend/internal/routes"
	"hajj_backend/internal/services"
	"hajj_backend/internal/storage"
	"hajj_backend/internal/validator"
	"hajj_backend/internal/workers"
	"hajj_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Options позволяет подменить внешние зависимости (используется в тестах)
type Options struct {
	GatewayFactory payment.Factory
	Queue          queue.Queue
	EmailProvider  email.Provider
	Archive        *storage.NotificationArchive
}

type App struct {
	cfg      *config.Config
	db       *gorm.DB
	queue    queue.Queue
	services *services.ServiceContainer
	router   *gin.Engine
}

// New собирает приложение: очередь, сервисы, хэндлеры и роутер
func New(cfg *config.Config, db *gorm.DB, opts Options) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	q := opts.Queue
	if q == nil {
		var err error
		q, err = queue.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("init queue: %w", err)
		}
	}
	logger.Info("Queue initialized", "driver", cfg.Queue.Driver)

	provider := opts.EmailProvider
	if provider == nil {
		provider = initializeEmailProvider(cfg)
	}

	archive := opts.Archive
	if archive == nil && cfg.Archive.Enabled {
		var err error
		archive, err = InitializeArchive(cfg)
		if err != nil {
			return nil, err
		}
	}

	serviceContainer := initializeServices(cfg, opts.GatewayFactory, provider)
	appHandlers := initializeHandlers(cfg, serviceContainer, q, archive)

	router := initializeGinRouter(cfg, db)
	routes.RegisterRoutes(router, appHandlers)

	return &App{
		cfg:      cfg,
		db:       db,
		queue:    q,
		services: serviceContainer,
		router:   router,
	}, nil
}

// SetupRouter - короткий путь для тестов
func SetupRouter(cfg *config.Config, db *gorm.DB, opts Options) (*gin.Engine, error) {
	a, err := New(cfg, db, opts)
	if err != nil {
		return nil, err
	}
	return a.router, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Services() *services.ServiceContainer {
	return a.services
}

// StartWorkers запускает обработчик уведомлений и проверку зависших оплат
func (a *App) StartWorkers(ctx context.Context) error {
	reconcileWorker := workers.NewReconcileWorker(a.db, a.queue, a.services.WebhookReconciler)
	if err := reconcileWorker.Start(ctx); err != nil {
		return err
	}

	staleWorker := workers.NewStalePaymentWorker(
		a.db,
		a.services.BookingService,
		time.Duration(a.cfg.Workers.StaleAfterHours)*time.Hour,
		time.Duration(a.cfg.Workers.IntervalMinutes)*time.Minute,
	)
	staleWorker.Start(ctx)
	return nil
}

// Serve запускает HTTP сервер и останавливает его при отмене ctx
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("🚀 Server starting on %s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server startup error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Close освобождает очередь. Закрытие БД остается за вызывающим.
func (a *App) Close() error {
	return a.queue.Close()
}

func initializeEmailProvider(cfg *config.Config) email.Provider {
	if !cfg.Email.Enabled {
		logger.Warn("Email sending is disabled. Using mock provider.")
		return email.NewMockProvider()
	}
	provider := email.NewSMTPProvider(email.ConfigFromApp(cfg), email.NewTemplateManager())
	if err := provider.Validate(); err != nil {
		logger.Warn("Invalid SMTP config. Using mock provider.", "error", err)
		return email.NewMockProvider()
	}
	return provider
}

func initializeServices(cfg *config.Config, factory payment.Factory, provider email.Provider) *services.ServiceContainer {
	settings := services.PaymentSettings{
		Provider:  cfg.Payment.Provider,
		Timeout:   cfg.PaymentTimeout(),
		FinishURL: cfg.Payment.FinishURL,
	}
	return services.NewServiceContainer(settings, factory, email.NewBookingNotifier(provider))
}

// InitializeArchive создает архив уведомлений по секции archive
func InitializeArchive(cfg *config.Config) (*storage.NotificationArchive, error) {
	store, err := storage.NewStorage(storage.ConfigFromApp(cfg))
	if err != nil {
		return nil, fmt.Errorf("init notification archive: %w", err)
	}
	logger.Info("Notification archive initialized", "driver", cfg.Archive.Driver)
	return storage.NewNotificationArchive(store), nil
}

func initializeHandlers(cfg *config.Config, svc *services.ServiceContainer, q queue.Queue, archive *storage.NotificationArchive) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)
	authMiddleware := middleware.AuthMiddleware(cfg.JWT.Secret)

	return &handlers.AppHandlers{
		BookingHandler: handlers.NewBookingHandler(baseHandler, authMiddleware, svc.BookingPaymentService, svc.BookingService),
		WebhookHandler: handlers.NewWebhookHandler(baseHandler, q, archive),
		HealthHandler:  handlers.NewHealthHandler(baseHandler),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	apperrors.SetDebug(cfg.Server.Env == "development")

	router := gin.New()
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}
