package workers

import (
	"context"
	"time"

	"hajj_backend/internal/logger"
	"hajj_backend/internal/services"

	"gorm.io/gorm"
)

const staleBatchSize = 100

// StalePaymentWorker сообщает о бронях, слишком долго ожидающих оплаты.
// Такие брони разбираются вручную (уведомление шлюза могло потеряться).
type StalePaymentWorker struct {
	db         *gorm.DB
	bookings   services.BookingService
	staleAfter time.Duration
	interval   time.Duration
}

func NewStalePaymentWorker(db *gorm.DB, bookings services.BookingService, staleAfter, interval time.Duration) *StalePaymentWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &StalePaymentWorker{
		db:         db,
		bookings:   bookings,
		staleAfter: staleAfter,
		interval:   interval,
	}
}

// Start запускает периодическую проверку
func (w *StalePaymentWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *StalePaymentWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("stale payment worker stopped")
			return
		case <-ticker.C:
			if _, err := w.CheckOnce(ctx); err != nil {
				logger.WorkerLog("stale_payment", "check", err)
			}
		}
	}
}

// CheckOnce выполняет одну проверку и возвращает число найденных броней.
func (w *StalePaymentWorker) CheckOnce(ctx context.Context) (int, error) {
	stale, err := w.bookings.FindStalePendingPayment(w.db.WithContext(ctx), w.staleAfter, staleBatchSize)
	if err != nil {
		return 0, err
	}

	for _, b := range stale {
		logger.Warn("booking is waiting for payment too long",
			"booking_id", b.ID,
			"booking_reference", b.Reference,
			"user_id", b.UserID,
			"created_at", b.CreatedAt,
		)
	}
	logger.WorkerLog("stale_payment", "check", nil, "found", len(stale))
	return len(stale), nil
}
