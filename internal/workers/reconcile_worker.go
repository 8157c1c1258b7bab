package workers

import (
	"context"
	"fmt"
	"time"

	"hajj_backend/internal/logger"
	"hajj_backend/internal/queue"
	"hajj_backend/internal/services"

	"gorm.io/gorm"
)

// ReconcileWorker читает уведомления шлюза из очереди и передает их в WebhookReconciler.
type ReconcileWorker struct {
	db         *gorm.DB
	queue      queue.Queue
	reconciler services.WebhookReconciler
}

func NewReconcileWorker(db *gorm.DB, q queue.Queue, reconciler services.WebhookReconciler) *ReconcileWorker {
	return &ReconcileWorker{
		db:         db,
		queue:      q,
		reconciler: reconciler,
	}
}

// Start подписывает обработчик на очередь
func (w *ReconcileWorker) Start(ctx context.Context) error {
	if err := w.queue.Start(ctx, w.Handle); err != nil {
		return fmt.Errorf("start reconcile worker: %w", err)
	}
	logger.Info("reconcile worker started")
	return nil
}

// Handle обрабатывает одну задачу
func (w *ReconcileWorker) Handle(ctx context.Context, job queue.Job) error {
	if job.Type != "" && job.Type != queue.JobTypeMidtransNotification {
		logger.CtxWarn(ctx, "unknown job type skipped", "job_type", job.Type)
		return nil
	}

	start := time.Now()
	err := w.reconciler.Reconcile(ctx, w.db, job.Payload)
	logger.WorkerLog("reconcile", "midtrans_notification", err,
		"job_id", job.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return err
}
