package handlers

import (
	"io"
	"net/http"

	"hajj_backend/internal/logger"
	"hajj_backend/internal/queue"
	"hajj_backend/internal/storage"

	"github.com/gin-gonic/gin"
)

const maxNotificationSize = 1 << 20

type WebhookHandler struct {
	*BaseHandler
	queue   queue.Queue
	archive *storage.NotificationArchive // nil - архив выключен
}

func NewWebhookHandler(base *BaseHandler, q queue.Queue, archive *storage.NotificationArchive) *WebhookHandler {
	return &WebhookHandler{
		BaseHandler: base,
		queue:       q,
		archive:     archive,
	}
}

func (h *WebhookHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/payments/midtrans/notification", h.MidtransNotification)
}

// MidtransNotification godoc
// @Summary Уведомление Midtrans о статусе платежа
// @Description Тело ставится в очередь, ответ всегда 200
// @Tags payments
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /payments/midtrans/notification [post]
func (h *WebhookHandler) MidtransNotification(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxNotificationSize))
	if err != nil {
		logger.CtxWithError(ctx, "failed to read payment notification", err)
	} else if len(body) == 0 {
		logger.CtxWarn(ctx, "empty payment notification ignored")
	} else {
		job := queue.NewJob(queue.JobTypeMidtransNotification, body)
		if h.archive != nil {
			if key, err := h.archive.Save(ctx, job.ID, body, job.EnqueuedAt); err != nil {
				logger.CtxWithError(ctx, "failed to archive payment notification", err, "job_id", job.ID)
			} else {
				logger.CtxDebug(ctx, "payment notification archived", "job_id", job.ID, "key", key)
			}
		}
		if err := h.queue.Enqueue(ctx, job); err != nil {
			// Ответ 200, шлюз не повторит запрос: без архива уведомление потеряно,
			// из архива его применяет `hajj notification replay`
			logger.CtxWithError(ctx, "failed to enqueue payment notification", err, "job_id", job.ID)
		} else {
			logger.CtxInfo(ctx, "payment notification queued", "job_id", job.ID)
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
