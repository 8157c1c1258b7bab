package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"time"
)

const notificationPrefix = "notifications/midtrans"

// NotificationArchive сохраняет тела webhook-уведомлений до постановки в очередь,
// чтобы потерянную задачу можно было повторить командой replay.
type NotificationArchive struct {
	store Storage
}

func NewNotificationArchive(store Storage) *NotificationArchive {
	return &NotificationArchive{store: store}
}

// Key - ключ объекта: notifications/midtrans/YYYY/MM/DD/<jobID>.json
func Key(jobID string, at time.Time) string {
	return path.Join(notificationPrefix, at.UTC().Format("2006/01/02"), jobID+".json")
}

// Save сохраняет тело уведомления и возвращает ключ
func (a *NotificationArchive) Save(ctx context.Context, jobID string, payload []byte, at time.Time) (string, error) {
	key := Key(jobID, at)
	if err := a.store.Save(ctx, key, bytes.NewReader(payload), "application/json"); err != nil {
		return "", fmt.Errorf("archive notification: %w", err)
	}
	return key, nil
}

// Load читает сохраненное тело уведомления
func (a *NotificationArchive) Load(ctx context.Context, key string) ([]byte, error) {
	rc, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
