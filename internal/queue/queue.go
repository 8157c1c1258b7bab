// Package queue доставляет webhook-уведомления фоновым обработчикам.
// Неуспешные задачи не повторяются автоматически.
package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hajj_backend/internal/config"

	"github.com/google/uuid"
)

const JobTypeMidtransNotification = "midtrans.notification"

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// Job - одна задача очереди
type Job struct {
	ID         string
	Type       string
	Payload    []byte
	EnqueuedAt time.Time
}

func NewJob(jobType string, payload []byte) Job {
	return Job{
		ID:         uuid.NewString(),
		Type:       jobType,
		Payload:    payload,
		EnqueuedAt: time.Now(),
	}
}

// Handler обрабатывает задачу. Ошибка означает окончательный провал задачи.
type Handler func(ctx context.Context, job Job) error

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	// Start запускает обработчики и возвращается сразу.
	// Обработка останавливается при отмене ctx.
	Start(ctx context.Context, handler Handler) error
	Close() error
}

// New создает очередь по конфигурации
func New(cfg *config.Config) (Queue, error) {
	switch cfg.Queue.Driver {
	case "memory", "":
		return NewMemoryQueue(cfg.Queue.Buffer, cfg.Queue.Workers), nil
	case "rabbitmq":
		rmq := cfg.Queue.RabbitMQ
		client := NewRabbitMQClient(&RabbitMQConfig{
			URL:        rmq.URL,
			Exchange:   rmq.Exchange,
			Queue:      rmq.Queue,
			RoutingKey: rmq.RoutingKey,
			RetryCount: rmq.ConnectRetries,
			RetryDelay: time.Duration(rmq.ConnectDelayMs) * time.Millisecond,
		})
		if err := client.Connect(); err != nil {
			return nil, err
		}
		return NewRabbitMQQueue(client, rmq.Queue, rmq.RoutingKey, rmq.Prefetch), nil
	default:
		return nil, fmt.Errorf("unknown queue driver %q", cfg.Queue.Driver)
	}
}
