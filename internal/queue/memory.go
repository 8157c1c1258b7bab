package queue

import (
	"context"
	"sync"

	"hajj_backend/internal/logger"
)

// MemoryQueue - очередь в памяти процесса: буферизованный канал и N воркеров.
// Задачи теряются при остановке процесса.
type MemoryQueue struct {
	jobs    chan Job
	workers int

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewMemoryQueue(buffer, workers int) *MemoryQueue {
	if buffer <= 0 {
		buffer = 1
	}
	if workers <= 0 {
		workers = 1
	}
	return &MemoryQueue{
		jobs:    make(chan Job, buffer),
		workers: workers,
	}
}

// Enqueue не блокируется: при заполненном буфере возвращает ErrQueueFull.
func (q *MemoryQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

func (q *MemoryQueue) Start(ctx context.Context, handler Handler) error {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.work(ctx, i, handler)
	}
	return nil
}

func (q *MemoryQueue) work(ctx context.Context, n int, handler Handler) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-q.jobs:
			if !ok {
				return
			}
			q.process(ctx, n, job, handler)
		}
	}
}

func (q *MemoryQueue) process(ctx context.Context, n int, job Job, handler Handler) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("queue job panicked", "job_id", job.ID, "job_type", job.Type, "worker", n, "panic", r)
		}
	}()

	jobCtx := logger.WithJobID(ctx, job.ID)
	if err := handler(jobCtx, job); err != nil {
		logger.CtxWithError(jobCtx, "queue job failed", err, "job_type", job.Type)
	}
}

// Close перестает принимать задачи, дожидается обработки уже принятых и остановки воркеров.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	q.wg.Wait()
	return nil
}

// Len - количество задач в буфере
func (q *MemoryQueue) Len() int {
	return len(q.jobs)
}
