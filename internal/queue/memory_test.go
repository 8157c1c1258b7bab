package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryQueue_ProcessesJobs(t *testing.T) {
	q := NewMemoryQueue(16, 3)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	seen := map[string]bool{}
	var wg sync.WaitGroup
	wg.Add(5)

	require.NoError(t, q.Start(ctx, func(ctx context.Context, job Job) error {
		defer wg.Done()
		mu.Lock()
		seen[string(job.Payload)] = true
		mu.Unlock()
		return nil
	}))

	for _, p := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, q.Enqueue(context.Background(), NewJob(JobTypeMidtransNotification, []byte(p))))
	}

	waitOrFail(t, &wg)
	assert.Len(t, seen, 5)
	require.NoError(t, q.Close())
}

func TestMemoryQueue_FullBuffer(t *testing.T) {
	q := NewMemoryQueue(1, 1)

	require.NoError(t, q.Enqueue(context.Background(), NewJob(JobTypeMidtransNotification, nil)))
	err := q.Enqueue(context.Background(), NewJob(JobTypeMidtransNotification, nil))

	assert.ErrorIs(t, err, ErrQueueFull)
	assert.Equal(t, 1, q.Len())
}

func TestMemoryQueue_EnqueueAfterClose(t *testing.T) {
	q := NewMemoryQueue(4, 1)
	require.NoError(t, q.Close())

	err := q.Enqueue(context.Background(), NewJob(JobTypeMidtransNotification, nil))

	assert.ErrorIs(t, err, ErrQueueClosed)
	assert.NoError(t, q.Close(), "повторный Close не должен падать")
}

func TestMemoryQueue_CloseDrainsAcceptedJobs(t *testing.T) {
	q := NewMemoryQueue(8, 1)
	for i := 0; i < 4; i++ {
		require.NoError(t, q.Enqueue(context.Background(), NewJob(JobTypeMidtransNotification, nil)))
	}

	var processed atomic.Int32
	require.NoError(t, q.Start(context.Background(), func(ctx context.Context, job Job) error {
		processed.Add(1)
		return nil
	}))
	require.NoError(t, q.Close())

	assert.Equal(t, int32(4), processed.Load())
}

func TestMemoryQueue_FailingAndPanickingJobsDoNotStopWorker(t *testing.T) {
	q := NewMemoryQueue(8, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(3)
	var calls atomic.Int32
	require.NoError(t, q.Start(ctx, func(ctx context.Context, job Job) error {
		defer wg.Done()
		switch calls.Add(1) {
		case 1:
			return errors.New("db is down")
		case 2:
			panic("unexpected payload")
		}
		return nil
	}))

	for i := 0; i < 3; i++ {
		require.NoError(t, q.Enqueue(context.Background(), NewJob(JobTypeMidtransNotification, nil)))
	}

	waitOrFail(t, &wg)
	assert.Equal(t, int32(3), calls.Load())
	require.NoError(t, q.Close())
}

func waitOrFail(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("задачи не обработаны за 5 секунд")
	}
}
