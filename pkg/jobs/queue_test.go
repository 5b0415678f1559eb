package jobs

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

func TestQueueProcessesTasks(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	q := NewQueue[string]("test", func(_ context.Context, task Task[string]) error {
		mu.Lock()
		seen = append(seen, task.Payload)
		mu.Unlock()
		return nil
	}, QueueConfig{Workers: 2})
	q.Start(context.Background())
	defer q.Stop()

	for _, payload := range []string{"sp2026", "fa2026", "sp2027"} {
		require.NoError(t, q.Enqueue(Task[string]{Key: payload, Payload: payload}))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, q.Drain(ctx))

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"sp2026", "fa2026", "sp2027"}, seen)
}

func TestQueueRetriesUntilSuccess(t *testing.T) {
	var calls int32
	q := NewQueue[int]("retry", func(_ context.Context, task Task[int]) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("transient")
		}
		return nil
	}, QueueConfig{MaxRetries: 3, RetryDelay: 5 * time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Task[int]{Key: "one", Payload: 1}))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, q.Drain(ctx))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestQueueGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	q := NewQueue[int]("fail", func(context.Context, Task[int]) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("permanent")
	}, QueueConfig{MaxRetries: 1, RetryDelay: 5 * time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Task[int]{Key: "one"}))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, q.Drain(ctx))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestQueueRejectsBeforeStart(t *testing.T) {
	q := NewQueue[int]("idle", func(context.Context, Task[int]) error { return nil }, QueueConfig{})
	assert.Error(t, q.Enqueue(Task[int]{Key: "x"}))
	q.Stop()
}

func TestQueueStopReleasesBufferedTasks(t *testing.T) {
	q := NewQueue[int]("stop", func(ctx context.Context, _ Task[int]) error {
		<-ctx.Done()
		return ctx.Err()
	}, QueueConfig{Workers: 1, BufferSize: 4, MaxRetries: 2, RetryDelay: 5 * time.Millisecond})
	q.Start(context.Background())

	for i := 0; i < 4; i++ {
		require.NoError(t, q.Enqueue(Task[int]{Key: "task", Payload: i}))
	}
	q.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, q.Drain(ctx))
	assert.Error(t, q.Enqueue(Task[int]{Key: "late"}))
}
