package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueDispatchesByType(t *testing.T) {
	q := NewQueue("test", QueueConfig{Workers: 2})
	done := make(chan string, 1)
	q.Handle("purge", func(ctx context.Context, job Job) error {
		done <- job.ID
		return nil
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "j1", Type: "purge"}))
	select {
	case id := <-done:
		assert.Equal(t, "j1", id)
	case <-time.After(2 * time.Second):
		t.Fatal("job was not processed")
	}
}

func TestQueueRejectsUnknownTypeAndUnstarted(t *testing.T) {
	q := NewQueue("test", QueueConfig{})
	q.Handle("purge", func(context.Context, Job) error { return nil })
	assert.Error(t, q.Enqueue(Job{Type: "purge"}))

	q.Start(context.Background())
	defer q.Stop()
	assert.Error(t, q.Enqueue(Job{Type: "other"}))
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	q := NewQueue("test", QueueConfig{MaxRetries: 3, RetryDelay: 5 * time.Millisecond})
	var calls int32
	succeeded := make(chan int, 1)
	q.Handle("flaky", func(ctx context.Context, job Job) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("transient")
		}
		succeeded <- job.Attempt
		return nil
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "j1", Type: "flaky"}))
	select {
	case attempt := <-succeeded:
		assert.Equal(t, 2, attempt)
	case <-time.After(2 * time.Second):
		t.Fatal("job never succeeded")
	}
}

func TestQueueFull(t *testing.T) {
	q := NewQueue("test", QueueConfig{Workers: 1, BufferSize: 1})
	block := make(chan struct{})
	q.Handle("slow", func(ctx context.Context, job Job) error {
		select {
		case <-block:
		case <-ctx.Done():
		}
		return nil
	})
	q.Start(context.Background())
	defer q.Stop()
	defer close(block)

	var full bool
	for i := 0; i < 5; i++ {
		if err := q.Enqueue(Job{Type: "slow"}); errors.Is(err, ErrQueueFull) {
			full = true
			break
		}
	}
	assert.True(t, full)
}
