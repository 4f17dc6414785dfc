package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"shopfront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeliverer struct {
	mu      sync.Mutex
	ids     []int64
	fail    map[int64]bool
	release chan struct{}
}

func (f *fakeDeliverer) Deliver(ctx context.Context, order models.Order) error {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if f.fail[order.ID] {
		return errors.New("smtp down")
	}
	f.mu.Lock()
	f.ids = append(f.ids, order.ID)
	f.mu.Unlock()
	return nil
}

func (f *fakeDeliverer) delivered() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64{}, f.ids...)
}

func TestTaskQueue_DeliversAndDrains(t *testing.T) {
	d := &fakeDeliverer{fail: map[int64]bool{3: true}}
	q := NewTaskQueue(d, 3, 16)
	q.Start(context.Background())

	for i := int64(1); i <= 5; i++ {
		assert.True(t, q.Enqueue(models.Order{ID: i}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.True(t, q.Stop(ctx))

	assert.ElementsMatch(t, []int64{1, 2, 4, 5}, d.delivered())
	enq, ok, failed, dropped := q.Metrics()
	assert.Equal(t, uint64(5), enq)
	assert.Equal(t, uint64(4), ok)
	assert.Equal(t, uint64(1), failed)
	assert.Zero(t, dropped)
}

func TestTaskQueue_EnqueueNeverBlocks(t *testing.T) {
	d := &fakeDeliverer{release: make(chan struct{})}
	q := NewTaskQueue(d, 1, 1)
	q.Start(context.Background())

	accepted := 0
	for i := int64(1); i <= 10; i++ {
		if q.Enqueue(models.Order{ID: i}) {
			accepted++
		}
	}
	// one in the worker's hands at most, one in the buffer
	assert.LessOrEqual(t, accepted, 2)
	_, _, _, dropped := q.Metrics()
	assert.Equal(t, uint64(10-accepted), dropped)

	close(d.release)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.True(t, q.Stop(ctx))
}

func TestTaskQueue_RejectsAfterStop(t *testing.T) {
	q := NewTaskQueue(&fakeDeliverer{}, 1, 4)
	q.Start(context.Background())
	require.True(t, q.Stop(context.Background()))

	assert.False(t, q.Enqueue(models.Order{ID: 1}))
	q.NotifyOrderConfirmed(models.Order{ID: 2})
	_, _, _, dropped := q.Metrics()
	assert.Equal(t, uint64(2), dropped)

	// second Stop is a no-op
	assert.True(t, q.Stop(context.Background()))
}

func TestTaskQueue_StopTimesOut(t *testing.T) {
	d := &fakeDeliverer{release: make(chan struct{})}
	q := NewTaskQueue(d, 1, 4)
	q.Start(context.Background())
	q.Enqueue(models.Order{ID: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.False(t, q.Stop(ctx))
}
