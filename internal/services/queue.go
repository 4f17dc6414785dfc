package services

import (
	"context"
	"sync"
	"sync/atomic"

	"shopfront/internal/models"
	"shopfront/internal/obs"

	"go.uber.org/zap"
)

// Deliverer sends one order confirmation somewhere outside the process.
type Deliverer interface {
	Deliver(ctx context.Context, order models.Order) error
}

// TaskQueue runs order notifications on a fixed pool of workers outside the request lifecycle.
type TaskQueue struct {
	deliverer Deliverer
	workers   int
	tasks     chan models.Order

	mu     sync.RWMutex
	closed bool

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	enqueued  atomic.Uint64
	delivered atomic.Uint64
	failed    atomic.Uint64
	dropped   atomic.Uint64
}

// NewTaskQueue creates a queue with the given worker count and buffer size.
func NewTaskQueue(d Deliverer, workers, size int) *TaskQueue {
	if workers < 1 {
		workers = 1
	}
	if size < 1 {
		size = 1
	}
	return &TaskQueue{
		deliverer: d,
		workers:   workers,
		tasks:     make(chan models.Order, size),
	}
}

// Start spawns the workers. Cancelling parent aborts in-flight deliveries.
func (q *TaskQueue) Start(parent context.Context) {
	q.ctx, q.cancel = context.WithCancel(parent)
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
	obs.Logger.Info("notification workers started", zap.Int("worker_count", q.workers))
}

func (q *TaskQueue) worker(n int) {
	defer q.wg.Done()
	for order := range q.tasks {
		if err := q.deliverer.Deliver(q.ctx, order); err != nil {
			q.failed.Add(1)
			obs.Logger.Error("order notification failed",
				zap.Int("worker", n),
				zap.Int64("order_id", order.ID),
				zap.Error(err))
			continue
		}
		q.delivered.Add(1)
	}
}

// Enqueue schedules a notification and reports whether it was accepted.
// It never blocks: a full or closed queue drops the task.
func (q *TaskQueue) Enqueue(order models.Order) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.dropped.Add(1)
		obs.Logger.Warn("notification dropped, queue closed", zap.Int64("order_id", order.ID))
		return false
	}

	select {
	case q.tasks <- order:
		q.enqueued.Add(1)
		return true
	default:
		q.dropped.Add(1)
		obs.Logger.Warn("notification dropped, queue full", zap.Int64("order_id", order.ID))
		return false
	}
}

// NotifyOrderConfirmed implements Notifier.
func (q *TaskQueue) NotifyOrderConfirmed(order models.Order) {
	q.Enqueue(order)
}

// Stop closes intake and waits for queued tasks to be delivered or ctx to end.
// It reports whether the queue drained completely.
func (q *TaskQueue) Stop(ctx context.Context) bool {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.tasks)
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if q.cancel != nil {
			q.cancel()
		}
		return true
	case <-ctx.Done():
		if q.cancel != nil {
			q.cancel()
		}
		obs.Logger.Warn("notification queue stopped before draining", zap.Int("pending", len(q.tasks)))
		return false
	}
}

// Metrics returns counters since start.
func (q *TaskQueue) Metrics() (enqueued, delivered, failed, dropped uint64) {
	return q.enqueued.Load(), q.delivered.Load(), q.failed.Load(), q.dropped.Load()
}
