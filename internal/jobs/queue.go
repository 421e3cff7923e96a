// Package jobs provides the background execution plumbing: a worker-pool
// task queue for one-off jobs (CSV exports) and a cron scheduler for
// periodic ones (reminder and report mails).
package jobs

import (
	"context"
	"errors"
	"sync"

	"github.com/labstack/gommon/log"
)

// ErrQueueFull is returned when the task buffer is at capacity.
var ErrQueueFull = errors.New("task queue is full")

// ErrQueueClosed is returned when submitting after shutdown.
var ErrQueueClosed = errors.New("task queue is closed")

// Task is a unit of background work. The task owns its result reporting
// (e.g. updating an export job record); the queue only runs it.
type Task func(ctx context.Context) error

type taskItem struct {
	name string
	task Task
}

// Queue runs submitted tasks on a fixed worker pool. Intentionally small:
// the interface stays stable if execution later moves out of process.
type Queue struct {
	tasks  chan taskItem
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// NewQueue creates a queue with the given worker count and buffer size and
// starts its workers.
func NewQueue(workers, size int) *Queue {
	if workers < 1 {
		workers = 1
	}
	q := &Queue{tasks: make(chan taskItem, size)}
	q.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go q.worker()
	}
	return q
}

// Submit enqueues a task for execution. It never blocks: a full buffer
// returns ErrQueueFull so the caller can fail the request instead of
// stalling it.
func (q *Queue) Submit(name string, task Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.tasks <- taskItem{name: name, task: task}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Shutdown stops accepting tasks and waits for in-flight ones to finish.
func (q *Queue) Shutdown() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()
	q.wg.Wait()
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for item := range q.tasks {
		if err := item.task(context.Background()); err != nil {
			log.Errorf("task %s: %v", item.name, err)
		}
	}
}
