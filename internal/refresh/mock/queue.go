// Package refreshmock is a channel-backed refresh queue for tests.
package refreshmock

import (
	"context"

	"github.com/cmflairs/gateway/internal/refresh"
)

type QueueOption func(*Queue)

type Queue struct {
	tasks chan refresh.Task

	enqueueErr error
}

func WithEnqueueError(err error) QueueOption {
	return func(q *Queue) { q.enqueueErr = err }
}

func NewInMemQueue(opts ...QueueOption) *Queue {
	q := &Queue{
		tasks: make(chan refresh.Task, 64),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(q)
		}
	}

	return q
}

var _ refresh.Queue = (*Queue)(nil)

func (q *Queue) Enqueue(_ context.Context, task refresh.Task) error {
	if q.enqueueErr != nil {
		return q.enqueueErr
	}

	q.tasks <- task

	return nil
}

func (q *Queue) Dequeue(ctx context.Context) (refresh.Task, error) {
	select {
	case task := <-q.tasks:
		return task, nil
	case <-ctx.Done():
		return refresh.Task{}, ctx.Err()
	}
}

// Len reports the number of queued tasks.
func (q *Queue) Len() int {
	return len(q.tasks)
}
