// Package queue provides the bounded submission buffer between the export
// service and the worker pool.
package queue

import (
	"context"

	"github.com/google/uuid"

	"github.com/bizledger/report-exporter/pkg/metrics"
)

// Queue is a bounded multi-producer/multi-consumer buffer of job ids. Each id
// is delivered to exactly one consumer.
type Queue struct {
	ch chan uuid.UUID
}

const DefaultCapacity = 200

func New(capacity int) *Queue {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Queue{ch: make(chan uuid.UUID, capacity)}
}

// Enqueue inserts the id without blocking. When the buffer is full the insert
// is dropped and false is returned; the job stays durably queued and the
// reconciliation sweep will resubmit it.
func (q *Queue) Enqueue(id uuid.UUID) bool {
	select {
	case q.ch <- id:
		metrics.SetQueueDepth(len(q.ch))
		return true
	default:
		metrics.IncQueueDropped()
		return false
	}
}

// Dequeue blocks until an id is available or the context is canceled.
func (q *Queue) Dequeue(ctx context.Context) (uuid.UUID, error) {
	select {
	case id := <-q.ch:
		metrics.SetQueueDepth(len(q.ch))
		return id, nil
	case <-ctx.Done():
		return uuid.Nil, ctx.Err()
	}
}

// Len returns the number of buffered ids.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Cap returns the buffer capacity.
func (q *Queue) Cap() int {
	return cap(q.ch)
}
