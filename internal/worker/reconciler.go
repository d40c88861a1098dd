package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	jitterbug "github.com/lthibault/jitterbug/v2"
	"go.uber.org/zap"

	"github.com/bizledger/report-exporter/internal/queue"
	"github.com/bizledger/report-exporter/internal/store"
)

// Reconciler periodically resubmits jobs that are durably queued but no
// longer buffered, which happens when the submission queue was full at
// enqueue time. Without it such jobs would never be picked up.
type Reconciler struct {
	store      store.Store
	queue      *queue.Queue
	interval   time.Duration
	staleAfter time.Duration

	// ids resubmitted by the previous sweep; skipped this sweep so one stuck
	// job does not accumulate buffered duplicates every interval.
	lastRequeued map[uuid.UUID]struct{}
}

func NewReconciler(s store.Store, q *queue.Queue, interval, staleAfter time.Duration) *Reconciler {
	return &Reconciler{
		store:        s,
		queue:        q,
		interval:     interval,
		staleAfter:   staleAfter,
		lastRequeued: map[uuid.UUID]struct{}{},
	}
}

// Run sweeps on a jittered interval until the context is canceled.
func (r *Reconciler) Run(ctx context.Context) {
	logger := zap.S().Named("reconciler")
	ticker := jitterbug.New(r.interval, &jitterbug.Norm{Stdev: r.interval / 10})
	defer ticker.Stop()

	logger.Infof("reconciliation sweep every %s for jobs queued longer than %s", r.interval, r.staleAfter)
	for {
		select {
		case <-ctx.Done():
			logger.Info("reconciler stopping")
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Reconciler) sweep(ctx context.Context) {
	logger := zap.S().Named("reconciler")

	cutoff := time.Now().UTC().Add(-r.staleAfter)
	jobs, err := r.store.Job().ListQueuedBefore(ctx, cutoff)
	if err != nil {
		logger.Errorw("failed to list stale queued jobs", "error", err)
		return
	}
	if len(jobs) == 0 {
		r.lastRequeued = map[uuid.UUID]struct{}{}
		return
	}

	requeuedNow := map[uuid.UUID]struct{}{}
	for _, job := range jobs {
		if _, ok := r.lastRequeued[job.ID]; ok {
			continue
		}
		if r.queue.Enqueue(job.ID) {
			requeuedNow[job.ID] = struct{}{}
		}
	}
	r.lastRequeued = requeuedNow
	logger.Infow("requeued stale jobs", "stale", len(jobs), "requeued", len(requeuedNow))
}
