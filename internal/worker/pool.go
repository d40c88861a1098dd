// Package worker drains the submission queue and drives export jobs through
// computation, rendering and persistence. One job's failure never takes down
// a worker loop.
package worker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bizledger/report-exporter/internal/artifact"
	"github.com/bizledger/report-exporter/internal/export"
	"github.com/bizledger/report-exporter/internal/queue"
	"github.com/bizledger/report-exporter/internal/report"
	"github.com/bizledger/report-exporter/internal/report/types"
	"github.com/bizledger/report-exporter/internal/store"
	"github.com/bizledger/report-exporter/internal/store/model"
	"github.com/bizledger/report-exporter/pkg/metrics"
)

type Pool struct {
	store     store.Store
	queue     *queue.Queue
	engine    *report.Engine
	renderers map[types.Format]export.Renderer
	artifacts artifact.Store
	workers   int
	wg        sync.WaitGroup
}

func NewPool(s store.Store, q *queue.Queue, engine *report.Engine, renderers map[types.Format]export.Renderer, artifacts artifact.Store, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		store:     s,
		queue:     q,
		engine:    engine,
		renderers: renderers,
		artifacts: artifacts,
		workers:   workers,
	}
}

// Start launches the worker loops. They run until the context is canceled;
// Wait blocks until all of them have exited.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.runLoop(ctx, i)
	}
}

func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) runLoop(ctx context.Context, id int) {
	defer p.wg.Done()
	logger := zap.S().Named(fmt.Sprintf("worker-%d", id))
	logger.Info("worker loop started")

	for {
		jobID, err := p.queue.Dequeue(ctx)
		if err != nil {
			logger.Infof("worker loop stopping: %s", err)
			return
		}
		if err := p.process(ctx, jobID); err != nil {
			logger.Errorw("job failed", "job_id", jobID, "error", err)
		}
	}
}

// process drives one job to a terminal state. The returned error is for
// logging only; every job-scoped failure has already been resolved into a
// Failed job record by the time process returns.
func (p *Pool) process(ctx context.Context, jobID uuid.UUID) error {
	logger := zap.S().Named("worker")

	// A requeued id can be delivered twice; the conditional update makes sure
	// exactly one worker wins the job.
	claimed, err := p.store.Job().ClaimRunning(ctx, jobID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("claiming job: %w", err)
	}
	if !claimed {
		logger.Debugw("job not claimable, skipping", "job_id", jobID)
		return nil
	}

	job, err := p.store.Job().Find(ctx, jobID)
	if err != nil {
		return fmt.Errorf("loading claimed job: %w", err)
	}

	location, runErr := p.run(ctx, job)

	completed := time.Now().UTC()
	job.CompletedAt = &completed
	if runErr != nil {
		msg := runErr.Error()
		job.Status = model.JobStatusFailed
		job.ErrorMessage = &msg
		job.FileLocation = nil
		if err := p.store.Job().Update(ctx, job); err != nil {
			logger.Errorw("failed to persist job failure", "job_id", jobID, "error", err)
		}
		metrics.IncJobProcessed(string(job.Type), string(model.JobStatusFailed))
		return runErr
	}

	job.Status = model.JobStatusSucceeded
	job.FileLocation = &location
	job.ErrorMessage = nil
	if err := p.store.Job().Update(ctx, job); err != nil {
		return fmt.Errorf("marking job succeeded: %w", err)
	}
	metrics.IncJobProcessed(string(job.Type), string(model.JobStatusSucceeded))

	if err := p.recordSnapshot(ctx, job, location); err != nil {
		// The export itself succeeded; a missing audit record is logged,
		// not turned into a job failure.
		logger.Errorw("failed to record snapshot", "job_id", jobID, "error", err)
	}
	return nil
}

// run executes the compute-render-persist pipeline and returns the artifact
// location.
func (p *Pool) run(ctx context.Context, job *model.Job) (string, error) {
	payload, err := p.engine.BuildPayload(ctx, job.Type, job.SanitizedParameters(), job.Format)
	if err != nil {
		return "", err
	}

	renderer, ok := p.renderers[job.Format]
	if !ok {
		return "", fmt.Errorf("no renderer registered for format %q", job.Format)
	}

	data, err := renderer.Render(payload)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s-%s.%s", strings.ToLower(string(job.Type)), job.ID, renderer.FileExt())
	return p.artifacts.Put(ctx, name, data, renderer.ContentType())
}

func (p *Pool) recordSnapshot(ctx context.Context, job *model.Job, location string) error {
	return p.store.Snapshot().Create(ctx, &model.Snapshot{
		ReportType:    job.Type,
		Parameters:    job.Parameters,
		ParamsHash:    model.HashParameters(job.Parameters),
		FileLocation:  location,
		CreatedBy:     job.CreatedBy,
		ClientIP:      job.ClientIP,
		UserAgent:     job.UserAgent,
		CorrelationID: job.CorrelationID,
		CreatedAt:     time.Now().UTC(),
	})
}
