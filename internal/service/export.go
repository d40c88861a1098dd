package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bizledger/report-exporter/internal/params"
	"github.com/bizledger/report-exporter/internal/queue"
	"github.com/bizledger/report-exporter/internal/report/types"
	"github.com/bizledger/report-exporter/internal/store"
	"github.com/bizledger/report-exporter/internal/store/model"
)

// external status vocabulary exposed to polling clients
const (
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ExportRequest is the caller-facing body of an export submission. Params is
// arbitrary client input and is whitelisted before anything else happens.
type ExportRequest struct {
	Format string         `json:"format"`
	Params map[string]any `json:"params"`
}

// RequestMeta carries audit metadata captured at the HTTP boundary.
type RequestMeta struct {
	CreatedBy     string
	ClientIP      string
	UserAgent     string
	CorrelationID string
}

// TaskHandle is the lightweight view of a job returned to submitters and
// pollers.
type TaskHandle struct {
	TaskID     uuid.UUID  `json:"taskId"`
	Status     string     `json:"status"`
	FileURI    *string    `json:"fileUri,omitempty"`
	Message    *string    `json:"message,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

type ExportService struct {
	store store.Store
	queue *queue.Queue
}

func NewExportService(s store.Store, q *queue.Queue) *ExportService {
	return &ExportService{store: s, queue: q}
}

// Enqueue validates the report name and format, whitelists the caller
// parameters, persists a new queued job and submits its id to the worker
// pool. Unrecognized names and formats are client errors; nothing else fails
// synchronously.
func (s *ExportService) Enqueue(ctx context.Context, name string, req ExportRequest, meta RequestMeta) (*TaskHandle, error) {
	logger := zap.S().Named("export_service")

	reportType, err := types.ParseReportType(name)
	if err != nil {
		return nil, NewErrUnknownReportName(name)
	}

	format, err := types.ParseFormat(req.Format)
	if err != nil {
		return nil, NewErrInvalidExportFormat(req.Format)
	}

	sanitized := params.Filter(reportType, req.Params)
	serialized, err := json.Marshal(sanitized)
	if err != nil {
		return nil, fmt.Errorf("serializing parameters: %w", err)
	}

	job := &model.Job{
		ID:            uuid.New(),
		Type:          reportType,
		Format:        format,
		Status:        model.JobStatusPending,
		Parameters:    serialized,
		CreatedBy:     meta.CreatedBy,
		ClientIP:      meta.ClientIP,
		UserAgent:     meta.UserAgent,
		CorrelationID: meta.CorrelationID,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.store.Job().Add(ctx, job); err != nil {
		return nil, fmt.Errorf("persisting job: %w", err)
	}

	job.Status = model.JobStatusQueued
	if err := s.store.Job().Update(ctx, job); err != nil {
		return nil, fmt.Errorf("queueing job: %w", err)
	}

	if !s.queue.Enqueue(job.ID) {
		// The job stays durably queued; the reconciliation sweep resubmits it.
		logger.Warnw("submission queue full, deferring to reconciliation", "job_id", job.ID)
	}

	logger.Infow("export job queued", "job_id", job.ID, "type", reportType, "format", format)
	return &TaskHandle{
		TaskID:    job.ID,
		Status:    StatusQueued,
		CreatedAt: job.CreatedAt,
	}, nil
}

// GetStatus returns the current handle of a job, or nil when the id is
// unknown.
func (s *ExportService) GetStatus(ctx context.Context, id uuid.UUID) (*TaskHandle, error) {
	job, err := s.store.Job().Find(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &TaskHandle{
		TaskID:     job.ID,
		Status:     externalStatus(job.Status),
		FileURI:    job.FileLocation,
		Message:    job.ErrorMessage,
		CreatedAt:  job.CreatedAt,
		FinishedAt: job.CompletedAt,
	}, nil
}

// SnapshotView is the client-facing shape of one export audit record.
type SnapshotView struct {
	ReportType types.ReportType `json:"reportType"`
	Parameters json.RawMessage  `json:"parameters,omitempty"`
	ParamsHash string           `json:"paramsHash"`
	FileURI    string           `json:"fileUri"`
	CreatedBy  string           `json:"createdBy,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// SnapshotListOptions restricts a snapshot listing. The zero value lists
// everything.
type SnapshotListOptions struct {
	ReportName string
	ParamsHash string
	Limit      int
}

// ListSnapshots returns export audit records, newest first, restricted by the
// given options.
func (s *ExportService) ListSnapshots(ctx context.Context, opts SnapshotListOptions) ([]SnapshotView, error) {
	filter := store.NewSnapshotQueryFilter()
	if opts.ReportName != "" {
		reportType, err := types.ParseReportType(opts.ReportName)
		if err != nil {
			return nil, NewErrUnknownReportName(opts.ReportName)
		}
		filter = filter.ByReportType(reportType)
	}
	if opts.ParamsHash != "" {
		filter = filter.ByParamsHash(opts.ParamsHash)
	}
	if opts.Limit > 0 {
		filter = filter.WithLimit(opts.Limit)
	}

	snapshots, err := s.store.Snapshot().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}

	views := make([]SnapshotView, 0, len(snapshots))
	for _, snap := range snapshots {
		views = append(views, SnapshotView{
			ReportType: snap.ReportType,
			Parameters: snap.Parameters,
			ParamsHash: snap.ParamsHash,
			FileURI:    snap.FileLocation,
			CreatedBy:  snap.CreatedBy,
			CreatedAt:  snap.CreatedAt,
		})
	}
	return views, nil
}

// externalStatus maps internal job statuses onto the vocabulary exposed to
// clients. Canceled maps to failed because no external actor can request
// cancellation yet.
func externalStatus(s model.JobStatus) string {
	switch s {
	case model.JobStatusPending, model.JobStatusQueued:
		return StatusQueued
	case model.JobStatusRunning:
		return StatusRunning
	case model.JobStatusSucceeded:
		return StatusCompleted
	default:
		return StatusFailed
	}
}
