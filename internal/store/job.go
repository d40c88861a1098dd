package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bizledger/report-exporter/internal/store/model"
)

type JobStore struct {
	db *gorm.DB
}

// Make sure we conform to Job interface
var _ Job = (*JobStore)(nil)

func NewJobStore(db *gorm.DB) Job {
	return &JobStore{db: db}
}

func (s *JobStore) Add(ctx context.Context, job *model.Job) error {
	result := s.db.WithContext(ctx).Create(job)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("creating job: %w", result.Error)
	}
	return nil
}

func (s *JobStore) Find(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	var job model.Job
	result := s.db.WithContext(ctx).First(&job, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("querying job: %w", result.Error)
	}
	return &job, nil
}

func (s *JobStore) Update(ctx context.Context, job *model.Job) error {
	result := s.db.WithContext(ctx).Save(job)
	if result.Error != nil {
		return fmt.Errorf("updating job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// ClaimRunning performs the queued-to-running transition as one conditional
// update, so concurrent deliveries of the same job id resolve to a single
// winner.
func (s *JobStore) ClaimRunning(ctx context.Context, id uuid.UUID, startedAt time.Time) (bool, error) {
	result := s.db.WithContext(ctx).Model(&model.Job{}).
		Where("id = ? AND status = ?", id, model.JobStatusQueued).
		Updates(map[string]any{
			"status":        model.JobStatusRunning,
			"started_at":    startedAt,
			"error_message": nil,
		})
	if result.Error != nil {
		return false, fmt.Errorf("claiming job: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListQueuedBefore returns jobs still marked queued that were created before
// the cutoff. The reconciliation sweep uses it to find submissions dropped by
// a full queue.
func (s *JobStore) ListQueuedBefore(ctx context.Context, cutoff time.Time) ([]model.Job, error) {
	var jobs []model.Job
	result := s.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", model.JobStatusQueued, cutoff).
		Order("created_at").
		Find(&jobs)
	if result.Error != nil {
		return nil, fmt.Errorf("listing queued jobs: %w", result.Error)
	}
	return jobs, nil
}
