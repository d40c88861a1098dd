package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bizledger/report-exporter/internal/store/model"
)

// Job is the durable repository of export job records.
type Job interface {
	Add(ctx context.Context, job *model.Job) error
	Find(ctx context.Context, id uuid.UUID) (*model.Job, error)
	Update(ctx context.Context, job *model.Job) error
	// ClaimRunning atomically moves a queued job to running. It returns false
	// when the job is missing or not queued; at most one caller can win the
	// claim for a given job.
	ClaimRunning(ctx context.Context, id uuid.UUID, startedAt time.Time) (bool, error)
	ListQueuedBefore(ctx context.Context, cutoff time.Time) ([]model.Job, error)
}

// Snapshot records successful exports for later retrieval and audit.
type Snapshot interface {
	Create(ctx context.Context, snapshot *model.Snapshot) error
	List(ctx context.Context, filter *SnapshotQueryFilter) ([]model.Snapshot, error)
}

type Store interface {
	Job() Job
	Snapshot() Snapshot
	InitialMigration() error
	Close() error
}

type DataStore struct {
	db       *gorm.DB
	job      Job
	snapshot Snapshot
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:       db,
		job:      NewJobStore(db),
		snapshot: NewSnapshotStore(db),
	}
}

func (s *DataStore) Job() Job {
	return s.job
}

func (s *DataStore) Snapshot() Snapshot {
	return s.snapshot
}

func (s *DataStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Job{}, &model.Snapshot{})
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
