package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bizledger/report-exporter/internal/store/model"
)

// MemoryStore is the in-process adapter of the Store interfaces. It backs the
// test suites and the DB_TYPE=memory development mode; production deployments
// use the gorm-backed store.
type MemoryStore struct {
	mu         sync.RWMutex
	jobs       map[uuid.UUID]model.Job
	snapshots  []model.Snapshot
	nextSnapID uint
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs:       make(map[uuid.UUID]model.Job),
		nextSnapID: 1,
	}
}

func (s *MemoryStore) Job() Job           { return (*memoryJobStore)(s) }
func (s *MemoryStore) Snapshot() Snapshot { return (*memorySnapshotStore)(s) }

func (s *MemoryStore) InitialMigration() error { return nil }

func (s *MemoryStore) Close() error { return nil }

type memoryJobStore MemoryStore

var _ Job = (*memoryJobStore)(nil)

func (s *memoryJobStore) Add(_ context.Context, job *model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[job.ID]; exists {
		return ErrDuplicateKey
	}
	s.jobs[job.ID] = *job
	return nil
}

func (s *memoryJobStore) Find(_ context.Context, id uuid.UUID) (*model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &job, nil
}

func (s *memoryJobStore) Update(_ context.Context, job *model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.ID]; !ok {
		return ErrRecordNotFound
	}
	s.jobs[job.ID] = *job
	return nil
}

func (s *memoryJobStore) ClaimRunning(_ context.Context, id uuid.UUID, startedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok || job.Status != model.JobStatusQueued {
		return false, nil
	}
	job.Status = model.JobStatusRunning
	job.StartedAt = &startedAt
	job.ErrorMessage = nil
	s.jobs[id] = job
	return true, nil
}

func (s *memoryJobStore) ListQueuedBefore(_ context.Context, cutoff time.Time) ([]model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var jobs []model.Job
	for _, job := range s.jobs {
		if job.Status == model.JobStatusQueued && job.CreatedAt.Before(cutoff) {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

type memorySnapshotStore MemoryStore

var _ Snapshot = (*memorySnapshotStore)(nil)

func (s *memorySnapshotStore) Create(_ context.Context, snapshot *model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot.ID = s.nextSnapID
	s.nextSnapID++
	s.snapshots = append(s.snapshots, *snapshot)
	return nil
}

// List returns matching snapshots, newest first.
func (s *memorySnapshotStore) List(_ context.Context, filter *SnapshotQueryFilter) ([]model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Snapshot, 0, len(s.snapshots))
	for i := len(s.snapshots) - 1; i >= 0; i-- {
		if filter != nil && filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
		snapshot := s.snapshots[i]
		if !filter.matches(&snapshot) {
			continue
		}
		out = append(out, snapshot)
	}
	return out, nil
}
