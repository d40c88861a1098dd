package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/bizledger/report-exporter/internal/store/model"
)

type SnapshotStore struct {
	db *gorm.DB
}

// Make sure we conform to Snapshot interface
var _ Snapshot = (*SnapshotStore)(nil)

func NewSnapshotStore(db *gorm.DB) Snapshot {
	return &SnapshotStore{db: db}
}

func (s *SnapshotStore) Create(ctx context.Context, snapshot *model.Snapshot) error {
	result := s.db.WithContext(ctx).Create(snapshot)
	if result.Error != nil {
		return fmt.Errorf("creating snapshot: %w", result.Error)
	}
	return nil
}

func (s *SnapshotStore) List(ctx context.Context, filter *SnapshotQueryFilter) ([]model.Snapshot, error) {
	var snapshots []model.Snapshot
	tx := filter.apply(s.db.WithContext(ctx).Order("created_at DESC"))

	result := tx.Find(&snapshots)
	if result.Error != nil {
		return nil, fmt.Errorf("listing snapshots: %w", result.Error)
	}
	return snapshots, nil
}
