package store

import (
	"gorm.io/gorm"

	"github.com/bizledger/report-exporter/internal/report/types"
	"github.com/bizledger/report-exporter/internal/store/model"
)

// SnapshotQueryFilter narrows a snapshot listing. Conditions combine with AND;
// the zero value matches everything. The filter is declarative so every store
// backend can honor it.
type SnapshotQueryFilter struct {
	ReportType types.ReportType
	ParamsHash string
	Limit      int
}

func NewSnapshotQueryFilter() *SnapshotQueryFilter {
	return &SnapshotQueryFilter{}
}

func (qf *SnapshotQueryFilter) ByReportType(t types.ReportType) *SnapshotQueryFilter {
	qf.ReportType = t
	return qf
}

func (qf *SnapshotQueryFilter) ByParamsHash(hash string) *SnapshotQueryFilter {
	qf.ParamsHash = hash
	return qf
}

func (qf *SnapshotQueryFilter) WithLimit(n int) *SnapshotQueryFilter {
	qf.Limit = n
	return qf
}

// apply translates the filter into gorm query clauses.
func (qf *SnapshotQueryFilter) apply(tx *gorm.DB) *gorm.DB {
	if qf == nil {
		return tx
	}
	if qf.ReportType != "" {
		tx = tx.Where("report_type = ?", qf.ReportType)
	}
	if qf.ParamsHash != "" {
		tx = tx.Where("params_hash = ?", qf.ParamsHash)
	}
	if qf.Limit > 0 {
		tx = tx.Limit(qf.Limit)
	}
	return tx
}

// matches reports whether a snapshot satisfies the filter conditions. Limit is
// handled by the caller.
func (qf *SnapshotQueryFilter) matches(snapshot *model.Snapshot) bool {
	if qf == nil {
		return true
	}
	if qf.ReportType != "" && snapshot.ReportType != qf.ReportType {
		return false
	}
	if qf.ParamsHash != "" && snapshot.ParamsHash != qf.ParamsHash {
		return false
	}
	return true
}
