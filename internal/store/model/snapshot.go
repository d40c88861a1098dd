package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/bizledger/report-exporter/internal/report/types"
)

// Snapshot is the append-only audit record of a successful export: which
// report was produced, from which sanitized parameters, and where the
// artifact landed. Snapshots are never mutated.
type Snapshot struct {
	ID            uint             `gorm:"primaryKey"`
	ReportType    types.ReportType `gorm:"column:report_type;index;not null"`
	Parameters    []byte           `gorm:"column:parameters;type:jsonb"`
	ParamsHash    string           `gorm:"column:params_hash;index"`
	FileLocation  string           `gorm:"column:file_location;not null"`
	CreatedBy     string           `gorm:"column:created_by"`
	ClientIP      string           `gorm:"column:client_ip"`
	UserAgent     string           `gorm:"column:user_agent"`
	CorrelationID string           `gorm:"column:correlation_id"`
	CreatedAt     time.Time        `gorm:"column:created_at"`
}

func (Snapshot) TableName() string {
	return "export_snapshots"
}

// HashParameters returns the hex sha256 of the serialized sanitized
// parameters, used for dedup and cache-hit lookups.
func HashParameters(serialized []byte) string {
	sum := sha256.Sum256(serialized)
	return hex.EncodeToString(sum[:])
}
