package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/bizledger/report-exporter/internal/report/types"
)

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCanceled  JobStatus = "canceled"
)

// Terminal reports whether the status can no longer change.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobStatusSucceeded, JobStatusFailed, JobStatusCanceled:
		return true
	}
	return false
}

// Job is the durable lifecycle record of one export request. It is created by
// the export service and mutated exclusively by the worker pool thereafter.
type Job struct {
	ID            uuid.UUID        `gorm:"primaryKey"`
	Type          types.ReportType `gorm:"column:type;not null"`
	Format        types.Format     `gorm:"column:format;not null"`
	Status        JobStatus        `gorm:"column:status;index;not null"`
	Parameters    []byte           `gorm:"column:parameters;type:jsonb"`
	FileLocation  *string          `gorm:"column:file_location"`
	ErrorMessage  *string          `gorm:"column:error_message"`
	CreatedBy     string           `gorm:"column:created_by"`
	ClientIP      string           `gorm:"column:client_ip"`
	UserAgent     string           `gorm:"column:user_agent"`
	CorrelationID string           `gorm:"column:correlation_id"`
	CreatedAt     time.Time        `gorm:"column:created_at"`
	StartedAt     *time.Time       `gorm:"column:started_at"`
	CompletedAt   *time.Time       `gorm:"column:completed_at"`
}

func (Job) TableName() string {
	return "export_jobs"
}

func (j Job) String() string {
	val, _ := json.Marshal(j)
	return string(val)
}

// SanitizedParameters decodes the stored parameter JSON. Absent, empty or
// malformed content yields an empty map so a bad record never aborts a job
// before it starts.
func (j *Job) SanitizedParameters() map[string]any {
	if len(j.Parameters) == 0 {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(j.Parameters, &m); err != nil || m == nil {
		return map[string]any{}
	}
	return m
}
