package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppliesDefaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Service.Address)
	assert.Equal(t, 200, cfg.Service.QueueCapacity)
	assert.GreaterOrEqual(t, cfg.Service.WorkerCount, 1)
	assert.Equal(t, time.Minute, cfg.Service.ReconcileInterval)
	assert.Equal(t, 5*time.Minute, cfg.Service.QueuedStaleAfter)
}

func TestNewClampsWorkerCount(t *testing.T) {
	t.Setenv("REPORT_EXPORTER_WORKER_COUNT", "0")
	t.Setenv("REPORT_EXPORTER_QUEUE_CAPACITY", "-1")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Service.WorkerCount)
	assert.Equal(t, 1, cfg.Service.QueueCapacity)
}

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()

	assert.Equal(t, "memory", cfg.Database.Type)
	assert.Equal(t, 1, cfg.Service.WorkerCount)
}
