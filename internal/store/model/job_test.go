package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobStatusTerminal(t *testing.T) {
	assert.False(t, JobStatusPending.Terminal())
	assert.False(t, JobStatusQueued.Terminal())
	assert.False(t, JobStatusRunning.Terminal())
	assert.True(t, JobStatusSucceeded.Terminal())
	assert.True(t, JobStatusFailed.Terminal())
	assert.True(t, JobStatusCanceled.Terminal())
}

func TestSanitizedParameters(t *testing.T) {
	job := &Job{Parameters: []byte(`{"groupBy":"month"}`)}
	assert.Equal(t, map[string]any{"groupBy": "month"}, job.SanitizedParameters())

	assert.Empty(t, (&Job{}).SanitizedParameters())
	assert.Empty(t, (&Job{Parameters: []byte("")}).SanitizedParameters())
	assert.Empty(t, (&Job{Parameters: []byte("{not json")}).SanitizedParameters())
	assert.Empty(t, (&Job{Parameters: []byte("null")}).SanitizedParameters())
}

func TestHashParameters(t *testing.T) {
	a := HashParameters([]byte(`{"groupBy":"month"}`))
	b := HashParameters([]byte(`{"groupBy":"month"}`))
	c := HashParameters([]byte(`{"groupBy":"day"}`))

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
