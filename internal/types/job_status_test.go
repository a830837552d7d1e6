// SPDX-License-Identifier: MIT

package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStatusIsTerminal(t *testing.T) {
	tests := []struct {
		status   JobStatus
		terminal bool
	}{
		{JobStatusQueued, false},
		{JobStatusProcessing, false},
		{JobStatusCompleted, true},
		{JobStatusFailed, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.terminal, tt.status.IsTerminal(), "status %s", tt.status)
	}
}

func TestJobStatusTransitions(t *testing.T) {
	tests := []struct {
		name   string
		from   JobStatus
		to     JobStatus
		wantOK bool
	}{
		{"queued to processing", JobStatusQueued, JobStatusProcessing, true},
		{"queued straight to completed", JobStatusQueued, JobStatusCompleted, true},
		{"queued straight to failed", JobStatusQueued, JobStatusFailed, true},
		{"processing to completed", JobStatusProcessing, JobStatusCompleted, true},
		{"processing to failed", JobStatusProcessing, JobStatusFailed, true},
		{"processing back to queued", JobStatusProcessing, JobStatusQueued, false},
		{"completed is absorbing", JobStatusCompleted, JobStatusProcessing, false},
		{"failed is absorbing", JobStatusFailed, JobStatusQueued, false},
		{"invalid target", JobStatusQueued, JobStatus("stuck"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantOK, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestParseJobStatus(t *testing.T) {
	got, err := ParseJobStatus("processing")
	require.NoError(t, err)
	assert.Equal(t, JobStatusProcessing, got)

	_, err = ParseJobStatus("running")
	assert.Error(t, err)
}

func TestJobStatusJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(JobStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, `"completed"`, string(data))

	var s JobStatus
	require.NoError(t, json.Unmarshal([]byte(`"failed"`), &s))
	assert.Equal(t, JobStatusFailed, s)

	assert.Error(t, json.Unmarshal([]byte(`"exploded"`), &s))
}
