// SPDX-License-Identifier: MIT

// Package types provides type-safe enumerations and constants for vtx.
package types

import (
	"encoding/json"
	"fmt"
)

// JobStatus represents the current state of a translation job as reported by
// the service.
type JobStatus string

// Job status constants define all possible states of a translation job.
const (
	// JobStatusQueued indicates the job is accepted but not yet started.
	JobStatusQueued JobStatus = "queued"

	// JobStatusProcessing indicates the job is currently being translated.
	JobStatusProcessing JobStatus = "processing"

	// JobStatusCompleted indicates the job finished successfully.
	JobStatusCompleted JobStatus = "completed"

	// JobStatusFailed indicates the job encountered an error and terminated.
	JobStatusFailed JobStatus = "failed"
)

// String returns the string representation of the job status.
func (s JobStatus) String() string {
	return string(s)
}

// IsValid checks whether the job status is one of the defined constants.
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusQueued, JobStatusProcessing, JobStatusCompleted, JobStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal checks whether the job status represents a final state.
// A job in a terminal state will not transition to another state.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// CanTransitionTo checks whether this status can transition to the target
// status. The service may skip Processing entirely (Queued → Completed or
// Queued → Failed), so any move out of a non-terminal state into a later
// state is allowed; only exits from terminal states are rejected.
func (s JobStatus) CanTransitionTo(target JobStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if !target.IsValid() {
		return false
	}

	switch s {
	case JobStatusQueued:
		return target != JobStatusQueued
	case JobStatusProcessing:
		return target == JobStatusCompleted || target == JobStatusFailed
	default:
		return false
	}
}

// MarshalJSON implements json.Marshaler for JobStatus.
func (s JobStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// UnmarshalJSON implements json.Unmarshaler for JobStatus.
func (s *JobStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	status := JobStatus(str)
	if !status.IsValid() {
		return fmt.Errorf("invalid job status: %q", str)
	}

	*s = status
	return nil
}

// ParseJobStatus parses a string into a JobStatus, returning an error if invalid.
func ParseJobStatus(s string) (JobStatus, error) {
	status := JobStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid job status: %q (valid: queued, processing, completed, failed)", s)
	}
	return status, nil
}

// AllJobStatuses returns all defined job statuses.
func AllJobStatuses() []JobStatus {
	return []JobStatus{
		JobStatusQueued,
		JobStatusProcessing,
		JobStatusCompleted,
		JobStatusFailed,
	}
}
