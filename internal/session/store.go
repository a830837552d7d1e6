// SPDX-License-Identifier: MIT

// Package session persists the small client-side state: the auth session and
// one metadata record per submitted job. There is exactly one writer per job
// id (the submitter), so the stores need no coordination beyond their own
// transactional guarantees.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no record exists for the requested key.
var ErrNotFound = errors.New("session: not found")

// Session is the authenticated identity returned by login.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

// JobMeta is the per-job record written once at submission time and read at
// result-display time. The quality metrics are canned display values, not
// measurements.
type JobMeta struct {
	JobID             string    `json:"job_id"`
	TargetLanguage    string    `json:"target_language"`
	SourceLanguage    string    `json:"source_language"`
	ProcessingTime    string    `json:"processing_time"`
	Accuracy          string    `json:"accuracy"`
	LipSyncConfidence string    `json:"lip_sync_confidence"`
	SubtitleCount     string    `json:"subtitle_count"`
	VoiceMatch        string    `json:"voice_match"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewJobMeta builds the submission-time record. Source language is assumed
// English; the voice match figure is higher when a voice sample was provided.
func NewJobMeta(jobID, targetLanguage string, hasVoiceSample bool, now time.Time) JobMeta {
	voiceMatch := "89%"
	if hasVoiceSample {
		voiceMatch = "94%"
	}
	return JobMeta{
		JobID:             jobID,
		TargetLanguage:    targetLanguage,
		SourceLanguage:    "en",
		ProcessingTime:    "2:18",
		Accuracy:          "98%",
		LipSyncConfidence: "96%",
		SubtitleCount:     "247",
		VoiceMatch:        voiceMatch,
		CreatedAt:         now,
	}
}

// Store is the persisted client-side key-value state.
type Store interface {
	PutSession(ctx context.Context, s Session) error
	GetSession(ctx context.Context) (Session, error)
	DeleteSession(ctx context.Context) error

	PutJobMeta(ctx context.Context, meta JobMeta) error
	GetJobMeta(ctx context.Context, jobID string) (JobMeta, error)

	Close() error
}

const (
	sessionKey    = "session"
	jobMetaPrefix = "jobmeta:"
)
