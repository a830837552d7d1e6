// SPDX-License-Identifier: MIT

package translator

import (
	"math"

	"github.com/vtx/vtx/internal/types"
)

// Job is the wire representation of a translation job's observable state.
type Job struct {
	JobID    string          `json:"job_id"`
	Status   types.JobStatus `json:"status"`
	Progress int             `json:"-"`
	Message  string          `json:"message,omitempty"`
}

// LoginResult carries the mock-login response.
type LoginResult struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

// UploadResult carries the upload response.
type UploadResult struct {
	JobID   string `json:"job_id"`
	Message string `json:"message"`
}

// LanguageOption is a selectable target language.
type LanguageOption struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// JobSummary is one dashboard history entry.
type JobSummary struct {
	JobID          string `json:"job_id"`
	TargetLanguage string `json:"target_language"`
	CreatedAt      string `json:"created_at"`
	DurationSec    int    `json:"duration_sec"`
	Words          int    `json:"words"`
	Status         string `json:"status"`
}

// DashboardData is the aggregated account view returned by the service.
type DashboardData struct {
	TotalVideos  int          `json:"total_videos"`
	TotalWords   int          `json:"total_words"`
	TotalTimeSec int          `json:"total_time_sec"`
	History      []JobSummary `json:"history"`
}

// UploadRequest describes a submission. Media is validated by the caller
// before a request is constructed; the request itself is consumed once and
// not retained.
type UploadRequest struct {
	FileName       string
	ContentType    string
	TargetLanguage string
	UserID         string

	// VoiceSampleName is empty when no voice sample accompanies the upload.
	VoiceSampleName        string
	VoiceSampleContentType string
}

// normalizeProgress converts a reported progress number to an integer
// percentage. Older service builds report a 0..1 fraction; anything with a
// fractional component at or below 1.0 is scaled up. A bare 1.0 is ambiguous:
// legacy builds emit it only alongside a terminal status, so it reads as done
// there and as one percent on a live job.
func normalizeProgress(p float64, terminal bool) int {
	if p <= 1.0 && p != math.Trunc(p) {
		p *= 100
	} else if p == 1.0 && terminal {
		p = 100
	}
	n := int(math.Round(p))
	if n < 0 {
		n = 0
	}
	if n > 100 {
		n = 100
	}
	return n
}

// jobStatusResponse mirrors the /jobs/{id} payload before normalization.
type jobStatusResponse struct {
	JobID    string  `json:"job_id"`
	Status   string  `json:"status"`
	Progress float64 `json:"progress"`
	Message  string  `json:"message"`
}

// languagesResponse mirrors the /languages payload. Options may be absent on
// legacy builds that return bare codes only.
type languagesResponse struct {
	Languages []string         `json:"languages"`
	Options   []LanguageOption `json:"options"`
}
