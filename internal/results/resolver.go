// SPDX-License-Identifier: MIT

// Package results turns a finished job into artifact references and fetches
// them to disk. Resolution is a pure mapping; nothing here talks to the
// service except the downloader.
package results

import (
	"net/url"
	"strings"

	"github.com/vtx/vtx/internal/translator"
	"github.com/vtx/vtx/internal/types"
)

// Refs are the artifact locations for a completed job.
type Refs struct {
	JobID          string
	PreviewURL     string
	DownloadURL    string
	SubtitleSRTURL string
	SubtitleVTTURL string
}

// Resolve maps a job id onto its artifact URLs under the service base.
func Resolve(base, jobID string) Refs {
	base = strings.TrimRight(base, "/")
	id := url.PathEscape(jobID)
	return Refs{
		JobID:          jobID,
		PreviewURL:     base + "/preview/" + id,
		DownloadURL:    base + "/download/" + id,
		SubtitleSRTURL: base + "/subtitles/" + id + ".srt",
		SubtitleVTTURL: base + "/subtitles/" + id + ".vtt",
	}
}

// Outcome is the resolved view of a terminal job: artifact refs on success,
// the server's last message on failure.
type Outcome struct {
	Job            translator.Job
	Refs           Refs
	FailureMessage string
}

// Completed reports whether the outcome carries usable artifacts.
func (o Outcome) Completed() bool { return o.Job.Status == types.JobStatusCompleted }

// FromJob resolves a terminal job observation. A failed job keeps its message
// and gets no refs; there is nothing to retry or clean up on the client side.
func FromJob(base string, job translator.Job) Outcome {
	o := Outcome{Job: job}
	switch job.Status {
	case types.JobStatusCompleted:
		o.Refs = Resolve(base, job.JobID)
	case types.JobStatusFailed:
		o.FailureMessage = job.Message
		if o.FailureMessage == "" {
			o.FailureMessage = "Translation failed"
		}
	}
	return o
}
