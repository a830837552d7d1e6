// SPDX-License-Identifier: MIT

package results

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vtx/vtx/internal/translator"
	"github.com/vtx/vtx/internal/types"
)

func TestResolve(t *testing.T) {
	refs := Resolve("http://localhost:8000/", "abc123")
	assert.Equal(t, "abc123", refs.JobID)
	assert.Equal(t, "http://localhost:8000/preview/abc123", refs.PreviewURL)
	assert.Equal(t, "http://localhost:8000/download/abc123", refs.DownloadURL)
	assert.Equal(t, "http://localhost:8000/subtitles/abc123.srt", refs.SubtitleSRTURL)
	assert.Equal(t, "http://localhost:8000/subtitles/abc123.vtt", refs.SubtitleVTTURL)
}

func TestResolveEscapesJobID(t *testing.T) {
	refs := Resolve("http://localhost:8000", "a/b c")
	assert.Equal(t, "http://localhost:8000/download/a%2Fb%20c", refs.DownloadURL)
}

func TestFromJobCompleted(t *testing.T) {
	o := FromJob("http://svc", translator.Job{
		JobID:  "abc123",
		Status: types.JobStatusCompleted,
	})
	assert.True(t, o.Completed())
	assert.Empty(t, o.FailureMessage)
	assert.Equal(t, "http://svc/preview/abc123", o.Refs.PreviewURL)
}

func TestFromJobFailedKeepsMessage(t *testing.T) {
	o := FromJob("http://svc", translator.Job{
		JobID:   "abc123",
		Status:  types.JobStatusFailed,
		Message: "Voice synthesis failed",
	})
	assert.False(t, o.Completed())
	assert.Equal(t, "Voice synthesis failed", o.FailureMessage)
	assert.Empty(t, o.Refs.DownloadURL)
}

func TestFromJobFailedWithoutMessage(t *testing.T) {
	o := FromJob("http://svc", translator.Job{JobID: "x", Status: types.JobStatusFailed})
	assert.Equal(t, "Translation failed", o.FailureMessage)
}

func TestFromJobNonTerminal(t *testing.T) {
	o := FromJob("http://svc", translator.Job{JobID: "x", Status: types.JobStatusProcessing})
	assert.False(t, o.Completed())
	assert.Empty(t, o.Refs.DownloadURL)
	assert.Empty(t, o.FailureMessage)
}
