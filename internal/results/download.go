// SPDX-License-Identifier: MIT

package results

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"

	"github.com/vtx/vtx/internal/log"
	"github.com/vtx/vtx/internal/metrics"
)

// Kind names an artifact for file naming and metrics.
type Kind string

const (
	KindPreview Kind = "preview"
	KindVideo   Kind = "video"
	KindSRT     Kind = "srt"
	KindVTT     Kind = "vtt"
)

func (k Kind) filename(jobID string) string {
	switch k {
	case KindPreview:
		return jobID + "_preview.mp4"
	case KindVideo:
		return jobID + "_translated.mp4"
	case KindSRT:
		return jobID + ".srt"
	case KindVTT:
		return jobID + ".vtt"
	}
	return jobID + ".bin"
}

// Fetcher streams an artifact from a resolved URL.
type Fetcher interface {
	FetchArtifact(ctx context.Context, artifactURL string) (io.ReadCloser, error)
}

// Downloader writes artifacts to disk. Files appear atomically: a partial
// fetch never leaves a truncated file at the destination path.
type Downloader struct {
	Fetcher Fetcher
	Logger  zerolog.Logger
}

// NewDownloader wraps a fetcher, typically the translator client.
func NewDownloader(f Fetcher) *Downloader {
	return &Downloader{Fetcher: f, Logger: log.WithComponent("results")}
}

// Download fetches one artifact into dir and returns the written path.
func (d *Downloader) Download(ctx context.Context, artifactURL string, kind Kind, jobID, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}
	dest := filepath.Join(dir, kind.filename(jobID))

	body, err := d.Fetcher.FetchArtifact(ctx, artifactURL)
	if err != nil {
		metrics.ArtifactDownloadsTotal.WithLabelValues(string(kind), "error").Inc()
		return "", err
	}
	defer func() { _ = body.Close() }()

	pf, err := renameio.TempFile(dir, dest)
	if err != nil {
		metrics.ArtifactDownloadsTotal.WithLabelValues(string(kind), "error").Inc()
		return "", fmt.Errorf("stage artifact: %w", err)
	}
	defer func() { _ = pf.Cleanup() }()

	n, err := io.Copy(pf, body)
	if err != nil {
		metrics.ArtifactDownloadsTotal.WithLabelValues(string(kind), "error").Inc()
		return "", fmt.Errorf("fetch artifact body: %w", err)
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		metrics.ArtifactDownloadsTotal.WithLabelValues(string(kind), "error").Inc()
		return "", fmt.Errorf("finalize artifact: %w", err)
	}

	metrics.ArtifactDownloadsTotal.WithLabelValues(string(kind), "ok").Inc()
	d.Logger.Info().
		Str("event", "artifact.downloaded").
		Str("kind", string(kind)).
		Str("path", dest).
		Int64("bytes", n).
		Msg("artifact written")
	return dest, nil
}

// DownloadAll fetches the full artifact set for completed refs. It stops at
// the first failure and returns the paths written so far.
func (d *Downloader) DownloadAll(ctx context.Context, refs Refs, dir string) (map[Kind]string, error) {
	targets := []struct {
		kind Kind
		url  string
	}{
		{KindVideo, refs.DownloadURL},
		{KindPreview, refs.PreviewURL},
		{KindSRT, refs.SubtitleSRTURL},
		{KindVTT, refs.SubtitleVTTURL},
	}

	paths := make(map[Kind]string, len(targets))
	for _, t := range targets {
		p, err := d.Download(ctx, t.url, t.kind, refs.JobID, dir)
		if err != nil {
			return paths, fmt.Errorf("download %s: %w", t.kind, err)
		}
		paths[t.kind] = p
	}
	return paths, nil
}
