// SPDX-License-Identifier: MIT

// Package metrics provides Prometheus metrics for vtx.
//
// Labels stay low-cardinality: endpoint, outcome, status. Job and user ids
// never appear as label values.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal counts outbound API requests by endpoint and outcome.
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vtx_api_requests_total",
		Help: "Total number of API requests, by endpoint and outcome (ok/error).",
	}, []string{"endpoint", "outcome"})

	// UploadsTotal counts submission attempts by result.
	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vtx_uploads_total",
		Help: "Total number of upload submissions, by result (accepted/rejected/transport_error).",
	}, []string{"result"})

	// ValidationRejectsTotal counts local validation failures by violation.
	ValidationRejectsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vtx_validation_rejects_total",
		Help: "Total number of media files rejected before upload, by violation.",
	}, []string{"violation"})

	// PollTicksTotal counts poll ticks by observed status.
	PollTicksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vtx_poll_ticks_total",
		Help: "Total number of poll ticks, by observed job status or error.",
	}, []string{"status"})

	// WatchesActive tracks the number of watch sessions currently polling.
	WatchesActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vtx_watches_active",
		Help: "Current number of active watch sessions.",
	})

	// WatchDurationSeconds observes the wall-clock length of finished watches.
	WatchDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vtx_watch_duration_seconds",
		Help:    "Duration of watch sessions from start to terminal state, by outcome.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"outcome"})

	// ArtifactDownloadsTotal counts artifact downloads by artifact kind and outcome.
	ArtifactDownloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vtx_artifact_downloads_total",
		Help: "Total number of artifact downloads, by kind (preview/video/srt/vtt) and outcome.",
	}, []string{"kind", "outcome"})
)
