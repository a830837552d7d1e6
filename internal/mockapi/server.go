// SPDX-License-Identifier: MIT

// Package mockapi is a self-contained stand-in for the translation backend.
// Uploads create jobs that a background goroutine advances through a fixed
// processing timeline; everything else serves canned but consistent data.
// It backs local development (vtx serve-mock) and integration tests.
package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vtx/vtx/internal/log"
	"github.com/vtx/vtx/internal/types"
)

// Options tunes the simulation.
type Options struct {
	// AdvanceInterval is the time a job spends on each timeline stage.
	AdvanceInterval time.Duration

	// RateLimit is requests per window per client IP; zero disables limiting.
	RateLimit int
	Window    time.Duration
}

// DefaultOptions paces jobs so a full run takes about ten seconds.
func DefaultOptions() Options {
	return Options{
		AdvanceInterval: 2 * time.Second,
		RateLimit:       120,
		Window:          time.Minute,
	}
}

// Server simulates the translation service.
type Server struct {
	opts   Options
	logger zerolog.Logger

	mu   sync.Mutex
	jobs map[string]*simJob

	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group
}

// NewServer creates a simulation. Close must be called to stop job goroutines.
func NewServer(opts Options) *Server {
	if opts.AdvanceInterval <= 0 {
		opts.AdvanceInterval = DefaultOptions().AdvanceInterval
	}
	if opts.Window <= 0 {
		opts.Window = time.Minute
	}
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	return &Server{
		opts:   opts,
		logger: log.WithComponent("mockapi"),
		jobs:   make(map[string]*simJob),
		ctx:    ctx,
		cancel: cancel,
		group:  g,
	}
}

// Close stops all running job simulations and waits for them to exit.
func (s *Server) Close() error {
	s.cancel()
	err := s.group.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Router builds the HTTP surface.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(s.requestLogger)
	if s.opts.RateLimit > 0 {
		r.Use(httprate.Limit(
			s.opts.RateLimit,
			s.opts.Window,
			httprate.WithKeyFuncs(httprate.KeyByIP),
		))
	}

	r.Post("/auth/mock-login", s.handleLogin)
	r.Get("/languages", s.handleLanguages)
	r.Post("/upload", s.handleUpload)
	r.Get("/jobs/{id}", s.handleJobStatus)
	r.Get("/dashboard/{userID}", s.handleDashboard)
	r.Get("/preview/{id}", s.handlePreview)
	r.Get("/download/{id}", s.handleDownload)
	r.Get("/subtitles/{file}", s.handleSubtitles)
	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug().
			Str("event", "http.request").
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"token":   "mock-" + uuid.NewString(),
		"user_id": "user-" + req.Email,
	})
}

var languageOptions = []map[string]string{
	{"code": "en", "label": "English"},
	{"code": "hi", "label": "Hindi"},
	{"code": "ta", "label": "Tamil"},
	{"code": "te", "label": "Telugu"},
	{"code": "fr", "label": "French"},
	{"code": "es", "label": "Spanish"},
	{"code": "de", "label": "German"},
	{"code": "ja", "label": "Japanese"},
}

func (s *Server) handleLanguages(w http.ResponseWriter, _ *http.Request) {
	codes := make([]string, len(languageOptions))
	for i, o := range languageOptions {
		codes[i] = o["code"]
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"languages": codes,
		"options":   languageOptions,
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	_ = file.Close()

	target := r.FormValue("target_language")
	if target == "" {
		writeError(w, http.StatusBadRequest, "target_language is required")
		return
	}
	userID := r.FormValue("user_id")
	if userID == "" {
		userID = "guest-" + uuid.NewString()
	}
	_, _, voiceErr := r.FormFile("voice_sample")

	job := &simJob{
		ID:             uuid.NewString(),
		UserID:         userID,
		TargetLanguage: target,
		FileName:       header.Filename,
		HasVoiceSample: voiceErr == nil,
		CreatedAt:      time.Now().UTC(),
		status:         types.JobStatusQueued,
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	s.group.Go(func() error {
		return job.run(s.ctx, s.opts.AdvanceInterval)
	})

	s.logger.Info().
		Str("event", "job.created").
		Str("job_id", job.ID).
		Str("target_language", target).
		Bool("voice_sample", job.HasVoiceSample).
		Msg("upload accepted")

	writeJSON(w, http.StatusOK, map[string]string{
		"job_id":  job.ID,
		"message": "Upload received. Processing started.",
	})
}

func (s *Server) job(id string) *simJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job := s.job(chi.URLParam(r, "id"))
	if job == nil {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}
	status, progress, message := job.snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"job_id":   job.ID,
		"status":   status.String(),
		"progress": progress,
		"message":  message,
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	s.mu.Lock()
	var userJobs []*simJob
	for _, j := range s.jobs {
		if j.UserID == userID {
			userJobs = append(userJobs, j)
		}
	}
	s.mu.Unlock()

	// Simulated durations and word counts stay stable per job.
	history := make([]map[string]any, 0, len(userJobs))
	totalWords, totalTime := 0, 0
	for _, j := range userJobs {
		status, _, _ := j.snapshot()
		duration := int(s.opts.AdvanceInterval.Seconds()) * len(schedule)
		words := 42
		totalWords += words
		totalTime += duration
		history = append(history, map[string]any{
			"job_id":          j.ID,
			"target_language": j.TargetLanguage,
			"created_at":      j.CreatedAt.Format(time.RFC3339),
			"duration_sec":    duration,
			"words":           words,
			"status":          status.String(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_videos":   len(userJobs),
		"total_words":    totalWords,
		"total_time_sec": totalTime,
		"history":        history,
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	s.serveVideo(w, chi.URLParam(r, "id"), "preview")
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	s.serveVideo(w, chi.URLParam(r, "id"), "translated")
}

func (s *Server) serveVideo(w http.ResponseWriter, id, variant string) {
	if s.job(id) == nil {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}
	w.Header().Set("Content-Type", "video/mp4")
	fmt.Fprintf(w, "MOCK_MP4 %s %s", variant, id)
}

func (s *Server) handleSubtitles(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	switch {
	case strings.HasSuffix(file, ".srt"):
		id := strings.TrimSuffix(file, ".srt")
		if s.job(id) == nil {
			writeError(w, http.StatusNotFound, "Job not found")
			return
		}
		w.Header().Set("Content-Type", "application/x-subrip")
		fmt.Fprintf(w, "1\n00:00:00,000 --> 00:00:02,500\nTranslated subtitle for %s\n", id)
	case strings.HasSuffix(file, ".vtt"):
		id := strings.TrimSuffix(file, ".vtt")
		if s.job(id) == nil {
			writeError(w, http.StatusNotFound, "Job not found")
			return
		}
		w.Header().Set("Content-Type", "text/vtt")
		fmt.Fprintf(w, "WEBVTT\n\n00:00.000 --> 00:02.500\nTranslated subtitle for %s\n", id)
	default:
		writeError(w, http.StatusNotFound, "unknown subtitle format")
	}
}
