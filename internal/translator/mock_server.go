// SPDX-License-Identifier: MIT

package translator

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// MockServer is a configurable translation-service double for tests. Job
// state is scripted: each poll of a job consumes the next entry of its
// script and the last entry repeats forever.
type MockServer struct {
	*httptest.Server
	mu       sync.Mutex
	scripts  map[string][]Job
	cursor   map[string]int
	langs    languagesResponse
	delay    map[string]time.Duration // artificial delay per endpoint
	failures map[string]int           // 500s to serve before success per endpoint
	uploads  int
	polls    map[string]int
}

// NewMockServer creates a mock service with default data.
func NewMockServer() *MockServer {
	m := &MockServer{
		scripts:  make(map[string][]Job),
		cursor:   make(map[string]int),
		delay:    make(map[string]time.Duration),
		failures: make(map[string]int),
		polls:    make(map[string]int),
	}
	m.langs = languagesResponse{
		Languages: []string{"en", "hi", "fr", "es", "de", "ta"},
		Options: []LanguageOption{
			{Code: "de", Label: "German"},
			{Code: "en", Label: "English"},
			{Code: "es", Label: "Spanish"},
			{Code: "fr", Label: "French"},
			{Code: "hi", Label: "Hindi"},
			{Code: "ta", Label: "Tamil"},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/mock-login", m.handleLogin)
	mux.HandleFunc("GET /languages", m.handleLanguages)
	mux.HandleFunc("POST /upload", m.handleUpload)
	mux.HandleFunc("GET /jobs/{id}", m.handleJobStatus)
	mux.HandleFunc("GET /dashboard/{id}", m.handleDashboard)
	mux.HandleFunc("GET /download/{id}", m.handleArtifact)
	mux.HandleFunc("GET /preview/{id}", m.handleArtifact)
	mux.HandleFunc("GET /subtitles/{file}", m.handleSubtitles)

	m.Server = httptest.NewServer(mux)
	return m
}

// ScriptJob registers the poll-by-poll states a job moves through.
func (m *MockServer) ScriptJob(jobID string, states []Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts[jobID] = states
	m.cursor[jobID] = 0
}

// SetLegacyLanguages makes /languages return bare codes only.
func (m *MockServer) SetLegacyLanguages(codes []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.langs = languagesResponse{Languages: codes}
}

// FailNext makes the given endpoint return 500 for the next n requests.
func (m *MockServer) FailNext(endpoint string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[endpoint] = n
}

// SetDelay adds an artificial delay to an endpoint.
func (m *MockServer) SetDelay(endpoint string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay[endpoint] = d
}

// PollCount reports how many status requests a job has received.
func (m *MockServer) PollCount(jobID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.polls[jobID]
}

// Uploads reports how many upload requests were received.
func (m *MockServer) Uploads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uploads
}

// gate applies delay/failure injection; returns false if the request was
// answered with an error.
func (m *MockServer) gate(w http.ResponseWriter, endpoint string) bool {
	m.mu.Lock()
	d := m.delay[endpoint]
	fail := m.failures[endpoint] > 0
	if fail {
		m.failures[endpoint]--
	}
	m.mu.Unlock()

	if d > 0 {
		time.Sleep(d)
	}
	if fail {
		http.Error(w, "injected failure", http.StatusInternalServerError)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (m *MockServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !m.gate(w, "login") {
		return
	}
	var req struct {
		Email string `json:"email"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	writeJSON(w, LoginResult{Token: "mock-token", UserID: "user-" + req.Email})
}

func (m *MockServer) handleLanguages(w http.ResponseWriter, _ *http.Request) {
	if !m.gate(w, "languages") {
		return
	}
	m.mu.Lock()
	langs := m.langs
	m.mu.Unlock()
	writeJSON(w, langs)
}

func (m *MockServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	if !m.gate(w, "upload") {
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "bad multipart", http.StatusBadRequest)
		return
	}
	if r.FormValue("target_language") == "" {
		http.Error(w, "missing target_language", http.StatusBadRequest)
		return
	}
	m.mu.Lock()
	m.uploads++
	m.mu.Unlock()
	writeJSON(w, UploadResult{JobID: "abc123", Message: "Upload received. Processing started."})
}

func (m *MockServer) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	if !m.gate(w, "job_status") {
		return
	}
	jobID := r.PathValue("id")

	m.mu.Lock()
	script, ok := m.scripts[jobID]
	if !ok || len(script) == 0 {
		m.mu.Unlock()
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}
	m.polls[jobID]++
	i := m.cursor[jobID]
	if i < len(script)-1 {
		m.cursor[jobID] = i + 1
	}
	state := script[i]
	m.mu.Unlock()

	writeJSON(w, jobStatusResponse{
		JobID:    jobID,
		Status:   state.Status.String(),
		Progress: float64(state.Progress),
		Message:  state.Message,
	})
}

func (m *MockServer) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !m.gate(w, "dashboard") {
		return
	}
	writeJSON(w, DashboardData{
		TotalVideos:  2,
		TotalWords:   84,
		TotalTimeSec: 20,
		History: []JobSummary{
			{JobID: "abc123", TargetLanguage: "hi", DurationSec: 10, Words: 42, Status: "completed", CreatedAt: "2026-08-01T12:00:00Z"},
			{JobID: "def456", TargetLanguage: "fr", DurationSec: 10, Words: 42, Status: "completed", CreatedAt: "2026-08-02T12:00:00Z"},
		},
	})
}

func (m *MockServer) handleArtifact(w http.ResponseWriter, r *http.Request) {
	if !m.gate(w, "artifact") {
		return
	}
	w.Header().Set("Content-Type", "video/mp4")
	_, _ = w.Write([]byte("MOCK_MP4 " + r.PathValue("id")))
}

func (m *MockServer) handleSubtitles(w http.ResponseWriter, r *http.Request) {
	if !m.gate(w, "subtitles") {
		return
	}
	file := r.PathValue("file")
	switch {
	case strings.HasSuffix(file, ".srt"):
		w.Header().Set("Content-Type", "application/x-subrip")
		_, _ = w.Write([]byte("1\n00:00:00,000 --> 00:00:02,000\nMock subtitle for " + strings.TrimSuffix(file, ".srt") + "\n"))
	case strings.HasSuffix(file, ".vtt"):
		w.Header().Set("Content-Type", "text/vtt")
		_, _ = w.Write([]byte("WEBVTT\n\n00:00.000 --> 00:02.000\nMock subtitle for " + strings.TrimSuffix(file, ".vtt") + "\n"))
	default:
		http.Error(w, "unknown subtitle format", http.StatusNotFound)
	}
}
