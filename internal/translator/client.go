// SPDX-License-Identifier: MIT

// Package translator is the HTTP client for the video-translation service.
// The service is an opaque collaborator: the client validates nothing about
// the media it forwards beyond what the local validator already enforced.
package translator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/vtx/vtx/internal/metrics"
	"github.com/vtx/vtx/internal/types"
)

// Client talks to the translation service.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout overrides the per-request timeout (default 30s).
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying http.Client entirely.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the service at base.
func New(base string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.base }

func (c *Client) do(ctx context.Context, op string, req *http.Request) (*http.Response, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	res, err := c.http.Do(req.WithContext(ctx))
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(op, "error").Inc()
		return nil, &APIError{Sentinel: ErrUnavailable, Operation: op, Err: err}
	}
	if sentinel := sentinelForStatus(res.StatusCode); sentinel != nil {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		_ = res.Body.Close()
		metrics.APIRequestsTotal.WithLabelValues(op, "error").Inc()
		return nil, &APIError{
			Sentinel:  sentinel,
			Operation: op,
			Status:    res.StatusCode,
			Body:      strings.TrimSpace(string(body)),
		}
	}
	metrics.APIRequestsTotal.WithLabelValues(op, "ok").Inc()
	return res, nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return &APIError{Sentinel: ErrBadRequest, Operation: op, Err: err}
	}
	res, err := c.do(ctx, op, req)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &APIError{Sentinel: ErrBadResponse, Operation: op, Err: err}
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, op, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return &APIError{Sentinel: ErrBadRequest, Operation: op, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, strings.NewReader(string(body)))
	if err != nil {
		return &APIError{Sentinel: ErrBadRequest, Operation: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.do(ctx, op, req)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &APIError{Sentinel: ErrBadResponse, Operation: op, Err: err}
	}
	return nil
}

// Login authenticates against the mock-login endpoint.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out LoginResult
	in := map[string]string{"email": email, "password": password}
	if err := c.postJSON(ctx, "login", "/auth/mock-login", in, &out); err != nil {
		return LoginResult{}, err
	}
	return out, nil
}

// Languages lists the selectable target languages. Legacy builds return bare
// codes; those are normalized into options with a display label.
func (c *Client) Languages(ctx context.Context) ([]LanguageOption, error) {
	var resp languagesResponse
	if err := c.getJSON(ctx, "languages", "/languages", &resp); err != nil {
		return nil, err
	}
	if len(resp.Options) > 0 {
		return resp.Options, nil
	}
	return normalizeLanguageCodes(resp.Languages), nil
}

// Upload submits a translation request. media is the validated main file;
// voiceSample may be nil.
func (c *Client) Upload(ctx context.Context, req UploadRequest, media io.Reader, voiceSample io.Reader) (UploadResult, error) {
	const op = "upload"

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeUploadForm(mw, req, media, voiceSample)
		if cerr := mw.Close(); err == nil {
			err = cerr
		}
		_ = pw.CloseWithError(err)
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/upload", pr)
	if err != nil {
		return UploadResult{}, &APIError{Sentinel: ErrBadRequest, Operation: op, Err: err}
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	res, err := c.do(ctx, op, httpReq)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			metrics.UploadsTotal.WithLabelValues("transport_error").Inc()
		} else {
			metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		}
		return UploadResult{}, err
	}
	defer func() { _ = res.Body.Close() }()

	var out UploadResult
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return UploadResult{}, &APIError{Sentinel: ErrBadResponse, Operation: op, Err: err}
	}
	if out.JobID == "" {
		return UploadResult{}, &APIError{Sentinel: ErrBadResponse, Operation: op, Err: fmt.Errorf("missing job_id")}
	}
	metrics.UploadsTotal.WithLabelValues("accepted").Inc()
	return out, nil
}

func writeUploadForm(mw *multipart.Writer, req UploadRequest, media, voiceSample io.Reader) error {
	part, err := createFormFile(mw, "file", req.FileName, req.ContentType)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, media); err != nil {
		return err
	}
	if err := mw.WriteField("target_language", req.TargetLanguage); err != nil {
		return err
	}
	if err := mw.WriteField("user_id", req.UserID); err != nil {
		return err
	}
	if voiceSample != nil {
		vp, err := createFormFile(mw, "voice_sample", req.VoiceSampleName, req.VoiceSampleContentType)
		if err != nil {
			return err
		}
		if _, err := io.Copy(vp, voiceSample); err != nil {
			return err
		}
	}
	return nil
}

func createFormFile(mw *multipart.Writer, field, filename, contentType string) (io.Writer, error) {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return mw.CreatePart(h)
}

// JobStatus fetches the current observable state of a job.
func (c *Client) JobStatus(ctx context.Context, jobID string) (Job, error) {
	var resp jobStatusResponse
	if err := c.getJSON(ctx, "job_status", "/jobs/"+url.PathEscape(jobID), &resp); err != nil {
		return Job{}, err
	}

	status, err := types.ParseJobStatus(resp.Status)
	if err != nil {
		return Job{}, &APIError{Sentinel: ErrBadResponse, Operation: "job_status", Err: err}
	}
	return Job{
		JobID:    resp.JobID,
		Status:   status,
		Progress: normalizeProgress(resp.Progress, status.IsTerminal()),
		Message:  resp.Message,
	}, nil
}

// Dashboard fetches the aggregated account view for a user.
func (c *Client) Dashboard(ctx context.Context, userID string) (DashboardData, error) {
	var out DashboardData
	if err := c.getJSON(ctx, "dashboard", "/dashboard/"+url.PathEscape(userID), &out); err != nil {
		return DashboardData{}, err
	}
	return out, nil
}

// FetchArtifact streams an artifact from a resolver-produced URL. The caller
// must close the returned reader.
func (c *Client) FetchArtifact(ctx context.Context, artifactURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artifactURL, nil)
	if err != nil {
		return nil, &APIError{Sentinel: ErrBadRequest, Operation: "artifact", Err: err}
	}
	res, err := c.do(ctx, "artifact", req)
	if err != nil {
		return nil, err
	}
	return res.Body, nil
}
