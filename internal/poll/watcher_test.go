// SPDX-License-Identifier: MIT

package poll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vtx/vtx/internal/translator"
	"github.com/vtx/vtx/internal/types"
)

func testConfig() Config {
	return Config{
		Interval:               5 * time.Millisecond,
		ActivityInterval:       time.Hour, // keep cosmetic lines out unless a test wants them
		Timeout:                5 * time.Second,
		CompletionDelay:        5 * time.Millisecond,
		LogBuffer:              8,
		MaxConsecutiveFailures: 10,
	}
}

// drain collects updates until the session finishes and returns the result.
func drain(t *testing.T, s *Session) ([]Update, Result) {
	t.Helper()
	var updates []Update
	for {
		select {
		case u := <-s.Updates():
			updates = append(updates, u)
		case res, ok := <-s.Done():
			require.True(t, ok, "done channel closed without a result")
			return updates, res
		case <-time.After(5 * time.Second):
			t.Fatal("session did not finish")
		}
	}
}

func TestWatchCompletedJob(t *testing.T) {
	srv := translator.NewMockServer()
	defer srv.Close()
	srv.ScriptJob("abc123", []translator.Job{
		{Status: types.JobStatusQueued, Progress: 0},
		{Status: types.JobStatusProcessing, Progress: 10, Message: "working"},
		{Status: types.JobStatusProcessing, Progress: 45, Message: "working"},
		{Status: types.JobStatusProcessing, Progress: 85, Message: "working"},
		{Status: types.JobStatusCompleted, Progress: 100, Message: "done"},
	})

	w := NewWatcher(translator.New(srv.URL), testConfig())
	s := w.Watch(context.Background(), "abc123")

	updates, res := drain(t, s)
	require.NoError(t, res.Err)
	assert.Equal(t, types.JobStatusCompleted, res.Job.Status)
	assert.Equal(t, 100, res.Job.Progress)
	require.NotEmpty(t, updates)
	assert.Equal(t, types.Step(5), updates[len(updates)-1].Step)

	// The trailing window ends with every stage line and the completion line.
	logs := res.Logs
	require.GreaterOrEqual(t, len(logs), 6)
	assert.Equal(t, logCompleted, logs[len(logs)-1])
	assert.Equal(t, types.Steps[4].LogLine, logs[len(logs)-2])
	assert.Equal(t, types.Steps[3].LogLine, logs[len(logs)-3])
}

func TestWatchStopsPollingAfterTerminal(t *testing.T) {
	srv := translator.NewMockServer()
	defer srv.Close()
	srv.ScriptJob("abc123", []translator.Job{
		{Status: types.JobStatusProcessing, Progress: 50},
		{Status: types.JobStatusCompleted, Progress: 100},
	})

	w := NewWatcher(translator.New(srv.URL), testConfig())
	s := w.Watch(context.Background(), "abc123")
	_, res := drain(t, s)
	require.NoError(t, res.Err)

	polls := srv.PollCount("abc123")
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, polls, srv.PollCount("abc123"), "polling continued after terminal state")
}

func TestWatchFailedJobCarriesMessage(t *testing.T) {
	srv := translator.NewMockServer()
	defer srv.Close()
	srv.ScriptJob("abc123", []translator.Job{
		{Status: types.JobStatusProcessing, Progress: 30},
		{Status: types.JobStatusFailed, Progress: 30, Message: "Voice synthesis failed"},
	})

	w := NewWatcher(translator.New(srv.URL), testConfig())
	s := w.Watch(context.Background(), "abc123")
	_, res := drain(t, s)

	require.NoError(t, res.Err, "a failed job is a result, not a session error")
	assert.Equal(t, types.JobStatusFailed, res.Job.Status)
	assert.Equal(t, "Voice synthesis failed", res.Job.Message)
	require.NotEmpty(t, res.Logs)
	assert.Equal(t, logFailed, res.Logs[len(res.Logs)-1])
}

func TestWatchCancelStopsEverything(t *testing.T) {
	srv := translator.NewMockServer()
	defer srv.Close()
	srv.ScriptJob("abc123", []translator.Job{
		{Status: types.JobStatusProcessing, Progress: 30},
	})

	w := NewWatcher(translator.New(srv.URL), testConfig())
	s := w.Watch(context.Background(), "abc123")

	// Wait for at least one poll, then cancel.
	select {
	case <-s.Updates():
	case <-time.After(time.Second):
		t.Fatal("no update before cancel")
	}
	s.Cancel()

	var res Result
	select {
	case res = <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("cancel did not finish the session")
	}
	assert.ErrorIs(t, res.Err, context.Canceled)

	polls := srv.PollCount("abc123")
	logLen := len(res.Logs)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, polls, srv.PollCount("abc123"), "polling continued after cancel")
	assert.Equal(t, logLen, len(res.Logs))

	// Cancel is idempotent.
	s.Cancel()
}

func TestWatchStepNeverDecreases(t *testing.T) {
	srv := translator.NewMockServer()
	defer srv.Close()
	srv.ScriptJob("abc123", []translator.Job{
		{Status: types.JobStatusProcessing, Progress: 55},
		{Status: types.JobStatusProcessing, Progress: 25}, // stale, lower
		{Status: types.JobStatusCompleted, Progress: 100},
	})

	w := NewWatcher(translator.New(srv.URL), testConfig())
	s := w.Watch(context.Background(), "abc123")
	updates, res := drain(t, s)
	require.NoError(t, res.Err)

	var prevStep types.Step
	var prevProgress int
	for _, u := range updates {
		assert.GreaterOrEqual(t, u.Step, prevStep, "step regressed")
		assert.GreaterOrEqual(t, u.Job.Progress, prevProgress, "progress regressed")
		prevStep = u.Step
		prevProgress = u.Job.Progress
	}
}

func TestWatchActivityLinesWhileProcessing(t *testing.T) {
	srv := translator.NewMockServer()
	defer srv.Close()
	srv.ScriptJob("abc123", []translator.Job{
		{Status: types.JobStatusProcessing, Progress: 10},
	})

	cfg := testConfig()
	cfg.ActivityInterval = 10 * time.Millisecond
	w := NewWatcher(translator.New(srv.URL), cfg)
	w.Intn = func(int) int { return 2 }

	s := w.Watch(context.Background(), "abc123")
	defer s.Cancel()

	deadline := time.After(time.Second)
	for {
		select {
		case u := <-s.Updates():
			for _, line := range u.Logs {
				if line == activityLines[2] {
					s.Cancel()
					<-s.Done()
					return
				}
			}
		case <-deadline:
			t.Fatal("no activity line appeared")
		}
	}
}

func TestWatchRetriesTransportErrors(t *testing.T) {
	srv := translator.NewMockServer()
	defer srv.Close()
	srv.ScriptJob("abc123", []translator.Job{
		{Status: types.JobStatusProcessing, Progress: 50},
		{Status: types.JobStatusCompleted, Progress: 100},
	})
	srv.FailNext("job_status", 2)

	w := NewWatcher(translator.New(srv.URL), testConfig())
	s := w.Watch(context.Background(), "abc123")
	_, res := drain(t, s)

	require.NoError(t, res.Err, "transient errors should be retried")
	assert.Equal(t, types.JobStatusCompleted, res.Job.Status)
}

type doneClient struct{}

func (doneClient) JobStatus(context.Context, string) (translator.Job, error) {
	return translator.Job{Status: types.JobStatusCompleted, Progress: 100}, nil
}

func TestWatchCompletionDelayDefaultsAndUsesInjectedTimer(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cfg := testConfig()
	cfg.CompletionDelay = 0
	w := NewWatcher(doneClient{}, cfg)

	delays := make(chan time.Duration, 1)
	w.After = func(d time.Duration) <-chan time.Time {
		delays <- d
		ch := make(chan time.Time, 1)
		ch <- time.Now()
		return ch
	}

	s := w.Watch(context.Background(), "abc123")
	_, res := drain(t, s)
	require.NoError(t, res.Err)
	assert.Equal(t, types.JobStatusCompleted, res.Job.Status)

	select {
	case d := <-delays:
		assert.Equal(t, time.Second, d, "zero completion delay should fall back to the default")
	default:
		t.Fatal("completion delay did not go through the injected timer")
	}
}

type brokenClient struct{}

func (brokenClient) JobStatus(context.Context, string) (translator.Job, error) {
	return translator.Job{}, errors.New("dial tcp: connection refused")
}

func TestWatchAbortsAfterConsecutiveFailures(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cfg := testConfig()
	cfg.MaxConsecutiveFailures = 3
	w := NewWatcher(brokenClient{}, cfg)

	s := w.Watch(context.Background(), "abc123")
	_, res := drain(t, s)
	assert.ErrorIs(t, res.Err, ErrTooManyFailures)
}

type stuckClient struct{}

func (stuckClient) JobStatus(context.Context, string) (translator.Job, error) {
	return translator.Job{Status: types.JobStatusProcessing, Progress: 42}, nil
}

func TestWatchTimeout(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cfg := testConfig()
	cfg.Timeout = 40 * time.Millisecond
	w := NewWatcher(stuckClient{}, cfg)

	s := w.Watch(context.Background(), "abc123")
	_, res := drain(t, s)
	assert.ErrorIs(t, res.Err, ErrWatchTimeout)
	assert.Equal(t, types.JobStatusProcessing, res.Job.Status)
}

func TestWatchParentContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	w := NewWatcher(stuckClient{}, testConfig())

	s := w.Watch(ctx, "abc123")
	select {
	case <-s.Updates():
	case <-time.After(time.Second):
		t.Fatal("no update")
	}
	cancel()

	select {
	case res := <-s.Done():
		assert.ErrorIs(t, res.Err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("parent cancel did not finish the session")
	}
}
