// SPDX-License-Identifier: MIT

// Package poll owns the lifecycle of observing a translation job from
// submission to terminal state: the status poll loop, the derived step view,
// the bounded process log and teardown.
package poll

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"

	"github.com/vtx/vtx/internal/log"
	"github.com/vtx/vtx/internal/metrics"
	"github.com/vtx/vtx/internal/translator"
	"github.com/vtx/vtx/internal/types"
)

var (
	// ErrWatchTimeout means the overall watch deadline elapsed before the
	// job reached a terminal state.
	ErrWatchTimeout = errors.New("poll: watch timeout elapsed before terminal state")

	// ErrTooManyFailures means consecutive transport errors exceeded the
	// configured limit.
	ErrTooManyFailures = errors.New("poll: too many consecutive poll failures")
)

// Config tunes a watch session.
type Config struct {
	// Interval is the status poll cadence.
	Interval time.Duration

	// ActivityInterval is the cosmetic log cadence while processing.
	ActivityInterval time.Duration

	// Timeout bounds the whole session; zero means unbounded.
	Timeout time.Duration

	// CompletionDelay is how long after the terminal completed tick the
	// success signal fires. The UI uses it to reveal the completion view.
	CompletionDelay time.Duration

	// LogBuffer caps the visible process log; older entries are evicted.
	LogBuffer int

	// MaxConsecutiveFailures aborts the session after this many transport
	// errors in a row.
	MaxConsecutiveFailures int
}

// DefaultConfig mirrors the cadence of the status view.
func DefaultConfig() Config {
	return Config{
		Interval:               1200 * time.Millisecond,
		ActivityInterval:       4 * time.Second,
		Timeout:                30 * time.Minute,
		CompletionDelay:        time.Second,
		LogBuffer:              8,
		MaxConsecutiveFailures: 10,
	}
}

// StatusClient is the one service capability the watcher needs.
type StatusClient interface {
	JobStatus(ctx context.Context, jobID string) (translator.Job, error)
}

// Update is a snapshot emitted after every successful poll tick and every
// cosmetic log append. Step and Elapsed are derived, never stored.
type Update struct {
	Job     translator.Job
	Step    types.Step
	Elapsed time.Duration
	Logs    []string
}

// Result is the terminal outcome of a watch session.
type Result struct {
	Job  translator.Job
	Logs []string

	// Err is nil on a completed job. A failed job is not an Err: the
	// failure message travels in Job.Message.
	Err error
}

// Watcher creates watch sessions. Zero fields fall back to defaults.
type Watcher struct {
	Client StatusClient
	Config Config
	Logger zerolog.Logger

	// Now, Intn and After are indirected for tests.
	Now   func() time.Time
	Intn  func(n int) int
	After func(d time.Duration) <-chan time.Time
}

// NewWatcher creates a watcher with defaults around a status client.
func NewWatcher(client StatusClient, cfg Config) *Watcher {
	return &Watcher{
		Client: client,
		Config: cfg,
		Logger: log.WithComponent("poll"),
	}
}

// Session is one active watch. Cancel may be called at any time and is
// idempotent; after it returns no further updates or log appends happen.
type Session struct {
	updates chan Update
	done    chan Result
	cancel  context.CancelFunc
}

// Updates emits state snapshots. The channel is never closed; consumers
// should select against Done.
func (s *Session) Updates() <-chan Update { return s.updates }

// Done emits exactly one Result and is then closed.
func (s *Session) Done() <-chan Result { return s.done }

// Cancel stops polling immediately. Both timers are torn down before the
// session goroutine exits.
func (s *Session) Cancel() { s.cancel() }

// Watch starts polling jobID until a terminal state, cancellation, too many
// consecutive failures or the watch timeout.
func (w *Watcher) Watch(ctx context.Context, jobID string) *Session {
	cfg := w.Config
	def := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.ActivityInterval <= 0 {
		cfg.ActivityInterval = def.ActivityInterval
	}
	if cfg.CompletionDelay <= 0 {
		cfg.CompletionDelay = def.CompletionDelay
	}
	if cfg.LogBuffer <= 0 {
		cfg.LogBuffer = def.LogBuffer
	}
	if cfg.MaxConsecutiveFailures <= 0 {
		cfg.MaxConsecutiveFailures = def.MaxConsecutiveFailures
	}

	now := w.Now
	if now == nil {
		now = time.Now
	}
	intn := w.Intn
	if intn == nil {
		intn = rand.Intn
	}
	after := w.After
	if after == nil {
		after = time.After
	}

	ctx = log.ContextWithJobID(ctx, jobID)
	var cancelTimeout context.CancelFunc = func() {}
	if cfg.Timeout > 0 {
		ctx, cancelTimeout = context.WithTimeout(ctx, cfg.Timeout)
	}
	ctx, cancel := context.WithCancel(ctx)

	s := &Session{
		updates: make(chan Update, 16),
		done:    make(chan Result, 1),
		cancel:  cancel,
	}

	go func() {
		defer cancelTimeout()
		w.run(ctx, jobID, cfg, now, intn, after, s)
	}()
	return s
}

func (w *Watcher) run(ctx context.Context, jobID string, cfg Config, now func() time.Time, intn func(int) int, after func(time.Duration) <-chan time.Time, s *Session) {
	logger := log.WithContext(ctx, w.Logger)
	start := now()

	metrics.WatchesActive.Inc()
	outcome := "cancelled"
	defer func() {
		metrics.WatchesActive.Dec()
		metrics.WatchDurationSeconds.WithLabelValues(outcome).Observe(now().Sub(start).Seconds())
	}()

	ring := newLogRing(cfg.LogBuffer)
	ring.Append(logStarting)
	ring.Append(logInitializing)

	retry := &backoff.ExponentialBackOff{
		InitialInterval:     cfg.Interval,
		RandomizationFactor: 0.2,
		Multiplier:          2,
		MaxInterval:         8 * cfg.Interval,
	}
	retry.Reset()

	// The status poll runs on a timer, not a ticker, so a tick is never
	// scheduled while the previous one is still being handled and error
	// backoff can stretch the gap.
	statusTimer := time.NewTimer(cfg.Interval)
	defer statusTimer.Stop()
	activityTicker := time.NewTicker(cfg.ActivityInterval)
	defer activityTicker.Stop()

	var (
		lastJob      translator.Job
		lastStep     types.Step
		failures     int
		sawFirstPoll bool
	)

	finish := func(res Result) {
		s.done <- res
		close(s.done)
	}

	emit := func() {
		u := Update{
			Job:     lastJob,
			Step:    lastStep,
			Elapsed: now().Sub(start),
			Logs:    ring.Snapshot(),
		}
		select {
		case s.updates <- u:
		default:
			// Consumer lagging; drop the snapshot, the next one supersedes it.
		}
	}

	logger.Info().
		Str("event", "watch.start").
		Dur("interval", cfg.Interval).
		Msg("watching job")

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				outcome = "timeout"
				logger.Warn().Str("event", "watch.timeout").Msg("watch deadline elapsed")
				finish(Result{Job: lastJob, Logs: ring.Snapshot(), Err: ErrWatchTimeout})
				return
			}
			logger.Debug().Str("event", "watch.cancelled").Msg("watch cancelled")
			finish(Result{Job: lastJob, Logs: ring.Snapshot(), Err: ctx.Err()})
			return

		case <-activityTicker.C:
			if lastJob.Status != types.JobStatusProcessing {
				continue
			}
			ring.Append(activityLines[intn(len(activityLines))])
			emit()

		case <-statusTimer.C:
			job, err := w.Client.JobStatus(ctx, jobID)
			if err != nil {
				if ctx.Err() != nil {
					// Cancellation raced the request; the ctx.Done arm
					// settles the session on the next iteration.
					continue
				}
				failures++
				metrics.PollTicksTotal.WithLabelValues("error").Inc()
				logger.Warn().
					Err(err).
					Int("consecutive_failures", failures).
					Str("event", "watch.poll_error").
					Msg("poll tick failed, will retry")
				if failures >= cfg.MaxConsecutiveFailures {
					outcome = "error"
					finish(Result{Job: lastJob, Logs: ring.Snapshot(), Err: ErrTooManyFailures})
					return
				}
				statusTimer.Reset(retry.NextBackOff())
				continue
			}
			failures = 0
			retry.Reset()
			metrics.PollTicksTotal.WithLabelValues(job.Status.String()).Inc()

			// A late, lower-progress response must not roll the view back.
			if sawFirstPoll && job.Progress < lastJob.Progress && !job.Status.IsTerminal() {
				job.Progress = lastJob.Progress
			}
			sawFirstPoll = true
			lastJob = job

			step := types.StepForProgress(job.Progress)
			if step < lastStep {
				step = lastStep
			}
			for st := lastStep + 1; st <= step; st++ {
				ring.Append(st.Info().LogLine)
			}
			lastStep = step

			switch job.Status {
			case types.JobStatusCompleted:
				ring.Append(logCompleted)
				emit()
				outcome = "completed"
				logger.Info().
					Str("event", "watch.completed").
					Dur("elapsed", now().Sub(start)).
					Msg("job completed")
				// Reveal delay: cancellable, then signal success.
				select {
				case <-ctx.Done():
					outcome = "cancelled"
					finish(Result{Job: lastJob, Logs: ring.Snapshot(), Err: ctx.Err()})
					return
				case <-after(cfg.CompletionDelay):
				}
				finish(Result{Job: lastJob, Logs: ring.Snapshot()})
				return

			case types.JobStatusFailed:
				ring.Append(logFailed)
				emit()
				outcome = "failed"
				logger.Warn().
					Str("event", "watch.failed").
					Str("reason", job.Message).
					Msg("job failed")
				finish(Result{Job: lastJob, Logs: ring.Snapshot()})
				return

			default:
				emit()
				statusTimer.Reset(cfg.Interval)
			}
		}
	}
}
