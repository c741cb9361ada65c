package runner

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ytget/course-dl/internal/download"
	"github.com/ytget/course-dl/internal/model"
)

// Defaults
const (
	DefaultConcurrency = 3
	DefaultMaxRetries  = 2
	DefaultBackoff     = 2 * time.Second
)

// Runner dispatches tasks to an executor
type Runner struct {
	executor    download.Executor
	concurrency int
	maxRetries  int
	backoff     time.Duration
	observer    func(Event)

	events chan Event
}

// Option configures a Runner
type Option func(*Runner)

// WithConcurrency sets how many tasks run at once
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithRetries sets how many times a network failure is retried
func WithRetries(n int) Option {
	return func(r *Runner) {
		if n >= 0 {
			r.maxRetries = n
		}
	}
}

// WithBackoff sets the delay before the first retry; it doubles each time
func WithBackoff(d time.Duration) Option {
	return func(r *Runner) {
		if d >= 0 {
			r.backoff = d
		}
	}
}

// WithObserver receives every event. It runs on the aggregator goroutine, so
// calls never overlap.
func WithObserver(fn func(Event)) Option {
	return func(r *Runner) {
		r.observer = fn
	}
}

// New creates a runner
func New(executor download.Executor, options ...Option) *Runner {
	r := &Runner{
		executor:    executor,
		concurrency: DefaultConcurrency,
		maxRetries:  DefaultMaxRetries,
		backoff:     DefaultBackoff,
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Progress forwards an executor's progress report into the running
// aggregator. Reports are dropped when the aggregator is behind or no run is
// active.
func (r *Runner) Progress(task *model.DownloadTask, fraction float64) {
	select {
	case r.events <- Event{Type: EventProgress, Task: task, Status: model.TaskStatusFetching, Fraction: fraction}:
	default:
	}
}

// Run executes runnable tasks (Pending or Resumed) with bounded concurrency,
// admitting the next task as soon as a worker frees up. A fatal error stops
// admission and cancels tasks in flight. The other tasks are only recorded.
func (r *Runner) Run(ctx context.Context, tasks []*model.DownloadTask) *Summary {
	summary := &Summary{}
	events := make(chan Event, r.concurrency*8)
	r.events = events

	aggregated := make(chan struct{})
	go func() {
		defer close(aggregated)
		for ev := range events {
			if ev.Type == EventUntouched || ev.Type == EventFinished {
				summary.record(ev)
			}
			if r.observer != nil {
				r.observer(ev)
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for _, task := range tasks {
		if !task.Status.IsRunnable() || gctx.Err() != nil {
			events <- Event{Type: EventUntouched, Task: task, Status: task.Status}
			continue
		}
		g.Go(func() error {
			return r.runTask(gctx, task, events)
		})
	}

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("run stopped")
	}
	r.events = nil
	close(events)
	<-aggregated

	if ctx.Err() != nil {
		summary.Canceled = true
	}
	return summary
}

// runTask executes one task and reports it. Only fatal errors are returned,
// which cancels the group.
func (r *Runner) runTask(ctx context.Context, task *model.DownloadTask, events chan<- Event) error {
	if ctx.Err() != nil {
		events <- Event{Type: EventUntouched, Task: task, Status: task.Status}
		return nil
	}

	initial := task.Status
	task.Status = model.TaskStatusFetching
	task.StartedAt = time.Now()
	events <- Event{Type: EventStarted, Task: task, Status: task.Status}

	err := r.executeWithRetry(ctx, task, events)
	task.FinishedAt = time.Now()

	switch {
	case err == nil:
		task.Status = model.TaskStatusDone
		task.LastError = ""
	case ctx.Err() != nil && !model.IsFatal(err):
		// stopped by cancellation; what is on disk stays resumable
		task.Status = initial
		events <- Event{Type: EventUntouched, Task: task, Status: task.Status, Err: err}
		return nil
	default:
		task.Status = model.TaskStatusFailed
		task.LastError = err.Error()
	}

	events <- Event{Type: EventFinished, Task: task, Status: task.Status, Attempt: task.Attempts, Err: err}
	if model.IsFatal(err) {
		return err
	}
	return nil
}

// executeWithRetry attempts execution with retry logic for network failures
func (r *Runner) executeWithRetry(ctx context.Context, task *model.DownloadTask, events chan<- Event) error {
	var lastErr error
	logger := log.WithField("task", task.Path)

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			// Backoff delay
			delay := r.backoff << (attempt - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return lastErr
			}

			logger.Infof("retrying, attempt %d", attempt+1)
			events <- Event{Type: EventRetry, Task: task, Status: model.TaskStatusFetching, Attempt: attempt + 1, Err: lastErr}
		}

		task.Attempts = attempt + 1
		err := r.executor.Execute(ctx, task)
		if err == nil {
			return nil
		}

		lastErr = err
		logger.Warnf("attempt %d failed: %v", attempt+1, err)

		// Check if we should retry
		if ctx.Err() != nil || !model.IsRetryable(err) {
			return err
		}
	}

	return lastErr
}
