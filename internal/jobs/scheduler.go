// Package jobs runs the periodic sync and notification jobs.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/SscSPs/orders_sync_app/internal/apperrors"
	"github.com/SscSPs/orders_sync_app/internal/core/ports/gateways"
	"github.com/SscSPs/orders_sync_app/internal/middleware"
	"github.com/SscSPs/orders_sync_app/internal/utils"
	"github.com/google/uuid"
)

// RunFunc performs one run of a job and returns a summary of what it did.
type RunFunc func(ctx context.Context) (any, error)

// Job is one entry of the job table.
type Job struct {
	Name string
	// Interval between scheduled runs. Zero means the job only runs on demand or as a follow-up.
	Interval time.Duration
	Run      RunFunc
	// Then names a job started after every successful run.
	Then string
}

// Run describes a finished job run.
type Run struct {
	Job       string
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Result    any
}

// Scheduler owns the job table. Every job runs on its own ticker; runs of one job never overlap.
type Scheduler struct {
	jobs      map[string]*Job
	names     []string
	guards    map[string]*sync.Mutex
	locker    gateways.JobLocker
	lockTTL   time.Duration
	analytics *utils.PosthogClientWrapper
	logger    *slog.Logger
	now       func() time.Time
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithLocker adds a lock shared across instances on top of the in-process guard.
func WithLocker(locker gateways.JobLocker, ttl time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		s.locker = locker
		s.lockTTL = ttl
	}
}

// WithAnalytics reports every run outcome as a PostHog event.
func WithAnalytics(analytics *utils.PosthogClientWrapper) SchedulerOption {
	return func(s *Scheduler) {
		s.analytics = analytics
	}
}

// WithLogger sets the logger runs derive their job-scoped logger from.
func WithLogger(logger *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithClock overrides the time source used for run timestamps.
func WithClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) {
		s.now = now
	}
}

// NewScheduler validates the job table and builds a scheduler over it.
func NewScheduler(table []Job, opts ...SchedulerOption) (*Scheduler, error) {
	s := &Scheduler{
		jobs:    make(map[string]*Job, len(table)),
		guards:  make(map[string]*sync.Mutex, len(table)),
		lockTTL: 5 * time.Minute,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	for i := range table {
		job := table[i]
		switch {
		case job.Name == "":
			return nil, fmt.Errorf("%w: job %d has no name", apperrors.ErrConfiguration, i)
		case job.Run == nil:
			return nil, fmt.Errorf("%w: job %s has no run function", apperrors.ErrConfiguration, job.Name)
		case job.Interval < 0:
			return nil, fmt.Errorf("%w: job %s has a negative interval", apperrors.ErrConfiguration, job.Name)
		}
		if _, dup := s.jobs[job.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate job %s", apperrors.ErrConfiguration, job.Name)
		}
		s.jobs[job.Name] = &job
		s.guards[job.Name] = &sync.Mutex{}
		s.names = append(s.names, job.Name)
	}
	for _, job := range s.jobs {
		if job.Then == "" {
			continue
		}
		if _, ok := s.jobs[job.Then]; !ok || job.Then == job.Name {
			return nil, fmt.Errorf("%w: job %s has invalid follow-up %q", apperrors.ErrConfiguration, job.Name, job.Then)
		}
	}
	return s, nil
}

// Jobs returns the job names in table order.
func (s *Scheduler) Jobs() []string {
	return append([]string(nil), s.names...)
}

// Start runs every job with an interval on its own ticker until ctx is cancelled.
// Each job runs once immediately. Start returns after all in-flight runs have finished.
func (s *Scheduler) Start(ctx context.Context) {
	var wg sync.WaitGroup
	for _, name := range s.names {
		job := s.jobs[name]
		if job.Interval == 0 {
			s.logger.Info("Job not scheduled, runs on demand only", slog.String("job", name))
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.loop(ctx, job)
		}()
	}
	s.logger.Info("Scheduler started")
	wg.Wait()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, job *Job) {
	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	s.fire(ctx, job.Name)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.fire(ctx, job.Name)
		}
	}
}

// fire runs a scheduled job and swallows its error; RunOnce has already logged it.
func (s *Scheduler) fire(ctx context.Context, name string) {
	_, _ = s.RunOnce(ctx, name)
}

// RunOnce runs the named job now, then its follow-up if the run succeeded.
// Returns apperrors.ErrNotFound for an unknown job and apperrors.ErrJobAlreadyRunning
// when another run of the job holds the guard.
func (s *Scheduler) RunOnce(ctx context.Context, name string) (*Run, error) {
	job, ok := s.jobs[name]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("job %s not found", name))
	}

	run := &Run{Job: name, RunID: uuid.NewString(), StartedAt: s.now()}
	logger := s.logger.With(slog.String("job", name), slog.String("run_id", run.RunID))
	ctx = middleware.WithLogger(ctx, logger)

	release, err := s.acquire(ctx, name)
	if err != nil {
		logger.Warn("Job run skipped", slog.String("error", err.Error()))
		s.track(name, "job_skipped", map[string]any{"run_id": run.RunID, "error": err.Error()})
		return nil, err
	}

	logger.Info("Job run started")
	result, err := s.invoke(ctx, job)
	release()
	run.Duration = s.now().Sub(run.StartedAt)
	run.Result = result

	if err != nil {
		logger.Error("Job run failed", slog.String("error", err.Error()), slog.Duration("duration", run.Duration))
		s.track(name, "job_failed", map[string]any{"run_id": run.RunID, "error": err.Error(), "duration_ms": run.Duration.Milliseconds()})
		return nil, err
	}
	logger.Info("Job run finished", slog.Duration("duration", run.Duration), slog.Any("result", result))
	s.track(name, "job_completed", map[string]any{"run_id": run.RunID, "duration_ms": run.Duration.Milliseconds()})

	if job.Then != "" && ctx.Err() == nil {
		if _, err := s.RunOnce(ctx, job.Then); err != nil {
			logger.Warn("Follow-up job did not complete", slog.String("follow_up", job.Then), slog.String("error", err.Error()))
		}
	}
	return run, nil
}

// invoke turns a panic in the job into an error.
func (s *Scheduler) invoke(ctx context.Context, job *Job) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			middleware.GetLoggerFromCtx(ctx).Error("Job panicked", slog.Any("panic", r), slog.String("stack", string(debug.Stack())))
			result, err = nil, fmt.Errorf("job %s panicked: %v", job.Name, r)
		}
	}()
	return job.Run(ctx)
}

// acquire takes the in-process guard and, when configured, the shared lock.
func (s *Scheduler) acquire(ctx context.Context, name string) (func(), error) {
	guard := s.guards[name]
	if !guard.TryLock() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrJobAlreadyRunning, name)
	}
	if s.locker == nil {
		return guard.Unlock, nil
	}

	lock, err := s.locker.Obtain(ctx, name, s.lockTTL)
	if err != nil {
		guard.Unlock()
		return nil, err
	}
	return func() {
		// The run context may already be cancelled; the lock must still be released.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := lock.Release(releaseCtx); err != nil {
			middleware.GetLoggerFromCtx(ctx).Warn("Failed to release job lock", slog.String("error", err.Error()))
		}
		guard.Unlock()
	}, nil
}

func (s *Scheduler) track(job, event string, props map[string]any) {
	props["job"] = job
	s.analytics.Enqueue(utils.ServiceDistinctID, event, props)
}
