package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs named jobs on cron schedules, such as a periodic resync of
// a Store or pruning of reload history.
//
// Common schedules:
//   - "*/5 * * * *"  - Every 5 minutes
//   - "@every 30s"   - Every 30 seconds
//   - "0 3 * * *"    - Daily at 3 AM
type Scheduler struct {
	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	entries map[string]cron.EntryID
	running bool
}

// NewScheduler creates a new scheduler with no jobs.
func NewScheduler(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:    cron.New(),
		logger:  logger.With("component", "config.scheduler"),
		entries: make(map[string]cron.EntryID),
	}
}

// Add registers job under name with a standard cron expression. The job
// receives the context passed to Start. Job errors are logged.
func (s *Scheduler) Add(name, spec string, job func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[name]; exists {
		return fmt.Errorf("job %q already scheduled", name)
	}

	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}

	id := s.cron.Schedule(schedule, &namedJob{name: name, job: job, scheduler: s})
	s.entries[name] = id

	s.logger.Debug("job scheduled", "job", name, "schedule", spec)
	return nil
}

type namedJob struct {
	name      string
	job       func(ctx context.Context) error
	scheduler *Scheduler
	ctx       context.Context
}

func (j *namedJob) Run() {
	ctx := j.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	if err := j.job(ctx); err != nil {
		j.scheduler.logger.Error("scheduled job failed",
			"job", j.name,
			"error", err,
		)
		return
	}
	j.scheduler.logger.Debug("scheduled job completed",
		"job", j.name,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// Start begins running the registered jobs. The scheduler stops when ctx is
// cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}
	if len(s.entries) == 0 {
		s.logger.Info("no jobs scheduled, skipping scheduler")
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if job, ok := entry.Job.(*namedJob); ok {
			job.ctx = ctx
		}
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("scheduler started", "jobs", len(s.entries))

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops the scheduler and waits for any running jobs to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		<-s.cron.Stop().Done()
		s.running = false
		s.logger.Info("scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next time the named job runs, or nil when it is not
// scheduled or the scheduler has not started.
func (s *Scheduler) NextRun(name string) *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.entries[name]
	if !ok {
		return nil
	}
	entry := s.cron.Entry(id)
	if !entry.Valid() || entry.Next.IsZero() {
		return nil
	}
	next := entry.Next
	return &next
}
