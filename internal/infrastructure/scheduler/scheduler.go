// Package scheduler runs the kicker league worker's background jobs: the
// monthly season rollover and the periodic season aggregate repair.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// JOB AND SCHEDULE
// ══════════════════════════════════════════════════════════════════════════════

// Job is a unit of background work.
type Job interface {
	// Name identifies the job in registration and logs.
	Name() string

	// Run executes the job. The context ends when the scheduler stops.
	Run(ctx context.Context) error

	// Description says what the job does, for logs.
	Description() string
}

// Schedule decides when a job fires.
type Schedule interface {
	// Next returns the first firing time strictly after t.
	Next(t time.Time) time.Time

	// String describes the schedule.
	String() string
}

var (
	// ErrNilJob is returned when registering a nil job.
	ErrNilJob = errors.New("job cannot be nil")

	// ErrNilSchedule is returned when registering a job without a schedule.
	ErrNilSchedule = errors.New("schedule cannot be nil")

	// ErrJobAlreadyExists is returned when a job name is registered twice.
	ErrJobAlreadyExists = errors.New("job already exists")

	// ErrAlreadyRunning is returned by Start on a running scheduler.
	ErrAlreadyRunning = errors.New("scheduler is already running")

	// ErrNotRunning is returned by Stop on a stopped scheduler.
	ErrNotRunning = errors.New("scheduler is not running")
)

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULER
// Each job gets its own timer goroutine: compute the next firing time,
// sleep until it, run, repeat. A job never overlaps itself because the
// next firing is computed only after the previous run returns.
// ══════════════════════════════════════════════════════════════════════════════

// Config configures the Scheduler.
type Config struct {
	// Logger for structured logging.
	Logger *slog.Logger

	// Timezone for schedule calculations. Seasons follow the office
	// timezone, so the worker passes timeutil.OfficeTZ here.
	Timezone *time.Location
}

// Scheduler fires registered jobs on their schedules.
type Scheduler struct {
	logger   *slog.Logger
	timezone *time.Location

	mu      sync.Mutex
	entries map[string]*entry
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

type entry struct {
	job      Job
	schedule Schedule

	mu       sync.Mutex
	lastRun  time.Time
	runs     int64
	failures int64
}

// New creates a stopped scheduler.
func New(config Config) *Scheduler {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Timezone == nil {
		config.Timezone = time.UTC
	}
	return &Scheduler{
		logger:   config.Logger,
		timezone: config.Timezone,
		entries:  make(map[string]*entry),
	}
}

// Register adds a job. Registration is rejected once the scheduler runs.
func (s *Scheduler) Register(job Job, schedule Schedule) error {
	if job == nil {
		return ErrNilJob
	}
	if schedule == nil {
		return ErrNilSchedule
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}
	name := job.Name()
	if _, ok := s.entries[name]; ok {
		return fmt.Errorf("%w: %s", ErrJobAlreadyExists, name)
	}
	s.entries[name] = &entry{job: job, schedule: schedule}

	s.logger.Info("job registered",
		"job", name,
		"description", job.Description(),
		"schedule", schedule.String(),
	)
	return nil
}

// Start launches one timer goroutine per registered job.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	for _, e := range s.entries {
		s.wg.Add(1)
		go s.runEntry(runCtx, e)
	}

	s.logger.Info("scheduler started", "jobs", len(s.entries))
	return nil
}

// Stop cancels the job contexts and waits for running jobs to return.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrNotRunning
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("scheduler stopped")
	return nil
}

// IsRunning reports whether Start has been called without a matching Stop.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// runEntry is the timer loop of one job.
func (s *Scheduler) runEntry(ctx context.Context, e *entry) {
	defer s.wg.Done()

	for {
		now := time.Now().In(s.timezone)
		next := e.schedule.Next(now)

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		s.runJob(ctx, e)
	}
}

// runJob executes one firing and records the outcome.
func (s *Scheduler) runJob(ctx context.Context, e *entry) {
	name := e.job.Name()
	startedAt := time.Now()

	s.logger.Info("job started", "job", name)

	err := e.job.Run(ctx)
	duration := time.Since(startedAt)

	e.mu.Lock()
	e.lastRun = startedAt
	e.runs++
	if err != nil {
		e.failures++
	}
	e.mu.Unlock()

	if err != nil {
		s.logger.Error("job failed",
			"job", name,
			"duration", duration.String(),
			"error", err,
		)
		return
	}
	s.logger.Info("job completed",
		"job", name,
		"duration", duration.String(),
	)
}

// ══════════════════════════════════════════════════════════════════════════════
// STATUS
// ══════════════════════════════════════════════════════════════════════════════

// JobStatus describes one registered job.
type JobStatus struct {
	Name        string
	Description string
	Schedule    string
	LastRun     time.Time
	Runs        int64
	Failures    int64
}

// Jobs returns a snapshot of every registered job.
func (s *Scheduler) Jobs() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]JobStatus, 0, len(s.entries))
	for name, e := range s.entries {
		e.mu.Lock()
		statuses = append(statuses, JobStatus{
			Name:        name,
			Description: e.job.Description(),
			Schedule:    e.schedule.String(),
			LastRun:     e.lastRun,
			Runs:        e.runs,
			Failures:    e.failures,
		})
		e.mu.Unlock()
	}
	return statuses
}
