// Package scheduler implements background job scheduling for CF Progress
// Hub. The worker runs two periodic jobs through it: the bulk profile sync
// and the inactivity check.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// JOB INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Job defines the interface that all scheduled jobs must implement.
type Job interface {
	// Name returns the unique name of the job.
	Name() string

	// Run executes the job.
	// The context is cancelled when the scheduler is stopping.
	Run(ctx context.Context) error
}

// Schedule defines when a job should run.
type Schedule interface {
	// Next returns the next time the job should run after the given time.
	Next(t time.Time) time.Time
}

// JobFunc adapts a plain function to the Job interface.
type JobFunc struct {
	JobName string
	Fn      func(ctx context.Context) error
}

// Name returns the job name.
func (j JobFunc) Name() string { return j.JobName }

// Run executes the function.
func (j JobFunc) Run(ctx context.Context) error { return j.Fn(ctx) }

// ══════════════════════════════════════════════════════════════════════════════
// INTERVAL SCHEDULE
// ══════════════════════════════════════════════════════════════════════════════

// IntervalSchedule runs a job at a fixed interval.
type IntervalSchedule struct {
	Interval time.Duration
}

// Every creates an IntervalSchedule.
func Every(d time.Duration) IntervalSchedule {
	return IntervalSchedule{Interval: d}
}

// Next returns the next run time after t.
func (s IntervalSchedule) Next(t time.Time) time.Time {
	return t.Add(s.Interval)
}

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULER
// ══════════════════════════════════════════════════════════════════════════════

// Scheduler runs registered jobs on their schedules until stopped.
type Scheduler struct {
	mu sync.Mutex

	logger *slog.Logger
	jobs   []*scheduledJob

	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// scheduledJob pairs a Job with its schedule and run stats.
type scheduledJob struct {
	job       Job
	schedule  Schedule
	runNow    bool
	runCount  int64
	failCount int64
}

// New creates a new Scheduler.
func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{logger: logger}
}

// Register adds a job. When runNow is true the job fires immediately at
// start instead of waiting a full interval first.
func (s *Scheduler) Register(job Job, schedule Schedule, runNow bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, &scheduledJob{job: job, schedule: schedule, runNow: runNow})
}

// Start launches one goroutine per job. Calling Start twice is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for _, sj := range s.jobs {
		s.wg.Add(1)
		go s.runLoop(runCtx, sj)
	}

	s.logger.Info("scheduler started", slog.Int("jobs", len(s.jobs)))
}

// Stop cancels all job contexts and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

// runLoop drives one job. Overlapping runs of the same job cannot happen;
// the next timer only starts after the previous run returns.
func (s *Scheduler) runLoop(ctx context.Context, sj *scheduledJob) {
	defer s.wg.Done()

	if sj.runNow {
		s.execute(ctx, sj)
	}

	for {
		next := sj.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.execute(ctx, sj)
		}
	}
}

// execute runs the job once and records the outcome.
func (s *Scheduler) execute(ctx context.Context, sj *scheduledJob) {
	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	err := sj.job.Run(ctx)
	elapsed := time.Since(start)

	s.mu.Lock()
	sj.runCount++
	if err != nil {
		sj.failCount++
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("job failed",
			slog.String("job", sj.job.Name()),
			slog.Duration("elapsed", elapsed),
			slog.String("error", err.Error()))
		return
	}
	s.logger.Info("job completed",
		slog.String("job", sj.job.Name()),
		slog.Duration("elapsed", elapsed))
}
