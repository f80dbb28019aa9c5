package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/jobs"
	ierr "github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/errors"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/logger"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/types"
)

// cronParser accepts five-field cron expressions plus descriptors like
// "@every 6h" and "@daily".
var cronParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// trigger is one named recurring schedule. Each running trigger owns a
// goroutine that blocks on the cron evaluator; stopping closes its channel
// without losing the registration.
type trigger struct {
	job      types.JobName
	cadence  string
	schedule cron.Schedule
	location *time.Location

	running bool
	stopCh  chan struct{}
	done    chan struct{}
}

// Scheduler owns the registry of named triggers and the jobs they run.
// Jobs may also be registered without a schedule for manual triggering.
// Different triggers fire concurrently with respect to each other; one
// trigger never overlaps itself because its loop runs the job to
// completion before sleeping again.
type Scheduler struct {
	mu       sync.Mutex
	runner   *Runner
	logger   *logger.Logger
	location *time.Location
	triggers map[types.JobName]*trigger
	jobs     map[types.JobName]JobFunc
}

// New creates a scheduler firing in the given location (UTC when nil).
func New(runner *Runner, log *logger.Logger, location *time.Location) *Scheduler {
	if location == nil {
		location = time.UTC
	}
	return &Scheduler{
		runner:   runner,
		logger:   log,
		location: location,
		triggers: make(map[types.JobName]*trigger),
		jobs:     make(map[types.JobName]JobFunc),
	}
}

// RegisterJob makes a job available for manual triggering without putting
// it on a schedule.
func (s *Scheduler) RegisterJob(name types.JobName, fn JobFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[name] = fn
}

// Schedule registers the job under a cadence and starts its trigger
// immediately. The cadence is either a Go duration ("1h") or a cron
// expression ("0 2 * * *", "@every 6h"). Re-scheduling an existing name
// stops and replaces the old trigger. An invalid cadence fails the
// registration and leaves other triggers untouched.
func (s *Scheduler) Schedule(name types.JobName, cadence string, fn JobFunc, location ...*time.Location) error {
	schedule, err := parseCadence(cadence)
	if err != nil {
		s.logger.Errorw("invalid cadence, trigger not registered",
			"job", name,
			"cadence", cadence,
			"error", err)
		return ierr.WithError(err).
			WithHintf("Cadence %q is neither a duration nor a cron expression", cadence).
			Mark(ierr.ErrValidation)
	}

	loc := s.location
	if len(location) > 0 && location[0] != nil {
		loc = location[0]
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs[name] = fn
	t := &trigger{
		job:      name,
		cadence:  cadence,
		schedule: schedule,
		location: loc,
	}
	if old, ok := s.triggers[name]; ok {
		if old.running {
			s.stopLocked(old)
		}
		// Chain the replacement behind the superseded loop so the name
		// never runs two loops at once.
		t.done = old.done
		delete(s.triggers, name)
	}
	s.triggers[name] = t
	s.startLocked(t)

	s.logger.Infow("trigger registered",
		"job", name,
		"cadence", cadence,
		"timezone", loc.String())
	return nil
}

// Start resumes a stopped trigger. Returns false for unknown names.
func (s *Scheduler) Start(name types.JobName) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.triggers[name]
	if !ok {
		return false
	}
	if !t.running {
		s.startLocked(t)
		s.logger.Infow("trigger started", "job", name)
	}
	return true
}

// Stop pauses a trigger without losing its registration. Returns false for
// unknown names.
func (s *Scheduler) Stop(name types.JobName) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.triggers[name]
	if !ok {
		return false
	}
	if t.running {
		s.stopLocked(t)
		s.logger.Infow("trigger stopped", "job", name)
	}
	return true
}

// Shutdown stops every trigger and waits for in-flight loops to exit.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	var waits []chan struct{}
	for _, t := range s.triggers {
		if t.running {
			done := t.done
			s.stopLocked(t)
			waits = append(waits, done)
		}
	}
	s.mu.Unlock()

	for _, done := range waits {
		<-done
	}
	s.logger.Infow("scheduler shut down")
}

// TriggerManually runs the named job once, through the runner, outside its
// schedule. The boolean reports whether the job name is known. The job is
// detached from the caller's cancellation: when the caller's deadline
// expires a timeout error is returned, but the run finishes in the
// background and still persists its execution record.
func (s *Scheduler) TriggerManually(ctx context.Context, name types.JobName) (bool, error) {
	s.mu.Lock()
	fn, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}

	errCh := make(chan error, 1)
	go func() {
		_, err := s.runner.Run(context.WithoutCancel(ctx), name, fn)
		errCh <- err
	}()

	select {
	case <-ctx.Done():
		s.logger.Warnw("manual trigger deadline exceeded, job continues in background",
			"job", name)
		return true, ierr.NewErrorf("job %s did not finish before the deadline", name).
			WithHint("The job keeps running and its result will appear in the history").
			Mark(ierr.ErrTimeout)
	case err := <-errCh:
		return true, err
	}
}

// HealthCheck summarizes the trigger registry: degraded when some but not
// all triggers are stopped, unhealthy when none run.
func (s *Scheduler) HealthCheck() types.SchedulerHealth {
	s.mu.Lock()
	defer s.mu.Unlock()

	health := types.SchedulerHealth{TotalJobs: len(s.triggers)}
	for _, t := range s.triggers {
		if t.running {
			health.RunningJobs++
		} else {
			health.StoppedJobs++
		}
	}

	switch {
	case health.TotalJobs == 0 || health.RunningJobs == 0:
		health.Status = types.HealthStateUnhealthy
	case health.StoppedJobs > 0:
		health.Status = types.HealthStateDegraded
	default:
		health.Status = types.HealthStateHealthy
	}
	return health
}

// ListHistory returns recent execution records, optionally filtered by job
// name.
func (s *Scheduler) ListHistory(ctx context.Context, jobName types.JobName, limit int) ([]*jobs.ExecutionRecord, error) {
	return s.runner.execRepo.List(ctx, jobs.ListFilter{JobName: jobName, Limit: limit})
}

// Statistics aggregates execution records over the trailing window.
func (s *Scheduler) Statistics(ctx context.Context, windowDays int) ([]*jobs.Statistic, error) {
	if windowDays <= 0 {
		windowDays = 7
	}
	since := time.Now().UTC().AddDate(0, 0, -windowDays)
	return s.runner.execRepo.Statistics(ctx, since)
}

// startLocked spawns the trigger's firing loop. A loop superseded by a
// stop/start cycle may still be mid-job; the new loop waits for it to
// drain before firing so one name never overlaps itself. Caller holds
// s.mu.
func (s *Scheduler) startLocked(t *trigger) {
	prev := t.done
	t.stopCh = make(chan struct{})
	t.done = make(chan struct{})
	t.running = true
	stopCh, done := t.stopCh, t.done
	go func() {
		if prev != nil {
			<-prev
		}
		s.runLoop(t, stopCh, done)
	}()
}

// stopLocked signals the loop to exit. Caller holds s.mu.
func (s *Scheduler) stopLocked(t *trigger) {
	close(t.stopCh)
	t.running = false
}

// runLoop blocks on the cron evaluator and runs the job synchronously on
// each tick, so a slow run delays the next tick instead of overlapping it.
func (s *Scheduler) runLoop(t *trigger, stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		now := time.Now().In(t.location)
		next := t.schedule.Next(now)
		timer := time.NewTimer(next.Sub(now))

		select {
		case <-stopCh:
			timer.Stop()
			return
		case <-timer.C:
		}

		s.mu.Lock()
		fn := s.jobs[t.job]
		s.mu.Unlock()
		if fn == nil {
			continue
		}

		// Errors are already recorded by the runner; nothing escapes the
		// loop.
		_, _ = s.runner.Run(context.Background(), t.job, fn)
	}
}

// parseCadence accepts a Go duration or a cron expression.
func parseCadence(cadence string) (cron.Schedule, error) {
	if d, err := time.ParseDuration(cadence); err == nil {
		if d <= 0 {
			return nil, ierr.NewError("cadence duration must be positive").Mark(ierr.ErrValidation)
		}
		return cron.Every(d), nil
	}
	return cronParser.Parse(cadence)
}
