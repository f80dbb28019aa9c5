package scheduler

import (
	"context"
	"time"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/jobs"
	ierr "github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/errors"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/logger"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/types"
)

// JobFunc is one named unit of work. It reports how many items it
// processed; an error marks the whole invocation as failed.
type JobFunc func(ctx context.Context) (*jobs.RunSummary, error)

// Runner is the uniform execution envelope around a job body: it times the
// run, recovers panics, and persists exactly one ExecutionRecord per
// invocation, success or failure.
type Runner struct {
	execRepo jobs.Repository
	logger   *logger.Logger
}

// NewRunner creates a new job runner.
func NewRunner(execRepo jobs.Repository, log *logger.Logger) *Runner {
	return &Runner{execRepo: execRepo, logger: log}
}

// Run executes fn under the given job name. The returned error is the job
// body's error (nil on success); the record is always non-nil. Callers on
// the scheduling path ignore the error, the manual path surfaces it.
func (r *Runner) Run(ctx context.Context, name types.JobName, fn JobFunc) (*jobs.ExecutionRecord, error) {
	startedAt := time.Now().UTC()
	r.logger.Infow("job started", "job", name)

	summary, runErr := r.invoke(ctx, fn)
	completedAt := time.Now().UTC()

	record := &jobs.ExecutionRecord{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_JOB_EXECUTION),
		JobName:     name,
		StartedAt:   startedAt,
		CompletedAt: completedAt,
		DurationMs:  completedAt.Sub(startedAt).Milliseconds(),
		BaseModel:   types.GetDefaultBaseModel(),
	}
	if summary != nil {
		record.ProcessedItems = summary.Processed
		record.Counters = summary.Counters
	}

	if runErr != nil {
		record.JobStatus = types.JobStatusFailed
		record.ErrorMessage = runErr.Error()
		r.logger.Errorw("job failed",
			"job", name,
			"error", runErr,
			"duration_ms", record.DurationMs,
			"processed", record.ProcessedItems)
	} else {
		record.JobStatus = types.JobStatusSuccess
		r.logger.Infow("job completed",
			"job", name,
			"duration_ms", record.DurationMs,
			"processed", record.ProcessedItems)
	}

	// A failed audit write must not take down the scheduling loop; the run
	// itself already happened.
	if err := r.execRepo.Create(ctx, record); err != nil {
		r.logger.Errorw("failed to persist job execution record",
			"job", name,
			"error", err)
	}

	return record, runErr
}

// invoke shields the runner from panics in the job body.
func (r *Runner) invoke(ctx context.Context, fn JobFunc) (summary *jobs.RunSummary, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			summary = nil
			err = ierr.NewErrorf("job panicked: %v", rec).Mark(ierr.ErrInternal)
		}
	}()
	return fn(ctx)
}
