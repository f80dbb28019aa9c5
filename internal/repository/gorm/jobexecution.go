package gormstore

import (
	"context"
	"time"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/jobs"
	ierr "github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/errors"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/types"
)

type jobExecutionRepository struct {
	store *Store
}

// NewJobExecutionRepository returns the postgres-backed job execution
// repository.
func NewJobExecutionRepository(store *Store) jobs.Repository {
	return &jobExecutionRepository{store: store}
}

func (r *jobExecutionRepository) Create(ctx context.Context, record *jobs.ExecutionRecord) error {
	if record.ID == "" {
		record.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_JOB_EXECUTION)
	}
	if err := r.store.dbFrom(ctx).Create(record).Error; err != nil {
		return ierr.WithError(err).
			WithHint("Failed to persist job execution record").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *jobExecutionRepository) List(ctx context.Context, filter jobs.ListFilter) ([]*jobs.ExecutionRecord, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = jobs.DefaultHistoryLimit
	}

	q := r.store.dbFrom(ctx).Order("started_at desc").Limit(limit)
	if filter.JobName != "" {
		q = q.Where("job_name = ?", filter.JobName)
	}

	var out []*jobs.ExecutionRecord
	if err := q.Find(&out).Error; err != nil {
		return nil, ierr.WithError(err).
			WithHint("Job history query failed").
			Mark(ierr.ErrDatabase)
	}
	return out, nil
}

func (r *jobExecutionRepository) Statistics(ctx context.Context, since time.Time) ([]*jobs.Statistic, error) {
	var out []*jobs.Statistic
	err := r.store.dbFrom(ctx).
		Model(&jobs.ExecutionRecord{}).
		Select("job_name, job_status, count(*) as count, avg(duration_ms) as avg_duration, avg(processed_items) as avg_processed").
		Where("started_at >= ?", since).
		Group("job_name, job_status").
		Order("job_name asc, job_status asc").
		Scan(&out).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Job statistics query failed").
			Mark(ierr.ErrDatabase)
	}
	return out, nil
}
