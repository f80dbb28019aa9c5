package testutil

import (
	"context"
	"time"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/jobs"
	ierr "github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/errors"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/types"
)

// InMemoryJobExecutionStore implements jobs.Repository
type InMemoryJobExecutionStore struct {
	*InMemoryStore[*jobs.ExecutionRecord]

	// CreateErr, when set, makes every Create fail. Used to exercise the
	// runner's audit-write failure path.
	CreateErr error
}

// NewInMemoryJobExecutionStore creates a new in-memory job execution store
func NewInMemoryJobExecutionStore() *InMemoryJobExecutionStore {
	return &InMemoryJobExecutionStore{
		InMemoryStore: NewInMemoryStore[*jobs.ExecutionRecord](),
	}
}

func copyExecutionRecord(r *jobs.ExecutionRecord) *jobs.ExecutionRecord {
	if r == nil {
		return nil
	}
	copied := *r
	return &copied
}

func (s *InMemoryJobExecutionStore) Create(ctx context.Context, record *jobs.ExecutionRecord) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	if record == nil {
		return ierr.NewError("execution record cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, record.ID, copyExecutionRecord(record))
}

func (s *InMemoryJobExecutionStore) List(ctx context.Context, filter jobs.ListFilter) ([]*jobs.ExecutionRecord, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = jobs.DefaultHistoryLimit
	}

	items := s.InMemoryStore.List(ctx, func(ctx context.Context, r *jobs.ExecutionRecord) bool {
		return filter.JobName == "" || r.JobName == filter.JobName
	}, func(a, b *jobs.ExecutionRecord) bool {
		return a.StartedAt.After(b.StartedAt)
	})

	if len(items) > limit {
		items = items[:limit]
	}
	result := make([]*jobs.ExecutionRecord, 0, len(items))
	for _, r := range items {
		result = append(result, copyExecutionRecord(r))
	}
	return result, nil
}

func (s *InMemoryJobExecutionStore) Statistics(ctx context.Context, since time.Time) ([]*jobs.Statistic, error) {
	items := s.InMemoryStore.List(ctx, func(ctx context.Context, r *jobs.ExecutionRecord) bool {
		return !r.StartedAt.Before(since)
	}, nil)

	type group struct {
		name   types.JobName
		status types.JobStatus
	}
	acc := make(map[group]*jobs.Statistic)
	var order []group
	var totalDuration, totalProcessed map[group]int64

	totalDuration = make(map[group]int64)
	totalProcessed = make(map[group]int64)
	for _, r := range items {
		g := group{name: r.JobName, status: r.JobStatus}
		stat, ok := acc[g]
		if !ok {
			stat = &jobs.Statistic{JobName: r.JobName, JobStatus: r.JobStatus}
			acc[g] = stat
			order = append(order, g)
		}
		stat.Count++
		totalDuration[g] += r.DurationMs
		totalProcessed[g] += int64(r.ProcessedItems)
	}

	result := make([]*jobs.Statistic, 0, len(order))
	for _, g := range order {
		stat := acc[g]
		stat.AvgDuration = float64(totalDuration[g]) / float64(stat.Count)
		stat.AvgProcessed = float64(totalProcessed[g]) / float64(stat.Count)
		result = append(result, stat)
	}
	return result, nil
}
