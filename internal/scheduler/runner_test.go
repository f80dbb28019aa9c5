package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/jobs"
	ierr "github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/errors"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/logger"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/testutil"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/types"
)

func newTestRunner() (*Runner, *testutil.InMemoryJobExecutionStore) {
	store := testutil.NewInMemoryJobExecutionStore()
	return NewRunner(store, logger.GetLogger()), store
}

func TestRunnerRun(t *testing.T) {
	ctx := context.Background()

	t.Run("persists a success record", func(t *testing.T) {
		runner, store := newTestRunner()

		record, err := runner.Run(ctx, types.JobCheckExpiredMemberships, func(ctx context.Context) (*jobs.RunSummary, error) {
			summary := &jobs.RunSummary{Processed: 7}
			summary.Counters.ExpiredCount = 7
			return summary, nil
		})
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, types.JobStatusSuccess, record.JobStatus)
		assert.Equal(t, 7, record.ProcessedItems)
		assert.Equal(t, 7, record.Counters.ExpiredCount)
		assert.Empty(t, record.ErrorMessage)
		assert.False(t, record.CompletedAt.Before(record.StartedAt))

		history, err := store.List(ctx, jobs.ListFilter{})
		require.NoError(t, err)
		require.Len(t, history, 1)
	})

	t.Run("persists a failure record with the error message", func(t *testing.T) {
		runner, store := newTestRunner()

		record, err := runner.Run(ctx, types.JobAutoRenewMemberships, func(ctx context.Context) (*jobs.RunSummary, error) {
			return nil, ierr.NewError("candidate query failed").Mark(ierr.ErrDatabase)
		})
		require.Error(t, err)
		require.NotNil(t, record)
		assert.Equal(t, types.JobStatusFailed, record.JobStatus)
		assert.Equal(t, 0, record.ProcessedItems)
		assert.NotEmpty(t, record.ErrorMessage)

		history, err := store.List(ctx, jobs.ListFilter{})
		require.NoError(t, err)
		require.Len(t, history, 1)
	})

	t.Run("recovers a panicking job body", func(t *testing.T) {
		runner, store := newTestRunner()

		record, err := runner.Run(ctx, types.JobUpdateDailyAnalytics, func(ctx context.Context) (*jobs.RunSummary, error) {
			panic("nil collection")
		})
		require.Error(t, err)
		assert.True(t, ierr.Is(err, ierr.ErrInternal))
		assert.Equal(t, types.JobStatusFailed, record.JobStatus)
		assert.Contains(t, record.ErrorMessage, "panicked")

		history, err := store.List(ctx, jobs.ListFilter{})
		require.NoError(t, err)
		require.Len(t, history, 1)
	})

	t.Run("survives a failed audit write", func(t *testing.T) {
		runner, store := newTestRunner()
		store.CreateErr = ierr.NewError("insert failed").Mark(ierr.ErrDatabase)

		record, err := runner.Run(ctx, types.JobSendRenewalReminders, func(ctx context.Context) (*jobs.RunSummary, error) {
			return &jobs.RunSummary{Processed: 1}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, types.JobStatusSuccess, record.JobStatus)
	})
}
