package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/jobs"
	ierr "github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/errors"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/logger"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/testutil"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/types"
)

func newTestScheduler() (*Scheduler, *testutil.InMemoryJobExecutionStore) {
	store := testutil.NewInMemoryJobExecutionStore()
	runner := NewRunner(store, logger.GetLogger())
	return New(runner, logger.GetLogger(), time.UTC), store
}

func noopJob(ctx context.Context) (*jobs.RunSummary, error) {
	return &jobs.RunSummary{}, nil
}

func TestSchedule(t *testing.T) {
	t.Run("rejects an invalid cadence without registering", func(t *testing.T) {
		s, _ := newTestScheduler()
		defer s.Shutdown()

		err := s.Schedule(types.JobCheckExpiredMemberships, "every day at dawn", noopJob)
		require.Error(t, err)
		assert.True(t, ierr.Is(err, ierr.ErrValidation))
		assert.Equal(t, 0, s.HealthCheck().TotalJobs)
	})

	t.Run("accepts durations and cron expressions", func(t *testing.T) {
		s, _ := newTestScheduler()
		defer s.Shutdown()

		require.NoError(t, s.Schedule(types.JobCheckExpiredMemberships, "1h", noopJob))
		require.NoError(t, s.Schedule(types.JobRunAllDailyJobs, "0 2 * * *", noopJob))
		require.NoError(t, s.Schedule(types.JobAutoRenewMemberships, "@every 6h", noopJob))

		health := s.HealthCheck()
		assert.Equal(t, 3, health.TotalJobs)
		assert.Equal(t, 3, health.RunningJobs)
		assert.Equal(t, types.HealthStateHealthy, health.Status)
	})

	t.Run("re-scheduling a name replaces the trigger", func(t *testing.T) {
		s, _ := newTestScheduler()
		defer s.Shutdown()

		require.NoError(t, s.Schedule(types.JobCheckExpiredMemberships, "1h", noopJob))
		require.NoError(t, s.Schedule(types.JobCheckExpiredMemberships, "30m", noopJob))
		assert.Equal(t, 1, s.HealthCheck().TotalJobs)
	})
}

func TestStartStop(t *testing.T) {
	t.Run("stopping a trigger keeps its registration", func(t *testing.T) {
		s, _ := newTestScheduler()
		defer s.Shutdown()

		require.NoError(t, s.Schedule(types.JobCheckExpiredMemberships, "1h", noopJob))
		require.NoError(t, s.Schedule(types.JobAutoRenewMemberships, "1h", noopJob))

		assert.True(t, s.Stop(types.JobCheckExpiredMemberships))
		health := s.HealthCheck()
		assert.Equal(t, 1, health.StoppedJobs)
		assert.Equal(t, types.HealthStateDegraded, health.Status)

		assert.True(t, s.Start(types.JobCheckExpiredMemberships))
		assert.Equal(t, types.HealthStateHealthy, s.HealthCheck().Status)
	})

	t.Run("all triggers stopped means unhealthy", func(t *testing.T) {
		s, _ := newTestScheduler()
		defer s.Shutdown()

		require.NoError(t, s.Schedule(types.JobCheckExpiredMemberships, "1h", noopJob))
		assert.True(t, s.Stop(types.JobCheckExpiredMemberships))
		assert.Equal(t, types.HealthStateUnhealthy, s.HealthCheck().Status)
	})

	t.Run("restarting never overlaps the superseded loop", func(t *testing.T) {
		s, _ := newTestScheduler()
		defer s.Shutdown()

		var active, overlaps atomic.Int32
		release := make(chan struct{})
		started := make(chan struct{}, 64)
		require.NoError(t, s.Schedule(types.JobCheckExpiredMemberships, "10ms", func(ctx context.Context) (*jobs.RunSummary, error) {
			if active.Add(1) > 1 {
				overlaps.Add(1)
			}
			started <- struct{}{}
			<-release
			active.Add(-1)
			return &jobs.RunSummary{}, nil
		}))

		<-started
		require.True(t, s.Stop(types.JobCheckExpiredMemberships))
		require.True(t, s.Start(types.JobCheckExpiredMemberships))

		// The restarted loop has to wait for the in-flight run to drain
		// before it may fire again.
		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, int32(1), active.Load())

		close(release)
		assert.Equal(t, int32(0), overlaps.Load())
	})

	t.Run("unknown names report false", func(t *testing.T) {
		s, _ := newTestScheduler()
		defer s.Shutdown()

		assert.False(t, s.Start(types.JobName("no-such-job")))
		assert.False(t, s.Stop(types.JobName("no-such-job")))
	})
}

func TestTriggerManually(t *testing.T) {
	ctx := context.Background()

	t.Run("runs a registered job and records it", func(t *testing.T) {
		s, store := newTestScheduler()
		defer s.Shutdown()

		ran := false
		s.RegisterJob(types.JobSendRenewalReminders, func(ctx context.Context) (*jobs.RunSummary, error) {
			ran = true
			return &jobs.RunSummary{Processed: 2}, nil
		})

		known, err := s.TriggerManually(ctx, types.JobSendRenewalReminders)
		require.True(t, known)
		require.NoError(t, err)
		assert.True(t, ran)

		history, err := store.List(ctx, jobs.ListFilter{JobName: types.JobSendRenewalReminders})
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, 2, history[0].ProcessedItems)
	})

	t.Run("unknown job reports not known", func(t *testing.T) {
		s, _ := newTestScheduler()
		defer s.Shutdown()

		known, err := s.TriggerManually(ctx, types.JobName("no-such-job"))
		assert.False(t, known)
		assert.NoError(t, err)
	})

	t.Run("surfaces the job error", func(t *testing.T) {
		s, _ := newTestScheduler()
		defer s.Shutdown()

		s.RegisterJob(types.JobAutoRenewMemberships, func(ctx context.Context) (*jobs.RunSummary, error) {
			return nil, ierr.NewError("wallet unreachable").Mark(ierr.ErrHTTPClient)
		})

		known, err := s.TriggerManually(ctx, types.JobAutoRenewMemberships)
		require.True(t, known)
		require.Error(t, err)
	})

	t.Run("a slow job times out but keeps running", func(t *testing.T) {
		s, store := newTestScheduler()
		defer s.Shutdown()

		done := make(chan struct{})
		s.RegisterJob(types.JobUpdateDailyAnalytics, func(ctx context.Context) (*jobs.RunSummary, error) {
			<-done
			return &jobs.RunSummary{Processed: 1}, nil
		})

		timeoutCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()

		known, err := s.TriggerManually(timeoutCtx, types.JobUpdateDailyAnalytics)
		require.True(t, known)
		require.Error(t, err)
		assert.True(t, ierr.Is(err, ierr.ErrTimeout))

		// Let the background run finish and verify it still got recorded.
		close(done)
		require.Eventually(t, func() bool {
			history, err := store.List(ctx, jobs.ListFilter{JobName: types.JobUpdateDailyAnalytics})
			return err == nil && len(history) == 1
		}, time.Second, 10*time.Millisecond)
	})
}

func TestStatistics(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates by job and status", func(t *testing.T) {
		s, _ := newTestScheduler()
		defer s.Shutdown()

		s.RegisterJob(types.JobCheckExpiredMemberships, noopJob)
		for i := 0; i < 3; i++ {
			known, err := s.TriggerManually(ctx, types.JobCheckExpiredMemberships)
			require.True(t, known)
			require.NoError(t, err)
		}

		stats, err := s.Statistics(ctx, 7)
		require.NoError(t, err)
		require.Len(t, stats, 1)
		assert.Equal(t, types.JobCheckExpiredMemberships, stats[0].JobName)
		assert.Equal(t, types.JobStatusSuccess, stats[0].JobStatus)
		assert.Equal(t, 3, stats[0].Count)
	})
}
