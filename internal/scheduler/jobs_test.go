package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/config"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/jobs"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/types"
)

// stubLifecycle satisfies service.LifecycleService with no-op bodies.
type stubLifecycle struct{}

func (stubLifecycle) ExpireDueMemberships(ctx context.Context) (*jobs.RunSummary, error) {
	return &jobs.RunSummary{}, nil
}

func (stubLifecycle) SendRenewalReminders(ctx context.Context) (*jobs.RunSummary, error) {
	return &jobs.RunSummary{}, nil
}

func (stubLifecycle) AutoRenewDueMemberships(ctx context.Context) (*jobs.RunSummary, error) {
	return &jobs.RunSummary{}, nil
}

func (stubLifecycle) RefreshDailyActiveSnapshot(ctx context.Context) (*jobs.RunSummary, error) {
	return &jobs.RunSummary{}, nil
}

func (stubLifecycle) RunAllDailyJobs(ctx context.Context) (*jobs.RunSummary, error) {
	return &jobs.RunSummary{}, nil
}

func TestRegisterLifecycleJobs(t *testing.T) {
	t.Run("schedules the production cadence set", func(t *testing.T) {
		s, _ := newTestScheduler()
		defer s.Shutdown()

		cfg := config.GetDefaultConfig()
		cfg.Scheduler.Enabled = true

		require.NoError(t, RegisterLifecycleJobs(s, stubLifecycle{}, cfg))

		health := s.HealthCheck()
		assert.Equal(t, 4, health.TotalJobs)
		assert.Equal(t, types.HealthStateHealthy, health.Status)

		// Reminders stay manual-only but must be triggerable.
		known, err := s.TriggerManually(context.Background(), types.JobSendRenewalReminders)
		require.True(t, known)
		require.NoError(t, err)
	})

	t.Run("disabled scheduler still allows manual triggers", func(t *testing.T) {
		s, _ := newTestScheduler()
		defer s.Shutdown()

		cfg := config.GetDefaultConfig()
		cfg.Scheduler.Enabled = false

		require.NoError(t, RegisterLifecycleJobs(s, stubLifecycle{}, cfg))
		assert.Equal(t, 0, s.HealthCheck().TotalJobs)

		for _, name := range types.AllJobNames() {
			known, err := s.TriggerManually(context.Background(), name)
			require.True(t, known, "job %s should be registered", name)
			require.NoError(t, err)
		}
	})
}
