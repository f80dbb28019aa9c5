package scheduler

import (
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/config"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/service"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/types"
)

// RegisterLifecycleJobs binds the lifecycle operations to the production
// cadence set: a consolidated daily sweep at an off-peak hour, an hourly
// expiry-only sweep for tight access revocation, a 6-hourly auto-renew
// sweep and a 4-hourly analytics snapshot. Reminders run inside the daily
// sweep and stay manually triggerable on their own.
//
// Overlap between the hourly expiry sweep and the daily sweep's expiry step
// is safe: every operation selects its candidates freshly and re-running
// with nothing newly qualifying processes zero items.
func RegisterLifecycleJobs(s *Scheduler, lifecycle service.LifecycleService, cfg *config.Configuration) error {
	s.RegisterJob(types.JobSendRenewalReminders, lifecycle.SendRenewalReminders)

	if !cfg.Scheduler.Enabled {
		// Manual triggering still works when the schedule is off.
		s.RegisterJob(types.JobRunAllDailyJobs, lifecycle.RunAllDailyJobs)
		s.RegisterJob(types.JobCheckExpiredMemberships, lifecycle.ExpireDueMemberships)
		s.RegisterJob(types.JobAutoRenewMemberships, lifecycle.AutoRenewDueMemberships)
		s.RegisterJob(types.JobUpdateDailyAnalytics, lifecycle.RefreshDailyActiveSnapshot)
		return nil
	}

	if err := s.Schedule(types.JobRunAllDailyJobs, cfg.Scheduler.DailySweepCron, lifecycle.RunAllDailyJobs); err != nil {
		return err
	}
	if err := s.Schedule(types.JobCheckExpiredMemberships, cfg.Scheduler.ExpirySweepInterval.String(), lifecycle.ExpireDueMemberships); err != nil {
		return err
	}
	if err := s.Schedule(types.JobAutoRenewMemberships, cfg.Scheduler.AutoRenewInterval.String(), lifecycle.AutoRenewDueMemberships); err != nil {
		return err
	}
	if err := s.Schedule(types.JobUpdateDailyAnalytics, cfg.Scheduler.AnalyticsInterval.String(), lifecycle.RefreshDailyActiveSnapshot); err != nil {
		return err
	}
	return nil
}
