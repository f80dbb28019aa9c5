package types

// JobName identifies a schedulable unit of work. Trigger names and job
// names are the same namespace: one trigger runs one named job.
type JobName string

const (
	JobCheckExpiredMemberships JobName = "check-expired-memberships"
	JobSendRenewalReminders    JobName = "send-renewal-reminders"
	JobAutoRenewMemberships    JobName = "auto-renew-memberships"
	JobUpdateDailyAnalytics    JobName = "update-daily-analytics"
	JobRunAllDailyJobs         JobName = "run-all-daily-jobs"
)

// AllJobNames lists every job the engine can run, scheduled or manual.
func AllJobNames() []JobName {
	return []JobName{
		JobCheckExpiredMemberships,
		JobSendRenewalReminders,
		JobAutoRenewMemberships,
		JobUpdateDailyAnalytics,
		JobRunAllDailyJobs,
	}
}

// JobStatus is the terminal status of one job invocation.
type JobStatus string

const (
	JobStatusSuccess JobStatus = "success"
	JobStatusFailed  JobStatus = "failed"
)

// SchedulerHealth summarizes the trigger registry for the health endpoint.
type SchedulerHealth struct {
	Status      HealthState `json:"status"`
	TotalJobs   int         `json:"total_jobs"`
	RunningJobs int         `json:"running_jobs"`
	StoppedJobs int         `json:"stopped_jobs"`
}

type HealthState string

const (
	HealthStateHealthy   HealthState = "healthy"
	HealthStateDegraded  HealthState = "degraded"
	HealthStateUnhealthy HealthState = "unhealthy"
)
