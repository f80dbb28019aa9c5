package jobs

import (
	"time"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/types"
)

// Counters are the typed per-job counters persisted with every execution
// record. A flat set of named columns instead of an untyped metadata bag
// keeps the record queryable and type-safe; zero values are omitted from
// JSON.
type Counters struct {
	ExpiredCount           int `json:"expired_count,omitempty" gorm:"column:expired_count"`
	CancelledCount         int `json:"cancelled_count,omitempty" gorm:"column:cancelled_count"`
	CommunitiesAffected    int `json:"communities_affected,omitempty" gorm:"column:communities_affected"`
	RemindersSent          int `json:"reminders_sent,omitempty" gorm:"column:reminders_sent"`
	FailedDeliveries       int `json:"failed_deliveries,omitempty" gorm:"column:failed_deliveries"`
	Candidates             int `json:"candidates,omitempty" gorm:"column:candidates"`
	RenewedCount           int `json:"renewed_count,omitempty" gorm:"column:renewed_count"`
	FailedRenewals         int `json:"failed_renewals,omitempty" gorm:"column:failed_renewals"`
	CollectionsSnapshotted int `json:"collections_snapshotted,omitempty" gorm:"column:collections_snapshotted"`
}

// Merge adds another counter set into this one (used by the consolidated
// daily sweep to aggregate its steps).
func (c *Counters) Merge(other Counters) {
	c.ExpiredCount += other.ExpiredCount
	c.CancelledCount += other.CancelledCount
	c.CommunitiesAffected += other.CommunitiesAffected
	c.RemindersSent += other.RemindersSent
	c.FailedDeliveries += other.FailedDeliveries
	c.Candidates += other.Candidates
	c.RenewedCount += other.RenewedCount
	c.FailedRenewals += other.FailedRenewals
	c.CollectionsSnapshotted += other.CollectionsSnapshotted
}

// RunSummary is what a job body returns to the runner: how many items it
// processed plus its typed counters. ByCommunity is observability-only and
// is not persisted.
type RunSummary struct {
	Processed   int            `json:"processed"`
	Counters    Counters       `json:"counters"`
	ByCommunity map[string]int `json:"by_community,omitempty"`
}

// Merge folds another summary into this one.
func (s *RunSummary) Merge(other *RunSummary) {
	if other == nil {
		return
	}
	s.Processed += other.Processed
	s.Counters.Merge(other.Counters)
	for community, n := range other.ByCommunity {
		if s.ByCommunity == nil {
			s.ByCommunity = make(map[string]int)
		}
		s.ByCommunity[community] += n
	}
}

// ExecutionRecord is the append-only audit row for one job invocation,
// scheduled or manually triggered. Exactly one record exists per
// invocation, including invocations that fail before processing anything.
type ExecutionRecord struct {
	ID string `json:"id" gorm:"column:id;primaryKey"`

	JobName     types.JobName   `json:"job_name" gorm:"column:job_name;index"`
	JobStatus   types.JobStatus `json:"job_status" gorm:"column:job_status;index"`
	StartedAt   time.Time       `json:"started_at" gorm:"column:started_at;index"`
	CompletedAt time.Time       `json:"completed_at" gorm:"column:completed_at"`
	DurationMs  int64           `json:"duration_ms" gorm:"column:duration_ms"`

	ProcessedItems int    `json:"processed_items" gorm:"column:processed_items"`
	ErrorMessage   string `json:"error_message,omitempty" gorm:"column:error_message"`

	Counters Counters `json:"counters" gorm:"embedded"`

	types.BaseModel
}

func (ExecutionRecord) TableName() string {
	return string(types.TableNameJobExecutions)
}

// Statistic is one (job, status) aggregation row over a window.
type Statistic struct {
	JobName      types.JobName   `json:"job_name"`
	JobStatus    types.JobStatus `json:"job_status"`
	Count        int             `json:"count"`
	AvgDuration  float64         `json:"avg_duration_ms"`
	AvgProcessed float64         `json:"avg_processed"`
}
