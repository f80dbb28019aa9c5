package dto

import (
	"time"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/jobs"
	ierr "github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/errors"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/types"
	"github.com/samber/lo"
)

// TriggerJobRequest identifies the job to run and an optional deadline.
type TriggerJobRequest struct {
	JobName        string `json:"job_name" uri:"name"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
}

func (r *TriggerJobRequest) Validate() error {
	if !lo.Contains(types.AllJobNames(), types.JobName(r.JobName)) {
		return ierr.NewErrorf("unknown job %q", r.JobName).
			WithReportableDetails(map[string]any{
				"known_jobs": types.AllJobNames(),
			}).
			Mark(ierr.ErrValidation)
	}
	if r.TimeoutSeconds < 0 {
		return ierr.NewError("timeout_seconds must not be negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Timeout returns the caller deadline, defaulting to five minutes.
func (r *TriggerJobRequest) Timeout() time.Duration {
	if r.TimeoutSeconds > 0 {
		return time.Duration(r.TimeoutSeconds) * time.Second
	}
	return 5 * time.Minute
}

// TriggerJobResponse reports the outcome of a manual trigger.
type TriggerJobResponse struct {
	JobName string `json:"job_name"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// JobHistoryResponse wraps an execution history query.
type JobHistoryResponse struct {
	Items []*jobs.ExecutionRecord `json:"items"`
	Count int                     `json:"count"`
}

// JobStatisticsResponse wraps a statistics query.
type JobStatisticsResponse struct {
	WindowDays int               `json:"window_days"`
	Items      []*jobs.Statistic `json:"items"`
}
