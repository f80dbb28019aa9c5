package jobs

import (
	"context"
	"time"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/types"
)

// ListFilter narrows execution history queries. A zero JobName matches all
// jobs; Limit <= 0 falls back to the repository default.
type ListFilter struct {
	JobName types.JobName
	Limit   int
}

// DefaultHistoryLimit bounds unfiltered history queries.
const DefaultHistoryLimit = 50

// Repository defines the interface for job execution records. Records are
// append-only: there is no update or delete.
type Repository interface {
	Create(ctx context.Context, record *ExecutionRecord) error
	List(ctx context.Context, filter ListFilter) ([]*ExecutionRecord, error)

	// Statistics aggregates records started at or after since, grouped by
	// (job name, status).
	Statistics(ctx context.Context, since time.Time) ([]*Statistic, error)
}
