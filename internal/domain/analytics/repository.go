package analytics

import (
	"context"
	"time"
)

// Repository defines the interface for daily analytics data access.
// UpsertByKey is the only write path: create the row if the key is new,
// merge the delta otherwise. The upsert is keyed on the unique
// (artist, community, day) constraint so concurrent sweeps remain safe.
type Repository interface {
	FindByKey(ctx context.Context, key DailyKey) (*DailyRecord, error)
	UpsertByKey(ctx context.Context, key DailyKey, delta DailyDelta) error

	// ListByArtist returns records for an artist across all communities in
	// [from, to] inclusive, ordered by day.
	ListByArtist(ctx context.Context, artistID string, from, to time.Time) ([]*DailyRecord, error)

	// ListByCommunity returns records for one community in [from, to]
	// inclusive, ordered by day.
	ListByCommunity(ctx context.Context, communityID string, from, to time.Time) ([]*DailyRecord, error)
}
