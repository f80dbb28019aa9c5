package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/analytics"
	ierr "github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/errors"
)

// InMemoryAnalyticsStore implements analytics.Repository
type InMemoryAnalyticsStore struct {
	*InMemoryStore[*analytics.DailyRecord]
}

// NewInMemoryAnalyticsStore creates a new in-memory analytics store
func NewInMemoryAnalyticsStore() *InMemoryAnalyticsStore {
	return &InMemoryAnalyticsStore{
		InMemoryStore: NewInMemoryStore[*analytics.DailyRecord](),
	}
}

func copyDailyRecord(r *analytics.DailyRecord) *analytics.DailyRecord {
	if r == nil {
		return nil
	}
	copied := *r
	return &copied
}

func analyticsStoreKey(key analytics.DailyKey) string {
	return fmt.Sprintf("%s:%s:%s", key.ArtistID, key.CommunityID, key.Day.Format("2006-01-02"))
}

func (s *InMemoryAnalyticsStore) FindByKey(ctx context.Context, key analytics.DailyKey) (*analytics.DailyRecord, error) {
	r, err := s.InMemoryStore.Get(ctx, analyticsStoreKey(key))
	if err != nil {
		return nil, ierr.NewError("daily analytics record not found").
			WithReportableDetails(map[string]any{
				"artist_id":    key.ArtistID,
				"community_id": key.CommunityID,
				"day":          key.Day,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyDailyRecord(r), nil
}

func (s *InMemoryAnalyticsStore) UpsertByKey(ctx context.Context, key analytics.DailyKey, delta analytics.DailyDelta) error {
	id := analyticsStoreKey(key)
	existing, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		if ierr.IsNotFound(err) {
			return s.InMemoryStore.Create(ctx, id, analytics.NewFromDelta(key, delta))
		}
		return err
	}
	updated := copyDailyRecord(existing)
	updated.Apply(delta)
	return s.InMemoryStore.Update(ctx, id, updated)
}

func (s *InMemoryAnalyticsStore) ListByArtist(ctx context.Context, artistID string, from, to time.Time) ([]*analytics.DailyRecord, error) {
	return s.list(ctx, func(ctx context.Context, r *analytics.DailyRecord) bool {
		return r.ArtistID == artistID && inDayRange(r.Day, from, to)
	}), nil
}

func (s *InMemoryAnalyticsStore) ListByCommunity(ctx context.Context, communityID string, from, to time.Time) ([]*analytics.DailyRecord, error) {
	return s.list(ctx, func(ctx context.Context, r *analytics.DailyRecord) bool {
		return r.CommunityID == communityID && inDayRange(r.Day, from, to)
	}), nil
}

func (s *InMemoryAnalyticsStore) list(ctx context.Context, filterFn func(ctx context.Context, r *analytics.DailyRecord) bool) []*analytics.DailyRecord {
	items := s.InMemoryStore.List(ctx, filterFn, func(a, b *analytics.DailyRecord) bool {
		return a.Day.Before(b.Day)
	})
	result := make([]*analytics.DailyRecord, 0, len(items))
	for _, r := range items {
		result = append(result, copyDailyRecord(r))
	}
	return result
}

func inDayRange(day, from, to time.Time) bool {
	from = analytics.DayOf(from)
	to = analytics.DayOf(to)
	return !day.Before(from) && !day.After(to)
}
