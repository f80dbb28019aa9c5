package gormstore

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/analytics"
	ierr "github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/errors"
)

type analyticsRepository struct {
	store *Store
}

// NewAnalyticsRepository returns the postgres-backed daily analytics
// repository.
func NewAnalyticsRepository(store *Store) analytics.Repository {
	return &analyticsRepository{store: store}
}

func (r *analyticsRepository) FindByKey(ctx context.Context, key analytics.DailyKey) (*analytics.DailyRecord, error) {
	var rec analytics.DailyRecord
	err := r.store.dbFrom(ctx).
		Where("artist_id = ? AND community_id = ? AND day = ?", key.ArtistID, key.CommunityID, key.Day).
		First(&rec).Error
	if err != nil {
		if ierr.Is(err, gorm.ErrRecordNotFound) {
			return nil, ierr.NewError("no analytics record for key").Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	return &rec, nil
}

// UpsertByKey relies on the unique (artist_id, community_id, day) index:
// counts and revenue accumulate, the active snapshot takes the greatest
// value written during the day.
func (r *analyticsRepository) UpsertByKey(ctx context.Context, key analytics.DailyKey, delta analytics.DailyDelta) error {
	rec := analytics.NewFromDelta(key, delta)

	err := r.store.dbFrom(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "artist_id"}, {Name: "community_id"}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]any{
			"new_subscriptions":          gorm.Expr("daily_analytics.new_subscriptions + EXCLUDED.new_subscriptions"),
			"renewed_subscriptions":      gorm.Expr("daily_analytics.renewed_subscriptions + EXCLUDED.renewed_subscriptions"),
			"expired_subscriptions":      gorm.Expr("daily_analytics.expired_subscriptions + EXCLUDED.expired_subscriptions"),
			"cancelled_subscriptions":    gorm.Expr("daily_analytics.cancelled_subscriptions + EXCLUDED.cancelled_subscriptions"),
			"total_active_subscriptions": gorm.Expr("GREATEST(daily_analytics.total_active_subscriptions, EXCLUDED.total_active_subscriptions)"),
			"revenue":                    gorm.Expr("daily_analytics.revenue + EXCLUDED.revenue"),
			"updated_at":                 time.Now().UTC(),
		}),
	}).Create(rec).Error
	if err != nil {
		return ierr.WithError(err).
			WithHint("Analytics upsert failed").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *analyticsRepository) ListByArtist(ctx context.Context, artistID string, from, to time.Time) ([]*analytics.DailyRecord, error) {
	var out []*analytics.DailyRecord
	err := r.store.dbFrom(ctx).
		Where("artist_id = ? AND day BETWEEN ? AND ?", artistID, analytics.DayOf(from), analytics.DayOf(to)).
		Order("day asc").
		Find(&out).Error
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	return out, nil
}

func (r *analyticsRepository) ListByCommunity(ctx context.Context, communityID string, from, to time.Time) ([]*analytics.DailyRecord, error) {
	var out []*analytics.DailyRecord
	err := r.store.dbFrom(ctx).
		Where("community_id = ? AND day BETWEEN ? AND ?", communityID, analytics.DayOf(from), analytics.DayOf(to)).
		Order("day asc").
		Find(&out).Error
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	return out, nil
}
