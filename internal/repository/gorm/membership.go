package gormstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/membership"
	ierr "github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/errors"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/types"
)

type membershipRepository struct {
	store *Store
}

// NewMembershipRepository returns the postgres-backed membership
// repository.
func NewMembershipRepository(store *Store) membership.Repository {
	return &membershipRepository{store: store}
}

func (r *membershipRepository) Create(ctx context.Context, m *membership.Membership) error {
	if m.ID == "" {
		m.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_MEMBERSHIP)
	}
	if err := r.store.dbFrom(ctx).Create(m).Error; err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create membership").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *membershipRepository) Get(ctx context.Context, id string) (*membership.Membership, error) {
	var m membership.Membership
	err := r.store.dbFrom(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		if ierr.Is(err, gorm.ErrRecordNotFound) {
			return nil, ierr.NewErrorf("membership %s not found", id).Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	return &m, nil
}

func (r *membershipRepository) Update(ctx context.Context, m *membership.Membership) error {
	m.UpdatedAt = time.Now().UTC()
	res := r.store.dbFrom(ctx).Model(&membership.Membership{}).
		Where("id = ?", m.ID).
		Select("is_active", "auto_renew", "reminder_sent", "cancelled_at", "expires_at", "tx_ref", "updated_at", "updated_by").
		Updates(m)
	if res.Error != nil {
		return ierr.WithError(res.Error).
			WithHint("Failed to update membership").
			Mark(ierr.ErrDatabase)
	}
	if res.RowsAffected == 0 {
		return ierr.NewErrorf("membership %s not found", m.ID).Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *membershipRepository) ListExpired(ctx context.Context, asOf time.Time) ([]*membership.Membership, error) {
	var out []*membership.Membership
	err := r.store.dbFrom(ctx).
		Where("is_active = ? AND expires_at < ?", true, asOf).
		Order("expires_at asc").
		Find(&out).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Expired membership query failed").
			Mark(ierr.ErrDatabase)
	}
	return out, nil
}

func (r *membershipRepository) ListDueForReminder(ctx context.Context, from, to time.Time) ([]*membership.Membership, error) {
	var out []*membership.Membership
	err := r.store.dbFrom(ctx).
		Where("is_active = ? AND reminder_sent = ? AND expires_at BETWEEN ? AND ?", true, false, from, to).
		Order("expires_at asc").
		Find(&out).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Reminder candidate query failed").
			Mark(ierr.ErrDatabase)
	}
	return out, nil
}

func (r *membershipRepository) ListDueForAutoRenew(ctx context.Context, from, to time.Time) ([]*membership.Membership, error) {
	var out []*membership.Membership
	err := r.store.dbFrom(ctx).
		Where("is_active = ? AND auto_renew = ? AND expires_at BETWEEN ? AND ?", true, true, from, to).
		Order("expires_at asc").
		Find(&out).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Auto-renew candidate query failed").
			Mark(ierr.ErrDatabase)
	}
	return out, nil
}

func (r *membershipRepository) CountActiveByCollection(ctx context.Context, collectionID string, asOf time.Time) (int64, error) {
	var count int64
	err := r.store.dbFrom(ctx).Model(&membership.Membership{}).
		Where("collection_id = ? AND is_active = ? AND expires_at > ?", collectionID, true, asOf).
		Count(&count).Error
	if err != nil {
		return 0, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *membershipRepository) GetActiveBySubscriberAndCommunity(ctx context.Context, subscriberID, communityID string) (*membership.Membership, error) {
	var m membership.Membership
	err := r.store.dbFrom(ctx).
		Where("subscriber_id = ? AND community_id = ? AND is_active = ? AND expires_at > ?",
			subscriberID, communityID, true, time.Now().UTC()).
		First(&m).Error
	if err != nil {
		if ierr.Is(err, gorm.ErrRecordNotFound) {
			return nil, ierr.NewError("no active membership for subscriber in community").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	return &m, nil
}
