package gormstore

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/communitymember"
	ierr "github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/errors"
	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/types"
)

type communityMemberRepository struct {
	store *Store
}

// NewCommunityMemberRepository returns the postgres-backed community member
// repository.
func NewCommunityMemberRepository(store *Store) communitymember.Repository {
	return &communityMemberRepository{store: store}
}

func (r *communityMemberRepository) Create(ctx context.Context, m *communitymember.CommunityMember) error {
	if m.ID == "" {
		m.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COMMUNITY_MEMBER)
	}
	if err := r.store.dbFrom(ctx).Create(m).Error; err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create community member").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *communityMemberRepository) GetBySubscriberAndCommunity(ctx context.Context, subscriberID, communityID string) (*communitymember.CommunityMember, error) {
	var m communitymember.CommunityMember
	err := r.store.dbFrom(ctx).
		Where("subscriber_id = ? AND community_id = ?", subscriberID, communityID).
		First(&m).Error
	if err != nil {
		if ierr.Is(err, gorm.ErrRecordNotFound) {
			return nil, ierr.NewError("community member not found").Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	return &m, nil
}

func (r *communityMemberRepository) Deactivate(ctx context.Context, subscriberID, communityID string, at time.Time) error {
	res := r.store.dbFrom(ctx).Model(&communitymember.CommunityMember{}).
		Where("subscriber_id = ? AND community_id = ? AND is_active = ?", subscriberID, communityID, true).
		Updates(map[string]any{
			"is_active":  false,
			"left_at":    at,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return ierr.WithError(res.Error).
			WithHint("Failed to deactivate community member").
			Mark(ierr.ErrDatabase)
	}
	// Already-inactive rows are fine: deactivation is idempotent.
	return nil
}
