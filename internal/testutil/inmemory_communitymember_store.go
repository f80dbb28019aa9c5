package testutil

import (
	"context"
	"time"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/communitymember"
	ierr "github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/errors"
)

// InMemoryCommunityMemberStore implements communitymember.Repository
type InMemoryCommunityMemberStore struct {
	*InMemoryStore[*communitymember.CommunityMember]
}

// NewInMemoryCommunityMemberStore creates a new in-memory community member store
func NewInMemoryCommunityMemberStore() *InMemoryCommunityMemberStore {
	return &InMemoryCommunityMemberStore{
		InMemoryStore: NewInMemoryStore[*communitymember.CommunityMember](),
	}
}

func copyCommunityMember(m *communitymember.CommunityMember) *communitymember.CommunityMember {
	if m == nil {
		return nil
	}
	copied := *m
	if m.LeftAt != nil {
		leftAt := *m.LeftAt
		copied.LeftAt = &leftAt
	}
	return &copied
}

func (s *InMemoryCommunityMemberStore) Create(ctx context.Context, m *communitymember.CommunityMember) error {
	if m == nil {
		return ierr.NewError("community member cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, m.ID, copyCommunityMember(m))
}

func (s *InMemoryCommunityMemberStore) GetBySubscriberAndCommunity(ctx context.Context, subscriberID, communityID string) (*communitymember.CommunityMember, error) {
	matches := s.InMemoryStore.List(ctx, func(ctx context.Context, m *communitymember.CommunityMember) bool {
		return m.SubscriberID == subscriberID && m.CommunityID == communityID
	}, nil)
	if len(matches) == 0 {
		return nil, ierr.NewError("community member not found").
			WithReportableDetails(map[string]any{
				"subscriber_id": subscriberID,
				"community_id":  communityID,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyCommunityMember(matches[0]), nil
}

// Deactivate is idempotent: a missing or already inactive row is not an
// error, matching the production repository.
func (s *InMemoryCommunityMemberStore) Deactivate(ctx context.Context, subscriberID, communityID string, at time.Time) error {
	m, err := s.GetBySubscriberAndCommunity(ctx, subscriberID, communityID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil
		}
		return err
	}
	m.IsActive = false
	m.LeftAt = &at
	m.UpdatedAt = time.Now().UTC()
	return s.InMemoryStore.Update(ctx, m.ID, m)
}
