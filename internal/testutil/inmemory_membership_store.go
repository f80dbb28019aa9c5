package testutil

import (
	"context"
	"time"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/domain/membership"
	ierr "github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/errors"
)

// InMemoryMembershipStore implements membership.Repository
type InMemoryMembershipStore struct {
	*InMemoryStore[*membership.Membership]
}

// NewInMemoryMembershipStore creates a new in-memory membership store
func NewInMemoryMembershipStore() *InMemoryMembershipStore {
	return &InMemoryMembershipStore{
		InMemoryStore: NewInMemoryStore[*membership.Membership](),
	}
}

func copyMembership(m *membership.Membership) *membership.Membership {
	if m == nil {
		return nil
	}
	copied := *m
	return &copied
}

func (s *InMemoryMembershipStore) Create(ctx context.Context, m *membership.Membership) error {
	if m == nil {
		return ierr.NewError("membership cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, m.ID, copyMembership(m))
}

func (s *InMemoryMembershipStore) Get(ctx context.Context, id string) (*membership.Membership, error) {
	m, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return copyMembership(m), nil
}

func (s *InMemoryMembershipStore) Update(ctx context.Context, m *membership.Membership) error {
	if m == nil {
		return ierr.NewError("membership cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Update(ctx, m.ID, copyMembership(m))
}

func (s *InMemoryMembershipStore) ListExpired(ctx context.Context, asOf time.Time) ([]*membership.Membership, error) {
	return s.list(ctx, func(ctx context.Context, m *membership.Membership) bool {
		return m.IsActive && m.ExpiresAt.Before(asOf)
	}), nil
}

func (s *InMemoryMembershipStore) ListDueForReminder(ctx context.Context, from, to time.Time) ([]*membership.Membership, error) {
	return s.list(ctx, func(ctx context.Context, m *membership.Membership) bool {
		return m.IsActive && !m.ReminderSent &&
			!m.ExpiresAt.Before(from) && !m.ExpiresAt.After(to)
	}), nil
}

func (s *InMemoryMembershipStore) ListDueForAutoRenew(ctx context.Context, from, to time.Time) ([]*membership.Membership, error) {
	return s.list(ctx, func(ctx context.Context, m *membership.Membership) bool {
		return m.IsActive && m.AutoRenew &&
			!m.ExpiresAt.Before(from) && !m.ExpiresAt.After(to)
	}), nil
}

func (s *InMemoryMembershipStore) CountActiveByCollection(ctx context.Context, collectionID string, asOf time.Time) (int64, error) {
	count := s.InMemoryStore.Count(ctx, func(ctx context.Context, m *membership.Membership) bool {
		return m.CollectionID == collectionID && m.IsActive && !m.ExpiresAt.Before(asOf)
	})
	return int64(count), nil
}

func (s *InMemoryMembershipStore) GetActiveBySubscriberAndCommunity(ctx context.Context, subscriberID, communityID string) (*membership.Membership, error) {
	now := time.Now().UTC()
	matches := s.list(ctx, func(ctx context.Context, m *membership.Membership) bool {
		return m.SubscriberID == subscriberID && m.CommunityID == communityID &&
			m.IsActive && !m.ExpiresAt.Before(now)
	})
	if len(matches) == 0 {
		return nil, ierr.NewError("active membership not found").
			WithReportableDetails(map[string]any{
				"subscriber_id": subscriberID,
				"community_id":  communityID,
			}).
			Mark(ierr.ErrNotFound)
	}
	return matches[0], nil
}

func (s *InMemoryMembershipStore) list(ctx context.Context, filterFn func(ctx context.Context, m *membership.Membership) bool) []*membership.Membership {
	items := s.InMemoryStore.List(ctx, filterFn, func(a, b *membership.Membership) bool {
		return a.ExpiresAt.Before(b.ExpiresAt)
	})
	result := make([]*membership.Membership, 0, len(items))
	for _, m := range items {
		result = append(result, copyMembership(m))
	}
	return result
}
