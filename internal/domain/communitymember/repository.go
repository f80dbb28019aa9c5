package communitymember

import (
	"context"
	"time"
)

// Repository defines the interface for community member data access.
type Repository interface {
	Create(ctx context.Context, m *CommunityMember) error
	GetBySubscriberAndCommunity(ctx context.Context, subscriberID, communityID string) (*CommunityMember, error)

	// Deactivate marks the member row inactive and stamps LeftAt. Called
	// inside the membership-expiry transaction.
	Deactivate(ctx context.Context, subscriberID, communityID string, at time.Time) error
}
