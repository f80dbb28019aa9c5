package membership

import (
	"context"
	"time"
)

// Repository defines the interface for membership data access. Selection
// methods re-evaluate state at read time: the auto-renew candidates query
// filters on IsActive freshly, which is what makes expiry win the race
// against renewal.
type Repository interface {
	Create(ctx context.Context, m *Membership) error
	Get(ctx context.Context, id string) (*Membership, error)
	Update(ctx context.Context, m *Membership) error

	// ListExpired returns active memberships whose ExpiresAt is strictly
	// before asOf.
	ListExpired(ctx context.Context, asOf time.Time) ([]*Membership, error)

	// ListDueForReminder returns active memberships with ReminderSent=false
	// expiring within [from, to].
	ListDueForReminder(ctx context.Context, from, to time.Time) ([]*Membership, error)

	// ListDueForAutoRenew returns active memberships with AutoRenew=true
	// expiring within [from, to].
	ListDueForAutoRenew(ctx context.Context, from, to time.Time) ([]*Membership, error)

	// CountActiveByCollection counts active, non-expired memberships minted
	// under a collection.
	CountActiveByCollection(ctx context.Context, collectionID string, asOf time.Time) (int64, error)

	// GetActiveBySubscriberAndCommunity returns the single active unexpired
	// membership for the pair, or ErrNotFound.
	GetActiveBySubscriberAndCommunity(ctx context.Context, subscriberID, communityID string) (*Membership, error)
}
