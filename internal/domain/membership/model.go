package membership

import (
	"time"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/types"
)

// Membership is a subscriber's timed access grant to a community, backed by
// an external proof-of-entitlement token minted on-chain.
//
// At most one row per (subscriber, community) may be active and unexpired
// at any time. ExpiresAt only ever increases: a renewal extends it by one
// billing period. Once expiry processing flips IsActive off, only a new
// minting event turns it back on.
type Membership struct {
	ID string `json:"id" gorm:"column:id;primaryKey"`

	SubscriberID string `json:"subscriber_id" gorm:"column:subscriber_id;index:idx_memberships_subscriber_community"`
	CommunityID  string `json:"community_id" gorm:"column:community_id;index:idx_memberships_subscriber_community"`
	CollectionID string `json:"collection_id" gorm:"column:collection_id;index"`

	// ProofToken is the opaque entitlement proof returned by the minting
	// collaborator. TxRef is the reference of the last mint/renew
	// transaction.
	ProofToken string `json:"proof_token" gorm:"column:proof_token"`
	TxRef      string `json:"tx_ref,omitempty" gorm:"column:tx_ref"`

	ExpiresAt    time.Time `json:"expires_at" gorm:"column:expires_at;index"`
	IsActive     bool      `json:"is_active" gorm:"column:is_active;index"`
	AutoRenew    bool      `json:"auto_renew" gorm:"column:auto_renew"`
	ReminderSent bool      `json:"reminder_sent" gorm:"column:reminder_sent"`

	// CancelledAt marks a subscriber-initiated cancellation. The pass stays
	// active until it runs out; the expiry sweep then books the lapse as a
	// cancellation instead of an expiry, so each lapse lands in exactly one
	// ledger counter. Cleared when auto-renew is turned back on.
	CancelledAt *time.Time `json:"cancelled_at,omitempty" gorm:"column:cancelled_at"`

	types.BaseModel
}

func (Membership) TableName() string {
	return string(types.TableNameMemberships)
}

// IsExpired reports whether the membership's access window has passed.
func (m *Membership) IsExpired(now time.Time) bool {
	return m.ExpiresAt.Before(now)
}

// ExpiresWithin reports whether the membership is active and expires inside
// [now, now+window].
func (m *Membership) ExpiresWithin(now time.Time, window time.Duration) bool {
	if !m.IsActive {
		return false
	}
	deadline := now.Add(window)
	return !m.ExpiresAt.Before(now) && !m.ExpiresAt.After(deadline)
}

// ExtendOnePeriod advances ExpiresAt by exactly one billing period and
// resets the reminder flag for the new period.
func (m *Membership) ExtendOnePeriod(period types.BillingPeriod) {
	m.ExpiresAt = period.Add(m.ExpiresAt)
	m.ReminderSent = false
}
