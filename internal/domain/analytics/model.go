package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/types"
)

// DailyKey is the composite key of one analytics row: one row per artist,
// community, and calendar day (UTC).
type DailyKey struct {
	ArtistID    string
	CommunityID string
	Day         time.Time
}

// NewDailyKey normalizes the day to UTC midnight.
func NewDailyKey(artistID, communityID string, day time.Time) DailyKey {
	return DailyKey{
		ArtistID:    artistID,
		CommunityID: communityID,
		Day:         DayOf(day),
	}
}

// DayOf truncates t to its UTC calendar day.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DailyRecord is the append/merge-only daily aggregate for a community.
// Rows are created lazily on the first event of a day, merged in place
// afterward, and never deleted once the day has passed.
type DailyRecord struct {
	ID string `json:"id" gorm:"column:id;primaryKey"`

	ArtistID    string    `json:"artist_id" gorm:"column:artist_id;uniqueIndex:idx_daily_analytics_key"`
	CommunityID string    `json:"community_id" gorm:"column:community_id;uniqueIndex:idx_daily_analytics_key"`
	Day         time.Time `json:"day" gorm:"column:day;uniqueIndex:idx_daily_analytics_key"`

	NewSubscriptions       int `json:"new_subscriptions" gorm:"column:new_subscriptions"`
	RenewedSubscriptions   int `json:"renewed_subscriptions" gorm:"column:renewed_subscriptions"`
	ExpiredSubscriptions   int `json:"expired_subscriptions" gorm:"column:expired_subscriptions"`
	CancelledSubscriptions int `json:"cancelled_subscriptions" gorm:"column:cancelled_subscriptions"`

	// TotalActiveSubscriptions is a point-in-time snapshot, max-of-writes
	// within the day, never a running sum.
	TotalActiveSubscriptions int `json:"total_active_subscriptions" gorm:"column:total_active_subscriptions"`

	Revenue  decimal.Decimal `json:"revenue" gorm:"column:revenue;type:numeric(20,8)"`
	Currency string          `json:"currency" gorm:"column:currency"`

	types.BaseModel
}

func (DailyRecord) TableName() string {
	return string(types.TableNameDailyAnalytics)
}

// Key returns the record's composite key.
func (r *DailyRecord) Key() DailyKey {
	return NewDailyKey(r.ArtistID, r.CommunityID, r.Day)
}

// DailyDelta is one merge against a daily record. Count fields add,
// Revenue adds, ActiveSnapshot (when set) replaces the snapshot column
// with max-of-writes semantics.
type DailyDelta struct {
	NewSubscriptions       int
	RenewedSubscriptions   int
	ExpiredSubscriptions   int
	CancelledSubscriptions int
	Revenue                decimal.Decimal
	Currency               string
	ActiveSnapshot         *int
}

// Apply merges the delta into the record.
func (r *DailyRecord) Apply(delta DailyDelta) {
	r.NewSubscriptions += delta.NewSubscriptions
	r.RenewedSubscriptions += delta.RenewedSubscriptions
	r.ExpiredSubscriptions += delta.ExpiredSubscriptions
	r.CancelledSubscriptions += delta.CancelledSubscriptions
	r.Revenue = r.Revenue.Add(delta.Revenue)
	if delta.Currency != "" {
		r.Currency = delta.Currency
	}
	if delta.ActiveSnapshot != nil && *delta.ActiveSnapshot > r.TotalActiveSubscriptions {
		r.TotalActiveSubscriptions = *delta.ActiveSnapshot
	}
	r.UpdatedAt = time.Now().UTC()
}

// NewFromDelta creates the day's first record from a delta.
func NewFromDelta(key DailyKey, delta DailyDelta) *DailyRecord {
	r := &DailyRecord{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ANALYTICS),
		ArtistID:    key.ArtistID,
		CommunityID: key.CommunityID,
		Day:         key.Day,
		Revenue:     decimal.Zero,
		BaseModel:   types.GetDefaultBaseModel(),
	}
	r.Apply(delta)
	return r
}
