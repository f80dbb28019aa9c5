package communitymember

import (
	"time"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/types"
)

// CommunityMember is the subscriber's membership row inside a community.
// It is deactivated together with its backing pass membership, inside the
// same store transaction.
type CommunityMember struct {
	ID string `json:"id" gorm:"column:id;primaryKey"`

	SubscriberID string `json:"subscriber_id" gorm:"column:subscriber_id;uniqueIndex:idx_community_members_pair"`
	CommunityID  string `json:"community_id" gorm:"column:community_id;uniqueIndex:idx_community_members_pair"`

	IsActive bool       `json:"is_active" gorm:"column:is_active"`
	JoinedAt time.Time  `json:"joined_at" gorm:"column:joined_at"`
	LeftAt   *time.Time `json:"left_at,omitempty" gorm:"column:left_at"`

	types.BaseModel
}

func (CommunityMember) TableName() string {
	return string(types.TableNameCommunityMembers)
}
