package types

import "time"

// Status is the lifecycle status of a stored row. Rows are soft deleted by
// flipping the status, never removed.
type Status string

const (
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)

// BaseModel holds the audit columns shared by every persisted entity.
type BaseModel struct {
	Status    Status    `json:"status" gorm:"column:status;default:published"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
	CreatedBy string    `json:"created_by,omitempty" gorm:"column:created_by"`
	UpdatedBy string    `json:"updated_by,omitempty" gorm:"column:updated_by"`
}

// GetDefaultBaseModel returns a BaseModel stamped with the current UTC time.
func GetDefaultBaseModel() BaseModel {
	now := time.Now().UTC()
	return BaseModel{
		Status:    StatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TableName represents a database table name
type TableName string

const (
	TableNameMemberships      TableName = "memberships"
	TableNamePassCollections  TableName = "pass_collections"
	TableNameCommunityMembers TableName = "community_members"
	TableNameDailyAnalytics   TableName = "daily_analytics"
	TableNameJobExecutions    TableName = "job_executions"
)
