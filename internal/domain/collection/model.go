package collection

import (
	"github.com/shopspring/decimal"

	"github.com/Looop-content-Dapp/LOOOP--SERVER-sub000/internal/types"
)

// Collection is a pass collection: the pricing and plan definition an
// artist issues for a community. Read-only from the lifecycle engine's
// perspective except for the monotonically increasing issued count.
type Collection struct {
	ID string `json:"id" gorm:"column:id;primaryKey"`

	ArtistID    string `json:"artist_id" gorm:"column:artist_id;index"`
	CommunityID string `json:"community_id" gorm:"column:community_id;index"`
	Name        string `json:"name" gorm:"column:name"`

	PricePerPeriod decimal.Decimal     `json:"price_per_period" gorm:"column:price_per_period;type:numeric(20,8)"`
	Currency       string              `json:"currency" gorm:"column:currency"`
	BillingPeriod  types.BillingPeriod `json:"billing_period" gorm:"column:billing_period"`

	// SupplyCap of 0 means uncapped.
	SupplyCap   int64 `json:"supply_cap" gorm:"column:supply_cap"`
	IssuedCount int64 `json:"issued_count" gorm:"column:issued_count"`
	IsActive    bool  `json:"is_active" gorm:"column:is_active;index"`

	types.BaseModel
}

func (Collection) TableName() string {
	return string(types.TableNamePassCollections)
}

// HasSupply reports whether another pass can still be minted.
func (c *Collection) HasSupply() bool {
	return c.SupplyCap == 0 || c.IssuedCount < c.SupplyCap
}
