package models

import (
	"time"

	"agencydesk/internal/shared/constants"
)

// AddonSubscriptionModel is the persistence model for per-user addon
// entitlements. Uniqueness on (user_id, addon_slug); the subscription item id
// is what line-item-removal detection diffs against.
type AddonSubscriptionModel struct {
	ID                       uint    `gorm:"primarykey"`
	UserID                   uint    `gorm:"uniqueIndex:idx_user_addon,priority:1;not null"`
	AddonSlug                string  `gorm:"uniqueIndex:idx_user_addon,priority:2;not null;size:100"`
	TierID                   string  `gorm:"size:100"`
	Status                   string  `gorm:"not null;size:20;index"`
	StripeSubscriptionID     string  `gorm:"index;size:255"`
	StripeSubscriptionItemID *string `gorm:"size:255"`
	BillingInterval          string  `gorm:"size:20"`
	CurrentPeriodStart       *time.Time
	CurrentPeriodEnd         *time.Time
	CancelledAt              *time.Time
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

func (AddonSubscriptionModel) TableName() string {
	return constants.TableAddonSubscriptions
}
