package models

import (
	"time"

	"agencydesk/internal/shared/constants"
)

// AddonTierModel is the persistence model for addon tiers. LeadLimit feeds
// the agent quota on provisioning.
type AddonTierModel struct {
	ID        uint   `gorm:"primarykey"`
	TierID    string `gorm:"uniqueIndex;not null;size:100"`
	AddonSlug string `gorm:"index;not null;size:100"`
	Name      string `gorm:"not null;size:255"`
	LeadLimit int    `gorm:"not null;default:50"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (AddonTierModel) TableName() string {
	return constants.TableAddonTiers
}
