package models

import (
	"time"

	"agencydesk/internal/shared/constants"
)

// SeatPackModel is the persistence model for purchased seat blocks. Identity
// is the provider subscription item; a user may hold several blocks.
type SeatPackModel struct {
	ID                       uint   `gorm:"primarykey"`
	UserID                   uint   `gorm:"index;not null"`
	StripeSubscriptionID     string `gorm:"index;size:255"`
	StripeSubscriptionItemID string `gorm:"uniqueIndex;not null;size:255"`
	Quantity                 int    `gorm:"not null;default:0"`
	Status                   string `gorm:"not null;size:20;index"`
	CancelledAt              *time.Time
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

func (SeatPackModel) TableName() string {
	return constants.TableSeatPacks
}
