package models

import (
	"time"

	"agencydesk/internal/shared/constants"
)

// ProvisionedAgentModel is the persistence model for chat-bot agents, one row
// per user. Rows are only status-transitioned, never deleted, so failed
// provisioning attempts stay visible.
type ProvisionedAgentModel struct {
	ID              uint    `gorm:"primarykey"`
	UserID          uint    `gorm:"uniqueIndex;not null"`
	ExternalAgentID string  `gorm:"index;size:255"`
	Status          string  `gorm:"not null;size:20;index"`
	TierID          string  `gorm:"size:100"`
	ErrorMessage    *string `gorm:"size:1000"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (ProvisionedAgentModel) TableName() string {
	return constants.TableProvisionedAgents
}
