package models

import (
	"time"

	"agencydesk/internal/shared/constants"
)

// UserModel is the persistence model for the user directory. This service
// only reads users; account management writes happen elsewhere.
type UserModel struct {
	ID        uint   `gorm:"primarykey"`
	SID       string `gorm:"uniqueIndex;not null;size:50"`
	Name      string `gorm:"size:255"`
	Email     string `gorm:"uniqueIndex;not null;size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserModel) TableName() string {
	return constants.TableUsers
}
