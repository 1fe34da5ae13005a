package models

import (
	"time"

	"agencydesk/internal/shared/constants"
)

// PlanModel is the persistence model for the plan catalog. The price id
// columns are what subscription line items are matched against.
type PlanModel struct {
	ID                   uint   `gorm:"primarykey"`
	SID                  string `gorm:"uniqueIndex;not null;size:50"`
	Slug                 string `gorm:"uniqueIndex;not null;size:100"`
	Name                 string `gorm:"not null;size:255"`
	StripePriceIDMonthly string `gorm:"index;size:255"`
	StripePriceIDAnnual  string `gorm:"index;size:255"`
	IsFree               bool   `gorm:"index;default:false"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (PlanModel) TableName() string {
	return constants.TablePlans
}
