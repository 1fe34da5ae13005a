package models

import (
	"time"

	"agencydesk/internal/shared/constants"
)

// UserSubscriptionModel is the persistence model for the internal mirror of a
// user's plan subscription. Exactly one row per user; a null
// stripe_subscription_id means no paid subscription.
type UserSubscriptionModel struct {
	ID                   uint    `gorm:"primarykey"`
	UserID               uint    `gorm:"uniqueIndex;not null"`
	PlanID               uint    `gorm:"index;not null"`
	Status               string  `gorm:"not null;size:20;index"`
	StripeSubscriptionID *string `gorm:"index;size:255"`
	StripeCustomerID     *string `gorm:"index;size:255"`
	CheckoutSessionID    *string `gorm:"size:255"`
	BillingInterval      string  `gorm:"size:20"`
	CurrentPeriodStart   *time.Time
	CurrentPeriodEnd     *time.Time
	TrialEndsAt          *time.Time
	CancelledAt          *time.Time
	CancelAtPeriodEnd    bool `gorm:"default:false"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (UserSubscriptionModel) TableName() string {
	return constants.TableUserSubscriptions
}
