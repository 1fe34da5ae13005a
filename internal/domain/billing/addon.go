package billing

import (
	"time"

	vo "agencydesk/internal/domain/billing/valueobjects"
)

// AddonChatBot is the addon slug for the chat-bot agent addon.
const AddonChatBot = "chat_bot"

// AddonSubscription is one (user, addon) entitlement. StripeSubscriptionItemID
// identifies the line item inside a multi-item provider subscription so that
// line-item removal can be detected by diffing item-id sets.
type AddonSubscription struct {
	ID                       uint
	UserID                   uint
	AddonSlug                string
	TierID                   string
	Status                   vo.AddonStatus
	StripeSubscriptionID     string
	StripeSubscriptionItemID *string
	BillingInterval          vo.BillingInterval
	CurrentPeriodStart       *time.Time
	CurrentPeriodEnd         *time.Time
	CancelledAt              *time.Time
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// ParentDrift carries period and interval changes propagated from the parent
// provider subscription onto its addon records.
type ParentDrift struct {
	StripeSubscriptionID string
	BillingInterval      vo.BillingInterval
	CurrentPeriodStart   *time.Time
	CurrentPeriodEnd     *time.Time
	Cancelled            bool
	CancelledAt          *time.Time
}
