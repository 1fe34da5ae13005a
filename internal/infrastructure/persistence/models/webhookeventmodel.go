package models

import (
	"time"

	"gorm.io/datatypes"

	"agencydesk/internal/shared/constants"
)

// WebhookEventModel is the append-only audit log of processed provider
// events. The unique stripe_event_id column is the idempotency backstop;
// stripe_subscription_id is a first-class indexed column so the stale
// out-of-order check never has to parse the persisted JSON envelope.
type WebhookEventModel struct {
	ID                   uint    `gorm:"primarykey"`
	UserID               *uint   `gorm:"index"`
	EventType            string  `gorm:"size:50"`
	EventName            string  `gorm:"not null;size:100;index"`
	StripeEventID        string  `gorm:"uniqueIndex;not null;size:255"`
	StripeSubscriptionID string  `gorm:"index;size:255"`
	EventData            datatypes.JSON
	ProcessedAt          time.Time
	ErrorMessage         *string `gorm:"size:1000"`
	CreatedAt            time.Time
}

func (WebhookEventModel) TableName() string {
	return constants.TableWebhookEvents
}
