package billing

import (
	"encoding/json"
	"strings"
	"time"
)

// WebhookEvent is one append-only audit row per processed provider event.
// StripeEventID carries a unique constraint and is the idempotency key; a
// concurrent duplicate insert losing the race is benign, not an error.
// StripeSubscriptionID is persisted as a first-class column so the stale
// out-of-order check does not have to dig into the JSON envelope.
type WebhookEvent struct {
	ID                   uint
	UserID               *uint
	EventType            string
	EventName            string
	StripeEventID        string
	StripeSubscriptionID string
	EventData            json.RawMessage
	ProcessedAt          time.Time
	ErrorMessage         *string
}

// EventCategory derives the coarse event family from a full provider event
// name, e.g. "customer.subscription.updated" -> "subscription".
func EventCategory(eventName string) string {
	switch {
	case strings.HasPrefix(eventName, "checkout."):
		return "checkout"
	case strings.HasPrefix(eventName, "customer.subscription."):
		return "subscription"
	case strings.HasPrefix(eventName, "invoice."):
		return "invoice"
	default:
		return "other"
	}
}
