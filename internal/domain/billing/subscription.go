package billing

import (
	"time"

	vo "agencydesk/internal/domain/billing/valueobjects"
)

// UserSubscription is the internal mirror of a user's plan subscription.
// Exactly one record exists per user. A nil StripeSubscriptionID means the
// user has no paid subscription; a fully-lapsed subscription is never left in
// cancelled state but rewound to the free plan with an active status.
type UserSubscription struct {
	ID                   uint
	UserID               uint
	PlanID               uint
	Status               vo.SubscriptionStatus
	StripeSubscriptionID *string
	StripeCustomerID     *string
	CheckoutSessionID    *string
	BillingInterval      vo.BillingInterval
	CurrentPeriodStart   *time.Time
	CurrentPeriodEnd     *time.Time
	TrialEndsAt          *time.Time
	CancelledAt          *time.Time
	CancelAtPeriodEnd    bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// HasPaidSubscription reports whether the record currently mirrors a provider
// subscription.
func (s *UserSubscription) HasPaidSubscription() bool {
	return s.StripeSubscriptionID != nil && *s.StripeSubscriptionID != ""
}

// IsLapsed reports whether the record was already rewound by a prior
// subscription deletion: no provider id, cancellation recorded.
func (s *UserSubscription) IsLapsed() bool {
	return !s.HasPaidSubscription() && s.CancelledAt != nil
}

// LifecycleUpdate carries the field set applied atomically when a provider
// subscription lifecycle event is reconciled.
type LifecycleUpdate struct {
	UserID               uint
	PlanID               uint
	Status               vo.SubscriptionStatus
	StripeSubscriptionID string
	StripeCustomerID     string
	BillingInterval      vo.BillingInterval
	CurrentPeriodStart   *time.Time
	CurrentPeriodEnd     *time.Time
	TrialEndsAt          *time.Time
	CancelledAt          *time.Time
	CancelAtPeriodEnd    bool
}

// FreePlanReset rewinds a deleted provider subscription to the designated
// free plan. The primary match is by provider subscription id; the user-id
// fallback only repairs rows whose provider id is already null.
type FreePlanReset struct {
	UserID               uint
	FreePlanID           uint
	StripeSubscriptionID string
	CancelledAt          time.Time
}
