package billing

import (
	"context"
	"time"
)

// SubscriptionRepository persists user subscription rows. A user has at most
// one row; lifecycle events mutate it in place.
type SubscriptionRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*UserSubscription, error)
	GetByStripeCustomerID(ctx context.Context, customerID string) (*UserSubscription, error)
	GetByStripeSubscriptionID(ctx context.Context, subscriptionID string) (*UserSubscription, error)

	// SaveCheckoutInfo stamps provider identifiers captured at checkout onto
	// the user's subscription row, creating the row if absent.
	SaveCheckoutInfo(ctx context.Context, userID uint, customerID, subscriptionID, checkoutSessionID string) error

	// ApplyLifecycleEvent applies a subscription state update and appends the
	// audit row in a single transaction. A duplicate audit insert rolls the
	// whole write back and returns a conflict error.
	ApplyLifecycleEvent(ctx context.Context, update *LifecycleUpdate, audit *WebhookEvent) error

	// UpdateStatusByStripeSubscriptionID flips only the status column of the
	// row bound to the given provider subscription id.
	UpdateStatusByStripeSubscriptionID(ctx context.Context, subscriptionID string, status string) error

	// ResetToFreePlan rewinds the row bound to the given provider subscription
	// id back to the free plan. When no row carries that id and userID is
	// non-zero, the user's row is reset only if its provider id is unset.
	// Returns false when no row matched at all.
	ResetToFreePlan(ctx context.Context, reset *FreePlanReset) (bool, error)
}

// WebhookEventRepository is the append-only audit log. The provider event id
// is unique and doubles as the idempotency key.
type WebhookEventRepository interface {
	ExistsByStripeEventID(ctx context.Context, eventID string) (bool, error)

	// HasDeletedEventForSubscription reports whether a deletion event was
	// already recorded for the given provider subscription id.
	HasDeletedEventForSubscription(ctx context.Context, subscriptionID string) (bool, error)

	// Insert appends an audit row. A duplicate event id is swallowed and
	// returns nil; the row already being there is the desired outcome.
	Insert(ctx context.Context, event *WebhookEvent) error
}

// AddonSubscriptionRepository persists per-user addon entitlements keyed by
// (user, addon slug).
type AddonSubscriptionRepository interface {
	GetByUserAndAddon(ctx context.Context, userID uint, addonSlug string) (*AddonSubscription, error)
	ListByStripeSubscriptionID(ctx context.Context, subscriptionID string) ([]*AddonSubscription, error)

	// Upsert creates or replaces the entitlement for (user, addon slug).
	Upsert(ctx context.Context, sub *AddonSubscription) error

	// SyncParentDrift pushes parent subscription changes (period bounds,
	// cancel flag, status) onto every addon row bound to the same provider
	// subscription id.
	SyncParentDrift(ctx context.Context, subscriptionID string, drift *ParentDrift) error

	Cancel(ctx context.Context, userID uint, addonSlug string, cancelledAt time.Time) error
	CancelByStripeSubscriptionID(ctx context.Context, subscriptionID string, cancelledAt time.Time) error
}

// SeatPackRepository persists seat-pack line items. Each row is one purchased
// block keyed by its provider subscription item id; a user may hold several.
type SeatPackRepository interface {
	ListByStripeSubscriptionID(ctx context.Context, subscriptionID string) ([]*SeatPack, error)

	// Upsert creates or replaces the pack bound to its provider subscription
	// item id.
	Upsert(ctx context.Context, pack *SeatPack) error

	Cancel(ctx context.Context, stripeItemID string, cancelledAt time.Time) error
	CancelByStripeSubscriptionID(ctx context.Context, subscriptionID string, cancelledAt time.Time) error
}

// AgentRepository persists provisioned chat-bot agents, one per user.
type AgentRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*ProvisionedAgent, error)
	Save(ctx context.Context, agent *ProvisionedAgent) error
	UpdateStatus(ctx context.Context, userID uint, status string) error
	UpdateTier(ctx context.Context, userID uint, tierID string) error
}

// PaymentRepository is the append-only payment ledger.
type PaymentRepository interface {
	Insert(ctx context.Context, payment *Payment) error
	ListByUserID(ctx context.Context, userID uint) ([]*Payment, error)
}

// PlanRepository reads the plan catalog.
type PlanRepository interface {
	GetByID(ctx context.Context, id uint) (*Plan, error)
	GetBySlug(ctx context.Context, slug string) (*Plan, error)
	GetByStripePriceID(ctx context.Context, priceID string) (*Plan, error)
	GetFreePlan(ctx context.Context) (*Plan, error)
}

// AddonTierRepository reads the addon tier catalog.
type AddonTierRepository interface {
	GetByTierID(ctx context.Context, tierID string) (*AddonTier, error)
}
