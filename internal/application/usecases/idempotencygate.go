package usecases

import (
	"context"

	"agencydesk/internal/domain/billing"
)

// alreadyProcessed is the duplicate-delivery check: it runs before any
// mutation for lifecycle-sensitive events so a redelivery produces no second
// write and no second side effect. The unique constraint on the audit log's
// event id column backstops the race where two deliveries pass this check
// concurrently.
func (uc *ProcessWebhookEventUseCase) alreadyProcessed(ctx context.Context, eventID string) (bool, error) {
	exists, err := uc.events.ExistsByStripeEventID(ctx, eventID)
	if err != nil {
		return false, err
	}
	if exists {
		uc.logger.Infow("skipping duplicate delivery", "event_id", eventID)
	}
	return exists, nil
}

// isStaleLifecycleEvent detects the out-of-order case where a subscription
// deletion was processed before a delayed created/updated/resumed event for
// the same provider subscription. Both conditions must hold: the user's
// record was already rewound (null provider id, cancellation recorded) and
// the audit log holds a deletion event for this exact subscription id.
// Matching by subscription id rather than user keeps a legitimate new
// subscription, created right after a cancellation, from being blocked.
func (uc *ProcessWebhookEventUseCase) isStaleLifecycleEvent(ctx context.Context, current *billing.UserSubscription, subscriptionID string) (bool, error) {
	if current == nil || !current.IsLapsed() {
		return false, nil
	}
	deleted, err := uc.events.HasDeletedEventForSubscription(ctx, subscriptionID)
	if err != nil {
		return false, err
	}
	return deleted, nil
}
