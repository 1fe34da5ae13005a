package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"agencydesk/internal/domain/billing"
	vo "agencydesk/internal/domain/billing/valueobjects"
	"agencydesk/internal/domain/user"
	"agencydesk/internal/shared/biztime"
	"agencydesk/internal/shared/constants"
	"agencydesk/internal/shared/errors"
)

// handleSubscriptionLifecycle reconciles created/updated/resumed events: it
// applies the subscription state atomically with the audit row, propagates
// drift onto addon records, detects removed line items, and runs the agent
// provisioning sync.
func (uc *ProcessWebhookEventUseCase) handleSubscriptionLifecycle(ctx context.Context, envelope *billing.EventEnvelope) (*ProcessResult, error) {
	var payload billing.SubscriptionPayload
	if err := json.Unmarshal(envelope.ObjectRaw, &payload); err != nil {
		return nil, errors.NewBadRequestError("malformed subscription payload", err.Error())
	}

	u, err := uc.resolveUser(ctx, payload.Metadata, payload.Customer)
	if err != nil {
		return nil, err
	}
	if u == nil {
		uc.auditUnresolved(ctx, envelope, payload.ID)
		return &ProcessResult{EventType: envelope.Type, Outcome: OutcomeUnresolved}, nil
	}

	current, err := uc.subscriptions.GetByUserID(ctx, u.ID)
	if err != nil && !errors.IsNotFoundError(err) {
		return nil, err
	}

	stale, err := uc.isStaleLifecycleEvent(ctx, current, payload.ID)
	if err != nil {
		return nil, err
	}
	if stale {
		uc.auditStale(ctx, envelope, u.ID, payload.ID)
		return &ProcessResult{EventType: envelope.Type, Outcome: OutcomeStale}, nil
	}

	planItem, plan, err := uc.findPlanItem(ctx, &payload)
	if err != nil {
		return nil, err
	}
	planID, err := uc.resolvePlanID(plan, current)
	if err != nil {
		uc.auditWithError(ctx, envelope, u.ID, payload.ID, "no plan matched subscription items")
		return &ProcessResult{EventType: envelope.Type, Outcome: OutcomeUnresolved}, nil
	}

	update := buildLifecycleUpdate(u.ID, planID, &payload, planItem)
	audit := newAuditEvent(envelope)
	audit.UserID = &u.ID
	audit.StripeSubscriptionID = payload.ID

	if err := uc.subscriptions.ApplyLifecycleEvent(ctx, update, audit); err != nil {
		if errors.IsDuplicateError(err) || errors.IsConflictError(err) {
			uc.logger.Infow("lifecycle event already applied by concurrent delivery", "event_id", envelope.ID)
			return &ProcessResult{EventType: envelope.Type, Outcome: OutcomeDuplicate}, nil
		}
		return nil, err
	}

	if envelope.Type == billing.EventSubscriptionCreated {
		uc.sendWelcome(ctx, u, plan, planItem)
	}

	uc.propagateAddonDrift(ctx, &payload, update)
	uc.cancelRemovedItems(ctx, &payload)
	uc.syncAgentProvisioning(ctx, u.ID)

	return &ProcessResult{EventType: envelope.Type, Outcome: OutcomeProcessed}, nil
}

// findPlanItem identifies the plan line item among potentially several items
// (plan, addons, seat packs) by matching item price ids against the plan
// catalog. A single-item subscription short-circuits the same way since its
// only candidate is still matched by price, never by position.
func (uc *ProcessWebhookEventUseCase) findPlanItem(ctx context.Context, payload *billing.SubscriptionPayload) (*billing.SubscriptionItemPayload, *billing.Plan, error) {
	for i := range payload.Items.Data {
		item := &payload.Items.Data[i]
		plan, err := uc.plans.GetByStripePriceID(ctx, item.Price.ID)
		if err != nil {
			if errors.IsNotFoundError(err) {
				continue
			}
			return nil, nil, err
		}
		return item, plan, nil
	}
	return nil, nil, nil
}

// resolvePlanID picks the plan id for the lifecycle write: the matched plan
// when one exists, otherwise the current record's plan is kept so an
// addon-only item list does not wipe the user's plan reference.
func (uc *ProcessWebhookEventUseCase) resolvePlanID(plan *billing.Plan, current *billing.UserSubscription) (uint, error) {
	if plan != nil {
		return plan.ID, nil
	}
	if current != nil && current.PlanID != 0 {
		return current.PlanID, nil
	}
	return 0, billing.ErrSubscriptionNotMatched
}

func buildLifecycleUpdate(userID, planID uint, payload *billing.SubscriptionPayload, planItem *billing.SubscriptionItemPayload) *billing.LifecycleUpdate {
	interval := vo.BillingIntervalMonthly
	if planItem != nil {
		interval = vo.BillingIntervalFromStripe(planItem.Price.Recurring.Interval)
	}
	start, end := payload.PeriodBounds(planItem)
	return &billing.LifecycleUpdate{
		UserID:               userID,
		PlanID:               planID,
		Status:               vo.SubscriptionStatusFromStripe(payload.Status),
		StripeSubscriptionID: payload.ID,
		StripeCustomerID:     payload.Customer,
		BillingInterval:      interval,
		CurrentPeriodStart:   biztime.FromUnixPtr(start),
		CurrentPeriodEnd:     biztime.FromUnixPtr(end),
		TrialEndsAt:          biztime.FromUnixPtr(payload.TrialEnd),
		CancelledAt:          biztime.FromUnixPtr(payload.CanceledAt),
		CancelAtPeriodEnd:    payload.CancelAtPeriodEnd,
	}
}

// sendWelcome dispatches the first-creation welcome and admin notices. The
// plan display name comes from a best-effort provider product lookup.
func (uc *ProcessWebhookEventUseCase) sendWelcome(ctx context.Context, u *user.User, plan *billing.Plan, planItem *billing.SubscriptionItemPayload) {
	planName := constants.DefaultPlanDisplayName
	if planItem != nil && planItem.Price.Product != "" {
		if name, err := uc.gateway.GetProductName(ctx, planItem.Price.Product); err != nil {
			uc.logger.Warnw("product name lookup failed", "product_id", planItem.Price.Product, "error", err)
		} else if name != "" {
			planName = name
		}
	} else if plan != nil && plan.Name != "" {
		planName = plan.Name
	}

	uc.notify(ctx, TemplatePremiumWelcome, u, map[string]string{
		"name":      u.Name,
		"plan_name": planName,
	})
	uc.notifyAdmin(ctx, "New subscription",
		fmt.Sprintf("User %s subscribed to %s.", u.Email, planName))
}

// propagateAddonDrift pushes the parent subscription's period bounds,
// interval and cancellation state onto addon records sharing the provider
// subscription id. Only a cancelled parent status cancels the addons.
func (uc *ProcessWebhookEventUseCase) propagateAddonDrift(ctx context.Context, payload *billing.SubscriptionPayload, update *billing.LifecycleUpdate) {
	drift := &billing.ParentDrift{
		StripeSubscriptionID: payload.ID,
		BillingInterval:      update.BillingInterval,
		CurrentPeriodStart:   update.CurrentPeriodStart,
		CurrentPeriodEnd:     update.CurrentPeriodEnd,
	}
	if update.Status == vo.SubscriptionStatusCancelled {
		drift.Cancelled = true
		now := biztime.NowUTC()
		drift.CancelledAt = &now
	}
	if err := uc.addons.SyncParentDrift(ctx, payload.ID, drift); err != nil {
		uc.logger.Errorw("failed to propagate drift onto addon records",
			"subscription_id", payload.ID, "error", err)
	}
}

// cancelRemovedItems diffs the subscription's current item-id set against
// tracked addon and seat-pack item ids; anything tracked but missing was
// removed provider-side and is marked cancelled. Cancelling a seat pack
// never evicts already-assigned seats.
func (uc *ProcessWebhookEventUseCase) cancelRemovedItems(ctx context.Context, payload *billing.SubscriptionPayload) {
	present := payload.ItemIDs()
	now := biztime.NowUTC()

	addons, err := uc.addons.ListByStripeSubscriptionID(ctx, payload.ID)
	if err != nil {
		uc.logger.Errorw("failed to list addon records for item diff", "subscription_id", payload.ID, "error", err)
	} else {
		for _, addon := range addons {
			if addon.Status == vo.AddonStatusCancelled || addon.StripeSubscriptionItemID == nil {
				continue
			}
			if !present[*addon.StripeSubscriptionItemID] {
				if err := uc.addons.Cancel(ctx, addon.UserID, addon.AddonSlug, now); err != nil {
					uc.logger.Errorw("failed to cancel removed addon item",
						"user_id", addon.UserID, "addon", addon.AddonSlug, "error", err)
				}
			}
		}
	}

	packs, err := uc.seatPacks.ListByStripeSubscriptionID(ctx, payload.ID)
	if err != nil {
		uc.logger.Errorw("failed to list seat packs for item diff", "subscription_id", payload.ID, "error", err)
		return
	}
	for _, pack := range packs {
		if pack.Status == vo.AddonStatusCancelled || pack.StripeSubscriptionItemID == "" {
			continue
		}
		if !present[pack.StripeSubscriptionItemID] {
			if err := uc.seatPacks.Cancel(ctx, pack.StripeSubscriptionItemID, now); err != nil {
				uc.logger.Errorw("failed to cancel removed seat pack",
					"user_id", pack.UserID, "item_id", pack.StripeSubscriptionItemID, "error", err)
			}
		}
	}
}

// auditStale records the non-fatal skip of an out-of-order lifecycle event.
func (uc *ProcessWebhookEventUseCase) auditStale(ctx context.Context, envelope *billing.EventEnvelope, userID uint, subscriptionID string) {
	uc.logger.Warnw("skipping stale lifecycle event for deleted subscription",
		"event_id", envelope.ID, "subscription_id", subscriptionID)
	uc.auditWithError(ctx, envelope, userID, subscriptionID,
		"stale event: subscription already deleted")
}

func (uc *ProcessWebhookEventUseCase) auditWithError(ctx context.Context, envelope *billing.EventEnvelope, userID uint, subscriptionID, message string) {
	audit := newAuditEvent(envelope)
	audit.UserID = &userID
	audit.StripeSubscriptionID = subscriptionID
	audit.ErrorMessage = &message
	if err := uc.events.Insert(ctx, audit); err != nil {
		uc.logger.Errorw("failed to record audit entry", "event_id", envelope.ID, "error", err)
	}
}
