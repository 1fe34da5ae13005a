package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"agencydesk/internal/domain/billing"
	vo "agencydesk/internal/domain/billing/valueobjects"
	"agencydesk/internal/domain/user"
	"agencydesk/internal/shared/errors"
	"agencydesk/internal/shared/goroutine"
)

// handleCheckoutCompleted stamps the provider customer and checkout session
// ids onto the user's subscription record, and when the session carries
// addon-purchase metadata, creates the addon entitlement and kicks off
// provisioning in the background.
func (uc *ProcessWebhookEventUseCase) handleCheckoutCompleted(ctx context.Context, envelope *billing.EventEnvelope) (*ProcessResult, error) {
	var session billing.CheckoutSessionPayload
	if err := json.Unmarshal(envelope.ObjectRaw, &session); err != nil {
		return nil, errors.NewBadRequestError("malformed checkout session payload", err.Error())
	}

	u, err := uc.resolveUser(ctx, session.Metadata, session.Customer)
	if err != nil {
		return nil, err
	}
	if u == nil {
		uc.auditUnresolved(ctx, envelope, session.Subscription)
		return &ProcessResult{EventType: envelope.Type, Outcome: OutcomeUnresolved}, nil
	}

	if err := uc.subscriptions.SaveCheckoutInfo(ctx, u.ID, session.Customer, session.Subscription, session.ID); err != nil {
		return nil, err
	}

	if addonSlug := session.Metadata["addon_id"]; addonSlug != "" && session.Subscription != "" {
		uc.applyAddonCheckout(ctx, u, addonSlug, session.Metadata["tier_id"], session.Subscription)
	}

	audit := newAuditEvent(envelope)
	userID := u.ID
	audit.UserID = &userID
	audit.StripeSubscriptionID = session.Subscription
	if err := uc.events.Insert(ctx, audit); err != nil {
		return nil, err
	}

	return &ProcessResult{EventType: envelope.Type, Outcome: OutcomeProcessed}, nil
}

// applyAddonCheckout upserts the addon entitlement created by an addon
// checkout, with period bounds fetched from the provider subscription, then
// triggers the agent sync and the purchase notices as a detached task.
// Everything here is best effort; failures are logged and never fail the
// webhook call.
func (uc *ProcessWebhookEventUseCase) applyAddonCheckout(ctx context.Context, u *user.User, addonSlug, tierID, subscriptionID string) {
	addon := &billing.AddonSubscription{
		UserID:               u.ID,
		AddonSlug:            addonSlug,
		TierID:               tierID,
		Status:               vo.AddonStatusActive,
		StripeSubscriptionID: subscriptionID,
		BillingInterval:      vo.BillingIntervalMonthly,
	}

	providerSub, err := uc.gateway.GetSubscription(ctx, subscriptionID)
	if err != nil {
		uc.logger.Warnw("could not fetch provider subscription for addon checkout",
			"subscription_id", subscriptionID, "error", err)
	} else if item := providerSub.FirstItem(); item != nil {
		addon.StripeSubscriptionItemID = &item.ID
		addon.BillingInterval = vo.BillingIntervalFromStripe(item.Interval)
		if !item.CurrentPeriodStart.IsZero() {
			start := item.CurrentPeriodStart
			addon.CurrentPeriodStart = &start
		}
		if !item.CurrentPeriodEnd.IsZero() {
			end := item.CurrentPeriodEnd
			addon.CurrentPeriodEnd = &end
		}
	}

	if err := uc.addons.Upsert(ctx, addon); err != nil {
		uc.logger.Errorw("failed to upsert addon subscription from checkout",
			"user_id", u.ID, "addon", addonSlug, "error", err)
		return
	}

	goroutine.SafeGo(uc.logger, "checkout-addon-provision", func() {
		bgCtx := context.Background()
		uc.syncAgentProvisioning(bgCtx, u.ID)
		uc.notify(bgCtx, TemplateAddonPurchased, u, map[string]string{
			"name":       u.Name,
			"addon_name": addonSlug,
		})
		uc.notifyAdmin(bgCtx, "Addon purchased",
			fmt.Sprintf("User %s purchased addon %s (tier %s).", u.Email, addonSlug, tierID))
	})
}
