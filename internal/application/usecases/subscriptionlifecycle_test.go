package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agencydesk/internal/domain/billing"
	vo "agencydesk/internal/domain/billing/valueobjects"
	apperrors "agencydesk/internal/shared/errors"
)

func subscriptionPayload(subID, status string, items ...billing.SubscriptionItemPayload) *billing.SubscriptionPayload {
	payload := &billing.SubscriptionPayload{
		ID:                 subID,
		Customer:           "cus_life",
		Status:             status,
		CurrentPeriodStart: 1767225600,
		CurrentPeriodEnd:   1769904000,
	}
	payload.Items.Data = items
	return payload
}

func planItem(itemID, priceID, product, interval string) billing.SubscriptionItemPayload {
	item := billing.SubscriptionItemPayload{ID: itemID, Quantity: 1}
	item.Price.ID = priceID
	item.Price.Product = product
	item.Price.Recurring.Interval = interval
	return item
}

func TestHandleSubscriptionLifecycle(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) *fixture {
		f := newFixture(t)
		f.addUser(1, "Jane", "jane@example.com")
		f.subs.byCustomer["cus_life"] = &billing.UserSubscription{UserID: 1, PlanID: 9}
		f.plans.byPrice["price_annual"] = &billing.Plan{ID: 5, Name: "Premium", StripePriceIDAnnual: "price_annual"}
		return f
	}

	t.Run("created event applies state and sends welcome", func(t *testing.T) {
		f := setup(t)
		f.gateway.products["prod_premium"] = "Premium Annual"

		item := planItem("si_plan", "price_annual", "prod_premium", "year")
		item.CurrentPeriodStart = 1767312000
		item.CurrentPeriodEnd = 1798848000
		payload := subscriptionPayload("sub_new", "active", item)

		result, err := f.uc.Execute(ctx, envelope(t, "evt_l1", billing.EventSubscriptionCreated, payload))
		require.NoError(t, err)
		assert.Equal(t, OutcomeProcessed, result.Outcome)

		require.Len(t, f.subs.applied, 1)
		update := f.subs.applied[0]
		assert.Equal(t, uint(1), update.UserID)
		assert.Equal(t, uint(5), update.PlanID)
		assert.Equal(t, vo.SubscriptionStatusActive, update.Status)
		assert.Equal(t, vo.BillingIntervalAnnual, update.BillingInterval)
		require.NotNil(t, update.CurrentPeriodStart)
		assert.Equal(t, int64(1767312000), update.CurrentPeriodStart.Unix(), "item-level bounds win")

		require.Len(t, f.subs.appliedAudits, 1)
		assert.Equal(t, "evt_l1", f.subs.appliedAudits[0].StripeEventID)
		assert.Equal(t, "sub_new", f.subs.appliedAudits[0].StripeSubscriptionID)

		sent := f.notifier.notifications()
		require.Len(t, sent, 1)
		assert.Equal(t, TemplatePremiumWelcome, sent[0].Template)
		assert.Equal(t, "Premium Annual", sent[0].Vars["plan_name"])
		assert.Len(t, f.admin.list(), 1)
	})

	t.Run("updated event does not send welcome", func(t *testing.T) {
		f := setup(t)
		payload := subscriptionPayload("sub_new", "active", planItem("si_plan", "price_annual", "", "year"))

		result, err := f.uc.Execute(ctx, envelope(t, "evt_l2", billing.EventSubscriptionUpdated, payload))
		require.NoError(t, err)
		assert.Equal(t, OutcomeProcessed, result.Outcome)
		assert.Empty(t, f.notifier.notifications())
	})

	t.Run("unknown provider status maps to past_due", func(t *testing.T) {
		f := setup(t)
		payload := subscriptionPayload("sub_new", "weird_future_status", planItem("si_plan", "price_annual", "", "year"))

		_, err := f.uc.Execute(ctx, envelope(t, "evt_l3", billing.EventSubscriptionUpdated, payload))
		require.NoError(t, err)
		require.Len(t, f.subs.applied, 1)
		assert.Equal(t, vo.SubscriptionStatusPastDue, f.subs.applied[0].Status)
	})

	t.Run("conflict from concurrent delivery reports duplicate", func(t *testing.T) {
		f := setup(t)
		f.subs.applyErr = apperrors.NewConflictError("event already recorded")
		payload := subscriptionPayload("sub_new", "active", planItem("si_plan", "price_annual", "", "year"))

		result, err := f.uc.Execute(ctx, envelope(t, "evt_l4", billing.EventSubscriptionUpdated, payload))
		require.NoError(t, err)
		assert.Equal(t, OutcomeDuplicate, result.Outcome)
	})

	t.Run("stale event after deletion is skipped and audited", func(t *testing.T) {
		f := setup(t)
		now := time.Now().UTC()
		f.subs.byUserID[1] = &billing.UserSubscription{UserID: 1, PlanID: 1, CancelledAt: &now}
		f.events.deletedSubs["sub_old"] = true
		payload := subscriptionPayload("sub_old", "active", planItem("si_plan", "price_annual", "", "year"))

		result, err := f.uc.Execute(ctx, envelope(t, "evt_l5", billing.EventSubscriptionUpdated, payload))
		require.NoError(t, err)
		assert.Equal(t, OutcomeStale, result.Outcome)
		assert.Empty(t, f.subs.applied)

		rows := f.events.auditRows()
		require.Len(t, rows, 1)
		require.NotNil(t, rows[0].ErrorMessage)
	})

	t.Run("new subscription after deletion is not blocked", func(t *testing.T) {
		f := setup(t)
		now := time.Now().UTC()
		f.subs.byUserID[1] = &billing.UserSubscription{UserID: 1, PlanID: 1, CancelledAt: &now}
		f.events.deletedSubs["sub_old"] = true
		payload := subscriptionPayload("sub_brand_new", "active", planItem("si_plan", "price_annual", "", "year"))

		result, err := f.uc.Execute(ctx, envelope(t, "evt_l6", billing.EventSubscriptionCreated, payload))
		require.NoError(t, err)
		assert.Equal(t, OutcomeProcessed, result.Outcome)
		assert.Len(t, f.subs.applied, 1)
	})

	t.Run("addon-only items keep the current plan", func(t *testing.T) {
		f := setup(t)
		f.subs.byUserID[1] = &billing.UserSubscription{UserID: 1, PlanID: 9}
		payload := subscriptionPayload("sub_new", "active", planItem("si_x", "price_addon_only", "", "month"))

		result, err := f.uc.Execute(ctx, envelope(t, "evt_l7", billing.EventSubscriptionUpdated, payload))
		require.NoError(t, err)
		assert.Equal(t, OutcomeProcessed, result.Outcome)
		require.Len(t, f.subs.applied, 1)
		assert.Equal(t, uint(9), f.subs.applied[0].PlanID)
	})

	t.Run("no plan match and no current record skips with audit", func(t *testing.T) {
		f := newFixture(t)
		f.addUser(2, "Sam", "sam@example.com")
		f.subs.byCustomer["cus_life"] = &billing.UserSubscription{UserID: 2}
		payload := subscriptionPayload("sub_new", "active", planItem("si_x", "price_unknown", "", "month"))

		result, err := f.uc.Execute(ctx, envelope(t, "evt_l8", billing.EventSubscriptionUpdated, payload))
		require.NoError(t, err)
		assert.Equal(t, OutcomeUnresolved, result.Outcome)
		assert.Empty(t, f.subs.applied)
		require.Len(t, f.events.auditRows(), 1)
	})

	t.Run("removed addon item is cancelled by the diff", func(t *testing.T) {
		f := setup(t)
		itemGone := "si_gone"
		itemKept := "si_kept"
		f.addons.listBySub["sub_new"] = []*billing.AddonSubscription{
			{UserID: 1, AddonSlug: billing.AddonChatBot, Status: vo.AddonStatusActive, StripeSubscriptionItemID: &itemGone},
			{UserID: 1, AddonSlug: "other_addon", Status: vo.AddonStatusActive, StripeSubscriptionItemID: &itemKept},
		}
		payload := subscriptionPayload("sub_new", "active",
			planItem("si_plan", "price_annual", "", "year"),
			planItem("si_kept", "price_other", "", "month"))

		_, err := f.uc.Execute(ctx, envelope(t, "evt_l9", billing.EventSubscriptionUpdated, payload))
		require.NoError(t, err)

		require.Len(t, f.addons.cancels, 1)
		assert.Equal(t, billing.AddonChatBot, f.addons.cancels[0].Slug)
	})

	t.Run("only the removed seat pack among several is cancelled", func(t *testing.T) {
		f := setup(t)
		f.seats.listBySub["sub_new"] = []*billing.SeatPack{
			{UserID: 1, Status: vo.AddonStatusActive,
				StripeSubscriptionID: "sub_new", StripeSubscriptionItemID: "si_seats_gone"},
			{UserID: 1, Status: vo.AddonStatusActive,
				StripeSubscriptionID: "sub_new", StripeSubscriptionItemID: "si_seats_kept"},
		}
		payload := subscriptionPayload("sub_new", "active",
			planItem("si_plan", "price_annual", "", "year"),
			planItem("si_seats_kept", "price_seats", "", "month"))

		_, err := f.uc.Execute(ctx, envelope(t, "evt_l10", billing.EventSubscriptionUpdated, payload))
		require.NoError(t, err)
		assert.Equal(t, []string{"si_seats_gone"}, f.seats.cancels)
	})

	t.Run("cancelled parent status propagates cancellation drift", func(t *testing.T) {
		f := setup(t)
		payload := subscriptionPayload("sub_new", "canceled", planItem("si_plan", "price_annual", "", "year"))

		_, err := f.uc.Execute(ctx, envelope(t, "evt_l11", billing.EventSubscriptionUpdated, payload))
		require.NoError(t, err)

		require.Len(t, f.addons.drifts, 1)
		assert.True(t, f.addons.drifts[0].Cancelled)
		require.NotNil(t, f.addons.drifts[0].CancelledAt)
	})

	t.Run("active parent drift carries no cancellation", func(t *testing.T) {
		f := setup(t)
		payload := subscriptionPayload("sub_new", "active", planItem("si_plan", "price_annual", "", "year"))

		_, err := f.uc.Execute(ctx, envelope(t, "evt_l12", billing.EventSubscriptionUpdated, payload))
		require.NoError(t, err)

		require.Len(t, f.addons.drifts, 1)
		assert.False(t, f.addons.drifts[0].Cancelled)
	})
}
