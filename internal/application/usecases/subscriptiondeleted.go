package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"agencydesk/internal/domain/billing"
	vo "agencydesk/internal/domain/billing/valueobjects"
	"agencydesk/internal/shared/biztime"
	"agencydesk/internal/shared/errors"
)

// handleSubscriptionDeleted rewinds the user to the free plan, cancels
// dependent addon and seat-pack records, deprovisions the agent, then writes
// the audit row. A missing free plan or a no-match update returns a retryable
// error without an audit row so the provider's redelivery starts clean.
func (uc *ProcessWebhookEventUseCase) handleSubscriptionDeleted(ctx context.Context, envelope *billing.EventEnvelope) (*ProcessResult, error) {
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

	processed, err := uc.alreadyProcessed(ctx, envelope.ID)
	if err != nil {
		return nil, err
	}
	if processed {
		return &ProcessResult{EventType: envelope.Type, Outcome: OutcomeDuplicate}, nil
	}

	freePlan, err := uc.plans.GetFreePlan(ctx)
	if err != nil {
		if errors.IsNotFoundError(err) {
			uc.logger.Errorw("free plan missing from catalog, deletion not applied", "event_id", envelope.ID)
			return nil, errors.NewInternalError("free plan not configured", billing.ErrFreePlanNotConfigured.Error())
		}
		return nil, err
	}

	matched, err := uc.subscriptions.ResetToFreePlan(ctx, &billing.FreePlanReset{
		UserID:               u.ID,
		FreePlanID:           freePlan.ID,
		StripeSubscriptionID: payload.ID,
		CancelledAt:          biztime.NowUTC(),
	})
	if err != nil {
		return nil, err
	}
	if !matched {
		uc.logger.Errorw("deletion matched no subscription row",
			"event_id", envelope.ID, "subscription_id", payload.ID, "user_id", u.ID)
		return nil, errors.NewInternalError("subscription deletion matched no row", billing.ErrSubscriptionNotMatched.Error())
	}

	now := biztime.NowUTC()
	if err := uc.addons.CancelByStripeSubscriptionID(ctx, payload.ID, now); err != nil {
		uc.logger.Errorw("failed to cancel addon records for deleted subscription",
			"subscription_id", payload.ID, "error", err)
	}
	if err := uc.seatPacks.CancelByStripeSubscriptionID(ctx, payload.ID, now); err != nil {
		uc.logger.Errorw("failed to cancel seat packs for deleted subscription",
			"subscription_id", payload.ID, "error", err)
	}

	uc.deprovisionAgent(ctx, u.ID)

	audit := newAuditEvent(envelope)
	audit.UserID = &u.ID
	audit.StripeSubscriptionID = payload.ID
	if err := uc.events.Insert(ctx, audit); err != nil {
		return nil, err
	}

	uc.notify(ctx, TemplateSubscriptionCancelled, u, map[string]string{"name": u.Name})
	uc.notifyAdmin(ctx, "Subscription cancelled",
		fmt.Sprintf("User %s's subscription was cancelled.", u.Email))

	return &ProcessResult{EventType: envelope.Type, Outcome: OutcomeProcessed}, nil
}

// handleSubscriptionPaused flips the subscription status to paused behind the
// duplicate-delivery gate.
func (uc *ProcessWebhookEventUseCase) handleSubscriptionPaused(ctx context.Context, envelope *billing.EventEnvelope) (*ProcessResult, error) {
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

	processed, err := uc.alreadyProcessed(ctx, envelope.ID)
	if err != nil {
		return nil, err
	}
	if processed {
		return &ProcessResult{EventType: envelope.Type, Outcome: OutcomeDuplicate}, nil
	}

	if err := uc.subscriptions.UpdateStatusByStripeSubscriptionID(ctx, payload.ID, vo.SubscriptionStatusPaused.String()); err != nil {
		return nil, err
	}

	audit := newAuditEvent(envelope)
	audit.UserID = &u.ID
	audit.StripeSubscriptionID = payload.ID
	if err := uc.events.Insert(ctx, audit); err != nil {
		return nil, err
	}

	return &ProcessResult{EventType: envelope.Type, Outcome: OutcomeProcessed}, nil
}
