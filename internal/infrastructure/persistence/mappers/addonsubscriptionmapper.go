package mappers

import (
	"agencydesk/internal/domain/billing"
	vo "agencydesk/internal/domain/billing/valueobjects"
	"agencydesk/internal/infrastructure/persistence/models"
)

func AddonSubscriptionToModel(a *billing.AddonSubscription) *models.AddonSubscriptionModel {
	return &models.AddonSubscriptionModel{
		ID:                       a.ID,
		UserID:                   a.UserID,
		AddonSlug:                a.AddonSlug,
		TierID:                   a.TierID,
		Status:                   a.Status.String(),
		StripeSubscriptionID:     a.StripeSubscriptionID,
		StripeSubscriptionItemID: a.StripeSubscriptionItemID,
		BillingInterval:          a.BillingInterval.String(),
		CurrentPeriodStart:       a.CurrentPeriodStart,
		CurrentPeriodEnd:         a.CurrentPeriodEnd,
		CancelledAt:              a.CancelledAt,
		CreatedAt:                a.CreatedAt,
		UpdatedAt:                a.UpdatedAt,
	}
}

func AddonSubscriptionToDomain(model *models.AddonSubscriptionModel) *billing.AddonSubscription {
	return &billing.AddonSubscription{
		ID:                       model.ID,
		UserID:                   model.UserID,
		AddonSlug:                model.AddonSlug,
		TierID:                   model.TierID,
		Status:                   vo.AddonStatus(model.Status),
		StripeSubscriptionID:     model.StripeSubscriptionID,
		StripeSubscriptionItemID: model.StripeSubscriptionItemID,
		BillingInterval:          vo.BillingInterval(model.BillingInterval),
		CurrentPeriodStart:       model.CurrentPeriodStart,
		CurrentPeriodEnd:         model.CurrentPeriodEnd,
		CancelledAt:              model.CancelledAt,
		CreatedAt:                model.CreatedAt,
		UpdatedAt:                model.UpdatedAt,
	}
}
