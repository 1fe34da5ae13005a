package mappers

import (
	"agencydesk/internal/domain/billing"
	vo "agencydesk/internal/domain/billing/valueobjects"
	"agencydesk/internal/infrastructure/persistence/models"
)

func UserSubscriptionToModel(s *billing.UserSubscription) *models.UserSubscriptionModel {
	return &models.UserSubscriptionModel{
		ID:                   s.ID,
		UserID:               s.UserID,
		PlanID:               s.PlanID,
		Status:               s.Status.String(),
		StripeSubscriptionID: s.StripeSubscriptionID,
		StripeCustomerID:     s.StripeCustomerID,
		CheckoutSessionID:    s.CheckoutSessionID,
		BillingInterval:      s.BillingInterval.String(),
		CurrentPeriodStart:   s.CurrentPeriodStart,
		CurrentPeriodEnd:     s.CurrentPeriodEnd,
		TrialEndsAt:          s.TrialEndsAt,
		CancelledAt:          s.CancelledAt,
		CancelAtPeriodEnd:    s.CancelAtPeriodEnd,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
}

func UserSubscriptionToDomain(model *models.UserSubscriptionModel) *billing.UserSubscription {
	return &billing.UserSubscription{
		ID:                   model.ID,
		UserID:               model.UserID,
		PlanID:               model.PlanID,
		Status:               vo.SubscriptionStatus(model.Status),
		StripeSubscriptionID: model.StripeSubscriptionID,
		StripeCustomerID:     model.StripeCustomerID,
		CheckoutSessionID:    model.CheckoutSessionID,
		BillingInterval:      vo.BillingInterval(model.BillingInterval),
		CurrentPeriodStart:   model.CurrentPeriodStart,
		CurrentPeriodEnd:     model.CurrentPeriodEnd,
		TrialEndsAt:          model.TrialEndsAt,
		CancelledAt:          model.CancelledAt,
		CancelAtPeriodEnd:    model.CancelAtPeriodEnd,
		CreatedAt:            model.CreatedAt,
		UpdatedAt:            model.UpdatedAt,
	}
}
