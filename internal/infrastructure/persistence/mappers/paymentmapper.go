package mappers

import (
	"agencydesk/internal/domain/billing"
	vo "agencydesk/internal/domain/billing/valueobjects"
	"agencydesk/internal/infrastructure/persistence/models"
)

func PaymentToModel(p *billing.Payment) *models.PaymentModel {
	return &models.PaymentModel{
		ID:                   p.ID,
		UserID:               p.UserID,
		StripeInvoiceID:      p.StripeInvoiceID,
		StripeSubscriptionID: p.StripeSubscriptionID,
		AmountCents:          p.AmountCents,
		TaxCents:             p.TaxCents,
		DiscountCents:        p.DiscountCents,
		Currency:             p.Currency,
		Status:               p.Status.String(),
		BillingReason:        p.BillingReason.String(),
		PaidAt:               p.PaidAt,
		CreatedAt:            p.CreatedAt,
	}
}

func PaymentToDomain(model *models.PaymentModel) *billing.Payment {
	return &billing.Payment{
		ID:                   model.ID,
		UserID:               model.UserID,
		StripeInvoiceID:      model.StripeInvoiceID,
		StripeSubscriptionID: model.StripeSubscriptionID,
		AmountCents:          model.AmountCents,
		TaxCents:             model.TaxCents,
		DiscountCents:        model.DiscountCents,
		Currency:             model.Currency,
		Status:               vo.PaymentStatus(model.Status),
		BillingReason:        vo.BillingReason(model.BillingReason),
		PaidAt:               model.PaidAt,
		CreatedAt:            model.CreatedAt,
	}
}
