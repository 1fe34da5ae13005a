package mappers

import (
	"agencydesk/internal/domain/billing"
	vo "agencydesk/internal/domain/billing/valueobjects"
	"agencydesk/internal/infrastructure/persistence/models"
)

func SeatPackToModel(p *billing.SeatPack) *models.SeatPackModel {
	return &models.SeatPackModel{
		ID:                       p.ID,
		UserID:                   p.UserID,
		StripeSubscriptionID:     p.StripeSubscriptionID,
		StripeSubscriptionItemID: p.StripeSubscriptionItemID,
		Quantity:                 p.Quantity,
		Status:                   p.Status.String(),
		CancelledAt:              p.CancelledAt,
		CreatedAt:                p.CreatedAt,
		UpdatedAt:                p.UpdatedAt,
	}
}

func SeatPackToDomain(model *models.SeatPackModel) *billing.SeatPack {
	return &billing.SeatPack{
		ID:                       model.ID,
		UserID:                   model.UserID,
		StripeSubscriptionID:     model.StripeSubscriptionID,
		StripeSubscriptionItemID: model.StripeSubscriptionItemID,
		Quantity:                 model.Quantity,
		Status:                   vo.AddonStatus(model.Status),
		CancelledAt:              model.CancelledAt,
		CreatedAt:                model.CreatedAt,
		UpdatedAt:                model.UpdatedAt,
	}
}
