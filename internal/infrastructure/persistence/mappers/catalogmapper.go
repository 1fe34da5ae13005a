package mappers

import (
	"agencydesk/internal/domain/billing"
	"agencydesk/internal/infrastructure/persistence/models"
)

func PlanToDomain(model *models.PlanModel) *billing.Plan {
	return &billing.Plan{
		ID:                   model.ID,
		SID:                  model.SID,
		Slug:                 model.Slug,
		Name:                 model.Name,
		StripePriceIDMonthly: model.StripePriceIDMonthly,
		StripePriceIDAnnual:  model.StripePriceIDAnnual,
		IsFree:               model.IsFree,
		CreatedAt:            model.CreatedAt,
		UpdatedAt:            model.UpdatedAt,
	}
}

func AddonTierToDomain(model *models.AddonTierModel) *billing.AddonTier {
	return &billing.AddonTier{
		ID:        model.ID,
		TierID:    model.TierID,
		AddonSlug: model.AddonSlug,
		Name:      model.Name,
		LeadLimit: model.LeadLimit,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
