package mappers

import (
	"agencydesk/internal/domain/billing"
	vo "agencydesk/internal/domain/billing/valueobjects"
	"agencydesk/internal/infrastructure/persistence/models"
)

func ProvisionedAgentToModel(a *billing.ProvisionedAgent) *models.ProvisionedAgentModel {
	return &models.ProvisionedAgentModel{
		ID:              a.ID,
		UserID:          a.UserID,
		ExternalAgentID: a.ExternalAgentID,
		Status:          a.Status.String(),
		TierID:          a.TierID,
		ErrorMessage:    a.ErrorMessage,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func ProvisionedAgentToDomain(model *models.ProvisionedAgentModel) *billing.ProvisionedAgent {
	return &billing.ProvisionedAgent{
		ID:              model.ID,
		UserID:          model.UserID,
		ExternalAgentID: model.ExternalAgentID,
		Status:          vo.AgentStatus(model.Status),
		TierID:          model.TierID,
		ErrorMessage:    model.ErrorMessage,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}
