package mappers

import (
	"encoding/json"

	"gorm.io/datatypes"

	"agencydesk/internal/domain/billing"
	"agencydesk/internal/infrastructure/persistence/models"
)

func WebhookEventToModel(e *billing.WebhookEvent) *models.WebhookEventModel {
	return &models.WebhookEventModel{
		ID:                   e.ID,
		UserID:               e.UserID,
		EventType:            e.EventType,
		EventName:            e.EventName,
		StripeEventID:        e.StripeEventID,
		StripeSubscriptionID: e.StripeSubscriptionID,
		EventData:            datatypes.JSON(e.EventData),
		ProcessedAt:          e.ProcessedAt,
		ErrorMessage:         e.ErrorMessage,
	}
}

func WebhookEventToDomain(model *models.WebhookEventModel) *billing.WebhookEvent {
	return &billing.WebhookEvent{
		ID:                   model.ID,
		UserID:               model.UserID,
		EventType:            model.EventType,
		EventName:            model.EventName,
		StripeEventID:        model.StripeEventID,
		StripeSubscriptionID: model.StripeSubscriptionID,
		EventData:            json.RawMessage(model.EventData),
		ProcessedAt:          model.ProcessedAt,
		ErrorMessage:         model.ErrorMessage,
	}
}
