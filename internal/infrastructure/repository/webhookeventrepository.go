package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"agencydesk/internal/domain/billing"
	"agencydesk/internal/infrastructure/persistence/mappers"
	"agencydesk/internal/infrastructure/persistence/models"
	"agencydesk/internal/shared/db"
	apperrors "agencydesk/internal/shared/errors"
)

type WebhookEventRepository struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) *WebhookEventRepository {
	return &WebhookEventRepository{db: db}
}

func (r *WebhookEventRepository) ExistsByStripeEventID(ctx context.Context, eventID string) (bool, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.WebhookEventModel{}).
		Where("stripe_event_id = ?", eventID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check event existence: %w", err)
	}
	return count > 0, nil
}

func (r *WebhookEventRepository) HasDeletedEventForSubscription(ctx context.Context, subscriptionID string) (bool, error) {
	if subscriptionID == "" {
		return false, nil
	}
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.WebhookEventModel{}).
		Where("event_name = ? AND stripe_subscription_id = ?", billing.EventSubscriptionDeleted, subscriptionID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check for deletion event: %w", err)
	}
	return count > 0, nil
}

// Insert appends an audit row. A duplicate event id means a concurrent
// delivery already recorded this event; that is a benign race, not an error.
func (r *WebhookEventRepository) Insert(ctx context.Context, event *billing.WebhookEvent) error {
	model := mappers.WebhookEventToModel(event)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return nil
		}
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	event.ID = model.ID
	return nil
}
