package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"agencydesk/internal/domain/billing"
	vo "agencydesk/internal/domain/billing/valueobjects"
	"agencydesk/internal/infrastructure/persistence/mappers"
	"agencydesk/internal/infrastructure/persistence/models"
	"agencydesk/internal/shared/db"
	apperrors "agencydesk/internal/shared/errors"
)

type AddonSubscriptionRepository struct {
	db *gorm.DB
}

func NewAddonSubscriptionRepository(db *gorm.DB) *AddonSubscriptionRepository {
	return &AddonSubscriptionRepository{db: db}
}

func (r *AddonSubscriptionRepository) GetByUserAndAddon(ctx context.Context, userID uint, addonSlug string) (*billing.AddonSubscription, error) {
	var model models.AddonSubscriptionModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND addon_slug = ?", userID, addonSlug).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("addon subscription not found")
		}
		return nil, fmt.Errorf("failed to get addon subscription: %w", err)
	}
	return mappers.AddonSubscriptionToDomain(&model), nil
}

func (r *AddonSubscriptionRepository) ListByStripeSubscriptionID(ctx context.Context, subscriptionID string) ([]*billing.AddonSubscription, error) {
	var list []models.AddonSubscriptionModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("stripe_subscription_id = ?", subscriptionID).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list addon subscriptions: %w", err)
	}
	result := make([]*billing.AddonSubscription, 0, len(list))
	for i := range list {
		result = append(result, mappers.AddonSubscriptionToDomain(&list[i]))
	}
	return result, nil
}

// Upsert creates or replaces the entitlement for (user, addon slug).
func (r *AddonSubscriptionRepository) Upsert(ctx context.Context, sub *billing.AddonSubscription) error {
	dbh := db.GetTxFromContext(ctx, r.db)
	model := mappers.AddonSubscriptionToModel(sub)

	var existing models.AddonSubscriptionModel
	err := dbh.Where("user_id = ? AND addon_slug = ?", sub.UserID, sub.AddonSlug).
		First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up addon subscription: %w", err)
		}
		if err := dbh.Create(model).Error; err != nil {
			return fmt.Errorf("failed to create addon subscription: %w", err)
		}
		sub.ID = model.ID
		return nil
	}

	updates := map[string]interface{}{
		"tier_id":                     model.TierID,
		"status":                      model.Status,
		"stripe_subscription_id":      model.StripeSubscriptionID,
		"stripe_subscription_item_id": model.StripeSubscriptionItemID,
		"billing_interval":            model.BillingInterval,
		"current_period_start":        model.CurrentPeriodStart,
		"current_period_end":          model.CurrentPeriodEnd,
		"cancelled_at":                model.CancelledAt,
	}
	if err := dbh.Model(&models.AddonSubscriptionModel{}).
		Where("id = ?", existing.ID).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update addon subscription: %w", err)
	}
	sub.ID = existing.ID
	return nil
}

// SyncParentDrift pushes parent subscription changes onto every non-cancelled
// addon row bound to the same provider subscription id.
func (r *AddonSubscriptionRepository) SyncParentDrift(ctx context.Context, subscriptionID string, drift *billing.ParentDrift) error {
	updates := map[string]interface{}{
		"billing_interval":     drift.BillingInterval.String(),
		"current_period_start": drift.CurrentPeriodStart,
		"current_period_end":   drift.CurrentPeriodEnd,
	}
	if drift.Cancelled {
		updates["status"] = vo.AddonStatusCancelled.String()
		updates["cancelled_at"] = drift.CancelledAt
	}

	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.AddonSubscriptionModel{}).
		Where("stripe_subscription_id = ? AND status <> ?", subscriptionID, vo.AddonStatusCancelled.String()).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to sync addon drift: %w", err)
	}
	return nil
}

func (r *AddonSubscriptionRepository) Cancel(ctx context.Context, userID uint, addonSlug string, cancelledAt time.Time) error {
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.AddonSubscriptionModel{}).
		Where("user_id = ? AND addon_slug = ?", userID, addonSlug).
		Updates(map[string]interface{}{
			"status":       vo.AddonStatusCancelled.String(),
			"cancelled_at": cancelledAt,
		}).Error; err != nil {
		return fmt.Errorf("failed to cancel addon subscription: %w", err)
	}
	return nil
}

func (r *AddonSubscriptionRepository) CancelByStripeSubscriptionID(ctx context.Context, subscriptionID string, cancelledAt time.Time) error {
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.AddonSubscriptionModel{}).
		Where("stripe_subscription_id = ? AND status <> ?", subscriptionID, vo.AddonStatusCancelled.String()).
		Updates(map[string]interface{}{
			"status":       vo.AddonStatusCancelled.String(),
			"cancelled_at": cancelledAt,
		}).Error; err != nil {
		return fmt.Errorf("failed to cancel addon subscriptions: %w", err)
	}
	return nil
}
