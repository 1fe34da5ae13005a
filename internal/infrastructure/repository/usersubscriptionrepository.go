package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"agencydesk/internal/domain/billing"
	vo "agencydesk/internal/domain/billing/valueobjects"
	"agencydesk/internal/infrastructure/persistence/mappers"
	"agencydesk/internal/infrastructure/persistence/models"
	"agencydesk/internal/shared/db"
	apperrors "agencydesk/internal/shared/errors"
)

type UserSubscriptionRepository struct {
	db *gorm.DB
}

func NewUserSubscriptionRepository(db *gorm.DB) *UserSubscriptionRepository {
	return &UserSubscriptionRepository{db: db}
}

func (r *UserSubscriptionRepository) GetByUserID(ctx context.Context, userID uint) (*billing.UserSubscription, error) {
	var model models.UserSubscriptionModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("subscription not found")
		}
		return nil, fmt.Errorf("failed to get subscription by user: %w", err)
	}
	return mappers.UserSubscriptionToDomain(&model), nil
}

func (r *UserSubscriptionRepository) GetByStripeCustomerID(ctx context.Context, customerID string) (*billing.UserSubscription, error) {
	var model models.UserSubscriptionModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("stripe_customer_id = ?", customerID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("subscription not found")
		}
		return nil, fmt.Errorf("failed to get subscription by customer: %w", err)
	}
	return mappers.UserSubscriptionToDomain(&model), nil
}

func (r *UserSubscriptionRepository) GetByStripeSubscriptionID(ctx context.Context, subscriptionID string) (*billing.UserSubscription, error) {
	var model models.UserSubscriptionModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("stripe_subscription_id = ?", subscriptionID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("subscription not found")
		}
		return nil, fmt.Errorf("failed to get subscription by provider id: %w", err)
	}
	return mappers.UserSubscriptionToDomain(&model), nil
}

// SaveCheckoutInfo stamps the provider identifiers captured at checkout onto
// the user's row, creating a transient row when the user has none yet.
func (r *UserSubscriptionRepository) SaveCheckoutInfo(ctx context.Context, userID uint, customerID, subscriptionID, checkoutSessionID string) error {
	dbh := db.GetTxFromContext(ctx, r.db)

	updates := map[string]interface{}{
		"stripe_customer_id": nullableString(customerID),
	}
	if subscriptionID != "" {
		updates["stripe_subscription_id"] = subscriptionID
	}
	if checkoutSessionID != "" {
		updates["checkout_session_id"] = checkoutSessionID
	}

	result := dbh.Model(&models.UserSubscriptionModel{}).
		Where("user_id = ?", userID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to save checkout info: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	model := &models.UserSubscriptionModel{
		UserID:               userID,
		Status:               vo.SubscriptionStatusActive.String(),
		StripeCustomerID:     nullableString(customerID),
		StripeSubscriptionID: nullableString(subscriptionID),
		CheckoutSessionID:    nullableString(checkoutSessionID),
	}
	if err := dbh.Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			// Concurrent checkout already created the row; reapply the update.
			return dbh.Model(&models.UserSubscriptionModel{}).
				Where("user_id = ?", userID).
				Updates(updates).Error
		}
		return fmt.Errorf("failed to create subscription row: %w", err)
	}
	return nil
}

// ApplyLifecycleEvent applies the subscription state and appends the audit
// row in one transaction. A duplicate audit insert rolls everything back and
// surfaces as a conflict, which callers treat as "already applied".
func (r *UserSubscriptionRepository) ApplyLifecycleEvent(ctx context.Context, update *billing.LifecycleUpdate, audit *billing.WebhookEvent) error {
	return db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"plan_id":                update.PlanID,
			"status":                 update.Status.String(),
			"stripe_subscription_id": update.StripeSubscriptionID,
			"stripe_customer_id":     nullableString(update.StripeCustomerID),
			"billing_interval":       update.BillingInterval.String(),
			"current_period_start":   update.CurrentPeriodStart,
			"current_period_end":     update.CurrentPeriodEnd,
			"trial_ends_at":          update.TrialEndsAt,
			"cancelled_at":           update.CancelledAt,
			"cancel_at_period_end":   update.CancelAtPeriodEnd,
		}

		result := tx.Model(&models.UserSubscriptionModel{}).
			Where("user_id = ?", update.UserID).
			Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("failed to apply subscription update: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			model := &models.UserSubscriptionModel{
				UserID:               update.UserID,
				PlanID:               update.PlanID,
				Status:               update.Status.String(),
				StripeSubscriptionID: &update.StripeSubscriptionID,
				StripeCustomerID:     nullableString(update.StripeCustomerID),
				BillingInterval:      update.BillingInterval.String(),
				CurrentPeriodStart:   update.CurrentPeriodStart,
				CurrentPeriodEnd:     update.CurrentPeriodEnd,
				TrialEndsAt:          update.TrialEndsAt,
				CancelledAt:          update.CancelledAt,
				CancelAtPeriodEnd:    update.CancelAtPeriodEnd,
			}
			if err := tx.Create(model).Error; err != nil {
				return fmt.Errorf("failed to create subscription row: %w", err)
			}
		}

		if err := tx.Create(mappers.WebhookEventToModel(audit)).Error; err != nil {
			if apperrors.IsDuplicateError(err) {
				return apperrors.NewConflictError("event already recorded", audit.StripeEventID)
			}
			return fmt.Errorf("failed to record audit entry: %w", err)
		}
		return nil
	})
}

func (r *UserSubscriptionRepository) UpdateStatusByStripeSubscriptionID(ctx context.Context, subscriptionID string, status string) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.UserSubscriptionModel{}).
		Where("stripe_subscription_id = ?", subscriptionID).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update subscription status: %w", result.Error)
	}
	return nil
}

// ResetToFreePlan rewinds a deleted subscription to the free plan. Primary
// match is by provider subscription id; the user-id fallback only repairs a
// row whose provider id is already null, so it can never clobber a different
// active subscription belonging to the same user.
func (r *UserSubscriptionRepository) ResetToFreePlan(ctx context.Context, reset *billing.FreePlanReset) (bool, error) {
	dbh := db.GetTxFromContext(ctx, r.db)

	updates := map[string]interface{}{
		"plan_id":                reset.FreePlanID,
		"status":                 vo.SubscriptionStatusActive.String(),
		"stripe_subscription_id": nil,
		"cancelled_at":           reset.CancelledAt,
		"cancel_at_period_end":   false,
		"current_period_start":   nil,
		"current_period_end":     nil,
		"trial_ends_at":          nil,
	}

	result := dbh.Model(&models.UserSubscriptionModel{}).
		Where("stripe_subscription_id = ?", reset.StripeSubscriptionID).
		Updates(updates)
	if result.Error != nil {
		return false, fmt.Errorf("failed to reset subscription: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	if reset.UserID == 0 {
		return false, nil
	}
	result = dbh.Model(&models.UserSubscriptionModel{}).
		Where("user_id = ? AND stripe_subscription_id IS NULL", reset.UserID).
		Updates(updates)
	if result.Error != nil {
		return false, fmt.Errorf("failed to reset subscription by user: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
