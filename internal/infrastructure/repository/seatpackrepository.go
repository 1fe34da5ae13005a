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
)

type SeatPackRepository struct {
	db *gorm.DB
}

func NewSeatPackRepository(db *gorm.DB) *SeatPackRepository {
	return &SeatPackRepository{db: db}
}

func (r *SeatPackRepository) ListByStripeSubscriptionID(ctx context.Context, subscriptionID string) ([]*billing.SeatPack, error) {
	var rows []models.SeatPackModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("stripe_subscription_id = ?", subscriptionID).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list seat packs: %w", err)
	}
	packs := make([]*billing.SeatPack, 0, len(rows))
	for i := range rows {
		packs = append(packs, mappers.SeatPackToDomain(&rows[i]))
	}
	return packs, nil
}

func (r *SeatPackRepository) Upsert(ctx context.Context, pack *billing.SeatPack) error {
	dbh := db.GetTxFromContext(ctx, r.db)
	model := mappers.SeatPackToModel(pack)

	var existing models.SeatPackModel
	err := dbh.Where("stripe_subscription_item_id = ?", pack.StripeSubscriptionItemID).First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up seat pack: %w", err)
		}
		if err := dbh.Create(model).Error; err != nil {
			return fmt.Errorf("failed to create seat pack: %w", err)
		}
		pack.ID = model.ID
		return nil
	}

	if err := dbh.Model(&models.SeatPackModel{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"user_id":                model.UserID,
			"stripe_subscription_id": model.StripeSubscriptionID,
			"quantity":               model.Quantity,
			"status":                 model.Status,
			"cancelled_at":           model.CancelledAt,
		}).Error; err != nil {
		return fmt.Errorf("failed to update seat pack: %w", err)
	}
	pack.ID = existing.ID
	return nil
}

func (r *SeatPackRepository) Cancel(ctx context.Context, stripeItemID string, cancelledAt time.Time) error {
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.SeatPackModel{}).
		Where("stripe_subscription_item_id = ? AND status <> ?", stripeItemID, vo.AddonStatusCancelled.String()).
		Updates(map[string]interface{}{
			"status":       vo.AddonStatusCancelled.String(),
			"cancelled_at": cancelledAt,
		}).Error; err != nil {
		return fmt.Errorf("failed to cancel seat pack: %w", err)
	}
	return nil
}

func (r *SeatPackRepository) CancelByStripeSubscriptionID(ctx context.Context, subscriptionID string, cancelledAt time.Time) error {
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.SeatPackModel{}).
		Where("stripe_subscription_id = ? AND status <> ?", subscriptionID, vo.AddonStatusCancelled.String()).
		Updates(map[string]interface{}{
			"status":       vo.AddonStatusCancelled.String(),
			"cancelled_at": cancelledAt,
		}).Error; err != nil {
		return fmt.Errorf("failed to cancel seat packs: %w", err)
	}
	return nil
}
