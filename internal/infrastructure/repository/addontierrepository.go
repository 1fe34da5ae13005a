package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"agencydesk/internal/domain/billing"
	"agencydesk/internal/infrastructure/persistence/mappers"
	"agencydesk/internal/infrastructure/persistence/models"
	"agencydesk/internal/shared/db"
	apperrors "agencydesk/internal/shared/errors"
)

type AddonTierRepository struct {
	db *gorm.DB
}

func NewAddonTierRepository(db *gorm.DB) *AddonTierRepository {
	return &AddonTierRepository{db: db}
}

func (r *AddonTierRepository) GetByTierID(ctx context.Context, tierID string) (*billing.AddonTier, error) {
	var model models.AddonTierModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("tier_id = ?", tierID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("addon tier not found")
		}
		return nil, fmt.Errorf("failed to get addon tier: %w", err)
	}
	return mappers.AddonTierToDomain(&model), nil
}
