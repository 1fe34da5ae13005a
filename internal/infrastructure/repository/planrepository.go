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

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) GetByID(ctx context.Context, id uint) (*billing.Plan, error) {
	var model models.PlanModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("plan not found")
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return mappers.PlanToDomain(&model), nil
}

func (r *PlanRepository) GetBySlug(ctx context.Context, slug string) (*billing.Plan, error) {
	var model models.PlanModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("slug = ?", slug).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("plan not found")
		}
		return nil, fmt.Errorf("failed to get plan by slug: %w", err)
	}
	return mappers.PlanToDomain(&model), nil
}

func (r *PlanRepository) GetByStripePriceID(ctx context.Context, priceID string) (*billing.Plan, error) {
	if priceID == "" {
		return nil, apperrors.NewNotFoundError("plan not found")
	}
	var model models.PlanModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("stripe_price_id_monthly = ? OR stripe_price_id_annual = ?", priceID, priceID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("plan not found")
		}
		return nil, fmt.Errorf("failed to get plan by price: %w", err)
	}
	return mappers.PlanToDomain(&model), nil
}

func (r *PlanRepository) GetFreePlan(ctx context.Context) (*billing.Plan, error) {
	var model models.PlanModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("is_free = ?", true).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("free plan not found")
		}
		return nil, fmt.Errorf("failed to get free plan: %w", err)
	}
	return mappers.PlanToDomain(&model), nil
}
