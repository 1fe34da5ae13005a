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

type ProvisionedAgentRepository struct {
	db *gorm.DB
}

func NewProvisionedAgentRepository(db *gorm.DB) *ProvisionedAgentRepository {
	return &ProvisionedAgentRepository{db: db}
}

func (r *ProvisionedAgentRepository) GetByUserID(ctx context.Context, userID uint) (*billing.ProvisionedAgent, error) {
	var model models.ProvisionedAgentModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("agent not found")
		}
		return nil, fmt.Errorf("failed to get agent: %w", err)
	}
	return mappers.ProvisionedAgentToDomain(&model), nil
}

// Save upserts the agent record keyed by user id. Records are never deleted;
// a re-provision after failure or deprovisioning reuses the same row.
func (r *ProvisionedAgentRepository) Save(ctx context.Context, agent *billing.ProvisionedAgent) error {
	dbh := db.GetTxFromContext(ctx, r.db)
	model := mappers.ProvisionedAgentToModel(agent)

	var existing models.ProvisionedAgentModel
	err := dbh.Where("user_id = ?", agent.UserID).First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up agent: %w", err)
		}
		if err := dbh.Create(model).Error; err != nil {
			return fmt.Errorf("failed to create agent record: %w", err)
		}
		agent.ID = model.ID
		return nil
	}

	if err := dbh.Model(&models.ProvisionedAgentModel{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"external_agent_id": model.ExternalAgentID,
			"status":            model.Status,
			"tier_id":           model.TierID,
			"error_message":     model.ErrorMessage,
		}).Error; err != nil {
		return fmt.Errorf("failed to update agent record: %w", err)
	}
	agent.ID = existing.ID
	return nil
}

func (r *ProvisionedAgentRepository) UpdateStatus(ctx context.Context, userID uint, status string) error {
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.ProvisionedAgentModel{}).
		Where("user_id = ?", userID).
		Update("status", status).Error; err != nil {
		return fmt.Errorf("failed to update agent status: %w", err)
	}
	return nil
}

func (r *ProvisionedAgentRepository) UpdateTier(ctx context.Context, userID uint, tierID string) error {
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.ProvisionedAgentModel{}).
		Where("user_id = ?", userID).
		Update("tier_id", tierID).Error; err != nil {
		return fmt.Errorf("failed to update agent tier: %w", err)
	}
	return nil
}
