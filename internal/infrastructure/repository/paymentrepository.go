package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"agencydesk/internal/domain/billing"
	"agencydesk/internal/infrastructure/persistence/mappers"
	"agencydesk/internal/infrastructure/persistence/models"
	"agencydesk/internal/shared/db"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Insert(ctx context.Context, payment *billing.Payment) error {
	model := mappers.PaymentToModel(payment)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	payment.ID = model.ID
	return nil
}

func (r *PaymentRepository) ListByUserID(ctx context.Context, userID uint) ([]*billing.Payment, error) {
	var list []models.PaymentModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	result := make([]*billing.Payment, 0, len(list))
	for i := range list {
		result = append(result, mappers.PaymentToDomain(&list[i]))
	}
	return result, nil
}
