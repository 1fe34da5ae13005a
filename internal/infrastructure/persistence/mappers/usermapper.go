package mappers

import (
	"agencydesk/internal/domain/user"
	"agencydesk/internal/infrastructure/persistence/models"
)

func UserToDomain(model *models.UserModel) *user.User {
	return &user.User{
		ID:        model.ID,
		SID:       model.SID,
		Name:      model.Name,
		Email:     model.Email,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
