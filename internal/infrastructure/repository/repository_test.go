package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"agencydesk/internal/infrastructure/persistence/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = database.AutoMigrate(
		&models.UserModel{},
		&models.PlanModel{},
		&models.AddonTierModel{},
		&models.UserSubscriptionModel{},
		&models.AddonSubscriptionModel{},
		&models.SeatPackModel{},
		&models.ProvisionedAgentModel{},
		&models.PaymentModel{},
		&models.WebhookEventModel{},
	)
	require.NoError(t, err)

	return database
}

func strPtr(s string) *string {
	return &s
}
