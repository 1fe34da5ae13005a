package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agencydesk/internal/domain/billing"
	"agencydesk/internal/infrastructure/persistence/models"
)

func newAuditRow(eventID, eventName, subID string) *billing.WebhookEvent {
	return &billing.WebhookEvent{
		EventType:            billing.EventCategory(eventName),
		EventName:            eventName,
		StripeEventID:        eventID,
		StripeSubscriptionID: subID,
		EventData:            json.RawMessage(`{"id":"` + eventID + `"}`),
		ProcessedAt:          time.Now().UTC(),
	}
}

func TestWebhookEventRepository_Insert(t *testing.T) {
	database := setupTestDB(t)
	repo := NewWebhookEventRepository(database)
	ctx := context.Background()

	t.Run("inserts and assigns id", func(t *testing.T) {
		event := newAuditRow("evt_1", billing.EventInvoicePaid, "sub_1")
		require.NoError(t, repo.Insert(ctx, event))
		assert.NotZero(t, event.ID)
	})

	t.Run("duplicate event id is swallowed", func(t *testing.T) {
		err := repo.Insert(ctx, newAuditRow("evt_1", billing.EventInvoicePaid, "sub_1"))
		assert.NoError(t, err)

		var count int64
		database.Model(&models.WebhookEventModel{}).Where("stripe_event_id = ?", "evt_1").Count(&count)
		assert.Equal(t, int64(1), count)
	})
}

func TestWebhookEventRepository_ExistsByStripeEventID(t *testing.T) {
	database := setupTestDB(t)
	repo := NewWebhookEventRepository(database)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newAuditRow("evt_seen", billing.EventInvoicePaid, "")))

	exists, err := repo.ExistsByStripeEventID(ctx, "evt_seen")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByStripeEventID(ctx, "evt_unseen")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestWebhookEventRepository_HasDeletedEventForSubscription(t *testing.T) {
	database := setupTestDB(t)
	repo := NewWebhookEventRepository(database)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newAuditRow("evt_del", billing.EventSubscriptionDeleted, "sub_gone")))
	require.NoError(t, repo.Insert(ctx, newAuditRow("evt_upd", billing.EventSubscriptionUpdated, "sub_alive")))

	t.Run("deletion recorded", func(t *testing.T) {
		deleted, err := repo.HasDeletedEventForSubscription(ctx, "sub_gone")
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("only deletion events count", func(t *testing.T) {
		deleted, err := repo.HasDeletedEventForSubscription(ctx, "sub_alive")
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("empty subscription id never matches", func(t *testing.T) {
		deleted, err := repo.HasDeletedEventForSubscription(ctx, "")
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}
