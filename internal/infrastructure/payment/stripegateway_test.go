package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agencydesk/internal/domain/billing"
	"agencydesk/internal/infrastructure/cache"
	"agencydesk/internal/shared/config"
	apperrors "agencydesk/internal/shared/errors"
	"agencydesk/internal/shared/logger"
)

const testWebhookSecret = "whsec_test_secret"

func newTestGateway(secret string) *StripeGateway {
	cfg := &config.StripeConfig{SecretKey: "sk_test_x", WebhookSecret: secret}
	return NewStripeGateway(cfg, cache.NewProductNameCache(&config.RedisConfig{}), logger.NewLogger())
}

func signPayload(payload []byte, secret string, at time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", at.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifyWebhook(t *testing.T) {
	payload := []byte(`{
		"id": "evt_test_1",
		"object": "event",
		"created": 1767225600,
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_test_1", "customer": "cus_1"}}
	}`)

	t.Run("valid signature yields envelope", func(t *testing.T) {
		gw := newTestGateway(testWebhookSecret)
		header := signPayload(payload, testWebhookSecret, time.Now())

		envelope, err := gw.VerifyWebhook(payload, header)
		require.NoError(t, err)
		assert.Equal(t, "evt_test_1", envelope.ID)
		assert.Equal(t, billing.EventCheckoutSessionCompleted, envelope.Type)
		assert.JSONEq(t, string(payload), string(envelope.Raw))
		assert.JSONEq(t, `{"id": "cs_test_1", "customer": "cus_1"}`, string(envelope.ObjectRaw))
	})

	t.Run("wrong secret is rejected as unauthorized", func(t *testing.T) {
		gw := newTestGateway(testWebhookSecret)
		header := signPayload(payload, "whsec_wrong", time.Now())

		_, err := gw.VerifyWebhook(payload, header)
		require.Error(t, err)
		assert.True(t, apperrors.IsUnauthorizedError(err))
	})

	t.Run("tampered payload is rejected", func(t *testing.T) {
		gw := newTestGateway(testWebhookSecret)
		header := signPayload(payload, testWebhookSecret, time.Now())

		tampered := append([]byte(nil), payload...)
		tampered[len(tampered)-2] = ' '
		_, err := gw.VerifyWebhook(tampered, header)
		require.Error(t, err)
		assert.True(t, apperrors.IsUnauthorizedError(err))
	})

	t.Run("stale timestamp is rejected", func(t *testing.T) {
		gw := newTestGateway(testWebhookSecret)
		header := signPayload(payload, testWebhookSecret, time.Now().Add(-time.Hour))

		_, err := gw.VerifyWebhook(payload, header)
		require.Error(t, err)
		assert.True(t, apperrors.IsUnauthorizedError(err))
	})

	t.Run("missing secret is a misconfiguration, not a signature failure", func(t *testing.T) {
		gw := newTestGateway("")
		header := signPayload(payload, testWebhookSecret, time.Now())

		_, err := gw.VerifyWebhook(payload, header)
		require.Error(t, err)
		assert.True(t, apperrors.IsInternalError(err))
	})
}
