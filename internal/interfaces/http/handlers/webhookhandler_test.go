package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	goerrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agencydesk/internal/application/usecases"
	"agencydesk/internal/domain/billing"
	"agencydesk/internal/interfaces/http/middleware"
	apperrors "agencydesk/internal/shared/errors"
	"agencydesk/internal/shared/logger"
	"agencydesk/internal/shared/utils"
)

type stubVerifier struct {
	envelope *billing.EventEnvelope
	err      error
}

func (s *stubVerifier) VerifyWebhook(payload []byte, signatureHeader string) (*billing.EventEnvelope, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.envelope, nil
}

type stubProcessor struct {
	result *usecases.ProcessResult
	err    error
	seen   []*billing.EventEnvelope
}

func (s *stubProcessor) Execute(ctx context.Context, envelope *billing.EventEnvelope) (*usecases.ProcessResult, error) {
	s.seen = append(s.seen, envelope)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newTestRouter(verifier WebhookVerifier, processor WebhookProcessor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		utils.ErrorResponse(c, http.StatusMethodNotAllowed, "method not allowed")
	})
	router.Use(middleware.CORS([]string{"http://localhost:3000"}))

	handler := NewWebhookHandler(verifier, processor, logger.NewLogger())
	router.POST("/webhooks/stripe", handler.Handle)
	return router
}

func postWebhook(router *gin.Engine, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(body))
	req.Header.Set("Stripe-Signature", "t=1,v1=sig")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestWebhookHandler(t *testing.T) {
	envelope := &billing.EventEnvelope{
		ID:   "evt_1",
		Type: billing.EventInvoicePaid,
		Raw:  json.RawMessage(`{"id":"evt_1"}`),
	}

	t.Run("processed event acknowledges with 200", func(t *testing.T) {
		processor := &stubProcessor{result: &usecases.ProcessResult{
			EventType: billing.EventInvoicePaid,
			Outcome:   usecases.OutcomeProcessed,
		}}
		router := newTestRouter(&stubVerifier{envelope: envelope}, processor)

		rec := postWebhook(router, []byte(`{}`))
		assert.Equal(t, http.StatusOK, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, true, body["success"])
		assert.Equal(t, billing.EventInvoicePaid, body["event"])
		require.Len(t, processor.seen, 1)
		assert.Equal(t, "evt_1", processor.seen[0].ID)
	})

	t.Run("skipped dispositions still acknowledge with 200", func(t *testing.T) {
		processor := &stubProcessor{result: &usecases.ProcessResult{
			EventType: billing.EventInvoicePaid,
			Outcome:   usecases.OutcomeDuplicate,
		}}
		router := newTestRouter(&stubVerifier{envelope: envelope}, processor)

		rec := postWebhook(router, []byte(`{}`))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("invalid signature is rejected with 401", func(t *testing.T) {
		verifier := &stubVerifier{err: apperrors.NewUnauthorizedError("invalid webhook signature")}
		processor := &stubProcessor{}
		router := newTestRouter(verifier, processor)

		rec := postWebhook(router, []byte(`{}`))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, processor.seen, "processing must never run on an unverified delivery")
	})

	t.Run("missing webhook secret surfaces as 500", func(t *testing.T) {
		verifier := &stubVerifier{err: apperrors.NewInternalError("webhook secret not configured")}
		router := newTestRouter(verifier, &stubProcessor{})

		rec := postWebhook(router, []byte(`{}`))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("processing failure returns 500 for redelivery", func(t *testing.T) {
		processor := &stubProcessor{err: goerrors.New("db down")}
		router := newTestRouter(&stubVerifier{envelope: envelope}, processor)

		rec := postWebhook(router, []byte(`{}`))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
		assert.NotContains(t, rec.Body.String(), "db down", "internal details must not leak")
	})

	t.Run("non-POST method gets 405", func(t *testing.T) {
		router := newTestRouter(&stubVerifier{envelope: envelope}, &stubProcessor{})

		req := httptest.NewRequest(http.MethodGet, "/webhooks/stripe", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("preflight short-circuits with 204", func(t *testing.T) {
		router := newTestRouter(&stubVerifier{envelope: envelope}, &stubProcessor{})

		req := httptest.NewRequest(http.MethodOptions, "/webhooks/stripe", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
