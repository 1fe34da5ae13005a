package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"agencydesk/internal/application/usecases"
	"agencydesk/internal/domain/billing"
	apperrors "agencydesk/internal/shared/errors"
	"agencydesk/internal/shared/logger"
	"agencydesk/internal/shared/utils"
)

// maxWebhookBody caps the payload size accepted from the provider.
const maxWebhookBody = 1 << 20

// WebhookVerifier authenticates a raw delivery and parses the envelope.
type WebhookVerifier interface {
	VerifyWebhook(payload []byte, signatureHeader string) (*billing.EventEnvelope, error)
}

// WebhookProcessor reconciles one verified envelope.
type WebhookProcessor interface {
	Execute(ctx context.Context, envelope *billing.EventEnvelope) (*usecases.ProcessResult, error)
}

type WebhookHandler struct {
	verifier  WebhookVerifier
	processor WebhookProcessor
	logger    logger.Interface
}

func NewWebhookHandler(verifier WebhookVerifier, processor WebhookProcessor, log logger.Interface) *WebhookHandler {
	return &WebhookHandler{
		verifier:  verifier,
		processor: processor,
		logger:    log.Named("webhook-handler"),
	}
}

// Handle is the single webhook endpoint. An invalid signature rejects the
// call before any state is touched; a processing error returns 500 so the
// provider redelivers; every other disposition acknowledges with 200.
func (h *WebhookHandler) Handle(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		h.logger.Warnw("failed to read webhook body", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "unreadable request body")
		return
	}

	envelope, err := h.verifier.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		if apperrors.IsUnauthorizedError(err) {
			h.logger.Warnw("webhook signature verification failed", "client_ip", c.ClientIP())
		} else {
			h.logger.Errorw("webhook verification misconfigured", "error", err)
		}
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.processor.Execute(c.Request.Context(), envelope)
	if err != nil {
		h.logger.Errorw("webhook processing failed, provider will redeliver",
			"event_id", envelope.ID, "event_type", envelope.Type, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("webhook processed",
		"event_id", envelope.ID, "event_type", envelope.Type, "outcome", result.Outcome)
	c.JSON(http.StatusOK, gin.H{"success": true, "event": result.EventType})
}
