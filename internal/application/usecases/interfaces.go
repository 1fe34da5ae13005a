package usecases

import (
	"context"

	"agencydesk/internal/domain/billing"
)

// Notification template names understood by the notification sink.
const (
	TemplatePremiumWelcome        = "premium_welcome"
	TemplateSubscriptionCancelled = "subscription_cancelled"
	TemplatePaymentReceipt        = "payment_receipt"
	TemplatePaymentFailed         = "payment_failed"
	TemplateAddonPurchased        = "addon_purchased"
)

// ProviderGateway wraps the payment provider SDK lookups the reconciler needs
// beyond webhook payloads.
type ProviderGateway interface {
	GetCustomerEmail(ctx context.Context, customerID string) (string, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*billing.ProviderSubscription, error)
	GetProductName(ctx context.Context, productID string) (string, error)
}

// NotificationSender is the templated notification sink. Send failures are
// logged by callers, never propagated to the webhook response.
type NotificationSender interface {
	Send(ctx context.Context, template, toEmail, toName string, vars map[string]string) error
}

// AdminNotifier delivers plain-text operational notices to the admin
// recipients. Fire-and-forget; errors are swallowed by callers.
type AdminNotifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// AgentProvisioner is the chat-bot provisioning API client. When the endpoint
// or API key is not configured, Enabled reports false and the agent sync is
// skipped entirely.
type AgentProvisioner interface {
	Enabled() bool
	CreateAgent(ctx context.Context, name string, leadLimit int) (string, error)
	DeleteAgent(ctx context.Context, externalID string) error
	UpdateAgentLeadLimit(ctx context.Context, externalID string, leadLimit int) error
}
