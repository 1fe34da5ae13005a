package payment

import (
	"context"
	"encoding/json"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/product"
	"github.com/stripe/stripe-go/v82/subscription"
	"github.com/stripe/stripe-go/v82/webhook"

	"agencydesk/internal/domain/billing"
	"agencydesk/internal/infrastructure/cache"
	"agencydesk/internal/shared/biztime"
	"agencydesk/internal/shared/config"
	apperrors "agencydesk/internal/shared/errors"
	"agencydesk/internal/shared/logger"
)

// StripeGateway wraps the provider SDK for signature verification and the
// out-of-band lookups the reconciler needs.
type StripeGateway struct {
	cfg    *config.StripeConfig
	cache  *cache.ProductNameCache
	logger logger.Interface
}

func NewStripeGateway(cfg *config.StripeConfig, productCache *cache.ProductNameCache, log logger.Interface) *StripeGateway {
	stripe.Key = cfg.SecretKey
	return &StripeGateway{
		cfg:    cfg,
		cache:  productCache,
		logger: log.Named("stripe-gateway"),
	}
}

// VerifyWebhook authenticates a raw delivery against the webhook secret and
// parses it into an event envelope. A missing secret is a fatal
// misconfiguration, not a signature failure. API version mismatches are
// tolerated because payload decoding uses locally-owned structs.
func (g *StripeGateway) VerifyWebhook(payload []byte, signatureHeader string) (*billing.EventEnvelope, error) {
	if g.cfg.WebhookSecret == "" {
		return nil, apperrors.NewInternalError("webhook secret not configured")
	}

	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, g.cfg.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid webhook signature", err.Error())
	}

	return &billing.EventEnvelope{
		ID:        event.ID,
		Type:      string(event.Type),
		CreatedAt: biztime.FromUnix(event.Created),
		Raw:       json.RawMessage(payload),
		ObjectRaw: event.Data.Raw,
	}, nil
}

func (g *StripeGateway) GetCustomerEmail(ctx context.Context, customerID string) (string, error) {
	c, err := customer.Get(customerID, nil)
	if err != nil {
		return "", err
	}
	return c.Email, nil
}

// GetSubscription fetches a subscription and flattens its line items into the
// read model. Period bounds are taken from the items, where current provider
// API versions carry them.
func (g *StripeGateway) GetSubscription(ctx context.Context, subscriptionID string) (*billing.ProviderSubscription, error) {
	s, err := subscription.Get(subscriptionID, nil)
	if err != nil {
		return nil, err
	}

	result := &billing.ProviderSubscription{
		ID:                s.ID,
		Status:            string(s.Status),
		CancelAtPeriodEnd: s.CancelAtPeriodEnd,
	}
	if s.Items != nil {
		for _, item := range s.Items.Data {
			mapped := billing.ProviderSubscriptionItem{
				ID:                 item.ID,
				Quantity:           item.Quantity,
				CurrentPeriodStart: biztime.FromUnix(item.CurrentPeriodStart),
				CurrentPeriodEnd:   biztime.FromUnix(item.CurrentPeriodEnd),
			}
			if item.Price != nil {
				mapped.PriceID = item.Price.ID
				if item.Price.Product != nil {
					mapped.ProductID = item.Price.Product.ID
				}
				if item.Price.Recurring != nil {
					mapped.Interval = string(item.Price.Recurring.Interval)
				}
			}
			result.Items = append(result.Items, mapped)
		}
	}
	if first := result.FirstItem(); first != nil {
		result.CurrentPeriodStart = first.CurrentPeriodStart
		result.CurrentPeriodEnd = first.CurrentPeriodEnd
	}
	return result, nil
}

func (g *StripeGateway) GetProductName(ctx context.Context, productID string) (string, error) {
	if name, ok := g.cache.Get(ctx, productID); ok {
		return name, nil
	}

	p, err := product.Get(productID, nil)
	if err != nil {
		return "", err
	}
	if p.Name != "" {
		g.cache.Set(ctx, productID, p.Name)
	}
	return p.Name, nil
}
