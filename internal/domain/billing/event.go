package billing

import (
	"encoding/json"
	"time"
)

// Provider event names handled by the reconciliation engine.
const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventSubscriptionCreated      = "customer.subscription.created"
	EventSubscriptionUpdated      = "customer.subscription.updated"
	EventSubscriptionResumed      = "customer.subscription.resumed"
	EventSubscriptionPaused       = "customer.subscription.paused"
	EventSubscriptionDeleted      = "customer.subscription.deleted"
	EventInvoicePaid              = "invoice.paid"
	EventInvoicePaymentFailed     = "invoice.payment_failed"
)

// EventEnvelope is one verified provider notification. Raw holds the full
// event body exactly as delivered (persisted into the audit log); ObjectRaw
// is the event's data.object, decoded per event type by the handlers.
type EventEnvelope struct {
	ID        string
	Type      string
	CreatedAt time.Time
	Raw       json.RawMessage
	ObjectRaw json.RawMessage
}

// CheckoutSessionPayload is the subset of a provider checkout session the
// reconciler consumes. The struct is owned locally so the service does not
// track the provider SDK's payload shape across API versions.
type CheckoutSessionPayload struct {
	ID              string            `json:"id"`
	Customer        string            `json:"customer"`
	Subscription    string            `json:"subscription"`
	Metadata        map[string]string `json:"metadata"`
	CustomerEmail   string            `json:"customer_email"`
	CustomerDetails struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"customer_details"`
}

// SubscriptionItemPayload is one line item of a provider subscription.
// Period bounds appear at item level on newer provider API versions and at
// subscription level on older ones; handlers prefer the item-level values.
type SubscriptionItemPayload struct {
	ID    string `json:"id"`
	Price struct {
		ID        string `json:"id"`
		Product   string `json:"product"`
		Recurring struct {
			Interval string `json:"interval"`
		} `json:"recurring"`
	} `json:"price"`
	Quantity           int64 `json:"quantity"`
	CurrentPeriodStart int64 `json:"current_period_start"`
	CurrentPeriodEnd   int64 `json:"current_period_end"`
}

// SubscriptionPayload is the subset of a provider subscription consumed by
// the lifecycle handlers.
type SubscriptionPayload struct {
	ID                 string            `json:"id"`
	Customer           string            `json:"customer"`
	Status             string            `json:"status"`
	CancelAtPeriodEnd  bool              `json:"cancel_at_period_end"`
	CurrentPeriodStart int64             `json:"current_period_start"`
	CurrentPeriodEnd   int64             `json:"current_period_end"`
	TrialEnd           int64             `json:"trial_end"`
	CanceledAt         int64             `json:"canceled_at"`
	Metadata           map[string]string `json:"metadata"`
	Items              struct {
		Data []SubscriptionItemPayload `json:"data"`
	} `json:"items"`
}

// ItemIDs returns the set of line-item ids present on the subscription,
// used to detect removed addon and seat-pack items.
func (s *SubscriptionPayload) ItemIDs() map[string]bool {
	ids := make(map[string]bool, len(s.Items.Data))
	for _, item := range s.Items.Data {
		if item.ID != "" {
			ids[item.ID] = true
		}
	}
	return ids
}

// PeriodBounds returns the current period bounds, preferring the given
// item's values over the subscription-level ones.
func (s *SubscriptionPayload) PeriodBounds(item *SubscriptionItemPayload) (start, end int64) {
	start, end = s.CurrentPeriodStart, s.CurrentPeriodEnd
	if item != nil && item.CurrentPeriodStart != 0 {
		start = item.CurrentPeriodStart
	}
	if item != nil && item.CurrentPeriodEnd != 0 {
		end = item.CurrentPeriodEnd
	}
	return start, end
}

// InvoicePayload is the subset of a provider invoice consumed by the invoice
// handlers.
type InvoicePayload struct {
	ID                  string            `json:"id"`
	Customer            string            `json:"customer"`
	Subscription        string            `json:"subscription"`
	BillingReason       string            `json:"billing_reason"`
	AmountPaid          int64             `json:"amount_paid"`
	AmountDue           int64             `json:"amount_due"`
	Tax                 int64             `json:"tax"`
	Currency            string            `json:"currency"`
	Metadata            map[string]string `json:"metadata"`
	SubscriptionDetails struct {
		Metadata map[string]string `json:"metadata"`
	} `json:"subscription_details"`
	TotalDiscountAmounts []struct {
		Amount int64 `json:"amount"`
	} `json:"total_discount_amounts"`
}

// DiscountCents aggregates all discount amounts applied to the invoice.
func (i *InvoicePayload) DiscountCents() int64 {
	var total int64
	for _, d := range i.TotalDiscountAmounts {
		total += d.Amount
	}
	return total
}

// ResolutionMetadata merges subscription-level and invoice-level metadata for
// user resolution, with subscription metadata taking precedence.
func (i *InvoicePayload) ResolutionMetadata() map[string]string {
	merged := make(map[string]string, len(i.Metadata)+len(i.SubscriptionDetails.Metadata))
	for k, v := range i.Metadata {
		merged[k] = v
	}
	for k, v := range i.SubscriptionDetails.Metadata {
		merged[k] = v
	}
	return merged
}
