package billing

import "time"

// ProviderSubscription is the read model returned by the payment provider
// gateway when a subscription is fetched out-of-band (e.g. to pick up period
// bounds for an addon purchased through checkout).
type ProviderSubscription struct {
	ID                 string
	Status             string
	CancelAtPeriodEnd  bool
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	Items              []ProviderSubscriptionItem
}

// ProviderSubscriptionItem is one line item of a fetched provider subscription.
type ProviderSubscriptionItem struct {
	ID                 string
	PriceID            string
	ProductID          string
	Interval           string
	Quantity           int64
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
}

// FirstItem returns the first line item, or nil when the subscription has none.
func (p *ProviderSubscription) FirstItem() *ProviderSubscriptionItem {
	if p == nil || len(p.Items) == 0 {
		return nil
	}
	return &p.Items[0]
}
