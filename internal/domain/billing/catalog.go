package billing

import "time"

// Plan is a catalog read model. The reconciler identifies the plan line item
// of a multi-item provider subscription by matching item price ids against
// these records, never by item position.
type Plan struct {
	ID                   uint
	SID                  string
	Slug                 string
	Name                 string
	StripePriceIDMonthly string
	StripePriceIDAnnual  string
	IsFree               bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// MatchesPrice reports whether the given provider price id belongs to this plan.
func (p *Plan) MatchesPrice(priceID string) bool {
	if priceID == "" {
		return false
	}
	return priceID == p.StripePriceIDMonthly || priceID == p.StripePriceIDAnnual
}

// AddonTier is a catalog read model for addon tiers. LeadLimit feeds the
// chat-bot agent quota on provisioning.
type AddonTier struct {
	ID        uint
	TierID    string
	AddonSlug string
	Name      string
	LeadLimit int
	CreatedAt time.Time
	UpdatedAt time.Time
}
