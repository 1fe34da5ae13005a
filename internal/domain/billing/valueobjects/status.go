package valueobjects

// SubscriptionStatus is the internal status of a user's plan subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusTrialing  SubscriptionStatus = "trialing"
	SubscriptionStatusPaused    SubscriptionStatus = "paused"
	SubscriptionStatusPastDue   SubscriptionStatus = "past_due"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionStatusActive, SubscriptionStatusTrialing, SubscriptionStatusPaused,
		SubscriptionStatusPastDue, SubscriptionStatusCancelled:
		return true
	}
	return false
}

// SubscriptionStatusFromStripe maps a provider subscription status onto the
// internal status enum. Unknown statuses map to past_due so a human looks at
// them rather than silently granting access.
func SubscriptionStatusFromStripe(status string) SubscriptionStatus {
	switch status {
	case "active":
		return SubscriptionStatusActive
	case "trialing":
		return SubscriptionStatusTrialing
	case "paused":
		return SubscriptionStatusPaused
	case "past_due", "incomplete":
		return SubscriptionStatusPastDue
	case "canceled", "unpaid", "incomplete_expired":
		return SubscriptionStatusCancelled
	default:
		return SubscriptionStatusPastDue
	}
}

// BillingInterval is the cadence the subscription renews on.
type BillingInterval string

const (
	BillingIntervalMonthly BillingInterval = "monthly"
	BillingIntervalAnnual  BillingInterval = "annual"
)

func (b BillingInterval) String() string {
	return string(b)
}

// BillingIntervalFromStripe maps a provider recurring interval. Annual iff the
// interval is "year"; everything else is treated as monthly.
func BillingIntervalFromStripe(interval string) BillingInterval {
	if interval == "year" {
		return BillingIntervalAnnual
	}
	return BillingIntervalMonthly
}

// AddonStatus is the status of a per-addon subscription record.
type AddonStatus string

const (
	AddonStatusActive      AddonStatus = "active"
	AddonStatusManualGrant AddonStatus = "manual_grant"
	AddonStatusCancelled   AddonStatus = "cancelled"
)

func (s AddonStatus) String() string {
	return string(s)
}

// IsEntitled reports whether the addon grants access, whether paid or granted
// manually by an operator.
func (s AddonStatus) IsEntitled() bool {
	return s == AddonStatusActive || s == AddonStatusManualGrant
}

// AgentStatus is the provisioning status of a chat-bot agent.
type AgentStatus string

const (
	AgentStatusActive        AgentStatus = "active"
	AgentStatusFailed        AgentStatus = "failed"
	AgentStatusDeprovisioned AgentStatus = "deprovisioned"
)

func (s AgentStatus) String() string {
	return string(s)
}

// PaymentStatus is the outcome of an invoice payment attempt.
type PaymentStatus string

const (
	PaymentStatusPaid   PaymentStatus = "paid"
	PaymentStatusFailed PaymentStatus = "failed"
)

func (s PaymentStatus) String() string {
	return string(s)
}

// BillingReason classifies why an invoice was issued.
type BillingReason string

const (
	BillingReasonInitial BillingReason = "initial"
	BillingReasonRenewal BillingReason = "renewal"
	BillingReasonUpgrade BillingReason = "upgrade"
)

func (r BillingReason) String() string {
	return string(r)
}

// BillingReasonFromStripe maps the provider's billing_reason. Anything
// unrecognized is treated as a renewal.
func BillingReasonFromStripe(reason string) BillingReason {
	switch reason {
	case "subscription_create":
		return BillingReasonInitial
	case "subscription_cycle":
		return BillingReasonRenewal
	case "subscription_update":
		return BillingReasonUpgrade
	default:
		return BillingReasonRenewal
	}
}
