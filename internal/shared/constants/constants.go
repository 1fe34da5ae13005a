// Package constants defines shared constants used across the application.
package constants

// Database table names
const (
	TableUsers              = "users"
	TablePlans              = "plans"
	TableAddonTiers         = "addon_tiers"
	TableUserSubscriptions  = "user_subscriptions"
	TableAddonSubscriptions = "addon_subscriptions"
	TableSeatPacks          = "seat_packs"
	TableProvisionedAgents  = "provisioned_agents"
	TablePayments           = "payments"
	TableWebhookEvents      = "webhook_events"
)

// DefaultAgentLeadLimit is used when an addon tier cannot be resolved.
const DefaultAgentLeadLimit = 50

// DefaultAgentName is used when the owning user has no profile name.
const DefaultAgentName = "Chat Bot Agent"

// DefaultPlanDisplayName is the fallback product name for welcome notifications.
const DefaultPlanDisplayName = "Premium"
