package billing

import (
	"errors"
	"time"

	vo "agencydesk/internal/domain/billing/valueobjects"
)

// ErrAgentNotFound is returned by the provisioning API client when the remote
// agent no longer exists. Deprovisioning treats it as already done.
var ErrAgentNotFound = errors.New("agent not found")

// ProvisionedAgent is one chat-bot agent per user. Records are never deleted,
// only status-transitioned, so failed provisioning attempts stay visible.
type ProvisionedAgent struct {
	ID              uint
	UserID          uint
	ExternalAgentID string
	Status          vo.AgentStatus
	TierID          string
	ErrorMessage    *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (a *ProvisionedAgent) IsActive() bool {
	return a != nil && a.Status == vo.AgentStatusActive
}
