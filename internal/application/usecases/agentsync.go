package usecases

import (
	"context"
	goerrors "errors"

	"agencydesk/internal/domain/billing"
	vo "agencydesk/internal/domain/billing/valueobjects"
	"agencydesk/internal/shared/constants"
	"agencydesk/internal/shared/errors"
)

// syncAgentProvisioning reconciles the chat-bot agent against the chat-bot
// addon entitlement. Three-way branch: provision when the addon is entitled
// and no active agent exists, deprovision when the addon lapsed but an agent
// is still active, update the tier when both are active but disagree on it.
// The sync never returns an error; a failure here must not abort the
// subscription handler that invoked it.
func (uc *ProcessWebhookEventUseCase) syncAgentProvisioning(ctx context.Context, userID uint) {
	if !uc.provisioner.Enabled() {
		uc.logger.Debugw("agent provisioning disabled, skipping sync", "user_id", userID)
		return
	}

	addon, err := uc.addons.GetByUserAndAddon(ctx, userID, billing.AddonChatBot)
	if err != nil && !errors.IsNotFoundError(err) {
		uc.logger.Errorw("agent sync could not load addon record", "user_id", userID, "error", err)
		return
	}
	agent, err := uc.agents.GetByUserID(ctx, userID)
	if err != nil && !errors.IsNotFoundError(err) {
		uc.logger.Errorw("agent sync could not load agent record", "user_id", userID, "error", err)
		return
	}

	addonEntitled := addon != nil && addon.Status.IsEntitled()
	agentActive := agent.IsActive()

	switch {
	case addonEntitled && !agentActive:
		uc.provisionAgent(ctx, userID, addon)
	case !addonEntitled && agentActive:
		uc.deprovisionAgent(ctx, userID)
	case addonEntitled && agentActive && addon.TierID != agent.TierID:
		uc.updateAgentTier(ctx, userID, addon, agent)
	}
}

func (uc *ProcessWebhookEventUseCase) provisionAgent(ctx context.Context, userID uint, addon *billing.AddonSubscription) {
	leadLimit := uc.resolveLeadLimit(ctx, addon.TierID)

	name := constants.DefaultAgentName
	if u, err := uc.users.GetByID(ctx, userID); err == nil && u.Name != "" {
		name = u.Name
	}

	externalID, err := uc.provisioner.CreateAgent(ctx, name, leadLimit)
	record := &billing.ProvisionedAgent{
		UserID: userID,
		TierID: addon.TierID,
	}
	if err != nil {
		uc.logger.Errorw("agent provisioning failed", "user_id", userID, "error", err)
		msg := err.Error()
		record.Status = vo.AgentStatusFailed
		record.ErrorMessage = &msg
	} else {
		record.Status = vo.AgentStatusActive
		record.ExternalAgentID = externalID
	}

	if err := uc.agents.Save(ctx, record); err != nil {
		uc.logger.Errorw("failed to persist agent record", "user_id", userID, "error", err)
	}
}

// deprovisionAgent tears down the user's agent. A not-found from the
// provisioning API means it is already gone; any other failure is logged and
// the local record is still marked deprovisioned so billing state never
// blocks on the remote side.
func (uc *ProcessWebhookEventUseCase) deprovisionAgent(ctx context.Context, userID uint) {
	agent, err := uc.agents.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.IsNotFoundError(err) {
			uc.logger.Errorw("could not load agent for deprovisioning", "user_id", userID, "error", err)
		}
		return
	}
	if !agent.IsActive() {
		return
	}

	if uc.provisioner.Enabled() && agent.ExternalAgentID != "" {
		if err := uc.provisioner.DeleteAgent(ctx, agent.ExternalAgentID); err != nil {
			if goerrors.Is(err, billing.ErrAgentNotFound) {
				uc.logger.Infow("agent already absent on provisioning API", "user_id", userID)
			} else {
				uc.logger.Errorw("agent deprovisioning call failed, marking deprovisioned anyway",
					"user_id", userID, "error", err)
			}
		}
	}

	if err := uc.agents.UpdateStatus(ctx, userID, vo.AgentStatusDeprovisioned.String()); err != nil {
		uc.logger.Errorw("failed to mark agent deprovisioned", "user_id", userID, "error", err)
	}
}

func (uc *ProcessWebhookEventUseCase) updateAgentTier(ctx context.Context, userID uint, addon *billing.AddonSubscription, agent *billing.ProvisionedAgent) {
	leadLimit := uc.resolveLeadLimit(ctx, addon.TierID)

	if err := uc.provisioner.UpdateAgentLeadLimit(ctx, agent.ExternalAgentID, leadLimit); err != nil {
		uc.logger.Errorw("agent tier update call failed", "user_id", userID, "error", err)
		return
	}
	if err := uc.agents.UpdateTier(ctx, userID, addon.TierID); err != nil {
		uc.logger.Errorw("failed to persist agent tier", "user_id", userID, "error", err)
	}
}

func (uc *ProcessWebhookEventUseCase) resolveLeadLimit(ctx context.Context, tierID string) int {
	if tierID == "" {
		return constants.DefaultAgentLeadLimit
	}
	tier, err := uc.tiers.GetByTierID(ctx, tierID)
	if err != nil {
		if !errors.IsNotFoundError(err) {
			uc.logger.Warnw("addon tier lookup failed", "tier_id", tierID, "error", err)
		}
		return constants.DefaultAgentLeadLimit
	}
	return tier.LeadLimit
}
