package usecases

import (
	"context"

	"agencydesk/internal/domain/billing"
	"agencydesk/internal/domain/user"
	"agencydesk/internal/shared/biztime"
	"agencydesk/internal/shared/db"
	"agencydesk/internal/shared/logger"
)

// Outcome classifies how an event was disposed of. Every outcome maps to a
// 200 response; only a returned error produces a retryable 500.
type Outcome string

const (
	OutcomeProcessed  Outcome = "processed"
	OutcomeDuplicate  Outcome = "skipped_duplicate"
	OutcomeStale      Outcome = "skipped_stale"
	OutcomeUnresolved Outcome = "skipped_unresolved"
	OutcomeIgnored    Outcome = "ignored"
)

// ProcessResult is the per-event disposition returned to the HTTP layer.
type ProcessResult struct {
	EventType string
	Outcome   Outcome
}

// ProcessWebhookEventDeps bundles the collaborators of the reconciliation
// engine.
type ProcessWebhookEventDeps struct {
	Subscriptions billing.SubscriptionRepository
	Addons        billing.AddonSubscriptionRepository
	SeatPacks     billing.SeatPackRepository
	Agents        billing.AgentRepository
	Payments      billing.PaymentRepository
	Plans         billing.PlanRepository
	Tiers         billing.AddonTierRepository
	Events        billing.WebhookEventRepository
	Users         user.Repository
	TxManager     *db.TransactionManager
	Gateway       ProviderGateway
	Notifier      NotificationSender
	AdminNotifier AdminNotifier
	Provisioner   AgentProvisioner
	Logger        logger.Interface
}

// ProcessWebhookEventUseCase reconciles one verified provider event against
// internal billing state. Handlers are dispatched by event type; anything
// unrecognized is acknowledged and ignored so new provider event types never
// break deliveries.
type ProcessWebhookEventUseCase struct {
	subscriptions billing.SubscriptionRepository
	addons        billing.AddonSubscriptionRepository
	seatPacks     billing.SeatPackRepository
	agents        billing.AgentRepository
	payments      billing.PaymentRepository
	plans         billing.PlanRepository
	tiers         billing.AddonTierRepository
	events        billing.WebhookEventRepository
	users         user.Repository
	txManager     *db.TransactionManager
	gateway       ProviderGateway
	notifier      NotificationSender
	adminNotifier AdminNotifier
	provisioner   AgentProvisioner
	logger        logger.Interface
}

// NewProcessWebhookEventUseCase creates the reconciliation engine usecase.
func NewProcessWebhookEventUseCase(deps ProcessWebhookEventDeps) *ProcessWebhookEventUseCase {
	return &ProcessWebhookEventUseCase{
		subscriptions: deps.Subscriptions,
		addons:        deps.Addons,
		seatPacks:     deps.SeatPacks,
		agents:        deps.Agents,
		payments:      deps.Payments,
		plans:         deps.Plans,
		tiers:         deps.Tiers,
		events:        deps.Events,
		users:         deps.Users,
		txManager:     deps.TxManager,
		gateway:       deps.Gateway,
		notifier:      deps.Notifier,
		adminNotifier: deps.AdminNotifier,
		provisioner:   deps.Provisioner,
		logger:        deps.Logger.Named("webhook-reconciler"),
	}
}

// Execute dispatches one event envelope to its handler. A non-nil error
// signals a retryable condition and must surface as a 500 so the provider
// redelivers; every other disposition acknowledges the delivery.
func (uc *ProcessWebhookEventUseCase) Execute(ctx context.Context, envelope *billing.EventEnvelope) (*ProcessResult, error) {
	uc.logger.Infow("processing webhook event", "event_id", envelope.ID, "event_type", envelope.Type)

	switch envelope.Type {
	case billing.EventCheckoutSessionCompleted:
		return uc.handleCheckoutCompleted(ctx, envelope)
	case billing.EventSubscriptionCreated, billing.EventSubscriptionUpdated, billing.EventSubscriptionResumed:
		return uc.handleSubscriptionLifecycle(ctx, envelope)
	case billing.EventSubscriptionDeleted:
		return uc.handleSubscriptionDeleted(ctx, envelope)
	case billing.EventSubscriptionPaused:
		return uc.handleSubscriptionPaused(ctx, envelope)
	case billing.EventInvoicePaid:
		return uc.handleInvoicePaid(ctx, envelope)
	case billing.EventInvoicePaymentFailed:
		return uc.handleInvoicePaymentFailed(ctx, envelope)
	default:
		uc.logger.Infow("ignoring unhandled event type", "event_id", envelope.ID, "event_type", envelope.Type)
		return &ProcessResult{EventType: envelope.Type, Outcome: OutcomeIgnored}, nil
	}
}

// newAuditEvent builds the audit row for an envelope. Callers fill in the
// user id, subscription id and error message as they learn them.
func newAuditEvent(envelope *billing.EventEnvelope) *billing.WebhookEvent {
	return &billing.WebhookEvent{
		EventType:     billing.EventCategory(envelope.Type),
		EventName:     envelope.Type,
		StripeEventID: envelope.ID,
		EventData:     envelope.Raw,
		ProcessedAt:   biztime.NowUTC(),
	}
}

// auditUnresolved records an audit row with a null user id after resolution
// exhausted all strategies. Best effort; the event is skipped either way.
func (uc *ProcessWebhookEventUseCase) auditUnresolved(ctx context.Context, envelope *billing.EventEnvelope, subscriptionID string) {
	msg := "unable to resolve user for event"
	audit := newAuditEvent(envelope)
	audit.StripeSubscriptionID = subscriptionID
	audit.ErrorMessage = &msg
	if err := uc.events.Insert(ctx, audit); err != nil {
		uc.logger.Errorw("failed to record unresolved event audit", "event_id", envelope.ID, "error", err)
	}
	uc.logger.Warnw("skipping event, user unresolved", "event_id", envelope.ID, "event_type", envelope.Type)
}

func (uc *ProcessWebhookEventUseCase) notify(ctx context.Context, template string, u *user.User, vars map[string]string) {
	if err := uc.notifier.Send(ctx, template, u.Email, u.Name, vars); err != nil {
		uc.logger.Errorw("notification dispatch failed", "template", template, "user_id", u.ID, "error", err)
	}
}

func (uc *ProcessWebhookEventUseCase) notifyAdmin(ctx context.Context, subject, body string) {
	if err := uc.adminNotifier.Notify(ctx, subject, body); err != nil {
		uc.logger.Errorw("admin notification failed", "subject", subject, "error", err)
	}
}
