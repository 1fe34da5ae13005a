package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"agencydesk/internal/domain/billing"
	vo "agencydesk/internal/domain/billing/valueobjects"
	"agencydesk/internal/shared/biztime"
	"agencydesk/internal/shared/errors"
)

// handleInvoicePaid records a paid ledger entry, recovers a past_due
// subscription back to active, and sends a receipt. The receipt is suppressed
// for the subscription's very first invoice since the created handler already
// sent the welcome notice.
func (uc *ProcessWebhookEventUseCase) handleInvoicePaid(ctx context.Context, envelope *billing.EventEnvelope) (*ProcessResult, error) {
	var invoice billing.InvoicePayload
	if err := json.Unmarshal(envelope.ObjectRaw, &invoice); err != nil {
		return nil, errors.NewBadRequestError("malformed invoice payload", err.Error())
	}

	u, err := uc.resolveUser(ctx, invoice.ResolutionMetadata(), invoice.Customer)
	if err != nil {
		return nil, err
	}
	if u == nil {
		uc.auditUnresolved(ctx, envelope, invoice.Subscription)
		return &ProcessResult{EventType: envelope.Type, Outcome: OutcomeUnresolved}, nil
	}

	processed, err := uc.alreadyProcessed(ctx, envelope.ID)
	if err != nil {
		return nil, err
	}
	if processed {
		return &ProcessResult{EventType: envelope.Type, Outcome: OutcomeDuplicate}, nil
	}

	paidAt := biztime.NowUTC()
	payment := &billing.Payment{
		UserID:               u.ID,
		StripeInvoiceID:      invoice.ID,
		StripeSubscriptionID: invoice.Subscription,
		AmountCents:          invoice.AmountPaid,
		TaxCents:             invoice.Tax,
		DiscountCents:        invoice.DiscountCents(),
		Currency:             invoice.Currency,
		Status:               vo.PaymentStatusPaid,
		BillingReason:        vo.BillingReasonFromStripe(invoice.BillingReason),
		PaidAt:               &paidAt,
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.payments.Insert(txCtx, payment); err != nil {
			return err
		}
		return uc.recoverPastDue(txCtx, invoice.Subscription)
	})
	if err != nil {
		return nil, err
	}

	audit := newAuditEvent(envelope)
	audit.UserID = &u.ID
	audit.StripeSubscriptionID = invoice.Subscription
	if err := uc.events.Insert(ctx, audit); err != nil {
		return nil, err
	}

	if invoice.BillingReason != "subscription_create" {
		uc.notify(ctx, TemplatePaymentReceipt, u, map[string]string{
			"name":     u.Name,
			"amount":   formatAmount(invoice.AmountPaid, invoice.Currency),
			"currency": invoice.Currency,
		})
	}

	return &ProcessResult{EventType: envelope.Type, Outcome: OutcomeProcessed}, nil
}

// handleInvoicePaymentFailed flips the subscription to past_due, records the
// failed attempt in the ledger, and notifies the user and the admins.
func (uc *ProcessWebhookEventUseCase) handleInvoicePaymentFailed(ctx context.Context, envelope *billing.EventEnvelope) (*ProcessResult, error) {
	var invoice billing.InvoicePayload
	if err := json.Unmarshal(envelope.ObjectRaw, &invoice); err != nil {
		return nil, errors.NewBadRequestError("malformed invoice payload", err.Error())
	}

	u, err := uc.resolveUser(ctx, invoice.ResolutionMetadata(), invoice.Customer)
	if err != nil {
		return nil, err
	}
	if u == nil {
		uc.auditUnresolved(ctx, envelope, invoice.Subscription)
		return &ProcessResult{EventType: envelope.Type, Outcome: OutcomeUnresolved}, nil
	}

	processed, err := uc.alreadyProcessed(ctx, envelope.ID)
	if err != nil {
		return nil, err
	}
	if processed {
		return &ProcessResult{EventType: envelope.Type, Outcome: OutcomeDuplicate}, nil
	}

	payment := &billing.Payment{
		UserID:               u.ID,
		StripeInvoiceID:      invoice.ID,
		StripeSubscriptionID: invoice.Subscription,
		AmountCents:          invoice.AmountDue,
		TaxCents:             invoice.Tax,
		DiscountCents:        invoice.DiscountCents(),
		Currency:             invoice.Currency,
		Status:               vo.PaymentStatusFailed,
		BillingReason:        vo.BillingReasonFromStripe(invoice.BillingReason),
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.payments.Insert(txCtx, payment); err != nil {
			return err
		}
		if invoice.Subscription == "" {
			return nil
		}
		return uc.subscriptions.UpdateStatusByStripeSubscriptionID(txCtx, invoice.Subscription, vo.SubscriptionStatusPastDue.String())
	})
	if err != nil {
		return nil, err
	}

	audit := newAuditEvent(envelope)
	audit.UserID = &u.ID
	audit.StripeSubscriptionID = invoice.Subscription
	if err := uc.events.Insert(ctx, audit); err != nil {
		return nil, err
	}

	uc.notify(ctx, TemplatePaymentFailed, u, map[string]string{"name": u.Name})
	uc.notifyAdmin(ctx, "Payment failed",
		fmt.Sprintf("Payment failed for user %s, invoice %s.", u.Email, invoice.ID))

	return &ProcessResult{EventType: envelope.Type, Outcome: OutcomeProcessed}, nil
}

// recoverPastDue flips a past_due subscription back to active once an invoice
// settles. Any other status is left untouched.
func (uc *ProcessWebhookEventUseCase) recoverPastDue(ctx context.Context, subscriptionID string) error {
	if subscriptionID == "" {
		return nil
	}
	sub, err := uc.subscriptions.GetByStripeSubscriptionID(ctx, subscriptionID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil
		}
		return err
	}
	if sub.Status != vo.SubscriptionStatusPastDue {
		return nil
	}
	return uc.subscriptions.UpdateStatusByStripeSubscriptionID(ctx, subscriptionID, vo.SubscriptionStatusActive.String())
}

func formatAmount(cents int64, currency string) string {
	return fmt.Sprintf("%.2f %s", float64(cents)/100, currency)
}
