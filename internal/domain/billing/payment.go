package billing

import (
	"time"

	vo "agencydesk/internal/domain/billing/valueobjects"
)

// Payment is one ledger row for a paid or failed invoice attempt. Rows are
// written once through an atomic recording operation and never mutated.
type Payment struct {
	ID                   uint
	UserID               uint
	StripeInvoiceID      string
	StripeSubscriptionID string
	AmountCents          int64
	TaxCents             int64
	DiscountCents        int64
	Currency             string
	Status               vo.PaymentStatus
	BillingReason        vo.BillingReason
	PaidAt               *time.Time
	CreatedAt            time.Time
}
