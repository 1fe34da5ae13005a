package models

import (
	"time"

	"agencydesk/internal/shared/constants"
)

// PaymentModel is the append-only persistence model of the payment ledger.
// The invoice id is unique so a redelivered invoice event can never double
// an entry past the idempotency gate.
type PaymentModel struct {
	ID                   uint   `gorm:"primarykey"`
	UserID               uint   `gorm:"index;not null"`
	StripeInvoiceID      string `gorm:"uniqueIndex;not null;size:255"`
	StripeSubscriptionID string `gorm:"index;size:255"`
	AmountCents          int64  `gorm:"not null;default:0"`
	TaxCents             int64  `gorm:"not null;default:0"`
	DiscountCents        int64  `gorm:"not null;default:0"`
	Currency             string `gorm:"size:10"`
	Status               string `gorm:"not null;size:20;index"`
	BillingReason        string `gorm:"size:20"`
	PaidAt               *time.Time
	CreatedAt            time.Time
}

func (PaymentModel) TableName() string {
	return constants.TablePayments
}
