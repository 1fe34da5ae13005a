package billing

import (
	"time"

	vo "agencydesk/internal/domain/billing/valueobjects"
)

// SeatPackStatus mirrors the addon status values that apply to seat packs.
type SeatPackStatus = vo.AddonStatus

// SeatPack is one purchased block of seats tied to a provider subscription
// item. Cancelling a pack never evicts already-seated users; seat assignment
// lives outside this subsystem.
type SeatPack struct {
	ID                       uint
	UserID                   uint
	StripeSubscriptionID     string
	StripeSubscriptionItemID string
	Quantity                 int
	Status                   SeatPackStatus
	CancelledAt              *time.Time
	CreatedAt                time.Time
	UpdatedAt                time.Time
}
