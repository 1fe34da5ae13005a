package billing

import "errors"

var (
	// ErrFreePlanNotConfigured signals that the free plan row is missing from
	// the catalog, which makes a subscription deletion unprocessable.
	ErrFreePlanNotConfigured = errors.New("free plan not configured")

	// ErrSubscriptionNotMatched signals that a deletion event matched no
	// subscription row and could not be applied.
	ErrSubscriptionNotMatched = errors.New("subscription not matched")
)
