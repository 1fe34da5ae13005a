package usecases

import (
	"context"
	"strconv"

	"agencydesk/internal/domain/user"
	"agencydesk/internal/shared/errors"
)

// resolveUser maps event metadata and a provider customer id to an internal
// user. Strategies are tried in order and short-circuit on the first hit:
//
//  1. an explicit user_id metadata field stamped at checkout,
//  2. a subscription record already carrying the provider customer id,
//  3. the provider customer's email matched against the user directory.
//
// Returns (nil, nil) when all three fail. Callers treat that as a per-event
// skip, never as a handler failure, so unrelated deliveries keep flowing.
func (uc *ProcessWebhookEventUseCase) resolveUser(ctx context.Context, metadata map[string]string, customerID string) (*user.User, error) {
	if raw, ok := metadata["user_id"]; ok && raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			uc.logger.Warnw("malformed user_id in event metadata", "user_id", raw)
		} else {
			u, err := uc.users.GetByID(ctx, uint(id))
			if err == nil {
				return u, nil
			}
			if !errors.IsNotFoundError(err) {
				return nil, err
			}
			uc.logger.Warnw("metadata user_id references unknown user", "user_id", id)
		}
	}

	if customerID != "" {
		sub, err := uc.subscriptions.GetByStripeCustomerID(ctx, customerID)
		if err == nil {
			u, err := uc.users.GetByID(ctx, sub.UserID)
			if err == nil {
				return u, nil
			}
			if !errors.IsNotFoundError(err) {
				return nil, err
			}
			uc.logger.Warnw("subscription row references unknown user",
				"customer_id", customerID, "user_id", sub.UserID)
		} else if !errors.IsNotFoundError(err) {
			return nil, err
		}

		email, err := uc.gateway.GetCustomerEmail(ctx, customerID)
		if err != nil {
			uc.logger.Warnw("provider customer lookup failed", "customer_id", customerID, "error", err)
		} else if email != "" {
			u, err := uc.users.GetByEmail(ctx, email)
			if err == nil {
				return u, nil
			}
			if !errors.IsNotFoundError(err) {
				return nil, err
			}
		}
	}

	return nil, nil
}
