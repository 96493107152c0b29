package offer

import (
	"context"

	"mastera/models"
)

// ClaimResult carries what the bot needs to answer a successful claim.
type ClaimResult struct {
	Request          *models.Request
	Master           *models.Master
	DebitedFreeOrder bool
}

// Service broadcasts fresh requests to matching masters and resolves the
// resulting offers.
type Service interface {
	// Broadcast fans a new request out to the ranked matching masters.
	// It returns how many offers were persisted; zero means no master
	// matched and the admin channel was told instead.
	Broadcast(ctx context.Context, request *models.Request) (int, error)
	// Claim lets the calling master take the request behind one of their
	// offers. Guards, in order: the caller must own the offer, the
	// request must still be new, and an entitlement must cover the
	// claim (active subscription, else one free order is debited).
	Claim(ctx context.Context, requestID, callerTelegramID int64) (*ClaimResult, error)
	// Skip resolves the caller's offer as skipped. Always permitted.
	Skip(ctx context.Context, requestID, callerTelegramID int64) error
}
