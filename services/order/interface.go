package order

import "context"

// Service drives the order status machine:
// new -> assigned -> pending_confirmation -> completed, with a dispute
// moving pending_confirmation back to assigned.
type Service interface {
	// MarkDone is the assigned master reporting finished work; the
	// client is then asked to confirm. Idempotent about repeats.
	MarkDone(ctx context.Context, requestID, masterTelegramID int64) error
	// Confirm is the client accepting completion.
	Confirm(ctx context.Context, requestID, clientTelegramID int64) error
	// Dispute is the client rejecting completion; the order returns to
	// assigned and the master and admin are told.
	Dispute(ctx context.Context, requestID, clientTelegramID int64) error
	// AutoComplete closes a stale pending order on the sweep's behalf,
	// through the same completion path as Confirm.
	AutoComplete(ctx context.Context, requestID int64) error
}
