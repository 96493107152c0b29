package offer

import "errors"

// Resolution outcomes the bot turns into user-facing replies.
var (
	// ErrNotMaster means the caller has no master profile.
	ErrNotMaster = errors.New("caller is not a registered master")
	// ErrForeignOffer means the offer was not addressed to the caller.
	ErrForeignOffer = errors.New("offer belongs to another master")
	// ErrAlreadyTaken means another master claimed the request first.
	ErrAlreadyTaken = errors.New("request already taken")
	// ErrQuotaExhausted means no subscription and no free orders left;
	// the claim changed nothing and the master should be upsold.
	ErrQuotaExhausted = errors.New("free order quota exhausted")
)
