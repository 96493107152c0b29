package order

import "errors"

// Lifecycle outcomes the bot turns into user-facing replies.
var (
	// ErrNotMaster means the caller has no master profile.
	ErrNotMaster = errors.New("caller is not a registered master")
	// ErrNotYourOrder means the request is assigned to another master.
	ErrNotYourOrder = errors.New("request is assigned to another master")
	// ErrNotYourRequest means the caller is not the request's client.
	ErrNotYourRequest = errors.New("request belongs to another client")
	// ErrAlreadyPending means completion was already reported and the
	// order waits for the client.
	ErrAlreadyPending = errors.New("completion already awaiting confirmation")
	// ErrAlreadyCompleted means the order is closed.
	ErrAlreadyCompleted = errors.New("order already completed")
	// ErrInvalidState means the requested move does not exist in the
	// status machine from the request's current status.
	ErrInvalidState = errors.New("invalid order state for this action")
)
