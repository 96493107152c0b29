package entitlement

import "errors"

var (
	// ErrUnknownProduct signals a purchase payload that matches no catalog entry.
	ErrUnknownProduct = errors.New("unknown product code")

	// ErrNotMaster signals that the payer has no master profile.
	ErrNotMaster = errors.New("payer is not a registered master")
)
