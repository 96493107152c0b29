package orderRepo

import (
	"context"
	"errors"
)

// Claim outcomes that callers branch on.
var (
	// ErrAlreadyTaken means the request left the "new" status first,
	// either because an earlier claim won the race or the request was
	// withdrawn.
	ErrAlreadyTaken = errors.New("request already taken")
	// ErrNoFreeOrders means the master has no active subscription and an
	// empty trial balance; nothing was changed.
	ErrNoFreeOrders = errors.New("no free orders left")
)

// OrderRepository performs the multi-collection writes that must happen
// atomically together.
type OrderRepository interface {
	// Claim assigns a new request to a master, optionally debiting one
	// free order, and resolves the master's offer as taken, all in one
	// transaction. A lost race or an exhausted balance aborts the whole
	// transaction and mutates nothing.
	Claim(ctx context.Context, requestID, masterID int64, debitFreeOrder bool) error
}
