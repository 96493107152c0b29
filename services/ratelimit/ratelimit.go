package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Policy decides whether a keyed action may proceed. It lives outside the
// transactional core: handlers consult it before touching any service.
type Policy interface {
	// Allow reports whether the keyed action fits into limit events per window.
	Allow(key string, limit int, window time.Duration) bool
	// Prune drops entries idle for longer than idleFor and returns how
	// many were removed.
	Prune(idleFor time.Duration) int
}

// Rule pairs a limit with its window.
type Rule struct {
	Limit  int
	Window time.Duration
}

// Rules applied by the bot surface.
var (
	NewRequestRule         = Rule{Limit: 3, Window: time.Hour}
	MasterRegistrationRule = Rule{Limit: 3, Window: 24 * time.Hour}
	OfferActionsRule       = Rule{Limit: 10, Window: time.Hour}
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter implements Policy with one token bucket per key.
type KeyedLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
}

// NewKeyedLimiter creates an empty keyed limiter store.
func NewKeyedLimiter() *KeyedLimiter {
	return &KeyedLimiter{entries: make(map[string]*limiterEntry)}
}

func (k *KeyedLimiter) Allow(key string, limit int, window time.Duration) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	entry, ok := k.entries[key]
	if !ok {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit),
		}
		k.entries[key] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter.Allow()
}

func (k *KeyedLimiter) Prune(idleFor time.Duration) int {
	k.mu.Lock()
	defer k.mu.Unlock()

	cutoff := time.Now().Add(-idleFor)
	removed := 0
	for key, entry := range k.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(k.entries, key)
			removed++
		}
	}
	return removed
}
