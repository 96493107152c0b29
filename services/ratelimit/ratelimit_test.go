package ratelimit

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowWithinLimit(t *testing.T) {
	l := NewKeyedLimiter()
	rule := NewRequestRule

	for i := 0; i < rule.Limit; i++ {
		assert.True(t, l.Allow("new_request:100", rule.Limit, rule.Window), "call %d", i+1)
	}
	assert.False(t, l.Allow("new_request:100", rule.Limit, rule.Window))
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := NewKeyedLimiter()
	rule := OfferActionsRule

	for i := 0; i < rule.Limit; i++ {
		l.Allow("offer_actions:100", rule.Limit, rule.Window)
	}
	assert.False(t, l.Allow("offer_actions:100", rule.Limit, rule.Window))
	assert.True(t, l.Allow("offer_actions:200", rule.Limit, rule.Window))
}

func TestAllowRefillsAfterWindow(t *testing.T) {
	l := NewKeyedLimiter()

	assert.True(t, l.Allow("k", 1, 50*time.Millisecond))
	assert.False(t, l.Allow("k", 1, 50*time.Millisecond))

	time.Sleep(120 * time.Millisecond)
	assert.True(t, l.Allow("k", 1, 50*time.Millisecond))
}

func TestPrune(t *testing.T) {
	l := NewKeyedLimiter()
	for i := 0; i < 4; i++ {
		l.Allow(fmt.Sprintf("key:%d", i), 3, time.Hour)
	}

	assert.Equal(t, 0, l.Prune(time.Hour))

	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, 4, l.Prune(time.Millisecond))

	// Pruned keys start from a fresh bucket.
	assert.True(t, l.Allow("key:0", 3, time.Hour))
}
