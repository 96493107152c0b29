package notify

import (
	"errors"
	"strings"
)

// ErrRecipientUnreachable marks a delivery failure that will never recover:
// the recipient blocked the bot or deleted their account.
var ErrRecipientUnreachable = errors.New("recipient unreachable")

// permanentMarkers are Telegram API error fragments that mean the recipient
// is gone for good.
var permanentMarkers = []string{
	"blocked",
	"bot was blocked",
	"user is deactivated",
}

// PermanentDeliveryFailure reports whether a delivery error is terminal for
// the recipient, as opposed to a transient network or API problem.
func PermanentDeliveryFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRecipientUnreachable) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range permanentMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
