package retry

import (
	"context"
	"errors"
	"strings"
)

// TransientSignatures is the allow-list of error-text fragments treated as
// transient. Market data providers do not expose a usable error taxonomy, so
// classification is by message: rate limiting, malformed or empty payloads,
// symbol lookups that fail mid-flight, and the timezone quirk some feeds
// return for freshly listed tickers. Anything else is permanent.
var TransientSignatures = []string{
	"429",
	"too many requests",
	"jsondecodeerror",
	"expecting value",
	"malformed response",
	"empty response",
	"failed to get ticker",
	"no timezone found",
}

// IsTransient reports whether err matches the transient allow-list.
// Context cancellation is never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, sig := range TransientSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}
