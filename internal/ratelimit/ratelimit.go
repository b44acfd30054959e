// Package ratelimit contains the rate limiting of bot commands by sender.
package ratelimit

import (
	"context"
)

// Interface represents a rate limiter that allows or denies commands from a
// sender.  All methods must be safe for concurrent use.
type Interface interface {
	// IsRateLimited returns true in drop if the command of the sender with the
	// given ID must be dropped.  allowlisted is true if the sender is excluded
	// from rate limiting.
	IsRateLimited(ctx context.Context, senderID string) (drop, allowlisted bool, err error)
}

// Passthrough is an [Interface] that never limits anyone.
type Passthrough struct{}

// type check
var _ Interface = Passthrough{}

// IsRateLimited implements the [Interface] interface for Passthrough.
func (Passthrough) IsRateLimited(_ context.Context, _ string) (drop, allowlisted bool, err error) {
	return false, false, nil
}
