package ratelimit

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/timeutil"
	cache "github.com/patrickmn/go-cache"
)

// BackoffConfig is the configuration structure for a backoff rate limiter.
type BackoffConfig struct {
	// Clock is used to get the time of the commands.  It must not be nil.
	Clock timeutil.Clock

	// Allowlist defines which senders are excluded from rate limiting.  It
	// must not be nil.
	Allowlist Allowlist

	// Period is the time during which the rate limiter counts the number of
	// times a sender sends more commands than RPS allows to increment the
	// backoff count for the sender.  It must be positive.
	Period time.Duration

	// Duration is how much a sender that has hit the backoff count stays in
	// the backoff state.  It must be positive.
	Duration time.Duration

	// Count is how many commands a sender sends above the RPS before it is
	// counted as a backoff hit.  It must be positive.
	Count int

	// RPS is the maximum number of commands per second allowed from a single
	// sender.  Any commands above this rate are counted as the sender's
	// backoff count.  It must be positive.
	RPS int
}

// Backoff is the backoff rate limiter which supports allowlists.
type Backoff struct {
	clock       timeutil.Clock
	rpsCounters *cache.Cache
	hitCounters *cache.Cache
	allowlist   Allowlist
	count       int
	rps         int
}

// NewBackoff returns a new backoff rate limiter.  c must not be nil and must
// be valid.
func NewBackoff(c *BackoffConfig) (l *Backoff) {
	return &Backoff{
		clock:       c.Clock,
		rpsCounters: cache.New(c.Period, c.Period),
		hitCounters: cache.New(c.Duration, c.Duration),
		allowlist:   c.Allowlist,
		count:       c.Count,
		rps:         c.RPS,
	}
}

// type check
var _ Interface = (*Backoff)(nil)

// IsRateLimited implements the [Interface] interface for *Backoff.
func (l *Backoff) IsRateLimited(
	ctx context.Context,
	senderID string,
) (drop, allowlisted bool, err error) {
	if senderID == "" {
		return false, false, fmt.Errorf("sender id: %w", errors.ErrEmptyValue)
	}

	allowed, err := l.allowlist.IsAllowed(ctx, senderID)
	if err != nil {
		return false, false, fmt.Errorf("checking allowlist: %w", err)
	} else if allowed {
		return false, true, nil
	}

	if l.isBackoff(senderID) {
		return true, false, nil
	}

	return l.hasHitRateLimit(senderID), false, nil
}

// incBackoff increments the number of commands above the RPS for a sender.
func (l *Backoff) incBackoff(key string) {
	counterVal, ok := l.hitCounters.Get(key)
	if ok {
		counterVal.(*atomic.Int64).Add(1)

		return
	}

	counter := &atomic.Int64{}
	counter.Add(1)
	l.hitCounters.SetDefault(key, counter)
}

// hasHitRateLimit checks the counter of the sender with the given key.
func (l *Backoff) hasHitRateLimit(key string) (ok bool) {
	var r *rpsCounter
	rVal, ok := l.rpsCounters.Get(key)
	if ok {
		r = rVal.(*rpsCounter)
	} else {
		r = newRPSCounter(l.rps, rpsWindow)
		l.rpsCounters.SetDefault(key, r)
	}

	above := r.add(l.clock.Now())
	if above {
		l.incBackoff(key)
	}

	return above
}

// isBackoff returns true if the specified sender has hit the RPS too often.
func (l *Backoff) isBackoff(key string) (ok bool) {
	counterVal, ok := l.hitCounters.Get(key)
	if !ok {
		return false
	}

	return counterVal.(*atomic.Int64).Load() >= int64(l.count)
}
