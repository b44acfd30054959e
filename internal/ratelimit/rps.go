package ratelimit

import (
	"sync"
	"time"
)

// rpsWindow is the window in which the commands of a sender are counted.
const rpsWindow = 1 * time.Second

// rpsCounter is a sliding-window counter of the commands from a single sender.
type rpsCounter struct {
	// mu protects times and next.
	mu *sync.Mutex

	// times are the times of the last limit+1 commands.  times[next] is the
	// oldest one once the ring is full.
	times []time.Time
	next  int

	window time.Duration
}

// newRPSCounter returns a new counter that allows limit commands per window.
// limit must be positive.
func newRPSCounter(limit int, window time.Duration) (r *rpsCounter) {
	return &rpsCounter{
		mu:     &sync.Mutex{},
		times:  make([]time.Time, limit+1),
		window: window,
	}
}

// add records a command sent at now.  above is true if there have been more
// than limit commands, including this one, within the window ending at now.
// It is safe for concurrent use.
func (r *rpsCounter) add(now time.Time) (above bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.times[r.next] = now
	r.next = (r.next + 1) % len(r.times)

	oldest := r.times[r.next]

	return !oldest.IsZero() && now.Sub(oldest) <= r.window
}
