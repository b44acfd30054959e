package ratelimit

import (
	"context"
	"sync"

	"github.com/AdguardTeam/golibs/container"
)

// Allowlist decides whether a sender should be excluded from rate limiting.
// All methods must be safe for concurrent use.
type Allowlist interface {
	IsAllowed(ctx context.Context, senderID string) (ok bool, err error)
}

// DynamicAllowlist is an allowlist that has a dynamic and a persistent set of
// sender IDs to allow.
type DynamicAllowlist struct {
	// mu protects dynamic.
	mu      *sync.RWMutex
	dynamic *container.MapSet[string]

	persistent *container.MapSet[string]
}

// NewDynamicAllowlist returns a new dynamic allowlist.
func NewDynamicAllowlist(persistent, dynamic []string) (l *DynamicAllowlist) {
	return &DynamicAllowlist{
		mu:         &sync.RWMutex{},
		dynamic:    container.NewMapSet(dynamic...),
		persistent: container.NewMapSet(persistent...),
	}
}

// type check
var _ Allowlist = (*DynamicAllowlist)(nil)

// IsAllowed implements the [Allowlist] interface for *DynamicAllowlist.
func (l *DynamicAllowlist) IsAllowed(_ context.Context, senderID string) (ok bool, err error) {
	if l.persistent.Has(senderID) {
		return true, nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.dynamic.Has(senderID), nil
}

// Update replaces the previous dynamic set with ids.
func (l *DynamicAllowlist) Update(ids []string) {
	set := container.NewMapSet(ids...)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.dynamic = set
}
