// Package bottest contains simple mocks for common interfaces and other test
// utilities.
package bottest

import (
	"context"
	"sync"

	"github.com/BakaBotTeam/NetworkTools/internal/paginate"
)

// RecordingSink is a [paginate.Sink] that records all sent messages.  It is
// safe for concurrent use.
type RecordingSink struct {
	mu   *sync.Mutex
	msgs []paginate.Message
}

// NewRecordingSink returns a new empty *RecordingSink.
func NewRecordingSink() (s *RecordingSink) {
	return &RecordingSink{
		mu: &sync.Mutex{},
	}
}

// type check
var _ paginate.Sink = (*RecordingSink)(nil)

// Send implements the [paginate.Sink] interface for *RecordingSink.
func (s *RecordingSink) Send(_ context.Context, msg paginate.Message) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.msgs = append(s.msgs, msg)

	return nil
}

// Messages returns a copy of the recorded messages.
func (s *RecordingSink) Messages() (msgs []paginate.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]paginate.Message(nil), s.msgs...)
}
