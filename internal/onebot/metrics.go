package onebot

import "context"

// Metrics is an interface that is used for the collection of the OneBot
// connection statistics.
type Metrics interface {
	// IncrementEvents increments the number of received events of the given
	// post type.
	IncrementEvents(ctx context.Context, postType string)

	// HandleAction records the result of a finished action.  err is nil if
	// the action has succeeded.
	HandleAction(ctx context.Context, action string, err error)
}

// EmptyMetrics is the implementation of the [Metrics] interface that does
// nothing.
type EmptyMetrics struct{}

// type check
var _ Metrics = EmptyMetrics{}

// IncrementEvents implements the [Metrics] interface for EmptyMetrics.
func (EmptyMetrics) IncrementEvents(_ context.Context, _ string) {}

// HandleAction implements the [Metrics] interface for EmptyMetrics.
func (EmptyMetrics) HandleAction(_ context.Context, _ string, _ error) {}
