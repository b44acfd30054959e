package paginate

import "context"

// Message types for [Metrics.IncrementSent].  Notices have the type
// [MessageTypeNotice] followed by an underscore and the [NoticeKind].
const (
	MessageTypeText    = "text"
	MessageTypeForward = "forward"
	MessageTypeNotice  = "notice"
)

// Metrics is an interface that is used for the collection of the delivery
// statistics.
type Metrics interface {
	// IncrementSent increments the number of messages of type typ sent into
	// a sink.
	IncrementSent(ctx context.Context, typ string)

	// AddDropped adds n to the number of results that have not been
	// delivered because of a batch overflow.
	AddDropped(ctx context.Context, n int)
}

// EmptyMetrics is the implementation of the [Metrics] interface that does
// nothing.
type EmptyMetrics struct{}

// type check
var _ Metrics = EmptyMetrics{}

// IncrementSent implements the [Metrics] interface for EmptyMetrics.
func (EmptyMetrics) IncrementSent(_ context.Context, _ string) {}

// AddDropped implements the [Metrics] interface for EmptyMetrics.
func (EmptyMetrics) AddDropped(_ context.Context, _ int) {}
