package paginate

import "context"

// Sink is the outbound chat transport.  Send must not retain msg after
// returning.
type Sink interface {
	// Send delivers msg to the chat.  Implementations are not expected to
	// wait for a delivery acknowledgment.
	Send(ctx context.Context, msg Message) (err error)
}

// SinkFunc is a function that implements [Sink].
type SinkFunc func(ctx context.Context, msg Message) (err error)

// type check
var _ Sink = SinkFunc(nil)

// Send implements the [Sink] interface for SinkFunc.
func (f SinkFunc) Send(ctx context.Context, msg Message) (err error) {
	return f(ctx, msg)
}

// Message is an outbound chat message.  It is essentially a sum type of:
//
//   - [*Text]
//   - [*Forward]
//   - [*Notice]
type Message interface {
	// isMessage is a marker method.
	isMessage()
}

// type check
var (
	_ Message = (*Text)(nil)
	_ Message = (*Forward)(nil)
	_ Message = (*Notice)(nil)
)

// Text is a plain text message.
type Text struct {
	// Body is the text of the message.
	Body string
}

// isMessage implements the [Message] interface for *Text.
func (*Text) isMessage() {}

// Forward is a batch of items delivered as one forward message, with one card
// per item.
type Forward struct {
	// Items are the texts of the cards in display order.  It has at most
	// [BatchSize] elements.
	Items []string
}

// isMessage implements the [Message] interface for *Forward.
func (*Forward) isMessage() {}

// NoticeKind is the kind of an informational notice.
type NoticeKind string

// Valid notice kinds.
const (
	// NoticeKindPartial is sent when the results reach [MaxTotalLength].
	NoticeKindPartial NoticeKind = "partial"

	// NoticeKindOverflow is sent when there are more batches than
	// [MaxFlushes] allows.
	NoticeKindOverflow NoticeKind = "overflow"
)

// Notice texts.
const (
	NoticeTextPartial  = "Too many results, showing as much as possible."
	NoticeTextOverflow = "Too many results, please query in smaller parts."
)

// Notice is an informational notice about the delivery of the results.  It is
// not an error.
type Notice struct {
	// Text is the user-visible text of the notice.
	Text string

	// Kind is the kind of the notice.
	Kind NoticeKind
}

// isMessage implements the [Message] interface for *Notice.
func (*Notice) isMessage() {}

// newNotice returns a new notice of the given kind with the default text.
func newNotice(kind NoticeKind) (n *Notice) {
	n = &Notice{
		Kind: kind,
	}

	switch kind {
	case NoticeKindPartial:
		n.Text = NoticeTextPartial
	case NoticeKindOverflow:
		n.Text = NoticeTextOverflow
	}

	return n
}
