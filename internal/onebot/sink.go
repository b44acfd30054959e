package onebot

import (
	"context"
	"fmt"

	"github.com/BakaBotTeam/NetworkTools/internal/paginate"
)

// chatSink is the [paginate.Sink] that replies into a single chat.
type chatSink struct {
	client *Client
	target *chatTarget
}

// type check
var _ paginate.Sink = (*chatSink)(nil)

// Send implements the [paginate.Sink] interface for *chatSink.  Texts and
// notices are sent as plain messages.
func (s *chatSink) Send(ctx context.Context, msg paginate.Message) (err error) {
	switch msg := msg.(type) {
	case *paginate.Text:
		return s.client.sendText(ctx, s.target, msg.Body)
	case *paginate.Notice:
		return s.client.sendText(ctx, s.target, msg.Text)
	case *paginate.Forward:
		return s.client.sendForward(ctx, s.target, msg.Items)
	default:
		panic(fmt.Errorf("unexpected message type %T", msg))
	}
}
