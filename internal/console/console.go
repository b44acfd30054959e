// Package console contains the line-oriented transport of the bot for local
// use.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/BakaBotTeam/NetworkTools/internal/botcmd"
	"github.com/BakaBotTeam/NetworkTools/internal/paginate"
)

// ID is the chat and sender ID of the console user.
const ID = "console"

// Message markers.
const (
	// forwardStart is written before the cards of a forward message.
	forwardStart = "--- forward ---"

	// cardSeparator is written between the cards of a forward message.
	cardSeparator = "---"
)

// Config is the configuration structure for a [Transport].
type Config struct {
	// Logger is used to log the transport events.  It must not be nil.
	Logger *slog.Logger

	// Handler handles the input lines.  It must not be nil.
	Handler botcmd.Handler

	// Input is the source of the commands.  It must not be nil.
	Input io.Reader

	// Output is where the replies are written.  It must not be nil.
	Output io.Writer
}

// Transport reads commands from its input line by line and writes the replies
// to its output.
type Transport struct {
	logger  *slog.Logger
	handler botcmd.Handler
	input   io.Reader

	// outMu protects output, since the commands reply concurrently.
	outMu  *sync.Mutex
	output io.Writer
}

// New returns a new properly initialized *Transport.  c must not be nil and
// must be valid.
func New(c *Config) (t *Transport) {
	return &Transport{
		logger:  c.Logger,
		handler: c.Handler,
		input:   c.Input,
		outMu:   &sync.Mutex{},
		output:  c.Output,
	}
}

// Serve reads the input until EOF or until ctx is canceled.  Each non-empty
// line is passed to the handler as a message from the console user.
func (t *Transport) Serve(ctx context.Context) (err error) {
	s := bufio.NewScanner(t.input)
	for s.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}

		msg := &botcmd.Incoming{
			ChatID:   ID,
			SenderID: ID,
			Text:     line,
		}

		if !t.handler.Handle(ctx, msg, t) {
			t.logger.DebugContext(ctx, "ignored line", "text", line)
		}
	}

	err = s.Err()
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	return nil
}

// type check
var _ paginate.Sink = (*Transport)(nil)

// Send implements the [paginate.Sink] interface for *Transport.
func (t *Transport) Send(ctx context.Context, msg paginate.Message) (err error) {
	var text string
	switch msg := msg.(type) {
	case *paginate.Text:
		text = msg.Body
	case *paginate.Notice:
		text = msg.Text
	case *paginate.Forward:
		text = forwardStart + "\n" + strings.Join(msg.Items, "\n"+cardSeparator+"\n")
	default:
		panic(fmt.Errorf("unexpected message type %T", msg))
	}

	t.outMu.Lock()
	defer t.outMu.Unlock()

	_, err = io.WriteString(t.output, text+"\n")
	if err != nil {
		t.logger.DebugContext(ctx, "writing reply", slogutil.KeyError, err)

		return fmt.Errorf("writing reply: %w", err)
	}

	return nil
}
