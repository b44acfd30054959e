// Package botcmd contains the bot commands, their dispatching, and the error
// boundary, through which all commands are run.
package botcmd

import (
	"context"

	"github.com/BakaBotTeam/NetworkTools/internal/paginate"
)

// Incoming is a single incoming chat message.
type Incoming struct {
	// ChatID is the ID of the chat, in which the message has been sent.  For
	// private chats it's the same as SenderID.
	ChatID string

	// SenderID is the ID of the user that has sent the message.
	SenderID string

	// Text is the plain-text content of the message.
	Text string
}

// Handler handles the incoming messages of a chat transport.
type Handler interface {
	// Handle processes msg and sends the replies into sink.  started is true
	// if a command has been started.  Handle must not block for the duration
	// of the command.
	Handle(ctx context.Context, msg *Incoming, sink paginate.Sink) (started bool)
}

// Command is a single bot command.
type Command interface {
	// Name returns the name of the command, which is also the word that
	// triggers it.
	Name() (name string)

	// Usage returns the usage line of the command without the prefix.
	Usage() (usage string)

	// Run executes the command with args and sends the replies into sink.
	Run(ctx context.Context, args []string, sink paginate.Sink) (err error)
}

// Describer describes the location of an IP address or a hostname.
type Describer interface {
	Describe(ctx context.Context, address string) (desc string, err error)
}

// UsageError is returned by commands when their arguments are invalid.
type UsageError struct {
	// Usage is the usage line of the command.
	Usage string
}

// type check
var _ error = (*UsageError)(nil)

// Error implements the error interface for *UsageError.
func (err *UsageError) Error() (msg string) {
	return "usage: " + err.Usage
}

// IsSentryReportable implements the [errcoll.SentryReportableError] interface
// for *UsageError.
func (err *UsageError) IsSentryReportable() (ok bool) {
	return false
}
