package errcoll

import "context"

// CommandInfo is the information about the bot command that is attached to the
// reported errors.
type CommandInfo struct {
	// Name is the name of the command.
	Name string

	// ChatID is the ID of the chat, in which the command has been sent.
	ChatID string

	// SenderID is the ID of the user that has sent the command.
	SenderID string
}

// ctxKey is the type for context keys.
type ctxKey int

// Context key values.
const (
	ctxKeyCommandInfo ctxKey = iota
)

// ContextWithCommandInfo returns a copy of the parent context with the command
// information added.
func ContextWithCommandInfo(parent context.Context, ci *CommandInfo) (ctx context.Context) {
	return context.WithValue(parent, ctxKeyCommandInfo, ci)
}

// CommandInfoFromContext returns the command information from the context, if
// any.
func CommandInfoFromContext(ctx context.Context) (ci *CommandInfo, ok bool) {
	ci, ok = ctx.Value(ctxKeyCommandInfo).(*CommandInfo)

	return ci, ok
}
