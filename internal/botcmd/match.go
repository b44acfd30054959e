package botcmd

import (
	"context"
	"strings"

	"github.com/BakaBotTeam/NetworkTools/internal/paginate"
	"github.com/BakaBotTeam/NetworkTools/internal/textmatch"
)

// NoMatch is the reply of [MatchCommand] when the pattern doesn't match.
const NoMatch = "null"

// MatchCommand replies with the first capturing group of a pattern matched
// against the lower-cased text.
type MatchCommand struct{}

// type check
var _ Command = MatchCommand{}

// Name implements the [Command] interface for MatchCommand.
func (MatchCommand) Name() (name string) { return "match" }

// Usage implements the [Command] interface for MatchCommand.
func (MatchCommand) Usage() (usage string) { return "match <pattern> <text>" }

// Run implements the [Command] interface for MatchCommand.
func (c MatchCommand) Run(ctx context.Context, args []string, sink paginate.Sink) (err error) {
	if len(args) < 2 {
		return &UsageError{Usage: c.Usage()}
	}

	res, err := textmatch.MatchGroup(strings.Join(args[1:], " "), args[0], NoMatch)
	if err != nil {
		// Don't wrap the error, because it's informative enough as is.
		return err
	}

	return sink.Send(ctx, &paginate.Text{Body: res})
}
