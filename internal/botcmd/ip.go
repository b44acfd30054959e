package botcmd

import (
	"context"
	"strings"

	"github.com/BakaBotTeam/NetworkTools/internal/paginate"
	"github.com/BakaBotTeam/NetworkTools/internal/textmatch"
)

// IPCommand describes the location of the first IP address found in the
// arguments.  If there is none, the first argument is used as a hostname.
type IPCommand struct {
	describer Describer
}

// NewIPCommand returns a new *IPCommand.  d must not be nil.
func NewIPCommand(d Describer) (c *IPCommand) {
	return &IPCommand{
		describer: d,
	}
}

// type check
var _ Command = (*IPCommand)(nil)

// Name implements the [Command] interface for *IPCommand.
func (c *IPCommand) Name() (name string) { return "ip" }

// Usage implements the [Command] interface for *IPCommand.
func (c *IPCommand) Usage() (usage string) { return "ip <address|host|text>" }

// Run implements the [Command] interface for *IPCommand.
func (c *IPCommand) Run(ctx context.Context, args []string, sink paginate.Sink) (err error) {
	if len(args) == 0 {
		return &UsageError{Usage: c.Usage()}
	}

	target, ok := textmatch.FindIP(strings.Join(args, " "))
	if !ok {
		target = args[0]
	}

	desc, err := c.describer.Describe(ctx, target)
	if err != nil {
		// Don't wrap the error, because it's informative enough as is.
		return err
	}

	return sink.Send(ctx, &paginate.Text{Body: target + ": " + desc})
}
