package botcmd

import (
	"context"
	"strings"

	"github.com/BakaBotTeam/NetworkTools/internal/paginate"
)

// helpCommand lists the usage lines of the commands.
type helpCommand struct {
	prefix string
	cmds   []Command
}

// type check
var _ Command = (*helpCommand)(nil)

// Name implements the [Command] interface for *helpCommand.
func (c *helpCommand) Name() (name string) { return "help" }

// Usage implements the [Command] interface for *helpCommand.
func (c *helpCommand) Usage() (usage string) { return "help" }

// Run implements the [Command] interface for *helpCommand.
func (c *helpCommand) Run(ctx context.Context, _ []string, sink paginate.Sink) (err error) {
	b := &strings.Builder{}
	b.WriteString("commands:")
	for _, cmd := range c.cmds {
		b.WriteString("\n")
		b.WriteString(c.prefix)
		b.WriteString(cmd.Usage())
	}

	return sink.Send(ctx, &paginate.Text{Body: b.String()})
}
