package botcmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/AdguardTeam/golibs/service"
	"github.com/BakaBotTeam/NetworkTools/internal/errcoll"
	"github.com/BakaBotTeam/NetworkTools/internal/paginate"
	"github.com/BakaBotTeam/NetworkTools/internal/ratelimit"
)

// DefaultPrefix is the default prefix of the commands.
const DefaultPrefix = "/"

// DispatcherConfig is the configuration structure for a [Dispatcher].
type DispatcherConfig struct {
	// Logger is used to log the dispatching.  It must not be nil.
	Logger *slog.Logger

	// Boundary runs the commands.  It must not be nil.
	Boundary *Boundary

	// RateLimit decides whether a command is dropped.  It must not be nil.
	RateLimit ratelimit.Interface

	// Metrics is used for the collection of the command statistics.  It must
	// not be nil.
	Metrics Metrics

	// Prefix is the prefix of the commands.  It must not be empty.
	Prefix string

	// Commands are the commands to dispatch to.  Their names must be unique
	// and must not be "help", which is added automatically.
	Commands []Command

	// Timeout is the timeout of a single command.  It must be positive.
	Timeout time.Duration
}

// Dispatcher parses the incoming messages and runs the commands.
type Dispatcher struct {
	logger    *slog.Logger
	boundary  *Boundary
	rateLimit ratelimit.Interface
	metrics   Metrics
	commands  map[string]Command
	running   *sync.WaitGroup
	prefix    string
	timeout   time.Duration
}

// NewDispatcher returns a new properly initialized *Dispatcher.  c must not be
// nil.
func NewDispatcher(c *DispatcherConfig) (d *Dispatcher, err error) {
	help := &helpCommand{
		prefix: c.Prefix,
	}

	help.cmds = make([]Command, 0, len(c.Commands)+1)
	help.cmds = append(help.cmds, c.Commands...)
	help.cmds = append(help.cmds, help)

	d = &Dispatcher{
		logger:    c.Logger,
		boundary:  c.Boundary,
		rateLimit: c.RateLimit,
		metrics:   c.Metrics,
		commands:  make(map[string]Command, len(help.cmds)),
		running:   &sync.WaitGroup{},
		prefix:    c.Prefix,
		timeout:   c.Timeout,
	}

	var errs []error
	for i, cmd := range help.cmds {
		name := cmd.Name()
		if _, ok := d.commands[name]; ok {
			errs = append(errs, fmt.Errorf("commands: at index %d: name %q: %w", i, name, errors.ErrDuplicated))

			continue
		}

		d.commands[name] = cmd
	}

	if err = errors.Join(errs...); err != nil {
		return nil, err
	}

	return d, nil
}

// type check
var (
	_ service.Interface = (*Dispatcher)(nil)
	_ Handler           = (*Dispatcher)(nil)
)

// Start implements the [service.Interface] interface for *Dispatcher.
func (d *Dispatcher) Start(_ context.Context) (err error) {
	return nil
}

// Shutdown implements the [service.Interface] interface for *Dispatcher.  It
// waits for the running commands to finish.
func (d *Dispatcher) Shutdown(ctx context.Context) (err error) {
	done := make(chan struct{})
	go func() {
		d.running.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for commands: %w", ctx.Err())
	}
}

// Handle parses msg and, if it's a known command that is not rate limited,
// runs it on a new goroutine.  The replies are sent into sink.  started is true
// if the command has been started.
func (d *Dispatcher) Handle(ctx context.Context, msg *Incoming, sink paginate.Sink) (started bool) {
	name, args, ok := d.parse(msg.Text)
	if !ok {
		return false
	}

	cmd, ok := d.commands[name]
	if !ok {
		d.metrics.IncrementUnknown(ctx)
		d.logger.DebugContext(ctx, "unknown command", "name", name, "sender", msg.SenderID)

		return false
	}

	drop, _, err := d.rateLimit.IsRateLimited(ctx, msg.SenderID)
	if err != nil {
		d.logger.WarnContext(ctx, "checking rate limit", slogutil.KeyError, err)

		return false
	} else if drop {
		d.metrics.IncrementRateLimited(ctx)
		d.logger.DebugContext(ctx, "rate limited", "name", name, "sender", msg.SenderID)

		return false
	}

	d.running.Go(func() {
		d.run(ctx, cmd, args, msg, sink)
	})

	return true
}

// parse returns the lower-cased command name and the arguments from text.  ok
// is false if text is not a command.
func (d *Dispatcher) parse(text string) (name string, args []string, ok bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(text), d.prefix)
	if !ok {
		return "", nil, false
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", nil, false
	}

	return strings.ToLower(fields[0]), fields[1:], true
}

// run runs cmd through the boundary.  The command isn't canceled together with
// parent.
func (d *Dispatcher) run(
	parent context.Context,
	cmd Command,
	args []string,
	msg *Incoming,
	sink paginate.Sink,
) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), d.timeout)
	defer cancel()

	ctx = errcoll.ContextWithCommandInfo(ctx, &errcoll.CommandInfo{
		Name:     cmd.Name(),
		ChatID:   msg.ChatID,
		SenderID: msg.SenderID,
	})

	d.boundary.Run(ctx, sink, cmd.Name(), func(ctx context.Context) (err error) {
		return cmd.Run(ctx, args, sink)
	})
}
