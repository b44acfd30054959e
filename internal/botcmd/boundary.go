package botcmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/BakaBotTeam/NetworkTools/internal/errcoll"
	"github.com/BakaBotTeam/NetworkTools/internal/paginate"
)

// FailurePrefix is the prefix of the message that is sent to the user when a
// command fails.
const FailurePrefix = "execution failed: "

// ReasonUnknown is the reason of a failure that has no description.
const ReasonUnknown = "unknown"

// BoundaryConfig is the configuration structure for a [Boundary].
type BoundaryConfig struct {
	// Logger is used to log the failures.  It must not be nil.
	Logger *slog.Logger

	// ErrColl is used to collect the failures.  It must not be nil.
	ErrColl errcoll.Interface

	// Metrics is used for the collection of the command statistics.  It must
	// not be nil.
	Metrics Metrics
}

// Boundary is the error boundary of the commands.  Errors and panics of a
// command are turned into a single failure message to the user.
type Boundary struct {
	logger  *slog.Logger
	errColl errcoll.Interface
	metrics Metrics
}

// NewBoundary returns a new properly initialized *Boundary.  c must not be nil
// and must be valid.
func NewBoundary(c *BoundaryConfig) (b *Boundary) {
	return &Boundary{
		logger:  c.Logger,
		errColl: c.ErrColl,
		metrics: c.Metrics,
	}
}

// Run runs f.  If f returns an error or panics, Run sends a message with
// [FailurePrefix] and the reason into sink, logs the failure, and reports it to
// the error collector.  Run never panics itself.
func (b *Boundary) Run(
	ctx context.Context,
	sink paginate.Sink,
	name string,
	f func(ctx context.Context) (err error),
) {
	start := time.Now()
	status := CommandStatusSuccess
	defer func() { b.metrics.HandleCommand(ctx, name, status, time.Since(start)) }()

	l := b.logger.With("command", name)
	defer b.recoverPanic(ctx, l, sink, name, &status)

	err := f(ctx)
	if err == nil {
		return
	}

	status = CommandStatusError
	errcoll.Collect(ctx, b.errColl, l, "executing command", err)
	slogutil.PrintStack(ctx, l, slog.LevelDebug)

	b.notify(ctx, l, sink, err)
}

// recoverPanic is a deferred helper that recovers from a panic of a command and
// reports it.
func (b *Boundary) recoverPanic(
	ctx context.Context,
	l *slog.Logger,
	sink paginate.Sink,
	name string,
	status *CommandStatus,
) {
	err := errors.FromRecovered(recover())
	if err == nil {
		return
	}

	*status = CommandStatusPanic

	l.ErrorContext(ctx, "recovered panic", slogutil.KeyError, err)
	slogutil.PrintStack(ctx, l, slog.LevelError)

	b.errColl.Collect(ctx, fmt.Errorf("command %s: panic: %w", name, err))

	b.notify(ctx, l, sink, err)
}

// notify sends the failure message for err into sink.
func (b *Boundary) notify(ctx context.Context, l *slog.Logger, sink paginate.Sink, err error) {
	reason := err.Error()
	if reason == "" {
		reason = ReasonUnknown
	}

	sendErr := sink.Send(ctx, &paginate.Text{Body: FailurePrefix + reason})
	if sendErr != nil {
		l.WarnContext(ctx, "sending failure message", slogutil.KeyError, sendErr)
	}
}
