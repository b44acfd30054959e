package cmd

import (
	"context"
	"log/slog"
	"runtime/debug"
)

// setMaxThreads sets the maximum number of OS threads that the Go runtime may
// use.  Zero n means that the runtime default is kept.  l must not be nil.
func setMaxThreads(ctx context.Context, l *slog.Logger, n int) {
	if n == 0 {
		return
	}

	prev := debug.SetMaxThreads(n)
	l.InfoContext(ctx, "go max threads set", "prev", prev, "new", n)
}
