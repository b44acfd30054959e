package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/service"
)

// crashOutput redirects the Go runtime crash output into a file, so that the
// stack traces of fatal errors survive the process.  The file is removed on
// shutdown if nothing has been written into it.
type crashOutput struct {
	logger *slog.Logger
	file   *os.File

	dir     string
	pattern string
}

// newCrashOutput returns a new crash output for the files in dir named after
// prefix.  dir must be an existing directory.
func newCrashOutput(logger *slog.Logger, dir, prefix string) (o *crashOutput, err error) {
	err = validateDir(dir)
	if err != nil {
		return nil, fmt.Errorf("crash output dir %q: %w", dir, err)
	}

	return &crashOutput{
		logger: logger,
		dir:    dir,
		pattern: fmt.Sprintf(
			"%s_%s_%d_*.txt",
			prefix,
			time.Now().UTC().Format("20060102T150405"),
			os.Getpid(),
		),
	}, nil
}

// type check
var _ service.Interface = (*crashOutput)(nil)

// Start implements the [service.Interface] for *crashOutput.
func (o *crashOutput) Start(ctx context.Context) (err error) {
	defer func() { err = errors.Annotate(err, "starting crash output: %w") }()

	o.file, err = os.CreateTemp(o.dir, o.pattern)
	if err != nil {
		// Don't wrap the error, because it's informative enough as is.
		return err
	}

	o.logger = o.logger.With("path", o.file.Name())

	err = debug.SetCrashOutput(o.file, debug.CrashOptions{})
	if err != nil {
		return fmt.Errorf("setting: %w", err)
	}

	o.logger.InfoContext(ctx, "crash output set")

	return nil
}

// Shutdown implements the [service.Interface] for *crashOutput.
func (o *crashOutput) Shutdown(ctx context.Context) (err error) {
	defer func() { err = errors.Annotate(err, "shutting down crash output: %w") }()

	fi, err := o.file.Stat()
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}

	name := o.file.Name()
	err = o.file.Close()
	if err != nil {
		return fmt.Errorf("closing: %w", err)
	}

	if fi.Size() > 0 {
		o.logger.WarnContext(ctx, "crash output is not empty", "size", fi.Size())

		return nil
	}

	o.logger.DebugContext(ctx, "removing empty crash output")

	return os.Remove(name)
}
