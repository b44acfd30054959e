package botcmd

import (
	"context"
	"time"
)

// CommandStatus is the status of a finished command.
type CommandStatus = string

// Valid command statuses.
const (
	CommandStatusSuccess CommandStatus = "success"
	CommandStatusError   CommandStatus = "error"
	CommandStatusPanic   CommandStatus = "panic"
)

// Metrics is an interface that is used for the collection of the command
// statistics.
type Metrics interface {
	// HandleCommand records a finished command.
	HandleCommand(ctx context.Context, name string, status CommandStatus, dur time.Duration)

	// IncrementRateLimited increments the number of dropped commands.
	IncrementRateLimited(ctx context.Context)

	// IncrementUnknown increments the number of messages with the command
	// prefix and an unknown command.
	IncrementUnknown(ctx context.Context)
}

// EmptyMetrics is the implementation of the [Metrics] interface that does
// nothing.
type EmptyMetrics struct{}

// type check
var _ Metrics = EmptyMetrics{}

// HandleCommand implements the [Metrics] interface for EmptyMetrics.
func (EmptyMetrics) HandleCommand(_ context.Context, _ string, _ CommandStatus, _ time.Duration) {}

// IncrementRateLimited implements the [Metrics] interface for EmptyMetrics.
func (EmptyMetrics) IncrementRateLimited(_ context.Context) {}

// IncrementUnknown implements the [Metrics] interface for EmptyMetrics.
func (EmptyMetrics) IncrementUnknown(_ context.Context) {}
