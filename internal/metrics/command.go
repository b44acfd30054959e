package metrics

import (
	"context"
	"time"

	"github.com/AdguardTeam/golibs/container"
	"github.com/BakaBotTeam/NetworkTools/internal/botcmd"
	"github.com/prometheus/client_golang/prometheus"
)

// Command is the Prometheus-based implementation of the [botcmd.Metrics]
// interface.
type Command struct {
	// commandsTotal is a counter with the total number of finished commands
	// labeled by name and status.
	commandsTotal *prometheus.CounterVec

	// duration is a histogram with the durations of the commands labeled by
	// name.
	duration *prometheus.HistogramVec

	// rateLimitedTotal is a counter with the total number of dropped commands.
	rateLimitedTotal prometheus.Counter

	// unknownTotal is a counter with the total number of unknown commands.
	unknownTotal prometheus.Counter
}

// NewCommand registers the command metrics in reg and returns a properly
// initialized *Command.
func NewCommand(namespace string, reg prometheus.Registerer) (m *Command, err error) {
	const (
		commandsTotal    = "total"
		duration         = "duration_seconds"
		rateLimitedTotal = "ratelimited_total"
		unknownTotal     = "unknown_total"
	)

	m = &Command{
		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:      commandsTotal,
			Namespace: namespace,
			Subsystem: subsystemCommand,
			Help:      "The total number of finished commands by name and status.",
		}, []string{"name", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:      duration,
			Namespace: namespace,
			Subsystem: subsystemCommand,
			Help:      "Time elapsed on a single command.",
			Buckets:   []float64{0.01, 0.1, 1, 5, 30},
		}, []string{"name"}),
		rateLimitedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      rateLimitedTotal,
			Namespace: namespace,
			Subsystem: subsystemCommand,
			Help:      "The total number of commands dropped by the rate limiter.",
		}),
		unknownTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      unknownTotal,
			Namespace: namespace,
			Subsystem: subsystemCommand,
			Help:      "The total number of messages with unknown commands.",
		}),
	}

	err = register(reg, container.KeyValues[string, prometheus.Collector]{{
		Key:   commandsTotal,
		Value: m.commandsTotal,
	}, {
		Key:   duration,
		Value: m.duration,
	}, {
		Key:   rateLimitedTotal,
		Value: m.rateLimitedTotal,
	}, {
		Key:   unknownTotal,
		Value: m.unknownTotal,
	}})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// type check
var _ botcmd.Metrics = (*Command)(nil)

// HandleCommand implements the [botcmd.Metrics] interface for *Command.
func (m *Command) HandleCommand(
	_ context.Context,
	name string,
	status botcmd.CommandStatus,
	dur time.Duration,
) {
	m.commandsTotal.WithLabelValues(name, status).Inc()
	m.duration.WithLabelValues(name).Observe(dur.Seconds())
}

// IncrementRateLimited implements the [botcmd.Metrics] interface for *Command.
func (m *Command) IncrementRateLimited(_ context.Context) {
	m.rateLimitedTotal.Inc()
}

// IncrementUnknown implements the [botcmd.Metrics] interface for *Command.
func (m *Command) IncrementUnknown(_ context.Context) {
	m.unknownTotal.Inc()
}
