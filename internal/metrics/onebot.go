package metrics

import (
	"context"

	"github.com/AdguardTeam/golibs/container"
	"github.com/BakaBotTeam/NetworkTools/internal/onebot"
	"github.com/prometheus/client_golang/prometheus"
)

// OneBot is the Prometheus-based implementation of the [onebot.Metrics]
// interface.
type OneBot struct {
	// eventsTotal is a counter with the total number of received events
	// labeled by post type.
	eventsTotal *prometheus.CounterVec

	// actionsTotal is a counter with the total number of finished actions
	// labeled by action and success.
	actionsTotal *prometheus.CounterVec
}

// NewOneBot registers the OneBot connection metrics in reg and returns a
// properly initialized *OneBot.
func NewOneBot(namespace string, reg prometheus.Registerer) (m *OneBot, err error) {
	const (
		eventsTotal  = "events_total"
		actionsTotal = "actions_total"
	)

	m = &OneBot{
		eventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:      eventsTotal,
			Namespace: namespace,
			Subsystem: subsystemOneBot,
			Help:      "The total number of received events by post type.",
		}, []string{"post_type"}),
		actionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:      actionsTotal,
			Namespace: namespace,
			Subsystem: subsystemOneBot,
			Help:      "The total number of finished actions by action and success.",
		}, []string{"action", "is_success"}),
	}

	err = register(reg, container.KeyValues[string, prometheus.Collector]{{
		Key:   eventsTotal,
		Value: m.eventsTotal,
	}, {
		Key:   actionsTotal,
		Value: m.actionsTotal,
	}})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// type check
var _ onebot.Metrics = (*OneBot)(nil)

// IncrementEvents implements the [onebot.Metrics] interface for *OneBot.
func (m *OneBot) IncrementEvents(_ context.Context, postType string) {
	m.eventsTotal.WithLabelValues(postType).Inc()
}

// HandleAction implements the [onebot.Metrics] interface for *OneBot.
func (m *OneBot) HandleAction(_ context.Context, action string, err error) {
	m.actionsTotal.WithLabelValues(action, BoolString(err == nil)).Inc()
}
