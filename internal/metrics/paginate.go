package metrics

import (
	"context"

	"github.com/AdguardTeam/golibs/container"
	"github.com/BakaBotTeam/NetworkTools/internal/paginate"
	"github.com/prometheus/client_golang/prometheus"
)

// Paginate is the Prometheus-based implementation of the [paginate.Metrics]
// interface.
type Paginate struct {
	// sentTotal is a counter with the total number of sent messages labeled
	// by message type.
	sentTotal *prometheus.CounterVec

	// droppedTotal is a counter with the total number of results dropped after
	// a batch overflow.
	droppedTotal prometheus.Counter
}

// NewPaginate registers the delivery metrics in reg and returns a properly
// initialized *Paginate.
func NewPaginate(namespace string, reg prometheus.Registerer) (m *Paginate, err error) {
	const (
		sentTotal    = "sent_total"
		droppedTotal = "dropped_total"
	)

	m = &Paginate{
		sentTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:      sentTotal,
			Namespace: namespace,
			Subsystem: subsystemPaginate,
			Help:      "The total number of messages sent to the chats.",
		}, []string{"type"}),
		droppedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      droppedTotal,
			Namespace: namespace,
			Subsystem: subsystemPaginate,
			Help:      "The total number of results dropped after a batch overflow.",
		}),
	}

	err = register(reg, container.KeyValues[string, prometheus.Collector]{{
		Key:   sentTotal,
		Value: m.sentTotal,
	}, {
		Key:   droppedTotal,
		Value: m.droppedTotal,
	}})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// type check
var _ paginate.Metrics = (*Paginate)(nil)

// IncrementSent implements the [paginate.Metrics] interface for *Paginate.
func (m *Paginate) IncrementSent(_ context.Context, typ string) {
	m.sentTotal.WithLabelValues(typ).Inc()
}

// AddDropped implements the [paginate.Metrics] interface for *Paginate.
func (m *Paginate) AddDropped(_ context.Context, n int) {
	m.droppedTotal.Add(float64(n))
}
