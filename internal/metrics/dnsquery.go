package metrics

import (
	"context"
	"time"

	"github.com/AdguardTeam/golibs/container"
	"github.com/BakaBotTeam/NetworkTools/internal/dnsquery"
	"github.com/prometheus/client_golang/prometheus"
)

// DNSQuery is the Prometheus-based implementation of the [dnsquery.Metrics]
// interface.
type DNSQuery struct {
	// queriesTotal is a counter with the total number of queries labeled by
	// type and result.
	queriesTotal *prometheus.CounterVec

	// duration is a histogram with the durations of the exchanges.
	duration prometheus.Histogram
}

// NewDNSQuery registers the DNS query metrics in reg and returns a properly
// initialized *DNSQuery.
func NewDNSQuery(namespace string, reg prometheus.Registerer) (m *DNSQuery, err error) {
	const (
		queriesTotal = "queries_total"
		duration     = "duration_seconds"
	)

	m = &DNSQuery{
		queriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:      queriesTotal,
			Namespace: namespace,
			Subsystem: subsystemDNSQuery,
			Help:      "The total number of DNS queries by type and result.",
		}, []string{"type", "result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:      duration,
			Namespace: namespace,
			Subsystem: subsystemDNSQuery,
			Help:      "Time elapsed on a single DNS exchange.",
			Buckets:   []float64{0.001, 0.01, 0.1, 1, 5},
		}),
	}

	err = register(reg, container.KeyValues[string, prometheus.Collector]{{
		Key:   queriesTotal,
		Value: m.queriesTotal,
	}, {
		Key:   duration,
		Value: m.duration,
	}})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// type check
var _ dnsquery.Metrics = (*DNSQuery)(nil)

// ObserveQuery implements the [dnsquery.Metrics] interface for *DNSQuery.
func (m *DNSQuery) ObserveQuery(
	_ context.Context,
	qt string,
	res dnsquery.QueryResult,
	dur time.Duration,
) {
	m.queriesTotal.WithLabelValues(qt, res).Inc()
	m.duration.Observe(dur.Seconds())
}
