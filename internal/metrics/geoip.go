package metrics

import (
	"context"

	"github.com/AdguardTeam/golibs/container"
	"github.com/BakaBotTeam/NetworkTools/internal/geoip"
	"github.com/prometheus/client_golang/prometheus"
)

// GeoIP database names for the labels.
const (
	geoIPDBASN      = "asn"
	geoIPDBLocation = "location"
)

// GeoIP is the Prometheus-based implementation of the [geoip.Metrics]
// interface.
type GeoIP struct {
	// updateTime is a gauge with the timestamp of the last successful update
	// of a database.
	updateTime *prometheus.GaugeVec

	// updateStatus is a gauge with the last update status of a database.  1
	// means success, 0 means an error occurred.
	updateStatus *prometheus.GaugeVec

	// lookupsTotal is a counter with the total number of address descriptions
	// labeled by result.
	lookupsTotal *prometheus.CounterVec
}

// NewGeoIP registers the GeoIP metrics in reg and returns a properly
// initialized *GeoIP.
func NewGeoIP(namespace string, reg prometheus.Registerer) (m *GeoIP, err error) {
	const (
		updateTime   = "update_time"
		updateStatus = "update_status"
		lookupsTotal = "lookups_total"
	)

	m = &GeoIP{
		updateTime: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:      updateTime,
			Namespace: namespace,
			Subsystem: subsystemGeoIP,
			Help:      "The time when the GeoIP database was loaded last time.",
		}, []string{"db"}),
		updateStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:      updateStatus,
			Namespace: namespace,
			Subsystem: subsystemGeoIP,
			Help: "Status of the last GeoIP update.  " +
				"1 is okay, 0 means that something went wrong.",
		}, []string{"db"}),
		lookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:      lookupsTotal,
			Namespace: namespace,
			Subsystem: subsystemGeoIP,
			Help:      "The total number of address descriptions by result.",
		}, []string{"result"}),
	}

	err = register(reg, container.KeyValues[string, prometheus.Collector]{{
		Key:   updateTime,
		Value: m.updateTime,
	}, {
		Key:   updateStatus,
		Value: m.updateStatus,
	}, {
		Key:   lookupsTotal,
		Value: m.lookupsTotal,
	}})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// type check
var _ geoip.Metrics = (*GeoIP)(nil)

// HandleASNUpdateStatus implements the [geoip.Metrics] interface for *GeoIP.
func (m *GeoIP) HandleASNUpdateStatus(_ context.Context, err error) {
	m.handleUpdateStatus(geoIPDBASN, err)
}

// HandleLocationUpdateStatus implements the [geoip.Metrics] interface for
// *GeoIP.
func (m *GeoIP) HandleLocationUpdateStatus(_ context.Context, err error) {
	m.handleUpdateStatus(geoIPDBLocation, err)
}

// handleUpdateStatus sets the update metrics of the database db.
func (m *GeoIP) handleUpdateStatus(db string, err error) {
	SetStatusGauge(m.updateStatus.WithLabelValues(db), err)
	if err == nil {
		m.updateTime.WithLabelValues(db).SetToCurrentTime()
	}
}

// IncrementLookups implements the [geoip.Metrics] interface for *GeoIP.
func (m *GeoIP) IncrementLookups(_ context.Context, res geoip.LookupResult) {
	m.lookupsTotal.WithLabelValues(res).Inc()
}
