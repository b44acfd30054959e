// Package metrics contains the Prometheus implementations of the metrics
// interfaces of the bot.
package metrics

import (
	"fmt"

	"github.com/AdguardTeam/golibs/container"
	"github.com/AdguardTeam/golibs/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// namespace is the namespace of all metrics of the bot.
const namespace = "networktools"

// Subsystem names that we use in our prometheus metrics.
const (
	subsystemApplication = "app"
	subsystemCommand     = "command"
	subsystemDNSQuery    = "dnsquery"
	subsystemGeoIP       = "geoip"
	subsystemOneBot      = "onebot"
	subsystemPaginate    = "paginate"
)

// Namespace returns the namespace of all metrics of the bot.
func Namespace() (ns string) {
	return namespace
}

// SetUpGauge signals that the bot has been started.  Use a function here to
// avoid circular dependencies.
func SetUpGauge(
	reg prometheus.Registerer,
	version string,
	commitTime string,
	branch string,
	revision string,
	goVersion string,
) (err error) {
	upGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:      "up",
		Namespace: namespace,
		Subsystem: subsystemApplication,
		Help: `A metric with a constant '1' value labeled by ` +
			`version and goversion from which the program was built.`,
		ConstLabels: prometheus.Labels{
			"version":    version,
			"committime": commitTime,
			"branch":     branch,
			"revision":   revision,
			"goversion":  goVersion,
		},
	})

	err = reg.Register(upGauge)
	if err != nil {
		return fmt.Errorf("registering metrics %q: %w", "up", err)
	}

	upGauge.Set(1)

	return nil
}

// SetStatusGauge is a helper function that automatically checks if there's an
// error and sets the gauge to either 1 (success) or 0 (error).
func SetStatusGauge(gauge prometheus.Gauge, err error) {
	if err == nil {
		gauge.Set(1)
	} else {
		gauge.Set(0)
	}
}

// BoolString returns "1" if cond is true and "0" otherwise.
func BoolString(cond bool) (s string) {
	if cond {
		return "1"
	}

	return "0"
}

// register registers all collectors in reg.  The keys are used in the error
// messages.
func register(
	reg prometheus.Registerer,
	collectors container.KeyValues[string, prometheus.Collector],
) (err error) {
	var errs []error
	for _, c := range collectors {
		err = reg.Register(c.Value)
		if err != nil {
			errs = append(errs, fmt.Errorf("registering metrics %q: %w", c.Key, err))
		}
	}

	return errors.Join(errs...)
}
