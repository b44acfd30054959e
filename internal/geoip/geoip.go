// Package geoip contains the GeoIP database lookups and the location
// descriptions of IP addresses and hostnames.
package geoip

import (
	"context"
	"net/netip"

	"github.com/AdguardTeam/golibs/errors"
)

// ErrNotFound is returned by [Interface.Data] when one of the databases has no
// record for the address.
const ErrNotFound errors.Error = "address not found in geoip database"

// Interface is the interface for the GeoIP database that stores the geographic
// and the network data about an IP address.
type Interface interface {
	// Data returns the GeoIP data for ip.  If either the location or the ASN
	// data is absent, err is [ErrNotFound].
	Data(ctx context.Context, ip netip.Addr) (l *Location, err error)
}

// ASN is the autonomous system number of an IP address.
type ASN uint32

// Location represents the GeoIP data about an IP address.  The names are
// localized and are empty if the database has no name for the configured
// language.
type Location struct {
	// Country is the name of the country.
	Country string

	// Subdivision is the name of the most specific subdivision, for example a
	// province or a state.
	Subdivision string

	// City is the name of the city.
	City string

	// ASOrg is the name of the organization that owns the autonomous system.
	ASOrg string

	// ASN is the autonomous system number.
	ASN ASN
}
