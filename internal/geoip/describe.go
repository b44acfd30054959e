package geoip

import (
	"context"
	"fmt"
	"log/slog"
	"net/netip"
	"strings"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/logutil/slogutil"
)

// NotFoundDescription is the description of the addresses absent from the
// GeoIP databases.
const NotFoundDescription = "null"

// DescriberConfig is the configuration structure for a [Describer].
type DescriberConfig struct {
	// Logger is used to log the lookups.  It must not be nil.
	Logger *slog.Logger

	// GeoIP is the database used to look up addresses.  It must not be nil.
	GeoIP Interface

	// Resolver resolves hostnames into addresses.  It must not be nil.
	Resolver Resolver

	// Metrics is used to count the lookups.  It must not be nil.
	Metrics Metrics
}

// Describer returns human-readable descriptions of the location of addresses
// and hostnames.
type Describer struct {
	logger   *slog.Logger
	geoIP    Interface
	resolver Resolver
	metrics  Metrics
}

// NewDescriber returns a new properly initialized *Describer.  c must not be
// nil.
func NewDescriber(c *DescriberConfig) (d *Describer) {
	return &Describer{
		logger:   c.Logger,
		geoIP:    c.GeoIP,
		resolver: c.Resolver,
		metrics:  c.Metrics,
	}
}

// Describe returns the description of the location of address, which may be an
// IP address or a hostname.  The local network addresses are described with
// [LocalNetworkLabel] without any lookups, and the addresses absent from the
// database, with [NotFoundDescription].  Otherwise, desc has the form
// "<country><subdivision><city> AS<asn> <organization>".
func (d *Describer) Describe(ctx context.Context, address string) (desc string, err error) {
	res := LookupResultError
	defer func() { d.metrics.IncrementLookups(ctx, res) }()

	isLocal, err := IsLocalNetwork(address)
	if err != nil {
		return "", fmt.Errorf("checking local network: %w", err)
	} else if isLocal {
		res = LookupResultLocal

		return LocalNetworkLabel, nil
	}

	ip, err := d.resolve(ctx, address)
	if err != nil {
		// Don't wrap the error, because it's informative enough as is.
		return "", err
	}

	loc, err := d.geoIP.Data(ctx, ip)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			d.logger.DebugContext(ctx, "address not found", "addr", ip, slogutil.KeyError, err)

			res = LookupResultNotFound

			return NotFoundDescription, nil
		}

		return "", fmt.Errorf("looking up %q: %w", address, err)
	}

	res = LookupResultFound

	return fmt.Sprintf(
		"%s%s%s AS%d %s",
		loc.Country,
		loc.Subdivision,
		loc.City,
		loc.ASN,
		loc.ASOrg,
	), nil
}

// resolve returns the IP address from address or the first address of the
// hostname.
func (d *Describer) resolve(ctx context.Context, address string) (ip netip.Addr, err error) {
	address = strings.TrimSpace(address)

	ip, err = netip.ParseAddr(address)
	if err == nil {
		return ip, nil
	}

	ips, err := d.resolver.LookupNetIP(ctx, "ip", address)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("resolving %q: %w", address, err)
	} else if len(ips) == 0 {
		return netip.Addr{}, fmt.Errorf("resolving %q: %w", address, errors.ErrEmptyValue)
	}

	return ips[0].Unmap(), nil
}
