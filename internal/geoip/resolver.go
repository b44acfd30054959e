package geoip

import (
	"context"
	"net"
	"net/netip"
)

// Resolver is the hostname resolver interface.
//
// See go doc net.Resolver.LookupNetIP.
type Resolver interface {
	LookupNetIP(ctx context.Context, network, host string) (ips []netip.Addr, err error)
}

// DefaultResolver uses [net.DefaultResolver] to resolve hostnames.
type DefaultResolver struct{}

// type check
var _ Resolver = DefaultResolver{}

// LookupNetIP implements the [Resolver] interface for DefaultResolver.
func (DefaultResolver) LookupNetIP(
	ctx context.Context,
	network string,
	host string,
) (ips []netip.Addr, err error) {
	return net.DefaultResolver.LookupNetIP(ctx, network, host)
}
