package bottest

import (
	"context"
	"net/netip"

	"github.com/AdguardTeam/golibs/service"
	"github.com/BakaBotTeam/NetworkTools/internal/botcmd"
	"github.com/BakaBotTeam/NetworkTools/internal/dnsquery"
	"github.com/BakaBotTeam/NetworkTools/internal/errcoll"
	"github.com/BakaBotTeam/NetworkTools/internal/geoip"
	"github.com/BakaBotTeam/NetworkTools/internal/paginate"
	"github.com/BakaBotTeam/NetworkTools/internal/ratelimit"
)

// Interface Mocks
//
// Keep entities within a module/package in alphabetic order.

// Package botcmd

// type check
var _ botcmd.Command = (*Command)(nil)

// Command is a [botcmd.Command] for tests.
type Command struct {
	OnName  func() (name string)
	OnUsage func() (usage string)
	OnRun   func(ctx context.Context, args []string, sink paginate.Sink) (err error)
}

// Name implements the [botcmd.Command] interface for *Command.
func (c *Command) Name() (name string) {
	return c.OnName()
}

// Usage implements the [botcmd.Command] interface for *Command.
func (c *Command) Usage() (usage string) {
	return c.OnUsage()
}

// Run implements the [botcmd.Command] interface for *Command.
func (c *Command) Run(ctx context.Context, args []string, sink paginate.Sink) (err error) {
	return c.OnRun(ctx, args, sink)
}

// type check
var _ botcmd.Describer = (*Describer)(nil)

// Describer is a [botcmd.Describer] for tests.
type Describer struct {
	OnDescribe func(ctx context.Context, address string) (desc string, err error)
}

// Describe implements the [botcmd.Describer] interface for *Describer.
func (d *Describer) Describe(ctx context.Context, address string) (desc string, err error) {
	return d.OnDescribe(ctx, address)
}

// type check
var _ botcmd.Handler = (*Handler)(nil)

// Handler is a [botcmd.Handler] for tests.
type Handler struct {
	OnHandle func(ctx context.Context, msg *botcmd.Incoming, sink paginate.Sink) (started bool)
}

// Handle implements the [botcmd.Handler] interface for *Handler.
func (h *Handler) Handle(
	ctx context.Context,
	msg *botcmd.Incoming,
	sink paginate.Sink,
) (started bool) {
	return h.OnHandle(ctx, msg, sink)
}

// Package dnsquery

// type check
var _ dnsquery.Interface = (*DNSQuery)(nil)

// DNSQuery is a [dnsquery.Interface] for tests.
type DNSQuery struct {
	OnQuery func(ctx context.Context, name, recordType, resolver string) (records []string, err error)
}

// Query implements the [dnsquery.Interface] interface for *DNSQuery.
func (q *DNSQuery) Query(
	ctx context.Context,
	name string,
	recordType string,
	resolver string,
) (records []string, err error) {
	return q.OnQuery(ctx, name, recordType, resolver)
}

// Package errcoll

// type check
var _ errcoll.Interface = (*ErrorCollector)(nil)

// ErrorCollector is an [errcoll.Interface] for tests.
type ErrorCollector struct {
	OnCollect func(ctx context.Context, err error)
}

// Collect implements the [errcoll.Interface] interface for *ErrorCollector.
func (c *ErrorCollector) Collect(ctx context.Context, err error) {
	c.OnCollect(ctx, err)
}

// Package geoip

// type check
var _ geoip.Interface = (*GeoIP)(nil)

// GeoIP is a [geoip.Interface] for tests.
type GeoIP struct {
	OnData func(ctx context.Context, ip netip.Addr) (l *geoip.Location, err error)
}

// Data implements the [geoip.Interface] interface for *GeoIP.
func (g *GeoIP) Data(ctx context.Context, ip netip.Addr) (l *geoip.Location, err error) {
	return g.OnData(ctx, ip)
}

// type check
var _ geoip.Resolver = (*Resolver)(nil)

// Resolver is a [geoip.Resolver] for tests.
type Resolver struct {
	OnLookupNetIP func(ctx context.Context, network, host string) (ips []netip.Addr, err error)
}

// LookupNetIP implements the [geoip.Resolver] interface for *Resolver.
func (r *Resolver) LookupNetIP(
	ctx context.Context,
	network string,
	host string,
) (ips []netip.Addr, err error) {
	return r.OnLookupNetIP(ctx, network, host)
}

// Package ratelimit

// type check
var _ ratelimit.Interface = (*RateLimit)(nil)

// RateLimit is a [ratelimit.Interface] for tests.
type RateLimit struct {
	OnIsRateLimited func(ctx context.Context, senderID string) (drop, allowlisted bool, err error)
}

// IsRateLimited implements the [ratelimit.Interface] interface for *RateLimit.
func (l *RateLimit) IsRateLimited(
	ctx context.Context,
	senderID string,
) (drop, allowlisted bool, err error) {
	return l.OnIsRateLimited(ctx, senderID)
}

// Package service

// type check
var _ service.Refresher = (*Refresher)(nil)

// Refresher is a [service.Refresher] for tests.
type Refresher struct {
	OnRefresh func(ctx context.Context) (err error)
}

// Refresh implements the [service.Refresher] interface for *Refresher.
func (r *Refresher) Refresh(ctx context.Context) (err error) {
	return r.OnRefresh(ctx)
}
