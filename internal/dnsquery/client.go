package dnsquery

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"strings"
	"time"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/netutil"
	"github.com/ameshkov/dnscrypt/v2"
	"github.com/miekg/dns"
	"golang.org/x/net/idna"
)

// Resolver address prefixes.
const (
	// schemeDNS is the optional prefix of plain DNS resolvers.
	schemeDNS = "dns://"

	// schemeDNSCrypt is the prefix of DNSCrypt server stamps.
	schemeDNSCrypt = "sdns://"
)

// Default ports of the resolvers.
const (
	defaultPort    uint16 = 53
	defaultTLSPort uint16 = 853
)

// udpBufSize is the size of the buffers for UDP responses that is also
// advertised in the EDNS(0) option of the requests.
const udpBufSize = 4096

// Config is the configuration structure for a [Client].
type Config struct {
	// Logger is used to log the queries.  It must not be nil.
	Logger *slog.Logger

	// Metrics is used for the collection of the query statistics.  It must not
	// be nil.
	Metrics Metrics

	// Network is the network used for plain DNS resolvers.  It must be valid.
	// DNSCrypt resolvers use TCP if Network is [NetworkTCP] and UDP
	// otherwise.
	Network Network

	// Timeout is the timeout of a single exchange.  It must be positive.
	Timeout time.Duration
}

// Client sends one-shot DNS queries.  It keeps no connections between queries.
type Client struct {
	logger  *slog.Logger
	metrics Metrics
	network Network
	timeout time.Duration
}

// New returns a new properly initialized *Client.  c must not be nil and must
// be valid.
func New(c *Config) (cli *Client) {
	return &Client{
		logger:  c.Logger,
		metrics: c.Metrics,
		network: c.Network,
		timeout: c.Timeout,
	}
}

// type check
var _ Interface = (*Client)(nil)

// Query implements the [Interface] interface for *Client.  name may be an
// internationalized domain name.  resolver is a host with an optional port,
// optionally prefixed with "dns://", or a DNSCrypt stamp.  Response codes other
// than NOERROR and NXDOMAIN are returned as [*RcodeError].
func (c *Client) Query(
	ctx context.Context,
	name string,
	recordType string,
	resolver string,
) (records []string, err error) {
	defer func() { err = errors.Annotate(err, "querying %s %q: %w", recordType, name) }()

	qt, err := ParseType(recordType)
	if err != nil {
		// Don't wrap the error, because it's informative enough as is.
		return nil, err
	}

	fqdn, err := toFQDN(name, qt)
	if err != nil {
		// Don't wrap the error, because it's informative enough as is.
		return nil, err
	}

	req := &dns.Msg{}
	req.SetQuestion(fqdn, qt)
	req.SetEdns0(udpBufSize, false)

	start := time.Now()
	resp, err := c.exchange(ctx, req, resolver)
	res := queryResult(resp, err)
	c.metrics.ObserveQuery(ctx, dns.TypeToString[qt], res, time.Since(start))

	switch res {
	case QueryResultError:
		if err == nil {
			err = &RcodeError{Rcode: resp.Rcode}
		}

		return nil, err
	case QueryResultNXDomain:
		c.logger.DebugContext(ctx, "name does not exist", "name", fqdn, "qtype", qt)

		return nil, nil
	default:
		return answerData(resp.Answer, qt), nil
	}
}

// queryResult returns the result of a query for the metrics.
func queryResult(resp *dns.Msg, err error) (res QueryResult) {
	switch {
	case err != nil:
		return QueryResultError
	case resp.Rcode == dns.RcodeSuccess:
		return QueryResultSuccess
	case resp.Rcode == dns.RcodeNameError:
		return QueryResultNXDomain
	default:
		return QueryResultError
	}
}

// toFQDN converts name into a fully-qualified ASCII domain name.  The IP
// addresses are converted into the reverse-lookup names for PTR queries.
func toFQDN(name string, qt uint16) (fqdn string, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("name: %w", errors.ErrEmptyValue)
	}

	if qt == dns.TypePTR {
		if ip, parseErr := netip.ParseAddr(name); parseErr == nil {
			return dns.ReverseAddr(ip.String())
		}
	}

	ascii, err := idna.Punycode.ToASCII(name)
	if err != nil {
		return "", fmt.Errorf("converting name %q: %w", name, err)
	}

	fqdn = dns.Fqdn(ascii)
	if _, ok := dns.IsDomainName(fqdn); !ok {
		return "", fmt.Errorf("name %q: %w", name, ErrBadName)
	}

	return fqdn, nil
}

// exchange sends req to resolver using the protocol that resolver defines.
func (c *Client) exchange(
	ctx context.Context,
	req *dns.Msg,
	resolver string,
) (resp *dns.Msg, err error) {
	resolver = strings.TrimSpace(resolver)
	if strings.HasPrefix(resolver, schemeDNSCrypt) {
		return c.exchangeDNSCrypt(ctx, req, resolver)
	}

	addr, err := c.resolverAddr(strings.TrimPrefix(resolver, schemeDNS))
	if err != nil {
		// Don't wrap the error, because it's informative enough as is.
		return nil, err
	}

	if c.network != NetworkAny {
		return c.exchangeNet(ctx, req, addr, c.network)
	}

	resp, err = c.exchangeNet(ctx, req, addr, NetworkUDP)
	if err != nil || !resp.Truncated {
		return resp, err
	}

	c.logger.DebugContext(ctx, "response is truncated, using tcp", "addr", addr)

	return c.exchangeNet(ctx, req, addr, NetworkTCP)
}

// resolverAddr returns the address of the plain DNS resolver, adding the
// default port if necessary.
func (c *Client) resolverAddr(resolver string) (addr string, err error) {
	if resolver == "" {
		return "", fmt.Errorf("resolver: %w", errors.ErrEmptyValue)
	}

	_, _, err = net.SplitHostPort(resolver)
	if err == nil {
		return resolver, nil
	}

	port := defaultPort
	if c.network == NetworkTLS {
		port = defaultTLSPort
	}

	host := strings.TrimSuffix(strings.TrimPrefix(resolver, "["), "]")

	return netutil.JoinHostPort(host, port), nil
}

// exchangeNet sends req to addr over the network n.
func (c *Client) exchangeNet(
	ctx context.Context,
	req *dns.Msg,
	addr string,
	n Network,
) (resp *dns.Msg, err error) {
	cli := &dns.Client{
		Net:     string(n),
		Timeout: c.timeout,
		UDPSize: udpBufSize,
	}

	if n == NetworkTLS {
		host, _, _ := net.SplitHostPort(addr)
		cli.TLSConfig = &tls.Config{
			ServerName: host,
			MinVersion: tls.VersionTLS12,
		}
	}

	resp, rtt, err := cli.ExchangeContext(ctx, req, addr)
	if err != nil {
		return nil, fmt.Errorf("exchanging with %s over %s: %w", addr, netName(n), err)
	}

	c.logger.DebugContext(ctx, "exchanged", "addr", addr, "net", netName(n), "rtt", rtt)

	return resp, nil
}

// exchangeDNSCrypt sends req to the DNSCrypt resolver with the given stamp.
func (c *Client) exchangeDNSCrypt(
	ctx context.Context,
	req *dns.Msg,
	stamp string,
) (resp *dns.Msg, err error) {
	n := NetworkUDP
	if c.network == NetworkTCP {
		n = NetworkTCP
	}

	cli := &dnscrypt.Client{
		Net:     string(n),
		Timeout: c.timeout,
		UDPSize: udpBufSize,
	}

	ri, err := cli.Dial(stamp)
	if err != nil {
		return nil, fmt.Errorf("dialing dnscrypt resolver: %w", err)
	}

	resp, err = cli.Exchange(req, ri)
	if err != nil {
		return nil, fmt.Errorf("exchanging with dnscrypt resolver %s: %w", ri.ProviderName, err)
	}

	c.logger.DebugContext(ctx, "exchanged", "provider", ri.ProviderName, "net", netName(n))

	return resp, nil
}

// netName returns the name of the network for logs and errors.
func netName(n Network) (name string) {
	if n == NetworkAny {
		return "any"
	}

	return string(n)
}

// answerData returns the presentation-format data of the records of the type
// qt from rrs.  All records match [dns.TypeANY].
func answerData(rrs []dns.RR, qt uint16) (data []string) {
	for _, rr := range rrs {
		hdr := rr.Header()
		if qt != dns.TypeANY && hdr.Rrtype != qt {
			continue
		}

		data = append(data, strings.TrimPrefix(rr.String(), hdr.String()))
	}

	return data
}
