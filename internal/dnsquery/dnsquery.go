// Package dnsquery contains the one-shot DNS queries against arbitrary
// resolvers.
package dnsquery

import (
	"context"
	"fmt"
	"strings"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/miekg/dns"
)

// Interface is the interface for the DNS queries.
type Interface interface {
	// Query sends a single query for name of the type recordType to resolver
	// and returns the presentation-format data of the answer records of that
	// type.  If the name does not exist, records is empty and err is nil.
	Query(ctx context.Context, name, recordType, resolver string) (records []string, err error)
}

// Network is an enumeration of networks that [Client] supports.
type Network string

// Valid networks.
const (
	// NetworkAny means that the query is sent over UDP first.  If the response
	// is truncated, the query is sent again over TCP.
	NetworkAny Network = ""

	// NetworkUDP means that only UDP is used.
	NetworkUDP Network = "udp"

	// NetworkTCP means that only TCP is used.
	NetworkTCP Network = "tcp"

	// NetworkTLS means that the query is sent over DNS-over-TLS.
	NetworkTLS Network = "tcp-tls"
)

// Validate returns an error if n is not a valid network.
func (n Network) Validate() (err error) {
	switch n {
	case NetworkAny, NetworkUDP, NetworkTCP, NetworkTLS:
		return nil
	default:
		return fmt.Errorf("network: %w: %q", errors.ErrBadEnumValue, n)
	}
}

// Errors returned for bad queries.
const (
	// ErrUnknownType is returned when the record type is not known.
	ErrUnknownType errors.Error = "unknown record type"

	// ErrBadName is returned when the queried name is not a valid domain name.
	ErrBadName errors.Error = "bad domain name"
)

// ParseType returns the DNS type for the case-insensitive mnemonic s, for
// example "aaaa" or "MX".
func ParseType(s string) (qt uint16, err error) {
	qt, ok := dns.StringToType[strings.ToUpper(s)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
	}

	return qt, nil
}

// RcodeError is returned when the response code is neither NOERROR nor
// NXDOMAIN.
type RcodeError struct {
	// Rcode is the response code of the response.
	Rcode int
}

// type check
var _ error = (*RcodeError)(nil)

// Error implements the error interface for *RcodeError.
func (err *RcodeError) Error() (msg string) {
	rc, ok := dns.RcodeToString[err.Rcode]
	if !ok {
		rc = fmt.Sprintf("RCODE%d", err.Rcode)
	}

	return "response code " + rc
}

// IsSentryReportable implements the [errcoll.SentryReportableError] interface
// for *RcodeError.
func (err *RcodeError) IsSentryReportable() (ok bool) {
	return false
}
