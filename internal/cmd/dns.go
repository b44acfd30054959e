package cmd

import (
	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/timeutil"
	"github.com/AdguardTeam/golibs/validate"
	"github.com/BakaBotTeam/NetworkTools/internal/dnsquery"
)

// dnsConfig is the configuration of the DNS queries.
type dnsConfig struct {
	// DefaultResolver is the resolver used when the command doesn't name one.
	DefaultResolver string `yaml:"default_resolver"`

	// Network is the network used for plain DNS resolvers.  An empty value
	// means UDP with a fallback to TCP.
	Network dnsquery.Network `yaml:"network"`

	// Timeout is the timeout of a single exchange.
	Timeout timeutil.Duration `yaml:"timeout"`
}

// type check
var _ validate.Interface = (*dnsConfig)(nil)

// Validate implements the [validate.Interface] interface for *dnsConfig.
func (c *dnsConfig) Validate() (err error) {
	if c == nil {
		return errors.ErrNoValue
	}

	return errors.Join(
		validate.NotEmpty("default_resolver", c.DefaultResolver),
		c.Network.Validate(),
		validate.Positive("timeout", c.Timeout),
	)
}
