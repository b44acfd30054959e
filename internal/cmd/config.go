package cmd

import (
	"fmt"
	"os"

	"github.com/AdguardTeam/golibs/container"
	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/validate"
	"gopkg.in/yaml.v2"
)

// configuration represents the on-disk configuration of the bot.  The order of
// the fields should generally not be altered.
type configuration struct {
	// Delivery is the configuration of the delivery of multi-part results.
	Delivery *deliveryConfig `yaml:"delivery"`

	// DNS is the configuration of the DNS queries.
	DNS *dnsConfig `yaml:"dns"`

	// GeoIP is the additional GeoIP database configuration.  See the
	// environment type for more GeoIP database parameters.
	GeoIP *geoIPConfig `yaml:"geoip"`

	// RateLimit is the rate limiting configuration.
	RateLimit *rateLimitConfig `yaml:"ratelimit"`

	// Commands is the configuration of the command dispatching.
	Commands *commandsConfig `yaml:"commands"`

	// OneBot is the additional configuration of the OneBot transport.  See the
	// environment type for more OneBot parameters.
	OneBot *oneBotConfig `yaml:"onebot"`
}

// type check
var _ validate.Interface = (*configuration)(nil)

// Validate implements the [validate.Interface] interface for *configuration.
func (c *configuration) Validate() (err error) {
	if c == nil {
		return errors.ErrNoValue
	}

	var errs []error

	validators := container.KeyValues[string, validate.Interface]{{
		Key:   "delivery",
		Value: c.Delivery,
	}, {
		Key:   "dns",
		Value: c.DNS,
	}, {
		Key:   "geoip",
		Value: c.GeoIP,
	}, {
		Key:   "ratelimit",
		Value: c.RateLimit,
	}, {
		Key:   "commands",
		Value: c.Commands,
	}, {
		Key:   "onebot",
		Value: c.OneBot,
	}}

	for _, kv := range validators {
		errs = validate.Append(errs, kv.Key, kv.Value)
	}

	return errors.Join(errs...)
}

// parseConfig reads the configuration.
func parseConfig(confPath string) (c *configuration, err error) {
	// #nosec G304 -- Trust the path to the configuration file that is given
	// from the environment.
	yamlFile, err := os.ReadFile(confPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	c = &configuration{}
	err = yaml.Unmarshal(yamlFile, c)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config file: %w", err)
	}

	return c, nil
}
