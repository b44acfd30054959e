package cmd

import (
	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/timeutil"
	"github.com/AdguardTeam/golibs/validate"
)

// geoIPConfig is the GeoIP database configuration.
type geoIPConfig struct {
	// Language is the language of the location names, for example "zh-CN".
	// If empty, the default language is used.
	Language string `yaml:"language"`

	// RefreshIvl defines how often the bot reopens the GeoIP database files.
	RefreshIvl timeutil.Duration `yaml:"refresh_interval"`
}

// type check
var _ validate.Interface = (*geoIPConfig)(nil)

// Validate implements the [validate.Interface] interface for *geoIPConfig.
func (c *geoIPConfig) Validate() (err error) {
	if c == nil {
		return errors.ErrNoValue
	}

	return validate.Positive("refresh_interval", c.RefreshIvl)
}
