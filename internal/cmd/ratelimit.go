package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/timeutil"
	"github.com/AdguardTeam/golibs/validate"
	"github.com/BakaBotTeam/NetworkTools/internal/ratelimit"
)

// rateLimitConfig is the configuration of the command rate limiting.
type rateLimitConfig struct {
	// Allowlist is the allowlist of senders.
	Allowlist *allowlistConfig `yaml:"allowlist"`

	// RPS is the maximum number of commands per second from a single sender.
	RPS int `yaml:"rps"`

	// BackOffCount helps with repeated offenders.  It defines, how many times
	// a sender hits the rate limit before being held in the back off.
	BackOffCount int `yaml:"back_off_count"`

	// BackOffDuration is how much a sender that has hit the rate limit too
	// often stays in the back off.
	BackOffDuration timeutil.Duration `yaml:"back_off_duration"`

	// BackOffPeriod is the time during which to count the number of times a
	// sender has hit the rate limit for a back off.
	BackOffPeriod timeutil.Duration `yaml:"back_off_period"`
}

// allowlistConfig is the configuration of the sender allowlist.
type allowlistConfig struct {
	// List contains the IDs of the senders that are never rate limited.
	List []string `yaml:"list"`

	// File is the optional path to a file with more sender IDs, one per line.
	// It is reread every RefreshIvl.
	File string `yaml:"file"`

	// RefreshIvl is the time between two rereads of File.
	RefreshIvl timeutil.Duration `yaml:"refresh_interval"`
}

// toInternal converts c to the rate limiting configuration.  c must be valid.
func (c *rateLimitConfig) toInternal(
	clock timeutil.Clock,
	al ratelimit.Allowlist,
) (conf *ratelimit.BackoffConfig) {
	return &ratelimit.BackoffConfig{
		Clock:     clock,
		Allowlist: al,
		Period:    time.Duration(c.BackOffPeriod),
		Duration:  time.Duration(c.BackOffDuration),
		Count:     c.BackOffCount,
		RPS:       c.RPS,
	}
}

// type check
var _ validate.Interface = (*rateLimitConfig)(nil)

// Validate implements the [validate.Interface] interface for *rateLimitConfig.
func (c *rateLimitConfig) Validate() (err error) {
	if c == nil {
		return errors.ErrNoValue
	}

	errs := []error{
		validate.Positive("rps", c.RPS),
		validate.Positive("back_off_count", c.BackOffCount),
		validate.Positive("back_off_duration", c.BackOffDuration),
		validate.Positive("back_off_period", c.BackOffPeriod),
	}

	errs = validate.Append(errs, "allowlist", c.Allowlist)

	return errors.Join(errs...)
}

// type check
var _ validate.Interface = (*allowlistConfig)(nil)

// Validate implements the [validate.Interface] interface for *allowlistConfig.
func (c *allowlistConfig) Validate() (err error) {
	if c == nil {
		return errors.ErrNoValue
	}

	var errs []error
	for i, id := range c.List {
		if id == "" || strings.ContainsAny(id, " \t") {
			errs = append(errs, fmt.Errorf("list: at index %d: bad sender id %q", i, id))
		}
	}

	if c.File != "" {
		errs = append(errs, validate.Positive("refresh_interval", c.RefreshIvl))
	}

	return errors.Join(errs...)
}
