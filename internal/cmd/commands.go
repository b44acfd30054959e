package cmd

import (
	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/timeutil"
	"github.com/AdguardTeam/golibs/validate"
)

// commandsConfig is the configuration of the command dispatching.
type commandsConfig struct {
	// Prefix is the prefix of the commands, for example "/".
	Prefix string `yaml:"prefix"`

	// Timeout is the timeout of a single command.
	Timeout timeutil.Duration `yaml:"timeout"`
}

// type check
var _ validate.Interface = (*commandsConfig)(nil)

// Validate implements the [validate.Interface] interface for *commandsConfig.
func (c *commandsConfig) Validate() (err error) {
	if c == nil {
		return errors.ErrNoValue
	}

	return errors.Join(
		validate.NotEmpty("prefix", c.Prefix),
		validate.Positive("timeout", c.Timeout),
	)
}
