package cmd

import (
	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/timeutil"
	"github.com/AdguardTeam/golibs/validate"
)

// oneBotConfig is the configuration of the OneBot transport.  The connection
// parameters are kept in the environment.
type oneBotConfig struct {
	// Nickname is the name of the bot in forward message nodes.
	Nickname string `yaml:"nickname"`

	// ActionTimeout is the timeout of a single action, including the wait for
	// its response.
	ActionTimeout timeutil.Duration `yaml:"action_timeout"`

	// SendRate is the maximum number of actions per second.
	SendRate float64 `yaml:"send_rate"`

	// SendBurst is the maximum burst of actions.
	SendBurst int `yaml:"send_burst"`
}

// type check
var _ validate.Interface = (*oneBotConfig)(nil)

// Validate implements the [validate.Interface] interface for *oneBotConfig.
func (c *oneBotConfig) Validate() (err error) {
	if c == nil {
		return errors.ErrNoValue
	}

	return errors.Join(
		validate.NotEmpty("nickname", c.Nickname),
		validate.Positive("action_timeout", c.ActionTimeout),
		validate.Positive("send_rate", c.SendRate),
		validate.Positive("send_burst", c.SendBurst),
	)
}
