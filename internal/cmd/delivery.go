package cmd

import (
	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/validate"
	"github.com/BakaBotTeam/NetworkTools/internal/paginate"
)

// deliveryConfig is the configuration of the delivery of multi-part results.
type deliveryConfig struct {
	// AggregateMode is the aggregation mode of the results, either "plain" or
	// "forward".
	AggregateMode paginate.Mode `yaml:"aggregate_mode"`

	// TextLimit is the maximum number of characters in a plain message body.
	TextLimit int `yaml:"text_limit"`
}

// toInternal converts c to the delivery configuration for the commands.  c
// must be valid.
func (c *deliveryConfig) toInternal() (conf *paginate.DeliveryConfig) {
	return &paginate.DeliveryConfig{
		Mode:      c.AggregateMode,
		TextLimit: c.TextLimit,
	}
}

// type check
var _ validate.Interface = (*deliveryConfig)(nil)

// Validate implements the [validate.Interface] interface for *deliveryConfig.
func (c *deliveryConfig) Validate() (err error) {
	if c == nil {
		return errors.ErrNoValue
	}

	return errors.Join(
		c.toInternal().Validate(),
		validate.NoGreaterThan("text_limit", c.TextLimit, paginate.MaxTotalLength),
	)
}
