package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/AdguardTeam/golibs/timeutil"
	"github.com/BakaBotTeam/NetworkTools/internal/dnsquery"
	"github.com/BakaBotTeam/NetworkTools/internal/paginate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger is the common logger for tests.
var testLogger = slogutil.NewDiscardLogger()

// testTimeout is the common timeout for tests.
const testTimeout = 1 * time.Second

func TestParseConfig_dist(t *testing.T) {
	t.Parallel()

	c, err := parseConfig(filepath.Join("..", "..", "config.dist.yaml"))
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, paginate.ModeBatchedCards, c.Delivery.AggregateMode)
	assert.Equal(t, dnsquery.NetworkAny, c.DNS.Network)
	assert.Equal(t, timeutil.Duration(5*time.Second), c.DNS.Timeout)
	assert.Equal(t, timeutil.Duration(time.Hour), c.GeoIP.RefreshIvl)
	assert.Equal(t, []string{"10000"}, c.RateLimit.Allowlist.List)
	assert.Equal(t, "/", c.Commands.Prefix)
	assert.Equal(t, 5.0, c.OneBot.SendRate)
}

func TestParseConfig_errors(t *testing.T) {
	t.Parallel()

	_, err := parseConfig(filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dns: [\n"), 0o600))

	_, err = parseConfig(path)
	assert.ErrorContains(t, err, "unmarshalling config file")
}

func TestConfiguration_Validate(t *testing.T) {
	t.Parallel()

	newValid := func() (c *configuration) {
		return &configuration{
			Delivery: &deliveryConfig{
				AggregateMode: paginate.ModePlainConcat,
				TextLimit:     1000,
			},
			DNS: &dnsConfig{
				DefaultResolver: "8.8.8.8",
				Network:         dnsquery.NetworkUDP,
				Timeout:         timeutil.Duration(time.Second),
			},
			GeoIP: &geoIPConfig{
				RefreshIvl: timeutil.Duration(time.Hour),
			},
			RateLimit: &rateLimitConfig{
				Allowlist:       &allowlistConfig{},
				RPS:             1,
				BackOffCount:    1,
				BackOffDuration: timeutil.Duration(time.Minute),
				BackOffPeriod:   timeutil.Duration(time.Minute),
			},
			Commands: &commandsConfig{
				Prefix:  "/",
				Timeout: timeutil.Duration(time.Second),
			},
			OneBot: &oneBotConfig{
				Nickname:      "bot",
				ActionTimeout: timeutil.Duration(time.Second),
				SendRate:      1,
				SendBurst:     1,
			},
		}
	}

	require.NoError(t, newValid().Validate())

	testCases := []struct {
		modify     func(c *configuration)
		name       string
		wantErrMsg string
	}{{
		modify:     func(c *configuration) { c.DNS = nil },
		name:       "no_dns",
		wantErrMsg: "dns: " + errors.ErrNoValue.Error(),
	}, {
		modify:     func(c *configuration) { c.Delivery.TextLimit = paginate.MaxTotalLength + 1 },
		name:       "text_limit_too_big",
		wantErrMsg: "delivery: text_limit",
	}, {
		modify:     func(c *configuration) { c.Delivery.AggregateMode = "cards" },
		name:       "bad_mode",
		wantErrMsg: `delivery: aggregate_mode: bad enum value: "cards"`,
	}, {
		modify:     func(c *configuration) { c.DNS.Network = "quic" },
		name:       "bad_network",
		wantErrMsg: `dns: network: bad enum value: "quic"`,
	}, {
		modify:     func(c *configuration) { c.RateLimit.Allowlist.List = []string{"1 2"} },
		name:       "bad_allowlist_id",
		wantErrMsg: `ratelimit: allowlist: list: at index 0: bad sender id "1 2"`,
	}, {
		modify:     func(c *configuration) { c.RateLimit.Allowlist.File = "ids.txt" },
		name:       "allowlist_file_no_ivl",
		wantErrMsg: "ratelimit: allowlist: refresh_interval",
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := newValid()
			tc.modify(c)

			err := c.Validate()
			require.Error(t, err)

			assert.Contains(t, err.Error(), tc.wantErrMsg)
		})
	}
}
