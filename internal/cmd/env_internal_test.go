package cmd

import (
	"net"
	"net/url"
	"testing"

	"github.com/AdguardTeam/golibs/netutil/urlutil"
	"github.com/AdguardTeam/golibs/testutil"
	"github.com/c2h5oh/datasize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrictBool_UnmarshalText(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		wantErrMsg string
		in         []byte
		want       strictBool
	}{{
		name:       "true",
		wantErrMsg: "",
		in:         []byte("1"),
		want:       true,
	}, {
		name:       "false",
		wantErrMsg: "",
		in:         []byte("0"),
		want:       false,
	}, {
		name:       "true_text",
		wantErrMsg: `invalid value "true", supported: "0", "1"`,
		in:         []byte("true"),
		want:       false,
	}, {
		name:       "empty",
		wantErrMsg: `invalid value "", supported: "0", "1"`,
		in:         []byte(""),
		want:       false,
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var got strictBool
			err := got.UnmarshalText(tc.in)
			testutil.AssertErrorMsg(t, tc.wantErrMsg, err)

			assert.Equal(t, tc.want, got)
		})
	}
}

// newTestEnvironment returns a valid environment for tests.
func newTestEnvironment() (envs *environment) {
	return &environment{
		ConfPath:          "./config.yaml",
		CrashOutputPrefix: "networktools",
		GeoIPASNPath:      "./asn.mmdb",
		GeoIPLocationPath: "./location.mmdb",
		LogFormat:         "text",
		SentryDSN:         "stderr",
		ListenAddr:        net.IP{127, 0, 0, 1},
		OneBotMaxMsgSize:  datasize.MB,
		ListenPort:        8181,
		LogTimestamp:      true,
	}
}

func TestEnvironment_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, newTestEnvironment().Validate())

	wsURL := &urlutil.URL{URL: url.URL{Scheme: "ws", Host: "127.0.0.1:3001"}}
	httpURL := &urlutil.URL{URL: url.URL{Scheme: "http", Host: "127.0.0.1:3001"}}

	testCases := []struct {
		modify     func(envs *environment)
		name       string
		wantErrMsg string
	}{{
		modify:     func(envs *environment) { envs.OneBotURL = wsURL },
		name:       "onebot_ws",
		wantErrMsg: "",
	}, {
		modify:     func(envs *environment) { envs.OneBotURL = httpURL },
		name:       "onebot_http",
		wantErrMsg: `ONEBOT_URL: scheme: bad enum value: "http"`,
	}, {
		modify:     func(envs *environment) { envs.LogFormat = "xml" },
		name:       "log_format",
		wantErrMsg: "LOG_FORMAT",
	}, {
		modify:     func(envs *environment) { envs.CrashOutputEnabled = true },
		name:       "crash_output_no_dir",
		wantErrMsg: "CRASH_OUTPUT_DIR",
	}, {
		modify:     func(envs *environment) { envs.MaxThreads = -1 },
		name:       "max_threads",
		wantErrMsg: "MAX_THREADS",
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			envs := newTestEnvironment()
			tc.modify(envs)

			err := envs.Validate()
			if tc.wantErrMsg == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)

			assert.Contains(t, err.Error(), tc.wantErrMsg)
		})
	}
}

func TestEnvironment_debugConf(t *testing.T) {
	t.Parallel()

	envs := newTestEnvironment()
	conf := envs.debugConf(testLogger, nil, nil)

	assert.Equal(t, "127.0.0.1:8181", conf.APIAddr)
	assert.Equal(t, conf.APIAddr, conf.PprofAddr)
	assert.Equal(t, conf.APIAddr, conf.PrometheusAddr)
}
