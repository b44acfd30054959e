package cmd

import (
	"fmt"
	"log/slog"
	"math"
	"net"
	"os"
	"strings"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/AdguardTeam/golibs/netutil"
	"github.com/AdguardTeam/golibs/netutil/urlutil"
	"github.com/AdguardTeam/golibs/validate"
	"github.com/BakaBotTeam/NetworkTools/internal/debugsvc"
	"github.com/BakaBotTeam/NetworkTools/internal/errcoll"
	"github.com/BakaBotTeam/NetworkTools/internal/version"
	"github.com/c2h5oh/datasize"
	"github.com/caarlos0/env/v7"
	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"
)

// WebSocket URL schemes.
const (
	schemeWS  = "ws"
	schemeWSS = "wss"
)

// environment represents the configuration that is kept in the environment.
type environment struct {
	OneBotURL *urlutil.URL `env:"ONEBOT_URL"`

	ConfPath          string `env:"CONFIG_PATH" envDefault:"./config.yaml"`
	CrashOutputDir    string `env:"CRASH_OUTPUT_DIR"`
	CrashOutputPrefix string `env:"CRASH_OUTPUT_PREFIX" envDefault:"networktools"`
	GeoIPASNPath      string `env:"GEOIP_ASN_PATH" envDefault:"./asn.mmdb"`
	GeoIPLocationPath string `env:"GEOIP_LOCATION_PATH" envDefault:"./location.mmdb"`
	LogFormat         string `env:"LOG_FORMAT" envDefault:"text"`
	OneBotAccessToken string `env:"ONEBOT_ACCESS_TOKEN"`
	SentryDSN         string `env:"SENTRY_DSN" envDefault:"stderr"`

	ListenAddr net.IP `env:"LISTEN_ADDR" envDefault:"127.0.0.1"`

	OneBotMaxMsgSize datasize.ByteSize `env:"ONEBOT_MAX_MSG_SIZE" envDefault:"1MB"`

	MaxThreads int `env:"MAX_THREADS"`

	ListenPort uint16 `env:"LISTEN_PORT" envDefault:"8181"`

	Verbosity uint8 `env:"VERBOSE" envDefault:"0"`

	CrashOutputEnabled strictBool `env:"CRASH_OUTPUT_ENABLED" envDefault:"0"`
	LogTimestamp       strictBool `env:"LOG_TIMESTAMP" envDefault:"1"`
}

// parseEnvironment reads the configuration.
func parseEnvironment() (envs *environment, err error) {
	envs = &environment{}
	err = env.Parse(envs)
	if err != nil {
		return nil, fmt.Errorf("parsing environments: %w", err)
	}

	return envs, nil
}

// type check
var _ validate.Interface = (*environment)(nil)

// Validate implements the [validate.Interface] interface for *environment.
func (envs *environment) Validate() (err error) {
	errs := []error{
		validate.NotNegative("MAX_THREADS", envs.MaxThreads),
		validate.NotEmpty("CONFIG_PATH", envs.ConfPath),
		validate.NotEmpty("GEOIP_ASN_PATH", envs.GeoIPASNPath),
		validate.NotEmpty("GEOIP_LOCATION_PATH", envs.GeoIPLocationPath),
	}

	_, err = slogutil.NewFormat(envs.LogFormat)
	if err != nil {
		errs = append(errs, fmt.Errorf("LOG_FORMAT: %w", err))
	}

	_, err = slogutil.VerbosityToLevel(envs.Verbosity)
	if err != nil {
		errs = append(errs, fmt.Errorf("VERBOSE: %w", err))
	}

	errs = envs.validateOneBot(errs)
	errs = envs.validateCrashOutput(errs)

	return errors.Join(errs...)
}

// validateOneBot appends validation errors to errs if the environment
// variables for the OneBot connection contain errors.  An empty ONEBOT_URL
// means that the console transport is used.
func (envs *environment) validateOneBot(orig []error) (errs []error) {
	errs = orig

	if envs.OneBotURL == nil {
		return errs
	}

	switch s := strings.ToLower(envs.OneBotURL.Scheme); s {
	case schemeWS, schemeWSS:
		// Go on.
	default:
		errs = append(errs, fmt.Errorf("ONEBOT_URL: scheme: %w: %q", errors.ErrBadEnumValue, s))
	}

	return append(
		errs,
		validate.Positive("ONEBOT_MAX_MSG_SIZE", envs.OneBotMaxMsgSize),
		validate.NoGreaterThan("ONEBOT_MAX_MSG_SIZE", envs.OneBotMaxMsgSize, math.MaxInt64),
	)
}

// validateCrashOutput appends validation errors to errs if the environment
// variables for crash reporting contain errors.
func (envs *environment) validateCrashOutput(orig []error) (errs []error) {
	errs = orig

	if !envs.CrashOutputEnabled {
		return errs
	}

	return append(
		errs,
		validate.NotEmpty("CRASH_OUTPUT_DIR", envs.CrashOutputDir),
		validate.NotEmpty("CRASH_OUTPUT_PREFIX", envs.CrashOutputPrefix),
	)
}

// validateDir is a best-effort check to make sure the directory exists.
func validateDir(dirPath string) (err error) {
	fi, err := os.Stat(dirPath)
	if err != nil {
		return err
	}

	if !fi.IsDir() {
		return errors.Error("not a directory")
	}

	return nil
}

// buildErrColl builds and returns an error collector from environment.
func (envs *environment) buildErrColl(
	baseLogger *slog.Logger,
) (errColl errcoll.Interface, err error) {
	dsn := envs.SentryDSN
	if dsn == "stderr" {
		return errcoll.NewWriterErrorCollector(os.Stderr), nil
	}

	cli, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:              dsn,
		AttachStacktrace: true,
		Release:          version.Version(),
	})
	if err != nil {
		return nil, err
	}

	l := baseLogger.With(slogutil.KeyPrefix, "sentry_errcoll")

	return errcoll.NewSentryErrorCollector(cli, l), nil
}

// debugConf returns a debug HTTP service configuration from environment.
func (envs *environment) debugConf(
	logger *slog.Logger,
	gatherer prometheus.Gatherer,
	refrs debugsvc.Refreshers,
) (conf *debugsvc.Config) {
	addr := netutil.JoinHostPort(envs.ListenAddr.String(), envs.ListenPort)

	return &debugsvc.Config{
		Logger:         logger.With(slogutil.KeyPrefix, "debugsvc"),
		Gatherer:       gatherer,
		Refreshers:     refrs,
		APIAddr:        addr,
		PprofAddr:      addr,
		PrometheusAddr: addr,
	}
}

// strictBool is a type for booleans that are parsed from the environment more
// strictly than the usual bool.  It only accepts "0" and "1" as valid values.
type strictBool bool

// UnmarshalText implements the encoding.TextUnmarshaler interface for
// *strictBool.
func (sb *strictBool) UnmarshalText(b []byte) (err error) {
	if len(b) == 1 {
		switch b[0] {
		case '0':
			*sb = false

			return nil
		case '1':
			*sb = true

			return nil
		default:
			// Go on and return an error.
		}
	}

	return fmt.Errorf("invalid value %q, supported: %q, %q", b, "0", "1")
}
