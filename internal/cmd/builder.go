package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/AdguardTeam/golibs/contextutil"
	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/AdguardTeam/golibs/osutil"
	"github.com/AdguardTeam/golibs/service"
	"github.com/AdguardTeam/golibs/timeutil"
	"github.com/BakaBotTeam/NetworkTools/internal/botcmd"
	"github.com/BakaBotTeam/NetworkTools/internal/console"
	"github.com/BakaBotTeam/NetworkTools/internal/debugsvc"
	"github.com/BakaBotTeam/NetworkTools/internal/dnsquery"
	"github.com/BakaBotTeam/NetworkTools/internal/errcoll"
	"github.com/BakaBotTeam/NetworkTools/internal/geoip"
	"github.com/BakaBotTeam/NetworkTools/internal/metrics"
	"github.com/BakaBotTeam/NetworkTools/internal/onebot"
	"github.com/BakaBotTeam/NetworkTools/internal/paginate"
	"github.com/BakaBotTeam/NetworkTools/internal/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

// Constants that define debug identifiers for the debug HTTP service.
const (
	debugIDAllowlist = "allowlist"
	debugIDGeoIP     = "geoip"
)

// builder contains the logic of configuring and combining together the bot
// entities.
//
// NOTE:  Keep method definitions in the rough order in which they are intended
// to be called.
type builder struct {
	// The fields below are initialized immediately on construction.  Keep them
	// sorted.

	baseLogger     *slog.Logger
	conf           *configuration
	debugRefrs     debugsvc.Refreshers
	env            *environment
	errColl        errcoll.Interface
	logger         *slog.Logger
	mtrcNamespace  string
	promGatherer   prometheus.Gatherer
	promRegisterer prometheus.Registerer
	sigHdlr        *service.SignalHandler

	// The fields below are initialized later by calling the builder's methods.
	// Keep them sorted.

	dispatcher *botcmd.Dispatcher
	geoIP      *geoip.File
	geoIPMtrc  *metrics.GeoIP
	rateLimit  *ratelimit.Backoff
}

// builderConfig contains the initial configuration for the builder.
type builderConfig struct {
	// envs contains the environment variables for the builder.  It must be
	// valid and must not be nil.
	envs *environment

	// conf contains the configuration from the configuration file for the
	// builder.  It must be valid and must not be nil.
	conf *configuration

	// baseLogger is used to create loggers for other entities.  It should not
	// have a prefix and must not be nil.
	baseLogger *slog.Logger

	// errColl is used to collect errors in the entities.  It must not be nil.
	errColl errcoll.Interface
}

// shutdownTimeout is the default shutdown timeout for all services.
const shutdownTimeout = 5 * time.Second

// defaultTimeout is the timeout used for the refreshes of the files.
const defaultTimeout = 30 * time.Second

// newBuilder returns a new properly initialized builder.  c must not be nil.
func newBuilder(c *builderConfig) (b *builder) {
	return &builder{
		baseLogger:     c.baseLogger,
		conf:           c.conf,
		debugRefrs:     debugsvc.Refreshers{},
		env:            c.envs,
		errColl:        c.errColl,
		logger:         c.baseLogger.With(slogutil.KeyPrefix, "builder"),
		mtrcNamespace:  metrics.Namespace(),
		promGatherer:   prometheus.DefaultGatherer,
		promRegisterer: prometheus.DefaultRegisterer,
		sigHdlr: service.NewSignalHandler(&service.SignalHandlerConfig{
			Logger:          c.baseLogger.With(slogutil.KeyPrefix, service.SignalHandlerPrefix),
			ShutdownTimeout: shutdownTimeout,
		}),
	}
}

// initCrashReporter initializes the crash output, if enabled.
func (b *builder) initCrashReporter(ctx context.Context) (err error) {
	if !b.env.CrashOutputEnabled {
		return nil
	}

	crashOut, err := newCrashOutput(
		b.baseLogger.With(slogutil.KeyPrefix, "crash_output"),
		b.env.CrashOutputDir,
		b.env.CrashOutputPrefix,
	)
	if err != nil {
		// Don't wrap the error, because it's informative enough as is.
		return err
	}

	err = crashOut.Start(ctx)
	if err != nil {
		// Don't wrap the error, because it's informative enough as is.
		return err
	}

	b.sigHdlr.AddService(crashOut)

	b.logger.DebugContext(ctx, "initialized crash output")

	return nil
}

// initGeoIP creates and sets the GeoIP database as well as creates and starts
// its refresher.  It also adds the refresher with ID [debugIDGeoIP] to the
// debug refreshers.
func (b *builder) initGeoIP(ctx context.Context) (err error) {
	asn, loc := b.env.GeoIPASNPath, b.env.GeoIPLocationPath
	b.logger.DebugContext(ctx, "using geoip files", "asn", asn, "location", loc)

	b.geoIPMtrc, err = metrics.NewGeoIP(b.mtrcNamespace, b.promRegisterer)
	if err != nil {
		return fmt.Errorf("registering geoip metrics: %w", err)
	}

	c := b.conf.GeoIP
	b.geoIP = geoip.NewFile(&geoip.FileConfig{
		Logger:       b.baseLogger.With(slogutil.KeyPrefix, "geoip"),
		Metrics:      b.geoIPMtrc,
		ASNPath:      asn,
		LocationPath: loc,
		Language:     c.Language,
	})

	err = b.geoIP.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("creating geoip: initial refresh: %w", err)
	}

	err = b.startRefresher(ctx, "geoip_refresh", b.geoIP, time.Duration(c.RefreshIvl))
	if err != nil {
		return fmt.Errorf("geoip: %w", err)
	}

	b.debugRefrs[debugIDGeoIP] = b.geoIP

	b.logger.DebugContext(ctx, "initialized geoip")

	return nil
}

// startRefresher creates and starts a refresh worker for refr and registers it
// in the signal handler.  The errors of the refreshes are logged and
// collected.
func (b *builder) startRefresher(
	ctx context.Context,
	prefix string,
	refr service.Refresher,
	ivl time.Duration,
) (err error) {
	worker := service.NewRefreshWorker(&service.RefreshWorkerConfig{
		ContextConstructor: contextutil.NewTimeoutConstructor(defaultTimeout),
		ErrorHandler: errcoll.NewRefreshErrorHandler(
			b.baseLogger.With(slogutil.KeyPrefix, prefix),
			b.errColl,
		),
		Refresher:         refr,
		Schedule:          timeutil.NewConstSchedule(ivl),
		RefreshOnShutdown: false,
	})

	err = worker.Start(context.WithoutCancel(ctx))
	if err != nil {
		return fmt.Errorf("starting refresher: %w", err)
	}

	b.sigHdlr.AddService(worker)

	return nil
}

// initRateLimiter initializes the sender rate limiter and its allowlist.  If
// the allowlist file is set, it also starts and registers the allowlist
// refresher in the signal handler and adds it with ID [debugIDAllowlist] to the
// debug refreshers.
func (b *builder) initRateLimiter(ctx context.Context) (err error) {
	c := b.conf.RateLimit
	allowlist := ratelimit.NewDynamicAllowlist(c.Allowlist.List, nil)

	if path := c.Allowlist.File; path != "" {
		updater := ratelimit.NewFileUpdater(&ratelimit.FileUpdaterConfig{
			Logger:    b.baseLogger.With(slogutil.KeyPrefix, "allowlist_updater"),
			Allowlist: allowlist,
			Path:      path,
		})

		err = updater.Refresh(ctx)
		if err != nil {
			return fmt.Errorf("allowlist: initial refresh: %w", err)
		}

		ivl := time.Duration(c.Allowlist.RefreshIvl)
		err = b.startRefresher(ctx, "allowlist_refresh", updater, ivl)
		if err != nil {
			return fmt.Errorf("allowlist: %w", err)
		}

		b.debugRefrs[debugIDAllowlist] = updater
	}

	b.rateLimit = ratelimit.NewBackoff(c.toInternal(timeutil.SystemClock{}, allowlist))

	b.logger.DebugContext(ctx, "initialized ratelimit")

	return nil
}

// initCommands initializes the commands and the dispatcher and registers the
// dispatcher in the signal handler.
//
// [builder.initGeoIP] and [builder.initRateLimiter] must be called before
// this method.
func (b *builder) initCommands(ctx context.Context) (err error) {
	pagMtrc, err := metrics.NewPaginate(b.mtrcNamespace, b.promRegisterer)
	if err != nil {
		return fmt.Errorf("registering paginate metrics: %w", err)
	}

	dnsMtrc, err := metrics.NewDNSQuery(b.mtrcNamespace, b.promRegisterer)
	if err != nil {
		return fmt.Errorf("registering dnsquery metrics: %w", err)
	}

	cmdMtrc, err := metrics.NewCommand(b.mtrcNamespace, b.promRegisterer)
	if err != nil {
		return fmt.Errorf("registering command metrics: %w", err)
	}

	dnsConf := b.conf.DNS
	querier := dnsquery.New(&dnsquery.Config{
		Logger:  b.baseLogger.With(slogutil.KeyPrefix, "dnsquery"),
		Metrics: dnsMtrc,
		Network: dnsConf.Network,
		Timeout: time.Duration(dnsConf.Timeout),
	})

	describer := geoip.NewDescriber(&geoip.DescriberConfig{
		Logger:   b.baseLogger.With(slogutil.KeyPrefix, "describer"),
		GeoIP:    b.geoIP,
		Resolver: geoip.DefaultResolver{},
		Metrics:  b.geoIPMtrc,
	})

	paginator := paginate.New(&paginate.Config{
		Logger:  b.baseLogger.With(slogutil.KeyPrefix, "paginate"),
		Metrics: pagMtrc,
	})

	cmds := []botcmd.Command{
		botcmd.NewIPCommand(describer),
		botcmd.NewDNSCommand(&botcmd.DNSCommandConfig{
			Logger:          b.baseLogger.With(slogutil.KeyPrefix, "dns_command"),
			Querier:         querier,
			Describer:       describer,
			Paginator:       paginator,
			Delivery:        b.conf.Delivery.toInternal(),
			DefaultResolver: dnsConf.DefaultResolver,
		}),
		botcmd.MatchCommand{},
	}

	cmdsConf := b.conf.Commands
	b.dispatcher, err = botcmd.NewDispatcher(&botcmd.DispatcherConfig{
		Logger: b.baseLogger.With(slogutil.KeyPrefix, "dispatcher"),
		Boundary: botcmd.NewBoundary(&botcmd.BoundaryConfig{
			Logger:  b.baseLogger.With(slogutil.KeyPrefix, "boundary"),
			ErrColl: b.errColl,
			Metrics: cmdMtrc,
		}),
		RateLimit: b.rateLimit,
		Metrics:   cmdMtrc,
		Prefix:    cmdsConf.Prefix,
		Commands:  cmds,
		Timeout:   time.Duration(cmdsConf.Timeout),
	})
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}

	err = b.dispatcher.Start(ctx)
	if err != nil {
		return fmt.Errorf("starting dispatcher: %w", err)
	}

	b.sigHdlr.AddService(b.dispatcher)

	b.logger.DebugContext(ctx, "initialized commands", "num", len(cmds))

	return nil
}

// initTransport initializes the chat transport.  If the OneBot URL is set, the
// OneBot client is started and registered in the signal handler.  Otherwise,
// the commands are read from stdin and the replies are written to stdout.
//
// [builder.initCommands] must be called before this method.
func (b *builder) initTransport(ctx context.Context) (err error) {
	if b.env.OneBotURL == nil {
		b.startConsole(ctx)

		return nil
	}

	mtrc, err := metrics.NewOneBot(b.mtrcNamespace, b.promRegisterer)
	if err != nil {
		return fmt.Errorf("registering onebot metrics: %w", err)
	}

	c := b.conf.OneBot
	cli := onebot.New(&onebot.Config{
		Logger:         b.baseLogger.With(slogutil.KeyPrefix, "onebot"),
		Metrics:        mtrc,
		Handler:        b.dispatcher,
		URL:            &b.env.OneBotURL.URL,
		AccessToken:    b.env.OneBotAccessToken,
		Nickname:       c.Nickname,
		MaxMessageSize: b.env.OneBotMaxMsgSize,
		ActionTimeout:  time.Duration(c.ActionTimeout),
		SendRate:       rate.Limit(c.SendRate),
		SendBurst:      c.SendBurst,
	})

	err = cli.Start(ctx)
	if err != nil {
		return fmt.Errorf("starting onebot client: %w", err)
	}

	b.sigHdlr.AddService(cli)

	b.logger.DebugContext(ctx, "initialized onebot", "url", b.env.OneBotURL)

	return nil
}

// startConsole starts reading commands from stdin in a separate goroutine.
// The end of the input doesn't stop the bot.
func (b *builder) startConsole(ctx context.Context) {
	l := b.baseLogger.With(slogutil.KeyPrefix, console.ID)
	t := console.New(&console.Config{
		Logger:  l,
		Handler: b.dispatcher,
		Input:   os.Stdin,
		Output:  os.Stdout,
	})

	go func() {
		defer slogutil.RecoverAndExit(ctx, l, osutil.ExitCodeFailure)

		err := t.Serve(ctx)
		if err != nil {
			l.ErrorContext(ctx, "serving", slogutil.KeyError, err)

			return
		}

		l.InfoContext(ctx, "input closed")
	}()

	b.logger.DebugContext(ctx, "initialized console")
}

// mustInitDebugSvc initializes and starts the debug HTTP service.
//
// The following methods must be called before this one:
//   - [builder.initGeoIP]
//   - [builder.initRateLimiter]
func (b *builder) mustInitDebugSvc(ctx context.Context) {
	debugSvc := debugsvc.New(b.env.debugConf(b.baseLogger, b.promGatherer, b.debugRefrs))

	// The debug HTTP service is considered critical, so its Start method panics
	// instead of returning an error.
	_ = debugSvc.Start(context.WithoutCancel(ctx))

	b.sigHdlr.AddService(debugSvc)

	b.logger.DebugContext(
		ctx,
		"initialized debug",
		"refr_ids", slices.Sorted(maps.Keys(b.debugRefrs)),
	)
}

// handleSignals blocks and processes signals from the OS.  status is
// [osutil.ExitCodeSuccess] on success and [osutil.ExitCodeFailure] on error.
//
// handleSignals must not be called concurrently with any other methods.
func (b *builder) handleSignals(ctx context.Context) (code osutil.ExitCode) {
	return b.sigHdlr.Handle(ctx)
}
