// Package debugsvc contains the debug HTTP API of the bot.
package debugsvc

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/AdguardTeam/golibs/osutil"
	"github.com/AdguardTeam/golibs/service"
	"github.com/prometheus/client_golang/prometheus"
)

// Service is the debug HTTP service of the bot.  It serves prometheus metrics,
// pprof, health check, and the refresh API.
type Service struct {
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	refrHdlr *refreshHandler
	servers  map[string]*server
}

// Config is the debug HTTP service configuration structure.
type Config struct {
	// Logger is used to log the requests.  It must not be nil.
	Logger *slog.Logger

	// Gatherer is the source of the metrics served by the prometheus
	// endpoint.  It must not be nil.
	Gatherer prometheus.Gatherer

	// Refreshers are the entities that can be refreshed through the API.
	Refreshers Refreshers

	// APIAddr is the address of the health check and the refresh API.  If
	// empty, the API is not served.
	APIAddr string

	// PprofAddr is the address of the pprof handlers.  If empty, pprof is not
	// served.
	PprofAddr string

	// PrometheusAddr is the address of the metrics endpoint.  If empty, the
	// metrics are not served.
	PrometheusAddr string
}

// New returns a new properly initialized *Service.
func New(c *Config) (svc *Service) {
	svc = &Service{
		logger:   c.Logger,
		gatherer: c.Gatherer,
		refrHdlr: &refreshHandler{
			refrs: c.Refreshers,
		},
		servers: map[string]*server{},
	}

	svc.addServer(c.PrometheusAddr, handlerGroupPrometheus)
	svc.addServer(c.PprofAddr, handlerGroupPprof)
	svc.addServer(c.APIAddr, handlerGroupAPI)

	svc.route(c)

	return svc
}

// server is a single server within the debug HTTP service.
type server struct {
	http *http.Server
	name string
}

// startServer starts one server and panics if there is an unexpected error.
func startServer(ctx context.Context, l *slog.Logger, s *server) {
	defer slogutil.RecoverAndExit(ctx, l, osutil.ExitCodeFailure)

	l.InfoContext(ctx, "listening", "name", s.name, "addr", s.http.Addr)

	srv := s.http
	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		panic(fmt.Errorf("%s: failed listen on %s: %w", s.name, srv.Addr, err))
	}
}

// type check
var _ service.Interface = (*Service)(nil)

// Start implements the [service.Interface] interface for *Service.  It starts
// serving all endpoints but does not wait for them to actually go online.  err
// is always nil, if any endpoint fails to start, the process exits.
func (svc *Service) Start(ctx context.Context) (err error) {
	for _, srv := range svc.servers {
		go startServer(ctx, svc.logger, srv)
	}

	return nil
}

// Shutdown implements the [service.Interface] interface for *Service.  It stops
// serving all endpoints.
func (svc *Service) Shutdown(ctx context.Context) (err error) {
	srvNum := 0
	for _, srv := range svc.servers {
		err = srv.http.Shutdown(ctx)
		if err != nil {
			return fmt.Errorf("server %s shutdown: %w", srv.name, err)
		}

		srvNum++

		svc.logger.InfoContext(ctx, "server is shutdown", "name", srv.name)
	}

	svc.logger.InfoContext(ctx, "all servers shutdown", "num", srvNum)

	return nil
}

// addServer adds a server for the handler group name, unless a server
// listening on addr already exists.  If addr is empty, the server isn't
// created.
func (svc *Service) addServer(addr, name string) {
	if addr == "" {
		return
	}

	srv, ok := svc.servers[addr]
	if ok {
		srv.name += ";" + name

		return
	}

	svc.servers[addr] = &server{
		// #nosec G112 -- Do not set the timeouts, since debug/pprof and
		// similar debug APIs may be busy for a long time.
		http: &http.Server{
			Addr:    addr,
			Handler: http.NewServeMux(),
		},
		name: name,
	}
}
