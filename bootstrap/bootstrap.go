// Package bootstrap wires the gateway's dependencies together and runs the
// listener, the way the teacher's bootstrap.App does for apigate: from an
// already loaded config, build the logger, compile the route table,
// assemble the dispatcher and router, then serve until signaled to stop.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apihttp "github.com/artpar/gateway/adapters/http"
	"github.com/artpar/gateway/adapters/metrics"
	"github.com/artpar/gateway/app"
	"github.com/artpar/gateway/config"
	"github.com/artpar/gateway/domain/route"
	"github.com/rs/zerolog"
)

// App is the running gateway process.
type App struct {
	Logger     zerolog.Logger
	HTTPServer *http.Server
	Metrics    *metrics.Collector
}

// New loads cfg into a fully wired App: route table, proxy engine,
// dispatcher, chi router, and an *http.Server bound to cfg.Server.Addr (not
// yet listening — call Run).
func New(cfg *config.Config) (*App, error) {
	logger := newLogger(cfg)

	logger.Info().Msg("initializing gateway")

	table, err := route.NewTable(cfg.Routes)
	if err != nil {
		return nil, fmt.Errorf("compile route table: %w", err)
	}
	logRoutes(logger, cfg.Routes)

	m := metrics.New()

	proxyEngine := app.NewProxyEngine(apihttp.NewUpstreamClient())
	dispatcher := app.NewDispatcher(table, proxyEngine)
	proxyHandler := apihttp.NewProxyHandler(dispatcher, logger, m)

	router := apihttp.NewRouter(proxyHandler, m, apihttp.RouterConfig{
		MaxInFlight: cfg.Server.MaxConnections,
	})

	return &App{
		Logger:  logger,
		Metrics: m,
		HTTPServer: &http.Server{
			Addr:    cfg.Addr(),
			Handler: router,
		},
	}, nil
}

// Run binds the listener and serves until SIGINT/SIGTERM, then shuts down
// gracefully. A bind failure is returned to the caller, which (per
// spec.md §6) must translate it into a non-zero process exit.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		a.Logger.Info().Str("addr", a.HTTPServer.Addr).Msg("listening")
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.Logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newLogger builds the zerolog.Logger per cfg.Logging, matching the
// teacher's setupLoggerFromEnv: JSON to stdout by default, a
// zerolog.ConsoleWriter when format is "console". cfg.Debug forces debug
// level regardless of cfg.Logging.Level, a behavior carried over from the
// original implementation's main.rs.
func newLogger(cfg *config.Config) zerolog.Logger {
	levelStr := cfg.Logging.Level
	if cfg.Debug {
		levelStr = "debug"
	}
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Logging.Format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// logRoutes logs every configured route once at startup, before the
// listener binds, the way the original implementation's server::mod.rs
// does.
func logRoutes(logger zerolog.Logger, routes []route.Route) {
	logger.Info().Int("count", len(routes)).Msg("configured routes")
	for i, r := range routes {
		path := r.Path
		if path == "" {
			path = "/"
		}
		logger.Info().
			Int("index", i).
			Str("path", path).
			Str("target", r.Target).
			Str("match_type", string(r.MatchType)).
			Strs("methods", r.Methods).
			Msg("route")
	}
}
