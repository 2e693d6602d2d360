package hub

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/webpubsub/core/config"
	"github.com/dmitrymomot/webpubsub/core/health"
	"github.com/dmitrymomot/webpubsub/core/logger"
	"github.com/dmitrymomot/webpubsub/core/pubsub"
	"github.com/dmitrymomot/webpubsub/core/server"
	"github.com/dmitrymomot/webpubsub/core/webview"
)

// Registry is the registry type the hub routes web view messages through.
type Registry = pubsub.Registry[webview.Conn, *webview.Conn]

// App serves web views over WebSocket and routes their pubsub traffic.
type App struct {
	config   *Config
	registry *Registry
	webviews *webview.Handler
	server   *server.Server
	logger   *slog.Logger
}

type AppOption func(*App) error

// NewApp assembles the hub. Components not supplied through options are built
// from Config, which is loaded from the environment unless WithConfig is given.
func NewApp(opts ...AppOption) (*App, error) {
	app := &App{}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.config == nil {
		var cfg Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		app.config = &cfg
	}
	if app.config.WSPath == "" {
		app.config.WSPath = "/ws"
	}

	if app.logger == nil {
		app.logger = newLogger(*app.config)
	}

	if app.registry == nil {
		app.registry = pubsub.NewRegistryFromConfig[webview.Conn](
			app.config.PubSub,
			pubsub.WithLogger(app.logger),
		)
	}

	app.webviews = webview.NewHandlerFromConfig(
		app.registry,
		app.config.WebView,
		webview.WithLogger(app.logger),
	)

	if app.server == nil {
		s, err := server.NewFromConfig(app.config.Server, server.WithLogger(app.logger))
		if err != nil {
			return nil, err
		}
		app.server = s
	}
	app.server.RegisterOnShutdown(app.webviews.CloseAll)

	return app, nil
}

func WithConfig(cfg Config) AppOption {
	return func(app *App) error {
		app.config = &cfg
		return nil
	}
}

func WithLogger(l *slog.Logger) AppOption {
	return func(app *App) error {
		if l == nil {
			return errors.New("logger cannot be nil")
		}
		app.logger = l
		return nil
	}
}

func WithRegistry(r *Registry) AppOption {
	return func(app *App) error {
		if r == nil {
			return errors.New("registry cannot be nil")
		}
		app.registry = r
		return nil
	}
}

func WithServer(s *server.Server) AppOption {
	return func(app *App) error {
		if s == nil {
			return errors.New("server cannot be nil")
		}
		app.server = s
		return nil
	}
}

func (a *App) Registry() *Registry { return a.registry }

func (a *App) Logger() *slog.Logger { return a.logger }

// Addr returns the address the server is bound to, or "" before it listens.
func (a *App) Addr() string { return a.server.Addr() }

// Handler returns the hub routes:
//
//	<WSPath>      web view WebSocket endpoint
//	GET /livez    liveness
//	GET /healthz  readiness, backed by the registry health check
//
// Open web views are sent a going-away close when the server shuts down.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(a.config.WSPath, a.webviews)
	mux.Handle("GET /livez", health.Liveness())
	mux.Handle("GET /healthz", health.Readiness(a.logger, a.registry.Healthcheck))
	return mux
}

// Run serves until ctx is cancelled. The registry sweeper runs alongside the
// server when a sweep interval is configured.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if a.config.PubSub.SweepInterval > 0 {
		g.Go(a.registry.Run(ctx))
	}
	g.Go(a.server.Run(ctx, a.Handler()))

	a.logger.InfoContext(ctx, "hub started",
		slog.String("ws_path", a.config.WSPath),
		slog.Duration("sweep_interval", a.config.PubSub.SweepInterval))

	err := g.Wait()
	a.logger.Info("hub stopped", logger.Count("receivers", a.registry.Len()))
	return err
}

func newLogger(cfg Config) *slog.Logger {
	opts := []logger.Option{logger.WithDevelopment(cfg.AppName)}
	if cfg.production() {
		opts = []logger.Option{logger.WithProduction(cfg.AppName)}
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
	}
	return logger.New(opts...)
}
