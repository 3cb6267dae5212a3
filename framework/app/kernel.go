package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/km-arc/go-registry/framework/config"
	"github.com/km-arc/go-registry/framework/container"
	"github.com/km-arc/go-registry/framework/logging"
	"github.com/km-arc/go-registry/framework/providers"
	"github.com/km-arc/go-registry/framework/routing"
	"go.uber.org/zap"
)

// Application is the top-level application container.
// It embeds the registry and ProviderRegistry so user code can call
// app.RegisterSingleton(), app.Get(), app.CreateScope() directly, exactly
// like $app in Laravel's bootstrap/app.php.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
}

// New loads configuration, builds the logger and registers the framework
// providers (config, logger, router, inspector).
func New(envFiles ...string) (*Application, error) {
	cfg := config.Load(envFiles...)
	logger, err := logging.New(cfg)
	if err != nil {
		return nil, err
	}
	return NewWith(cfg, logger)
}

// NewWith builds an Application from an already loaded configuration and
// logger. Tests use it to avoid touching the environment.
func NewWith(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	c := container.New(container.WithLogger(logger.Named("container")))
	app := &Application{
		Container: c,
		Providers: container.NewProviderRegistry(c),
	}

	// Register framework core providers (same order as Laravel)
	for _, p := range providers.Defaults(cfg, logger) {
		if err := app.Register(p); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container, "config")
}

// Logger resolves *zap.Logger from the container.
func (a *Application) Logger() *zap.Logger {
	return container.MustResolve[*zap.Logger](a.Container, "logger")
}

// Router resolves *routing.Router from the container.
func (a *Application) Router() *routing.Router {
	return container.MustResolve[*routing.Router](a.Container, "router")
}

// Handler boots the application (if needed) and returns the router.
func (a *Application) Handler() (http.Handler, error) {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			return nil, err
		}
	}
	return a.Router(), nil
}

// Run boots the application (if needed) and starts the HTTP server.
func (a *Application) Run() error {
	handler, err := a.Handler()
	if err != nil {
		return err
	}
	cfg := a.Config()
	logger := a.Logger()
	addr := ":" + cfg.App.Port

	logger.Info("server starting",
		zap.String("addr", addr),
		zap.String("env", cfg.App.Env),
		zap.Int("services", len(a.AllServiceInfo())),
	)
	defer func() { _ = logger.Sync() }()

	if err := http.ListenAndServe(addr, handler); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
