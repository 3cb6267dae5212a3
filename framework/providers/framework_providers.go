package providers

import (
	"github.com/km-arc/go-registry/framework/config"
	"github.com/km-arc/go-registry/framework/container"
	"github.com/km-arc/go-registry/framework/inspect"
	"github.com/km-arc/go-registry/framework/logging"
	"github.com/km-arc/go-registry/framework/routing"
	"go.uber.org/zap"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds the application configuration as "config".
//
// Bound abstracts:
//   - "config"  → *config.Config
//   - "configuration" (alias)
//
// When Config is nil it is loaded from EnvFiles on first resolution.
//
// Laravel equivalent:
//
//	// Illuminate\Foundation\Bootstrap\LoadConfiguration
//	$app->singleton('config', fn() => new Repository($items));
type ConfigServiceProvider struct {
	container.BaseProvider
	Config   *config.Config
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	if p.Config != nil {
		return app.Instance("config", p.Config, "configuration")
	}
	envFiles := p.EnvFiles
	return app.RegisterSingleton("config", func(...any) (any, error) {
		return config.Load(envFiles...), nil
	}, "configuration")
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider binds the structured logger.
//
// Bound abstracts:
//   - "logger"  → *zap.Logger
//   - "log" (alias)
//
// Without a preset Logger, one is built from "config" by logging.New.
type LoggingServiceProvider struct {
	container.BaseProvider
	Logger *zap.Logger
}

func (p *LoggingServiceProvider) Register(app *container.Container) error {
	if p.Logger != nil {
		return app.Instance("logger", p.Logger, "log")
	}
	return app.RegisterSingleton("logger", func(...any) (any, error) {
		cfg, err := container.Resolve[*config.Config](app, "config")
		if err != nil {
			return nil, err
		}
		return logging.New(cfg)
	}, "log")
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router.
//
// Bound abstracts:
//   - "router"  → *routing.Router
//
// Laravel equivalent:
//
//	// Illuminate\Routing\RoutingServiceProvider
//	$app->singleton('router', fn($app) => new Router($app['events'], $app));
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) error {
	return app.RegisterSingleton("router", func(...any) (any, error) {
		logger, err := container.Resolve[*zap.Logger](app, "logger")
		if err != nil {
			return nil, err
		}
		return routing.New(routing.WithLogger(logger)), nil
	})
}

// ── InspectorServiceProvider ──────────────────────────────────────────────────

// InspectorServiceProvider registers the registry inspector and, at boot,
// mounts it on the router under cfg.Inspector.Prefix when enabled.
//
// Bound abstracts:
//   - "inspector"  → *inspect.Inspector
type InspectorServiceProvider struct {
	container.BaseProvider
}

func (p *InspectorServiceProvider) Register(app *container.Container) error {
	return app.RegisterSingleton("inspector", func(...any) (any, error) {
		logger, err := container.Resolve[*zap.Logger](app, "logger")
		if err != nil {
			return nil, err
		}
		return inspect.New(app, logger), nil
	})
}

func (p *InspectorServiceProvider) Boot(app *container.Container) error {
	cfg, err := container.Resolve[*config.Config](app, "config")
	if err != nil {
		return err
	}
	if !cfg.Inspector.Enabled {
		return nil
	}

	router, err := container.Resolve[*routing.Router](app, "router")
	if err != nil {
		return err
	}
	inspector, err := container.Resolve[*inspect.Inspector](app, "inspector")
	if err != nil {
		return err
	}
	inspector.Mount(router, cfg.Inspector.Prefix)

	if logger, err := container.Resolve[*zap.Logger](app, "logger"); err == nil {
		logger.Info("registry inspector mounted", zap.String("prefix", cfg.Inspector.Prefix))
	}
	return nil
}

// Defaults returns the framework providers in registration order.
func Defaults(cfg *config.Config, logger *zap.Logger) []container.ServiceProvider {
	return []container.ServiceProvider{
		&ConfigServiceProvider{Config: cfg},
		&LoggingServiceProvider{Logger: logger},
		&RoutingServiceProvider{},
		&InspectorServiceProvider{},
	}
}
