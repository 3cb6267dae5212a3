package container

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ── Registration types ────────────────────────────────────────────────────────

// FactoryFunc builds a service instance. Singleton, Transient and Scoped
// factories are always called without arguments; Factory lifetime factories
// receive the arguments passed to Get.
type FactoryFunc func(args ...any) (any, error)

// sentinel marks a singleton slot that has not been filled yet. It is
// compared by identity, so any factory result (nil included) is a valid
// cached value.
type sentinel struct{}

var notCreated = &sentinel{}

// registration is the one shared record behind a primary name and all of its
// aliases.
type registration struct {
	name     string
	lifetime Lifetime
	factory  FactoryFunc
	instance any
	aliases  []string

	// set on deferred provider placeholders
	stub *placeholder
}

// placeholder is shared by every stand-in entry of one deferred provider.
// While loading is set, the provider's own registrations may take over the
// placeholder keys.
type placeholder struct {
	loading bool
}

// overridable reports whether a new registration may take this key over
// (must hold mu).
func (r *registration) overridable() bool {
	return r.stub != nil && r.stub.loading
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the service registry modelled on Laravel's
// Illuminate\Container\Container, with explicit factories instead of
// auto-wiring.
//
// It supports:
//   - Singleton / Transient / Scoped / Factory lifetimes
//   - Aliases fixed at registration time
//   - Scopes with their own instance caches
//   - Instance (pre-built singletons)
//   - Extend (decorate freshly built instances)
//   - Tags and resolved callbacks
type Container struct {
	mu sync.RWMutex

	// name or alias → shared registration
	entries map[string]*registration

	// scope ID → primary name → instance
	scopes map[string]map[string]any

	// active scope IDs, innermost last
	stack []string

	// primary name → extenders
	extenders map[string][]Extender

	// tag → names
	tags map[string][]string

	afterResolving []func(string, any)

	log *zap.Logger
}

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger used for debug events. The default is a no-op
// logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		entries:   make(map[string]*registration),
		scopes:    make(map[string]map[string]any),
		extenders: make(map[string][]Extender),
		tags:      make(map[string][]string),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// Register adds a service under name and every alias. It fails if the name
// or any alias is already taken; in that case nothing is registered.
func (c *Container) Register(name string, lifetime Lifetime, factory FactoryFunc, aliases ...string) error {
	if !lifetime.IsValid() {
		return fmt.Errorf("%w: %s for [%s]", ErrUnsupportedLifetime, lifetime, name)
	}
	if factory == nil {
		return fmt.Errorf("%w: [%s]", ErrNilFactory, name)
	}

	r := &registration{
		name:     name,
		lifetime: lifetime,
		factory:  factory,
		instance: notCreated,
		aliases:  append([]string(nil), aliases...),
	}

	c.mu.Lock()
	err := c.register(r)
	c.mu.Unlock()
	if err != nil {
		return err
	}

	c.log.Debug("service registered",
		zap.String("service", name),
		zap.Stringer("lifetime", lifetime),
		zap.Strings("aliases", r.aliases))
	return nil
}

// RegisterSingleton registers a factory whose result is cached after the
// first resolution.
//
//	// Laravel: $app->singleton('cache', fn($app) => new RedisCache)
//	c.RegisterSingleton("cache", func(...any) (any, error) {
//	    return cache.NewRedis(), nil
//	})
func (c *Container) RegisterSingleton(name string, factory FactoryFunc, aliases ...string) error {
	return c.Register(name, Singleton, factory, aliases...)
}

// RegisterTransient registers a factory that runs on every resolution.
//
//	// Laravel: $app->bind('mailer', fn($app) => new Mailer)
func (c *Container) RegisterTransient(name string, factory FactoryFunc, aliases ...string) error {
	return c.Register(name, Transient, factory, aliases...)
}

// RegisterScoped registers a factory that runs once per Scope.
//
//	// Laravel: $app->scoped('request.context', fn($app) => new RequestContext)
func (c *Container) RegisterScoped(name string, factory FactoryFunc, aliases ...string) error {
	return c.Register(name, Scoped, factory, aliases...)
}

// RegisterFactory registers a factory that receives the arguments given to
// Get and is never cached.
//
//	c.RegisterFactory("greeter", func(args ...any) (any, error) {
//	    return "hello " + args[0].(string), nil
//	})
//	v, _ := c.Get("greeter", "ada")  // "hello ada"
func (c *Container) RegisterFactory(name string, factory FactoryFunc, aliases ...string) error {
	return c.Register(name, Factory, factory, aliases...)
}

// Instance registers a pre-built value as an already-resolved singleton.
//
//	// Laravel: $app->instance('config', $config)
//	c.Instance("config", cfg)
func (c *Container) Instance(name string, value any, aliases ...string) error {
	r := &registration{
		name:     name,
		lifetime: Singleton,
		factory:  func(...any) (any, error) { return value, nil },
		instance: value,
		aliases:  append([]string(nil), aliases...),
	}

	c.mu.Lock()
	err := c.register(r)
	c.mu.Unlock()
	if err != nil {
		return err
	}

	c.log.Debug("instance registered", zap.String("service", name))
	return nil
}

// register validates every key before installing any (must hold mu.Lock).
func (c *Container) register(r *registration) error {
	if existing, exists := c.entries[r.name]; exists && !existing.overridable() {
		return fmt.Errorf("%w: [%s]", ErrDuplicateName, r.name)
	}

	seen := map[string]bool{r.name: true}
	for _, alias := range r.aliases {
		existing, exists := c.entries[alias]
		if (exists && !existing.overridable()) || seen[alias] {
			return fmt.Errorf("%w: [%s] for [%s]", ErrDuplicateAlias, alias, r.name)
		}
		seen[alias] = true
	}

	for key := range seen {
		if old, exists := c.entries[key]; exists {
			c.evictPlaceholder(old, r.name)
		}
	}

	c.entries[r.name] = r
	for _, alias := range r.aliases {
		c.entries[alias] = r
	}
	return nil
}

// evictPlaceholder drops a loading placeholder and hands its extenders to
// the registration taking its key (must hold mu.Lock).
func (c *Container) evictPlaceholder(old *registration, primary string) {
	delete(c.entries, old.name)
	if old.name == primary {
		return
	}
	if exts, ok := c.extenders[old.name]; ok {
		c.extenders[primary] = append(c.extenders[primary], exts...)
		delete(c.extenders, old.name)
	}
}

// ── Removal ───────────────────────────────────────────────────────────────────

// Remove deletes the registration behind name (a primary name or an alias)
// together with all of its aliases, its cached singleton and every scoped
// instance built from it. It reports whether anything was removed.
//
//	// Laravel: $app->forgetInstance('cache')
func (c *Container) Remove(name string) bool {
	c.mu.Lock()
	r, ok := c.remove(name)
	c.mu.Unlock()

	if ok {
		c.log.Debug("service removed", zap.String("service", r.name), zap.String("key", name))
	}
	return ok
}

// remove must hold mu.Lock.
func (c *Container) remove(name string) (*registration, bool) {
	r, ok := c.entries[name]
	if !ok {
		return nil, false
	}

	delete(c.entries, r.name)
	for _, alias := range r.aliases {
		delete(c.entries, alias)
	}
	if r.lifetime == Singleton {
		r.instance = notCreated
	}
	for _, cache := range c.scopes {
		delete(cache, r.name)
	}
	delete(c.extenders, r.name)
	return r, true
}

// Replace removes name (if present) and registers it again with a new
// lifetime, factory and alias set. Aliases of the old registration are not
// carried over. When the new alias set collides with another service the
// old registration stays removed and the error is returned.
func (c *Container) Replace(name string, lifetime Lifetime, factory FactoryFunc, aliases ...string) error {
	if !lifetime.IsValid() {
		return fmt.Errorf("%w: %s for [%s]", ErrUnsupportedLifetime, lifetime, name)
	}
	if factory == nil {
		return fmt.Errorf("%w: [%s]", ErrNilFactory, name)
	}

	r := &registration{
		name:     name,
		lifetime: lifetime,
		factory:  factory,
		instance: notCreated,
		aliases:  append([]string(nil), aliases...),
	}

	c.mu.Lock()
	c.remove(name)
	err := c.register(r)
	c.mu.Unlock()
	if err != nil {
		return err
	}

	c.log.Debug("service replaced", zap.String("service", name), zap.Stringer("lifetime", lifetime))
	return nil
}

// Clear resets the entire container: registrations, scope caches, the scope
// stack, tags and extenders. Resolved callbacks are kept.
//
//	// Laravel: $app->flush()
func (c *Container) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*registration)
	c.scopes = make(map[string]map[string]any)
	c.stack = nil
	c.extenders = make(map[string][]Extender)
	c.tags = make(map[string][]string)
	c.mu.Unlock()

	c.log.Debug("container cleared")
}
