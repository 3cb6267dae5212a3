package container

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider mirrors Laravel's Illuminate\Support\ServiceProvider.
//
// Register() binds services. Boot() is called after ALL providers have been
// registered, making it safe to resolve other services inside Boot().
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) error {
//	    return app.RegisterSingleton("clock", func(...any) (any, error) {
//	        return clock.New(), nil
//	    })
//	}
type ServiceProvider interface {
	// Register binds services into the container.
	// Do NOT resolve other services here; use Boot() for that.
	Register(app *Container) error

	// Boot is called after all providers are registered.
	Boot(app *Container) error

	// Provides returns the names this provider registers. Only used for
	// deferred providers.
	Provides() []string

	// IsDeferred returns true if this provider should be loaded lazily,
	// only when one of its Provides() names is first resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct that provides no-op implementations
// of Boot(), Provides(), and IsDeferred().
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }
func (p *BaseProvider) Provides() []string      { return nil }
func (p *BaseProvider) IsDeferred() bool        { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry manages registration and booting of ServiceProviders,
// including deferred (lazy) providers. It is safe for concurrent use; a
// deferred provider is loaded at most once even when several goroutines
// resolve its names at the same time.
type ProviderRegistry struct {
	app *Container

	mu         sync.Mutex
	eager      []ServiceProvider
	booted     bool
	registered map[ServiceProvider]bool
}

// deferredState tracks one deferred provider. mu serialises loading.
type deferredState struct {
	mu      sync.Mutex
	loaded  bool
	stub    *placeholder
	records []*registration
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider and calls its Register() method (unless deferred).
// Registering the same provider twice is a no-op.
//
//	// Laravel: $app->register(new AppServiceProvider($app))
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return nil
	}
	r.registered[provider] = true
	r.mu.Unlock()

	if provider.IsDeferred() {
		return r.interceptDeferred(provider)
	}

	if err := provider.Register(r.app); err != nil {
		return fmt.Errorf("register provider %T: %w", provider, err)
	}

	r.mu.Lock()
	r.eager = append(r.eager, provider)
	booted := r.booted
	r.mu.Unlock()

	// If already booted, boot this provider immediately
	if booted {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("boot provider %T: %w", provider, err)
		}
	}
	return nil
}

// interceptDeferred installs a placeholder for each provided name. The first
// resolution of any of them loads the provider, whose own registrations then
// take the placeholder keys over. Placeholders use the Factory lifetime so
// arguments reach the real service.
func (r *ProviderRegistry) interceptDeferred(provider ServiceProvider) error {
	st := &deferredState{stub: &placeholder{}}

	for _, name := range provider.Provides() {
		name := name
		rec, err := r.app.registerPlaceholder(name, st.stub, func(args ...any) (any, error) {
			if err := r.load(provider, st); err != nil {
				return nil, &FactoryError{Name: name, Cause: err}
			}
			return r.app.Get(name, args...)
		})
		if err != nil {
			for _, installed := range st.records {
				r.app.Remove(installed.name)
			}
			r.mu.Lock()
			delete(r.registered, provider)
			r.mu.Unlock()
			return fmt.Errorf("defer provider %T: %w", provider, err)
		}
		st.records = append(st.records, rec)
	}
	return nil
}

// load runs the deferred provider's Register (and Boot when the registry is
// already booted). A failed Register puts the placeholders back so a later
// resolution can try again.
func (r *ProviderRegistry) load(provider ServiceProvider, st *deferredState) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.loaded {
		return nil
	}

	if err := r.registerDeferred(provider, st.stub); err != nil {
		r.app.restorePlaceholders(st.records)
		r.app.log.Debug("deferred provider failed", zap.Strings("provides", provider.Provides()), zap.Error(err))
		return fmt.Errorf("register deferred provider %T: %w", provider, err)
	}
	st.loaded = true
	r.app.dropPlaceholders(st.records)

	r.mu.Lock()
	booted := r.booted
	r.mu.Unlock()
	if booted {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("boot deferred provider %T: %w", provider, err)
		}
	}

	r.app.log.Debug("deferred provider loaded", zap.Strings("provides", provider.Provides()))
	return nil
}

// registerDeferred runs Register with the placeholders open for takeover.
// A panic is reported as an error so the placeholders can be restored.
func (r *ProviderRegistry) registerDeferred(provider ServiceProvider, stub *placeholder) (err error) {
	r.app.setLoading(stub, true)
	defer r.app.setLoading(stub, false)
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return provider.Register(r.app)
}

// Boot calls Boot() on all eager providers, in registration order. Calling
// it again is a no-op.
//
//	// Laravel: $app->boot()
func (r *ProviderRegistry) Boot() error {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return nil
	}
	r.booted = true
	eager := append([]ServiceProvider(nil), r.eager...)
	r.mu.Unlock()

	for _, provider := range eager {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("boot provider %T: %w", provider, err)
		}
	}
	return nil
}

// Booted returns true if Boot() has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns all registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.eager...)
}

// ── Placeholder bookkeeping ───────────────────────────────────────────────────

// registerPlaceholder installs a deferred stand-in under name.
func (c *Container) registerPlaceholder(name string, stub *placeholder, factory FactoryFunc) (*registration, error) {
	rec := &registration{
		name:     name,
		lifetime: Factory,
		factory:  factory,
		instance: notCreated,
		stub:     stub,
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.register(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (c *Container) setLoading(stub *placeholder, loading bool) {
	c.mu.Lock()
	stub.loading = loading
	c.mu.Unlock()
}

// dropPlaceholders removes stand-ins the provider did not register over.
func (c *Container) dropPlaceholders(records []*registration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, rec := range records {
		if c.entries[rec.name] == rec {
			c.remove(rec.name)
		}
	}
}

// restorePlaceholders undoes a partial load: whatever the provider managed to
// register under a placeholder key is removed and the stand-in put back,
// together with the extenders it had collected.
func (c *Container) restorePlaceholders(records []*registration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, rec := range records {
		cur, ok := c.entries[rec.name]
		if cur == rec {
			continue
		}
		var exts []Extender
		if ok {
			exts = c.extenders[cur.name]
			c.remove(rec.name)
		}
		c.entries[rec.name] = rec
		if len(exts) > 0 {
			c.extenders[rec.name] = exts
		}
	}
}
