// Package container provides a name-keyed service registry and a Laravel
// style Service Provider system for Go.
//
// # Overview
//
// The container maps service names to factories and resolves them according
// to a lifetime: Singleton, Transient, Scoped or Factory. Wiring is explicit:
// a factory that needs another service calls Get itself. There is no
// auto-wiring and no cycle detection; a factory that resolves its own name
// recurses until the stack runs out.
//
// # Registering
//
//	c := container.New()
//
//	// Singleton: created on first Get, reused afterwards
//	// Laravel: $app->singleton('clock', fn() => new Clock)
//	c.RegisterSingleton("clock", func(...any) (any, error) { return clock.New(), nil })
//
//	// Transient: new instance every Get
//	// Laravel: $app->bind('mailer', fn() => new Mailer)
//	c.RegisterTransient("mailer", newMailer)
//
//	// Scoped: one instance per Scope
//	// Laravel: $app->scoped('request.id', fn() => Str::uuid())
//	c.RegisterScoped("request.id", newRequestID)
//
//	// Factory: arguments of Get are forwarded, never cached
//	c.RegisterFactory("greeter", func(args ...any) (any, error) {
//	    return "hello " + args[0].(string), nil
//	})
//
//	// Aliases are fixed at registration time
//	c.RegisterSingleton("cache", newCache, "cache.store", "store")
//
// Registering a name or alias that is already taken fails with
// ErrDuplicateName or ErrDuplicateAlias and leaves the container unchanged.
// Use Replace to redefine a service.
//
// # Resolving
//
//	v, err := c.Get("greeter", "ada")
//	cache, err := container.Resolve[*Cache](c, "cache")
//
//	v, ok := c.TryGet("maybe")             // any failure → (nil, false)
//	v := c.GetOrDefault("maybe", fallback) // any failure or nil → fallback
//
// Factory errors and panics are returned as *FactoryError, which carries the
// primary service name and unwraps to the original error:
//
//	if errors.Is(err, container.ErrFactoryFailure) { ... }
//
// # Scopes
//
//	scope := c.CreateScope()
//	defer scope.Dispose()
//
//	id, err := scope.Get("request.id")
//
// Scope.Get makes the scope current for the duration of the call, so scoped
// services resolved by nested factories land in the same scope. Resolving a
// scoped service outside any scope fails with ErrNoActiveScope.
//
// # Concurrency
//
// Container state is guarded by a mutex and no lock is held while a factory
// runs. Scope.Get always resolves its own name against its own scope, so
// request handlers on separate goroutines may each use their own Scope.
// Nested resolutions made from inside a factory through the Container find
// the current scope on a shared stack, which belongs to a single logical
// thread of control: when several goroutines resolve scoped services that
// depend on other scoped services at the same time, the nested lookups may
// see another goroutine's scope. Concurrent first resolution of a singleton
// may run its factory more than once; the first stored value wins.
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) error {
//	    return app.RegisterSingleton("mailer", newMailer)
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot()
package container
