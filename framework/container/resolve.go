package container

import (
	"fmt"

	"go.uber.org/zap"
)

// ── Resolution ────────────────────────────────────────────────────────────────

// Get resolves name (a primary name or an alias) according to the lifetime
// it was registered with. args are forwarded to Factory lifetime factories
// and ignored otherwise.
//
//	// Laravel: $app->make('cache')
//	cache, err := c.Get("cache")
func (c *Container) Get(name string, args ...any) (any, error) {
	return c.get(name, "", args)
}

// get resolves name. A non-empty scope pins Scoped lookups to that scope;
// otherwise the innermost active scope is used.
func (c *Container) get(name, scope string, args []any) (any, error) {
	c.mu.RLock()
	r, ok := c.entries[name]
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: [%s]", ErrNotRegistered, name)
	}

	switch r.lifetime {
	case Singleton:
		return c.resolveSingleton(r)
	case Transient:
		return c.build(r)
	case Scoped:
		return c.resolveScoped(r, scope)
	case Factory:
		return c.build(r, args...)
	default:
		return nil, fmt.Errorf("%w: %s for [%s]", ErrUnsupportedLifetime, r.lifetime, r.name)
	}
}

// TryGet is like Get but reports every failure, whatever its cause, as
// (nil, false).
func (c *Container) TryGet(name string, args ...any) (any, bool) {
	instance, err := c.Get(name, args...)
	if err != nil {
		return nil, false
	}
	return instance, true
}

// GetOrDefault returns fallback when name cannot be resolved or resolves to
// nil. A factory that legitimately returns nil is therefore indistinguishable
// from a failure here; use Get when that matters.
func (c *Container) GetOrDefault(name string, fallback any, args ...any) any {
	instance, ok := c.TryGet(name, args...)
	if !ok || instance == nil {
		return fallback
	}
	return instance
}

func (c *Container) resolveSingleton(r *registration) (any, error) {
	c.mu.RLock()
	instance := r.instance
	c.mu.RUnlock()

	if instance != notCreated {
		return instance, nil
	}

	instance, err := c.build(r)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if r.instance == notCreated {
		r.instance = instance
	} else {
		instance = r.instance
	}
	c.mu.Unlock()

	return instance, nil
}

func (c *Container) resolveScoped(r *registration, id string) (any, error) {
	if id == "" {
		var ok bool
		if id, ok = c.ActiveScope(); !ok {
			return nil, fmt.Errorf("%w: [%s] is scoped", ErrNoActiveScope, r.name)
		}
	}

	c.mu.RLock()
	instance, cached := c.scopes[id][r.name]
	c.mu.RUnlock()

	if cached {
		return instance, nil
	}

	instance, err := c.build(r)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.entries[r.name] != r {
		// removed or replaced while building
		c.mu.Unlock()
		return instance, nil
	}
	cache, ok := c.scopes[id]
	if !ok {
		cache = make(map[string]any)
		c.scopes[id] = cache
	}
	cache[r.name] = instance
	c.mu.Unlock()

	return instance, nil
}

// build produces a fresh instance: factory, then extenders, then resolved
// callbacks.
func (c *Container) build(r *registration, args ...any) (any, error) {
	instance, err := c.invoke(r, args)
	if err != nil {
		c.log.Debug("factory failed", zap.String("service", r.name), zap.Error(err))
		return nil, err
	}
	return instance, nil
}

// invoke is the single call site for user code on the resolution path:
// the factory, its extenders and the resolved callbacks. Returned errors and
// panics from any of them surface as *FactoryError carrying the primary name.
func (c *Container) invoke(r *registration, args []any) (instance any, err error) {
	defer func() {
		if p := recover(); p != nil {
			cause, ok := p.(error)
			if !ok {
				cause = fmt.Errorf("%v", p)
			}
			instance, err = nil, &FactoryError{Name: r.name, Cause: cause}
		}
	}()

	instance, err = r.factory(args...)
	if r.stub != nil {
		// placeholders hand back the real binding's result untouched
		return instance, err
	}
	if err != nil {
		return nil, &FactoryError{Name: r.name, Cause: err}
	}

	c.mu.RLock()
	exts := c.extenders[r.name]
	callbacks := c.afterResolving
	c.mu.RUnlock()

	for _, ext := range exts {
		instance = ext(instance, c)
	}
	for _, cb := range callbacks {
		cb(r.name, instance)
	}
	return instance, nil
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolver is implemented by *Container and *Scope.
type Resolver interface {
	Get(name string, args ...any) (any, error)
}

// Resolve calls Get and type-asserts the result.
//
//	// Instead of: v, err := c.Get("db"); db := v.(*sql.DB)
//	// Write:      db, err := container.Resolve[*sql.DB](c, "db")
//
// A nil instance resolves to the zero value of T.
func Resolve[T any](r Resolver, name string, args ...any) (T, error) {
	var zero T
	instance, err := r.Get(name, args...)
	if err != nil {
		return zero, err
	}
	if instance == nil {
		return zero, nil
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, &TypeMismatchError{
			Name:     name,
			Expected: fmt.Sprintf("%T", (*T)(nil))[1:],
			Got:      fmt.Sprintf("%T", instance),
		}
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error. Meant for bootstrap code
// where a missing service is a programming error.
func MustResolve[T any](r Resolver, name string, args ...any) T {
	typed, err := Resolve[T](r, name, args...)
	if err != nil {
		panic(err)
	}
	return typed
}
