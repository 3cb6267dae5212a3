package container

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Scope is a resolution context for Scoped services. Every scope has its own
// instance cache; two scopes never share scoped instances.
//
//	scope := c.CreateScope()
//	defer scope.Dispose()
//
//	ctx, err := scope.Get("request.context")
type Scope struct {
	id string
	c  *Container
}

// CreateScope returns a new scope with an empty cache.
func (c *Container) CreateScope() *Scope {
	s := &Scope{id: uuid.NewString(), c: c}

	c.mu.Lock()
	c.scopes[s.id] = make(map[string]any)
	c.mu.Unlock()

	c.log.Debug("scope created", zap.String("scope", s.id))
	return s
}

// ID returns the unique token of this scope.
func (s *Scope) ID() string { return s.id }

// Get resolves name with this scope as the current scope. The scope stays
// current for the whole call, including any nested resolutions made by
// factories, and is popped on every exit path. name itself is always
// resolved against this scope, even when other goroutines push scopes of
// their own.
func (s *Scope) Get(name string, args ...any) (any, error) {
	s.c.pushScope(s.id)
	defer s.c.popScope(s.id)
	return s.c.get(name, s.id, args)
}

// Has reports whether name is registered in the container. It is not
// scope-local.
func (s *Scope) Has(name string) bool {
	return s.c.Has(name)
}

// Dispose discards every instance cached in this scope. The scope may be
// used again afterwards and starts with an empty cache.
func (s *Scope) Dispose() {
	s.c.mu.Lock()
	delete(s.c.scopes, s.id)
	s.c.mu.Unlock()

	s.c.log.Debug("scope disposed", zap.String("scope", s.id))
}

// ActiveScope returns the ID of the innermost scope currently resolving.
func (c *Container) ActiveScope() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.stack) == 0 {
		return "", false
	}
	return c.stack[len(c.stack)-1], true
}

func (c *Container) pushScope(id string) {
	c.mu.Lock()
	c.stack = append(c.stack, id)
	c.mu.Unlock()
}

// popScope removes the most recent occurrence of id. Clear may have emptied
// the stack in the meantime, in which case there is nothing to pop.
func (c *Container) popScope(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.stack) - 1; i >= 0; i-- {
		if c.stack[i] == id {
			c.stack = append(c.stack[:i], c.stack[i+1:]...)
			return
		}
	}
}
