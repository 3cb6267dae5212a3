// Package dobridge connects a name-keyed container to a samber/do injector.
//
//	dobridge.Provide[*sql.DB](c, injector, "db")
//	db := do.MustInvokeNamed[*sql.DB](injector, "db")
package dobridge

import (
	"github.com/km-arc/go-registry/framework/container"
	"github.com/samber/do/v2"
)

// Provide declares name in i as a lazy named service resolved through r.
// The injector keeps the first value it receives, like a singleton.
func Provide[T any](r container.Resolver, i do.Injector, name string) {
	do.ProvideNamed(i, name, func(do.Injector) (T, error) {
		return container.Resolve[T](r, name)
	})
}

// Register adds a registry entry under name whose factory invokes the
// injector's default service for T.
func Register[T any](c *container.Container, i do.Injector, name string, lifetime container.Lifetime, aliases ...string) error {
	return c.Register(name, lifetime, func(...any) (any, error) {
		return do.Invoke[T](i)
	}, aliases...)
}
