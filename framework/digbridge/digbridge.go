// Package digbridge connects a name-keyed container to a go.uber.org/dig
// graph in both directions.
//
// Provide exposes a registry service to dig as a named value:
//
//	digbridge.Provide[*sql.DB](c, d, "db")
//
//	type params struct {
//		dig.In
//		DB *sql.DB `name:"db"`
//	}
//
// Register goes the other way and turns a dig-constructed type into a
// registry entry with a lifetime of its own.
package digbridge

import (
	"github.com/km-arc/go-registry/framework/container"
	"go.uber.org/dig"
)

// Provide adds a constructor for T named name to d. The constructor
// resolves name through c each time dig asks for it, so the registry
// lifetime still decides whether the value is shared. dig caches the first
// value it receives for the lifetime of d.
func Provide[T any](c container.Resolver, d *dig.Container, name string) error {
	return d.Provide(func() (T, error) {
		return container.Resolve[T](c, name)
	}, dig.Name(name))
}

// ProvideAll calls Provide for each name, stopping at the first error.
func ProvideAll[T any](c container.Resolver, d *dig.Container, names ...string) error {
	for _, name := range names {
		if err := Provide[T](c, d, name); err != nil {
			return err
		}
	}
	return nil
}

// Register adds a registry entry under name whose factory pulls T out of d.
// Factory-lifetime arguments are ignored.
func Register[T any](c *container.Container, d *dig.Container, name string, lifetime container.Lifetime, aliases ...string) error {
	return c.Register(name, lifetime, func(...any) (any, error) {
		var out T
		err := d.Invoke(func(v T) { out = v })
		if err != nil {
			return nil, dig.RootCause(err)
		}
		return out, nil
	}, aliases...)
}
