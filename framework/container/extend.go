package container

import (
	"fmt"

	"go.uber.org/zap"
)

// Extender decorates a freshly built instance.
type Extender func(instance any, c *Container) any

// ── Extend ────────────────────────────────────────────────────────────────────

// Extend decorates every instance built for name from now on. Instances that
// are already cached (singletons, scoped) are left as they are.
//
//	// Laravel: $app->extend('logger', fn($logger, $app) => new TimestampLogger($logger))
//	c.Extend("logger", func(instance any, c *container.Container) any {
//	    return &TimestampLogger{Inner: instance.(*Logger)}
//	})
func (c *Container) Extend(name string, fn Extender) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[name]
	if !ok {
		return fmt.Errorf("%w: [%s]", ErrNotRegistered, name)
	}
	c.extenders[r.name] = append(c.extenders[r.name], fn)
	return nil
}

// ── Tags ──────────────────────────────────────────────────────────────────────

// Tag groups names under tag. Names are not checked until Tagged resolves
// them.
//
//	// Laravel: $app->tag(['cpu.report', 'memory.report'], 'reports')
//	c.Tag("reports", "cpu.report", "memory.report")
func (c *Container) Tag(tag string, names ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags[tag] = append(c.tags[tag], names...)
}

// Tagged resolves every name registered under tag, in tagging order. It
// stops at the first failure.
func (c *Container) Tagged(tag string) ([]any, error) {
	c.mu.RLock()
	names := append([]string(nil), c.tags[tag]...)
	c.mu.RUnlock()

	out := make([]any, 0, len(names))
	for _, name := range names {
		instance, err := c.Get(name)
		if err != nil {
			return nil, fmt.Errorf("tag %q: %w", tag, err)
		}
		out = append(out, instance)
	}
	return out, nil
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// AfterResolving registers a callback fired whenever a factory produces a new
// instance. Cache hits do not fire it.
//
//	// Laravel: $app->afterResolving(fn($object, $app) => ...)
func (c *Container) AfterResolving(cb func(name string, instance any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
	c.log.Debug("resolved callback added", zap.Int("callbacks", len(c.afterResolving)))
}
