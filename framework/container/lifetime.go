package container

import (
	"fmt"
	"strings"
)

// Lifetime controls how many instances a registration produces and how long
// the container keeps them.
type Lifetime int

const (
	// Singleton runs the factory once, on first resolution, and returns the
	// cached value for as long as the registration exists.
	Singleton Lifetime = iota

	// Transient runs the factory on every resolution.
	Transient

	// Scoped runs the factory once per Scope. Resolving outside a scope
	// fails with ErrNoActiveScope.
	Scoped

	// Factory runs the factory on every resolution and forwards the
	// arguments passed to Get.
	Factory
)

// String returns the lower-case name of the lifetime.
func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Transient:
		return "transient"
	case Scoped:
		return "scoped"
	case Factory:
		return "factory"
	default:
		return fmt.Sprintf("unknown(%d)", int(l))
	}
}

// IsValid reports whether l is one of the known lifetimes.
func (l Lifetime) IsValid() bool {
	return l >= Singleton && l <= Factory
}

// ParseLifetime maps a lifetime name (case-insensitive) to its value.
func ParseLifetime(s string) (Lifetime, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "singleton":
		return Singleton, nil
	case "transient":
		return Transient, nil
	case "scoped":
		return Scoped, nil
	case "factory":
		return Factory, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedLifetime, s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Lifetime) MarshalText() ([]byte, error) {
	if !l.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedLifetime, int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Lifetime) UnmarshalText(text []byte) error {
	parsed, err := ParseLifetime(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Lifetimes returns every known lifetime in declaration order.
func Lifetimes() []Lifetime {
	return []Lifetime{Singleton, Transient, Scoped, Factory}
}
