package container

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateName is returned when a service name is already a key in
	// the container.
	ErrDuplicateName = errors.New("service already registered")

	// ErrDuplicateAlias is returned when an alias is already a key in the
	// container, or is repeated within the same registration.
	ErrDuplicateAlias = errors.New("alias already registered")

	// ErrNotRegistered is returned when resolving a name that is not a key.
	ErrNotRegistered = errors.New("service not registered")

	// ErrNoActiveScope is returned when a scoped service is resolved outside
	// of Scope.Get.
	ErrNoActiveScope = errors.New("no active scope")

	// ErrUnsupportedLifetime is returned for a lifetime outside the known set.
	ErrUnsupportedLifetime = errors.New("unsupported lifetime")

	// ErrFactoryFailure matches every *FactoryError via errors.Is.
	ErrFactoryFailure = errors.New("factory failed")

	// ErrNilFactory is returned when registering a nil factory.
	ErrNilFactory = errors.New("factory cannot be nil")
)

// FactoryError wraps an error returned (or a panic raised) by a factory
// together with the primary name of the service being built.
type FactoryError struct {
	Name  string
	Cause error
}

func (e *FactoryError) Error() string {
	return fmt.Sprintf("container: factory for [%s] failed: %v", e.Name, e.Cause)
}

func (e *FactoryError) Unwrap() error {
	return e.Cause
}

// Is makes errors.Is(err, ErrFactoryFailure) hold for any FactoryError.
func (e *FactoryError) Is(target error) bool {
	return target == ErrFactoryFailure
}

// TypeMismatchError is returned by Resolve when the resolved instance is not
// assignable to the requested type.
type TypeMismatchError struct {
	Name     string
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("container: [%s] resolved to %s, expected %s", e.Name, e.Got, e.Expected)
}
