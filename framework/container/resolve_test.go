package container_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/km-arc/go-registry/framework/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Get ───────────────────────────────────────────────────────────────────────

func TestGet_NotRegistered(t *testing.T) {
	c := container.New()
	_, err := c.Get("missing")
	require.ErrorIs(t, err, container.ErrNotRegistered)
	assert.Contains(t, err.Error(), "missing")
}

func TestGet_Singleton_FactoryRunsOnce(t *testing.T) {
	c := container.New()
	calls := 0
	require.NoError(t, c.RegisterSingleton("svc", counter(&calls)))

	a, err := c.Get("svc")
	require.NoError(t, err)
	b, err := c.Get("svc")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, 1, calls)
}

func TestGet_Singleton_CachesZeroValues(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"nil", nil},
		{"zero int", 0},
		{"empty string", ""},
		{"false", false},
		{"nil map", map[string]int(nil)},
		{"empty slice", []string{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			c := container.New()
			calls := 0
			require.NoError(t, c.RegisterSingleton("svc", func(...any) (any, error) {
				calls++
				return tt.value, nil
			}))

			first, err := c.Get("svc")
			require.NoError(t, err)
			second, err := c.Get("svc")
			require.NoError(t, err)

			assert.Equal(t, tt.value, first)
			assert.Equal(t, tt.value, second)
			assert.Equal(t, 1, calls)
		})
	}
}

func TestGet_Singleton_FailureIsNotCached(t *testing.T) {
	c := container.New()
	calls := 0
	require.NoError(t, c.RegisterSingleton("svc", func(...any) (any, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("not ready")
		}
		return "ready", nil
	}))

	_, err := c.Get("svc")
	require.Error(t, err)

	got, err := c.Get("svc")
	require.NoError(t, err)
	assert.Equal(t, "ready", got)
}

func TestGet_Singleton_AliasSharesInstance(t *testing.T) {
	c := container.New()
	calls := 0
	require.NoError(t, c.RegisterSingleton("name", counter(&calls), "a1", "a2"))

	byAlias, err := c.Get("a1")
	require.NoError(t, err)
	byName, err := c.Get("name")
	require.NoError(t, err)
	byOther, err := c.Get("a2")
	require.NoError(t, err)

	assert.Same(t, byAlias, byName)
	assert.Same(t, byName, byOther)
	assert.Equal(t, 1, calls)
}

func TestGet_Singleton_IgnoresArgs(t *testing.T) {
	c := container.New()
	var received []any
	require.NoError(t, c.RegisterSingleton("svc", func(args ...any) (any, error) {
		received = args
		return 1, nil
	}))

	_, err := c.Get("svc", "ignored", 2)
	require.NoError(t, err)
	assert.Empty(t, received)
}

func TestGet_Transient_NewInstanceEachCall(t *testing.T) {
	c := container.New()
	calls := 0
	require.NoError(t, c.RegisterTransient("svc", counter(&calls)))

	a, err := c.Get("svc")
	require.NoError(t, err)
	b, err := c.Get("svc")
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, 2, calls)
}

func TestGet_Scoped_OutsideScope(t *testing.T) {
	c := container.New()
	require.NoError(t, c.RegisterScoped("svc", value(1)))

	_, err := c.Get("svc")
	require.ErrorIs(t, err, container.ErrNoActiveScope)
	assert.Contains(t, err.Error(), "svc")
}

func TestGet_Factory_ForwardsArgs(t *testing.T) {
	c := container.New()
	calls := 0
	require.NoError(t, c.RegisterFactory("sum", func(args ...any) (any, error) {
		calls++
		return args[0].(int) + args[1].(int), nil
	}))

	a, err := c.Get("sum", 1, 2)
	require.NoError(t, err)
	b, err := c.Get("sum", 10, 20)
	require.NoError(t, err)
	again, err := c.Get("sum", 1, 2)
	require.NoError(t, err)

	assert.Equal(t, 3, a)
	assert.Equal(t, 30, b)
	assert.Equal(t, 3, again)
	assert.Equal(t, 3, calls)
}

func TestGet_NestedResolution(t *testing.T) {
	c := container.New()
	require.NoError(t, c.RegisterSingleton("dsn", value("postgres://local")))
	require.NoError(t, c.RegisterTransient("repo", func(...any) (any, error) {
		dsn, err := container.Resolve[string](c, "dsn")
		if err != nil {
			return nil, err
		}
		return "repo@" + dsn, nil
	}))

	got, err := c.Get("repo")
	require.NoError(t, err)
	assert.Equal(t, "repo@postgres://local", got)
}

// ── Factory failures ──────────────────────────────────────────────────────────

func TestGet_FactoryError_IsWrapped(t *testing.T) {
	cause := errors.New("connection refused")

	for _, lifetime := range container.Lifetimes() {
		lifetime := lifetime
		t.Run(lifetime.String(), func(t *testing.T) {
			c := container.New()
			require.NoError(t, c.Register("db", lifetime, func(...any) (any, error) {
				return nil, cause
			}, "database"))

			scope := c.CreateScope()
			_, err := scope.Get("database")

			require.ErrorIs(t, err, container.ErrFactoryFailure)
			require.ErrorIs(t, err, cause)
			assert.Contains(t, err.Error(), "db")
			assert.Contains(t, err.Error(), "connection refused")

			var fe *container.FactoryError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, "db", fe.Name)
		})
	}
}

func TestGet_FactoryPanic_IsWrapped(t *testing.T) {
	tests := []struct {
		name    string
		panicOf any
		want    string
	}{
		{"error value", errors.New("boom"), "boom"},
		{"string value", "kaput", "kaput"},
		{"int value", 42, "42"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			c := container.New()
			require.NoError(t, c.RegisterTransient("svc", func(...any) (any, error) {
				panic(tt.panicOf)
			}))

			_, err := c.Get("svc")
			require.ErrorIs(t, err, container.ErrFactoryFailure)
			assert.Contains(t, err.Error(), "svc")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGet_DecoratorPanic_IsWrapped(t *testing.T) {
	c := container.New()
	require.NoError(t, c.RegisterTransient("x", value(1), "ex"))
	require.NoError(t, c.Extend("x", func(i any, _ *container.Container) any {
		return i.(string) + "!"
	}))

	var err error
	require.NotPanics(t, func() { _, err = c.Get("ex") })
	require.ErrorIs(t, err, container.ErrFactoryFailure)

	var fe *container.FactoryError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "x", fe.Name)
	assert.Contains(t, err.Error(), "interface conversion")

	_, ok := c.TryGet("x")
	assert.False(t, ok)
	assert.Equal(t, "fallback", c.GetOrDefault("x", "fallback"))
}

func TestGet_AfterResolvingPanic_IsWrapped(t *testing.T) {
	c := container.New()
	calls := 0
	require.NoError(t, c.RegisterSingleton("svc", counter(&calls)))
	c.AfterResolving(func(string, any) { panic("listener broke") })

	_, err := c.Get("svc")
	require.ErrorIs(t, err, container.ErrFactoryFailure)
	assert.Contains(t, err.Error(), "listener broke")

	info, _ := c.ServiceInfo("svc")
	assert.False(t, info.HasInstance, "a failed build must not be cached")
}

func TestGet_NestedFailure_KeepsChain(t *testing.T) {
	c := container.New()
	require.NoError(t, c.RegisterTransient("inner", func(...any) (any, error) {
		return nil, errors.New("disk full")
	}))
	require.NoError(t, c.RegisterTransient("outer", func(...any) (any, error) {
		return c.Get("inner")
	}))

	_, err := c.Get("outer")
	require.Error(t, err)

	var fe *container.FactoryError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "outer", fe.Name)
	assert.Contains(t, err.Error(), "inner")
	assert.Contains(t, err.Error(), "disk full")
}

// ── TryGet / GetOrDefault ─────────────────────────────────────────────────────

func TestTryGet(t *testing.T) {
	c := container.New()
	require.NoError(t, c.RegisterSingleton("ok", value("v")))
	require.NoError(t, c.RegisterSingleton("nil", value(nil)))
	require.NoError(t, c.RegisterTransient("fails", func(...any) (any, error) {
		return nil, errors.New("nope")
	}))
	require.NoError(t, c.RegisterScoped("scoped", value(1)))

	tests := []struct {
		name   string
		want   any
		wantOK bool
	}{
		{"ok", "v", true},
		{"nil", nil, true},
		{"fails", nil, false},
		{"missing", nil, false},
		{"scoped", nil, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.TryGet(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetOrDefault(t *testing.T) {
	c := container.New()
	require.NoError(t, c.RegisterSingleton("ok", value("v")))
	require.NoError(t, c.RegisterSingleton("nil", value(nil)))
	require.NoError(t, c.RegisterFactory("echo", func(args ...any) (any, error) {
		return args[0], nil
	}))

	assert.Equal(t, "v", c.GetOrDefault("ok", "fallback"))
	assert.Equal(t, "fallback", c.GetOrDefault("nil", "fallback"))
	assert.Equal(t, "fallback", c.GetOrDefault("missing", "fallback"))
	assert.Equal(t, "hi", c.GetOrDefault("echo", "fallback", "hi"))
}

// ── Resolve[T] ────────────────────────────────────────────────────────────────

func TestResolve_Typed(t *testing.T) {
	c := container.New()
	require.NoError(t, c.RegisterSingleton("svc", value(&service{id: 9})))

	svc, err := container.Resolve[*service](c, "svc")
	require.NoError(t, err)
	assert.Equal(t, 9, svc.id)
}

func TestResolve_TypeMismatch(t *testing.T) {
	c := container.New()
	require.NoError(t, c.RegisterSingleton("svc", value("a string")))

	_, err := container.Resolve[int](c, "svc")

	var mismatch *container.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "int", mismatch.Expected)
	assert.Equal(t, "string", mismatch.Got)
}

func TestResolve_Interface(t *testing.T) {
	c := container.New()
	require.NoError(t, c.RegisterSingleton("stringer", value(stringerFunc("x"))))

	s, err := container.Resolve[fmt.Stringer](c, "stringer")
	require.NoError(t, err)
	assert.Equal(t, "x", s.String())
}

func TestResolve_NilIsZero(t *testing.T) {
	c := container.New()
	require.NoError(t, c.RegisterSingleton("svc", value(nil)))

	svc, err := container.Resolve[*service](c, "svc")
	require.NoError(t, err)
	assert.Nil(t, svc)
}

func TestMustResolve_Panics(t *testing.T) {
	c := container.New()
	assert.Panics(t, func() { container.MustResolve[int](c, "missing") })
}

type stringerFunc string

func (s stringerFunc) String() string { return string(s) }
