package app_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/km-arc/go-registry/framework/app"
	"github.com/km-arc/go-registry/framework/config"
	"github.com/km-arc/go-registry/framework/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newApp(t *testing.T) (*app.Application, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	cfg := &config.Config{
		App:       config.AppConfig{Name: "kernel", Env: "testing", Port: "0"},
		Log:       config.LogConfig{Level: "debug"},
		Inspector: config.InspectorConfig{Enabled: true, Prefix: "/_registry"},
	}
	a, err := app.NewWith(cfg, zap.New(core))
	require.NoError(t, err)
	return a, logs
}

// greeterProvider is a user-land provider with a deferred factory binding.
type greeterProvider struct {
	container.BaseProvider
}

func (p *greeterProvider) Register(c *container.Container) error {
	return c.RegisterFactory("greeter", func(args ...any) (any, error) {
		return "hello " + args[0].(string), nil
	})
}

func (p *greeterProvider) IsDeferred() bool   { return true }
func (p *greeterProvider) Provides() []string { return []string{"greeter"} }

func TestApplication_CoreServices(t *testing.T) {
	a, _ := newApp(t)

	assert.True(t, a.IsTesting())
	assert.False(t, a.IsProduction())
	assert.False(t, a.IsLocal())
	assert.False(t, a.IsDebug())
	assert.Equal(t, "testing", a.Environment())
	assert.NotNil(t, a.Logger())
	assert.NotNil(t, a.Router())
	assert.Same(t, a.Config(), container.MustResolve[*config.Config](a.Container, "configuration"))
}

func TestApplication_HandlerServesInspector(t *testing.T) {
	a, logs := newApp(t)
	require.NoError(t, a.RegisterScoped("request.id", func(...any) (any, error) { return "r", nil }))

	h, err := a.Handler()
	require.NoError(t, err)
	assert.True(t, a.Providers.Booted())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/_registry/services?lifetime=scoped", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"name":"request.id"`)

	assert.Equal(t, 1, logs.FilterMessage("registry inspector mounted").Len())
	assert.NotZero(t, logs.FilterLoggerName("container").FilterMessage("service registered").Len())
}

func TestApplication_DeferredProvider(t *testing.T) {
	a, _ := newApp(t)
	require.NoError(t, a.Register(&greeterProvider{}))
	require.NoError(t, a.Boot())

	got, err := container.Resolve[string](a.Container, "greeter", "ada")
	require.NoError(t, err)
	assert.Equal(t, "hello ada", got)
}

func TestApplication_ProviderConflict(t *testing.T) {
	a, _ := newApp(t)
	err := a.Register(&greeterProvider{})
	require.NoError(t, err)

	assert.ErrorIs(t, a.Register(&greeterProvider{}), container.ErrDuplicateName)
}
