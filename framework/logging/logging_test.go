package logging_test

import (
	"testing"

	"github.com/km-arc/go-registry/framework/config"
	"github.com/km-arc/go-registry/framework/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func cfg(env, level string) *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "test", Env: env},
		Log: config.LogConfig{Level: level},
	}
}

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		env   string
		level string
		debug bool
	}{
		{"local", "debug", true},
		{"local", "info", false},
		{"production", "debug", true},
		{"production", "warn", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.env+"/"+tt.level, func(t *testing.T) {
			logger, err := logging.New(cfg(tt.env, tt.level))
			require.NoError(t, err)
			assert.Equal(t, tt.debug, logger.Core().Enabled(zap.DebugLevel))
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := logging.New(cfg("local", "loud"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loud")
}
