package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"bookreview/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)

	assert.Equal(t, config.DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.False(t, cfg.ResetPageOnFilter)
	assert.Equal(t, "state.db", filepath.Base(cfg.StatePath))
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BOOKREVIEW_API_BASE_URL", "http://localhost:9000/api/")
	t.Setenv("BOOKREVIEW_RESET_PAGE_ON_FILTER", "true")

	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/api", cfg.APIBaseURL)
	assert.True(t, cfg.ResetPageOnFilter)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookreview.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\nevents_exchange: custom\n"), 0o600))

	cfg, err := config.Load(config.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "custom", cfg.EventsExchange)

	_, err = config.Load(config.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
