package model

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, 10, cfg.API.TimeoutSec)
	require.Equal(t, 30, cfg.Notifications.PollIntervalSec)
	require.Equal(t, 5, cfg.Notifications.WidgetPageSize)
	require.Equal(t, 50, cfg.Notifications.PageSize)
	require.Equal(t, "default", cfg.Display.Theme)
}

func TestConfigSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := defaultAppConfig()
	cfg.API.BaseURL = "https://api.community.example.com"
	cfg.Notifications.PollIntervalSec = 60

	require.NoError(t, SaveConfig(path, cfg))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "https://api.community.example.com", got.API.BaseURL)
	require.Equal(t, 60, got.Notifications.PollIntervalSec)
	require.Equal(t, 10, got.API.TimeoutSec)
	require.Equal(t, 50, got.Notifications.PageSize)
}
