package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 30, cfg.API.TimeoutSec)
	assert.Equal(t, "default", cfg.Display.Theme)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "api:\n  base_url: http://localhost:8080/\n  timeout_sec: 5\nstorage:\n  data_dir: /tmp/todo\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, 5, cfg.API.TimeoutSec)
	assert.Equal(t, "/tmp/todo", cfg.Storage.DataDir)
	assert.Equal(t, filepath.Join("/tmp/todo", "history.db"), cfg.DatabasePath())
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("TODOCLIENT_API_BASE_URL", "http://env.example")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://env.example", cfg.API.BaseURL)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultAppConfig()
	cfg.API.BaseURL = "http://saved.example"
	cfg.API.TimeoutSec = 12

	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://saved.example", loaded.API.BaseURL)
	assert.Equal(t, 12, loaded.API.TimeoutSec)
}

func TestDialCode(t *testing.T) {
	assert.Equal(t, "+62", DialCode("Indonesia"))
	assert.Equal(t, "+670", DialCode("Timor Leste"))
	assert.Empty(t, DialCode("Atlantis"))
}

func TestToggleAction(t *testing.T) {
	assert.Equal(t, ActionDone, Todo{IsDone: false}.ToggleAction())
	assert.Equal(t, ActionUndone, Todo{IsDone: true}.ToggleAction())
}
