package model

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Run("Defaults are sensible", func(t *testing.T) {
		config := DefaultConfig()

		assert.NotEmpty(t, config.Model)
		assert.Greater(t, config.MaxTokens, 0)
		assert.Greater(t, config.MaxInputLength, 0)
		assert.Equal(t, "UTC", config.Timezone)
		assert.NotEmpty(t, config.ProductID)
	})

	t.Run("Minimum event year is unset so it follows the reference time", func(t *testing.T) {
		config := DefaultConfig()

		assert.Equal(t, 0, config.MinimumEventYear)
	})
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Run("Environment overrides defaults", func(t *testing.T) {
		t.Setenv("EVENTRACT_MODEL", "claude-haiku-4-5")
		t.Setenv("EVENTRACT_MAX_INPUT_LENGTH", "2500")
		t.Setenv("EVENTRACT_MIN_EVENT_YEAR", "2026")
		t.Setenv("EVENTRACT_TIMEZONE", "America/Toronto")

		config, err := NewConfigFromEnv()

		require.NoError(t, err)
		assert.Equal(t, "claude-haiku-4-5", config.Model)
		assert.Equal(t, 2500, config.MaxInputLength)
		assert.Equal(t, 2026, config.MinimumEventYear)
		assert.Equal(t, "America/Toronto", config.Timezone)
	})

	t.Run("Invalid numeric value is an error", func(t *testing.T) {
		t.Setenv("EVENTRACT_MAX_TOKENS", "lots")

		_, err := NewConfigFromEnv()

		assert.Error(t, err)
	})

	t.Run("Invalid timezone is an error", func(t *testing.T) {
		t.Setenv("EVENTRACT_TIMEZONE", "Mars/Olympus_Mons")

		_, err := NewConfigFromEnv()

		assert.Error(t, err)
	})
}

func TestConfigFile(t *testing.T) {
	t.Run("Save and load round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "eventract.yaml")
		original := DefaultConfig()
		original.Model = "claude-haiku-4-5"
		original.MinimumEventYear = 2027

		require.NoError(t, original.Save(path))
		loaded, err := LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, original, loaded)
	})

	t.Run("Missing file is created with defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fresh.yaml")

		loaded, err := LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), loaded)
		assert.FileExists(t, path)
	})
}
